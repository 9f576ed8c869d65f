// internal/auth/context.go
package auth

import (
	"context"
	"errors"
)

type contextKey string

const userIDKey = contextKey("userID")

// ErrNoIdentity - в контексте нет пользователя (анонимный запрос)
var ErrNoIdentity = errors.New("user ID not found in context")

// Сохраняет userID в контексте
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Достает userID из контекста
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	val := ctx.Value(userIDKey)
	id, ok := val.(uint)
	if !ok || id == 0 {
		return 0, ErrNoIdentity
	}
	return id, nil
}
