package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitaminP8/postboard/internal/auth"
	"github.com/VitaminP8/postboard/internal/storage"
)

const (
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Owned - запись, у которой есть автор (Post, Comment, Reply)
type Owned interface {
	OwnerID() uint
}

// CurrentUser возвращает ErrUnauthorized для анонимного запроса
func CurrentUser(ctx context.Context) (uint, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

// Authorize - общая проверка для изменения и удаления.
// Порядок важен: пользователь, затем существование записи, затем авторство.
// load должен возвращать storage.ErrNotFound, если записи нет.
func Authorize[T Owned](ctx context.Context, resource, action string, id uint, load func(context.Context, uint) (T, error)) (T, error) {
	var zero T

	userID, err := CurrentUser(ctx)
	if err != nil {
		return zero, err
	}

	entity, err := load(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return zero, &NotFoundError{Resource: resource, ID: id}
		}
		return zero, fmt.Errorf("could not load %s %d: %w", resource, id, err)
	}

	if entity.OwnerID() != userID {
		return zero, &ForbiddenError{Resource: resource, Action: action}
	}

	return entity, nil
}

// Missing переводит storage.ErrNotFound в NotFoundError, остальные ошибки оборачивает
func Missing(err error, resource string, id uint) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return fmt.Errorf("%s %d: %w", resource, id, err)
}
