package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// IssueToken подписывает HS256 токен с user_id, как его ожидает Middleware
func IssueToken(secret []byte, userID uint, username string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT secret is not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken проверяет подпись и срок действия и возвращает user_id
func ParseToken(secret []byte, tokenStr string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims type")
	}

	// json декодирует числа в float64
	idFloat, ok := claims["user_id"].(float64)
	if !ok || idFloat <= 0 {
		return 0, errors.New("user_id claim is missing")
	}

	return uint(idFloat), nil
}
