package user

import (
	"context"

	"github.com/VitaminP8/postboard/models"
)

type UserStorage interface {
	// RegisterUser возвращает storage.ErrAlreadyExists для занятого username
	RegisterUser(ctx context.Context, username, email, password string, name *string) (*models.User, error)
	// Authenticate проверяет пароль (bcrypt) и возвращает пользователя
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}
