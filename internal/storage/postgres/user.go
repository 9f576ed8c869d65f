package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"

	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct{}

func NewUserPostgresStorage() *UserPostgresStorage {
	return &UserPostgresStorage{}
}

func (s *UserPostgresStorage) RegisterUser(ctx context.Context, username, email, password string, name *string) (*models.User, error) {
	// проверка - существует ли такой пользователь
	var existUser models.User
	err := DB.Where("username = ?", username).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrAlreadyExists)
	}
	err = DB.Where("email = ?", email).First(&existUser).Error
	if err == nil {
		return nil, fmt.Errorf("email %s: %w", email, storage.ErrEmailTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Name:     name,
	}

	err = DB.Create(user).Error
	if err != nil {
		// гонка двух регистраций ловится уникальным индексом
		return nil, translate(err, "failed to create user")
	}

	user.Password = ""
	return user, nil
}

func (s *UserPostgresStorage) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, storage.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, storage.ErrInvalidCredentials
	}

	user.Password = ""
	return &user, nil
}

func (s *UserPostgresStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := DB.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, "could not get user by id")
	}

	user.Password = ""
	return &user, nil
}
