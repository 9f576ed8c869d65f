package memory

import (
	"context"
	"fmt"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"

	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	db *Database
}

func NewUserMemoryStorage(db *Database) *UserMemoryStorage {
	return &UserMemoryStorage{db: db}
}

func (s *UserMemoryStorage) RegisterUser(ctx context.Context, username, email, password string, name *string) (*models.User, error) {
	// bcrypt медленный - хешируем до блокировки
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.Username == username {
			return nil, fmt.Errorf("user %s: %w", username, storage.ErrAlreadyExists)
		}
	}
	for _, u := range s.db.users {
		if u.Email == email {
			return nil, fmt.Errorf("email %s: %w", email, storage.ErrEmailTaken)
		}
	}

	now := s.db.now()
	user := &models.User{
		ID:        s.db.id(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		Name:      name,
	}
	s.db.users[user.ID] = user

	return s.db.author(user.ID), nil
}

func (s *UserMemoryStorage) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	s.db.mu.RLock()
	var found *models.User
	for _, u := range s.db.users {
		if u.Username == username {
			cp := *u
			found = &cp
			break
		}
	}
	s.db.mu.RUnlock()

	if found == nil {
		return nil, storage.ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password))
	if err != nil {
		return nil, storage.ErrInvalidCredentials
	}

	found.Password = ""
	return found, nil
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	result := *u
	result.Password = ""
	return &result, nil
}
