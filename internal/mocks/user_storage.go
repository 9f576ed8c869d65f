package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования (пароли без хеширования)
type MockUserStorage struct {
	failures
	mu        sync.Mutex
	users     map[string]*models.User // username -> user
	passwords map[string]string       // username -> password
	nextID    uint
}

func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:     make(map[string]*models.User),
		passwords: make(map[string]string),
		nextID:    1,
	}
}

func (m *MockUserStorage) RegisterUser(ctx context.Context, username, email, password string, name *string) (*models.User, error) {
	if err := m.failure("RegisterUser"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[username]; exists {
		return nil, fmt.Errorf("user %s: %w", username, storage.ErrAlreadyExists)
	}
	for _, u := range m.users {
		if u.Email == email {
			return nil, fmt.Errorf("email %s: %w", email, storage.ErrEmailTaken)
		}
	}

	user := &models.User{
		ID:       m.nextID,
		Username: username,
		Email:    email,
		Name:     name,
	}
	m.nextID++
	m.users[username] = user
	m.passwords[username] = password

	result := *user
	return &result, nil
}

func (m *MockUserStorage) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if err := m.failure("Authenticate"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[username]
	if !exists || m.passwords[username] != password {
		return nil, storage.ErrInvalidCredentials
	}

	result := *user
	return &result, nil
}

func (m *MockUserStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if err := m.failure("GetUserByID"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			result := *u
			return &result, nil
		}
	}
	return nil, storage.ErrNotFound
}
