package storage

import "errors"

// Ошибки, которые возвращают все реализации хранилищ (memory и postgres)
var (
	// ErrNotFound - запись с таким ID не существует (или была удалена)
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists - нарушено ограничение уникальности
	ErrAlreadyExists = errors.New("record already exists")

	// ErrEmailTaken - email уже привязан к другому пользователю
	ErrEmailTaken = errors.New("email already registered")
)

// ErrInvalidCredentials - пользователь не найден или пароль не совпал
var ErrInvalidCredentials = errors.New("invalid password or username")
