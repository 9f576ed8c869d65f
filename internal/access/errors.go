package access

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized - мутирующий вызов без пользователя в контексте
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError - не заполнено обязательное поле
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// NotFoundError - запись с указанным ID не существует
type NotFoundError struct {
	Resource string // "post", "comment", "reply"
	ID       uint
}

func (e *NotFoundError) Error() string {
	return capitalize(e.Resource) + " not found"
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ForbiddenError - запись существует, но пользователь не её автор
type ForbiddenError struct {
	Resource string
	Action   string // "edit", "delete"
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("You do not have permission to %s this %s", e.Action, e.Resource)
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
