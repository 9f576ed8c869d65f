package postgres

import (
	"errors"
	"fmt"

	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// usersEmailKey - имя, которое Postgres дает ограничению UNIQUE на users.email
const usersEmailKey = "users_email_key"

// translate приводит ошибки gorm и драйвера к ошибкам пакета storage
func translate(err error, action string) error {
	if err == nil {
		return nil
	}
	if gorm.IsRecordNotFoundError(err) {
		return storage.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case foreignKeyViolation:
			// родительская запись удалена между проверкой и вставкой
			return fmt.Errorf("%s: %w", action, storage.ErrNotFound)
		case uniqueViolation:
			if pqErr.Constraint == usersEmailKey {
				return fmt.Errorf("%s: %w", action, storage.ErrEmailTaken)
			}
			return fmt.Errorf("%s: %w", action, storage.ErrAlreadyExists)
		}
	}

	return fmt.Errorf("%s: %w", action, err)
}
