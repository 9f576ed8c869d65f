package postgres

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate применяет встроенные SQL-миграции к DB.
// command: "up", "down" или "status".
func Migrate(command string) error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	sqlDB := DB.DB()
	switch command {
	case "up":
		return goose.Up(sqlDB, migrationsDir)
	case "down":
		return goose.Down(sqlDB, migrationsDir)
	case "status":
		return goose.Status(sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}
