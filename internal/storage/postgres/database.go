package postgres

import (
	"fmt"
	"log"

	"github.com/VitaminP8/postboard/internal/config"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

var DB *gorm.DB

// GetDB возвращает глобальную переменную DB (для тестирования)
func GetDB() *gorm.DB {
	return DB
}

// DSN собирает строку подключения из настроек
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.Port,
		cfg.SSLMode,
	)
}

// InitDB подключается к базе данных PostgreSQL и устанавливает глобальную переменную DB
func InitDB(cfg config.DatabaseConfig) error {
	db, err := gorm.Open("postgres", DSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	DB = db
	log.Println("Successfully connected to the database.")
	return nil
}

// CloseDB закрывает соединение с базой данных
func CloseDB() error {
	if DB == nil {
		return nil
	}

	err := DB.Close()
	if err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}

	log.Println("Database connection closed.")
	return nil
}

// InitDBWithConnection для тестирования (позволяет инъекцию соединения БД)
func InitDBWithConnection(db *gorm.DB) {
	DB = db
}
