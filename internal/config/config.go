package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinSessionSecretLength - минимальная длина ключа для подписи cookie сессий
const MinSessionSecretLength = 32

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// Config собирается один раз при старте и дальше не меняется.
type Config struct {
	Port           string
	JWTSecret      string
	SessionSecret  string
	TokenTTL       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("environment variable %s is not set", key)
	}
	return value
}

func GetEnvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// Load читает настройки сервера. Параметры БД нужны только для postgres-хранилища,
// поэтому они читаются отдельно через LoadDatabase.
func Load() *Config {
	cfg := &Config{
		Port:           GetEnvDefault("PORT", "8080"),
		JWTSecret:      GetEnv("JWT_SECRET"),
		SessionSecret:  GetEnv("SESSION_SECRET"),
		TokenTTL:       parseDuration("TOKEN_TTL", 72*time.Hour),
		RateLimitRPS:   parseFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: parseInt("RATE_LIMIT_BURST", 10),
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		log.Fatalf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
	}

	return cfg
}

func LoadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     GetEnv("DB_HOST"),
		User:     GetEnv("DB_USER"),
		Password: GetEnv("DB_PASSWORD"),
		Name:     GetEnv("DB_NAME"),
		Port:     GetEnvDefault("DB_PORT", "5432"),
		SSLMode:  GetEnvDefault("DB_SSLMODE", "disable"),
	}
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("environment variable %s: invalid duration %q", key, raw)
	}
	return d
}

func parseFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("environment variable %s: invalid number %q", key, raw)
	}
	return f
}

func parseInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("environment variable %s: invalid integer %q", key, raw)
	}
	return n
}
