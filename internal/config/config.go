package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is read once at startup and injected everywhere; nothing else in the
// codebase touches the environment.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	// Database. DatabaseURL wins when set; otherwise the DSN is assembled
	// from the DB_* parts.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Session. An empty SessionSecret is allowed at startup but fails
	// closed: no token can be issued or verified, so every protected
	// request is rejected.
	SessionSecret string
	SessionTTL    time.Duration
	SessionCookie string

	SeedAdminPassword string
}

func Load() *Config {
	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "pos"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		SessionCookie: getEnv("SESSION_COOKIE", "auth_token"),

		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
	}
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
