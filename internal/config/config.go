package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Port           string
	LogLevel       string
	StoreDriver    string
	DBConn         string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	PlanTTL        time.Duration
	CardHMACSecret string
	RateLimit      int
	PurgeSchedule  string
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SenderEmail    string
}

// NewConfig loads configuration from environment variables,
// reading a .env file first when one is present
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		StoreDriver:    getEnv("STORE_DRIVER", DriverMemory),
		DBConn:         getEnv("DB_CONN", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		CardHMACSecret: getEnv("CARD_HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		PurgeSchedule:  getEnv("PURGE_SCHEDULE", "@every 5m"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "no-reply@storefront.local"),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}
	if cfg.RateLimit, err = strconv.Atoi(getEnv("RATE_LIMIT", "60")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT must be an integer: %w", err)
	}
	if cfg.PlanTTL, err = time.ParseDuration(getEnv("PLAN_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("PLAN_TTL must be a duration: %w", err)
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverRedis:
	case DriverPostgres:
		if cfg.DBConn == "" {
			return nil, fmt.Errorf("DB_CONN is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be one of memory, redis, postgres, got %q", cfg.StoreDriver)
	}
	if cfg.CardHMACSecret == "" {
		return nil, fmt.Errorf("CARD_HMAC_SECRET is required")
	}
	if cfg.PlanTTL <= 0 {
		return nil, fmt.Errorf("PLAN_TTL must be positive")
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be positive")
	}

	return cfg, nil
}

// EmailEnabled reports whether an SMTP server is configured
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
