package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devSessionSecret = "dev-secret-change-in-production"

// Session store backends.
const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
)

type Config struct {
	Port           string
	Env            string
	SessionStore   string
	DatabaseDSN    string
	RedisURL       string
	SessionSecret  string
	SessionTTL     time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		SessionStore:  getEnv("SESSION_STORE", StoreMemory),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passgen?parseTime=true"),
		RedisURL:      getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		SessionSecret: getEnv("SESSION_SECRET", devSessionSecret),
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "30m")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20")); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SessionStore {
	case StoreMemory, StoreMySQL, StoreRedis:
	default:
		return fmt.Errorf("SESSION_STORE must be one of %s, %s, %s; got %q", StoreMemory, StoreMySQL, StoreRedis, c.SessionStore)
	}

	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.Env == "production" && c.SessionSecret == devSessionSecret {
		slog.Error("SESSION_SECRET must be set in production environment")
		return errors.New("SESSION_SECRET must be set in production environment")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
