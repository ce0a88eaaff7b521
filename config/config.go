package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `env:"GO_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`

	// DBUrl enables draft persistence. Empty disables it.
	DBUrl string `env:"DATABASE_URL"`

	StorageBaseURL string        `env:"STORAGE_BASE_URL"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"15s"`

	// JWTSecret verifies bearer token signatures. Empty only checks expiry and
	// is refused in production, since sessions are owned by the token subject.
	JWTSecret          string        `env:"JWT_SECRET"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	SessionIdleTTL     time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.StorageBaseURL == "" {
		errs = append(errs, errors.New("STORAGE_BASE_URL is required"))
	}
	if c.StorageTimeout <= 0 {
		errs = append(errs, fmt.Errorf("STORAGE_TIMEOUT must be positive, got %s", c.StorageTimeout))
	}
	if c.IsProduction() && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.SessionIdleTTL < 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TTL must not be negative, got %s", c.SessionIdleTTL))
	}
	return errors.Join(errs...)
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	// Load .env file if not in production
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
