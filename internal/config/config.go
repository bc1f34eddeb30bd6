package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SUPASHIP_"

// Поддерживаемые драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains server configuration parameters.
type Config struct {
	HTTPAddr   string    `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel   string    `env:"LOG_LEVEL" envDefault:"info"`
	Database   Database  `envPrefix:"DATABASE_"`
	JWT        JWT       `envPrefix:"JWT_"`
	RateLimit  RateLimit `envPrefix:"RATE_LIMIT_"`
	BcryptCost int       `env:"BCRYPT_COST" envDefault:"10"`
	PageSize   int       `env:"PAGE_SIZE" envDefault:"10"`
}

// Database contains storage parameters.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"supaship.db"`
}

// JWT contains token issuing parameters.
type JWT struct {
	Secret     string        `env:"SECRET" envDefault:"devsecret"`
	AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"720h"`
}

// RateLimit limits requests to the auth endpoints per client IP.
type RateLimit struct {
	Auth   int           `env:"AUTH" envDefault:"10"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that env parsing cannot check by itself.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.RateLimit.Auth <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}

	return nil
}
