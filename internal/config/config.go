// Package config loads runtime configuration from environment variables.
package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	AppPort         string        `envconfig:"APP_PORT" default:"8080"`
	AppReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppIdleTimeout  time.Duration `envconfig:"APP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL      string        `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns       int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	DBMinConns       int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	StatementTimeout time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"30s"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTTL  time.Duration `envconfig:"JWT_ACCESS_TTL" default:"15m"`
	JWTRefreshTTL time.Duration `envconfig:"JWT_REFRESH_TTL" default:"168h"`

	// RawStoreDir is where compressed raw marketplace payloads are kept.
	RawStoreDir   string `envconfig:"RAW_STORE_DIR" default:"./data/raw"`
	RawStoreLevel int    `envconfig:"RAW_STORE_LEVEL" default:"3"`

	// Numerator strategy: "strict" serializes number assignment inside the
	// posting transaction, "cached" reserves blocks ahead of time.
	NumeratorStrategy string `envconfig:"NUMERATOR_STRATEGY" default:"strict"`

	// Idempotency replay protection for mutating endpoints. Import jobs
	// send X-Idempotency-Key with every document they push.
	IdempotencyEnabled bool          `envconfig:"IDEMPOTENCY_ENABLED" default:"true"`
	IdempotencyTTL     time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"10m"`

	// PostingClosedUntil blocks posting and unposting of documents dated
	// before this date (RFC 3339 date, e.g. "2026-07-01"). Empty keeps
	// every period open.
	PostingClosedUntil string `envconfig:"POSTING_CLOSED_UNTIL" default:""`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL must be provided")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret must be provided")
	}
	if cfg.PostingClosedUntil != "" {
		if _, err := time.Parse("2006-01-02", cfg.PostingClosedUntil); err != nil {
			return nil, errors.New("POSTING_CLOSED_UNTIL must be a date in YYYY-MM-DD format")
		}
	}
	return &cfg, nil
}

// ClosedPeriod returns the parsed period closing boundary.
// Zero time when no period is closed.
func (c *Config) ClosedPeriod() time.Time {
	if c == nil || c.PostingClosedUntil == "" {
		return time.Time{}
	}
	t, _ := time.Parse("2006-01-02", c.PostingClosedUntil)
	return t
}

// IsDevelopment returns true when the application runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
