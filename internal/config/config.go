// Package config provides environment-driven configuration for the listings service.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported DATABASE_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseDriver  string
	DatabaseURL     Secret
	SQLitePath      string
	DBMaxConns      int
	Port            string
	ListenHost      string
	MetricsPort     string
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
	RateLimit       int
	RateBurst       int
	ChangeQueueSize int
}

// Load reads configuration from environment variables with defaults. Values
// from a .env file (ENV_FILE, default ".env") fill in variables that are not
// already set; a missing file is not an error.
func Load() (*Config, error) {
	if err := loadEnvFile(envOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseDriver: strings.ToLower(envOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseURL:    Secret(envOrDefault("DATABASE_URL", "")),
		SQLitePath:     envOrDefault("SQLITE_PATH", "real_estate.db"),
		Port:           envOrDefault("PORT", "8000"),
		ListenHost:     envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort:    envOrDefault("METRICS_PORT", "9091"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
	}

	ints := []struct {
		key      string
		fallback string
		min, max int
		dst      *int
	}{
		{"DB_MAX_CONNS", "10", 2, 200, &cfg.DBMaxConns},
		{"RATE_LIMIT", "100", 0, 100000, &cfg.RateLimit},
		{"RATE_BURST", "200", 1, 100000, &cfg.RateBurst},
		{"CHANGE_QUEUE_SIZE", "1000", 1, 1000000, &cfg.ChangeQueueSize},
	}

	for _, f := range ints {
		v, err := strconv.Atoi(envOrDefault(f.key, f.fallback))
		if err != nil || v < f.min || v > f.max {
			return nil, fmt.Errorf("%s must be an integer between %d and %d", f.key, f.min, f.max)
		}

		*f.dst = v
	}

	if origins := envOrDefault("CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("loading %s: %w", path, err)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
