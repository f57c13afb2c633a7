package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Storage engines selected by the DATABASE_URL scheme.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

const localDatabaseURL = "sqlite://courses.db"

const (
	defaultCacheTTL = 5 * time.Minute
	maxCacheTTL     = time.Hour
)

type Config struct {
	DatabaseURL          string
	RedisAddr            string
	Port                 string
	AppEnv               string
	LogLevel             slog.Level
	OtelExporterEndpoint string
	BcryptCost           int
	CacheTTL             time.Duration
}

// Load reads configuration from environment variables.
// It applies defaults for "local" environments but enforces strictness for others.
func Load() (Config, error) {
	cfg := Config{
		Port:                 os.Getenv("PORT"),
		AppEnv:               os.Getenv("APP_ENV"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		OtelExporterEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		BcryptCost:           bcrypt.DefaultCost,
		CacheTTL:             defaultCacheTTL,
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	// Default to production safety if not explicitly set to local
	if cfg.AppEnv == "" {
		cfg.AppEnv = "production"
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		if cfg.AppEnv != "local" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
		cfg.DatabaseURL = localDatabaseURL
	}
	if _, _, err := cfg.Storage(); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return Config{}, fmt.Errorf("BCRYPT_COST must be an integer between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
		cfg.BcryptCost = cost
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 || ttl > maxCacheTTL {
			return Config{}, fmt.Errorf("CACHE_TTL must be a positive duration of at most %s, got %q", maxCacheTTL, v)
		}
		cfg.CacheTTL = ttl
	}

	return cfg, nil
}

// Storage splits DatabaseURL into an engine and the DSN that engine's
// driver expects.
func (c Config) Storage() (engine, dsn string, err error) {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return EnginePostgres, c.DatabaseURL, nil
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		path := strings.TrimPrefix(c.DatabaseURL, "sqlite://")
		if path == "" {
			return "", "", errors.New("DATABASE_URL: sqlite path is empty")
		}
		return EngineSQLite, path, nil
	default:
		return "", "", fmt.Errorf("DATABASE_URL: unsupported scheme in %q", c.DatabaseURL)
	}
}
