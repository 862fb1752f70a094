package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	PrimaryMemory = "memory"
	PrimaryBolt   = "bolt"
	PrimaryRedis  = "redis"

	SecondaryMemory   = "memory"
	SecondarySQLite   = "sqlite"
	SecondaryPostgres = "postgres"
	SecondaryMySQL    = "mysql"
)

// Config is the process configuration, read from the environment.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	// AdminToken guards /admin routes when set.
	AdminToken string `env:"ADMIN_TOKEN"`

	PrimaryBackend    string `env:"PRIMARY_BACKEND" envDefault:"memory"`
	PrimaryQuotaBytes int    `env:"PRIMARY_QUOTA_BYTES" envDefault:"5242880"`
	BoltPath          string `env:"BOLT_PATH"`
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix    string `env:"REDIS_KEY_PREFIX" envDefault:"transit:"`

	SecondaryBackend string `env:"SECONDARY_BACKEND" envDefault:"memory"`
	SQLitePath       string `env:"SQLITE_PATH"`
	DatabaseURL      string `env:"DATABASE_URL"`
	MySQLDSN         string `env:"MYSQL_DSN"`

	SeedFile    string `env:"SEED_FILE"`
	SeedOnStart bool   `env:"SEED_ON_START" envDefault:"true"`

	BackgroundTimeout time.Duration `env:"BACKGROUND_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the process configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every backend setting that is missing or unknown.
func (c Config) Validate() error {
	var errs []error

	switch c.PrimaryBackend {
	case PrimaryMemory:
	case PrimaryBolt:
		if c.BoltPath == "" {
			errs = append(errs, errors.New("BOLT_PATH is required when PRIMARY_BACKEND=bolt"))
		}
	case PrimaryRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when PRIMARY_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("PRIMARY_BACKEND must be one of memory, bolt, redis (got %q)", c.PrimaryBackend))
	}
	if c.PrimaryQuotaBytes < 0 {
		errs = append(errs, errors.New("PRIMARY_QUOTA_BYTES must not be negative"))
	}

	switch c.SecondaryBackend {
	case SecondaryMemory:
	case SecondarySQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when SECONDARY_BACKEND=sqlite"))
		}
	case SecondaryPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when SECONDARY_BACKEND=postgres"))
		}
	case SecondaryMySQL:
		if c.MySQLDSN == "" {
			errs = append(errs, errors.New("MYSQL_DSN is required when SECONDARY_BACKEND=mysql"))
		}
	default:
		errs = append(errs, fmt.Errorf("SECONDARY_BACKEND must be one of memory, sqlite, postgres, mysql (got %q)", c.SecondaryBackend))
	}

	if c.BackgroundTimeout <= 0 {
		errs = append(errs, errors.New("BACKGROUND_TIMEOUT must be positive"))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text (got %q)", c.LogFormat))
	}

	return errors.Join(errs...)
}
