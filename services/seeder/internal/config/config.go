package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the seeder.
type Config struct {
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true" validate:"required"`
	Workbook    string        `envconfig:"SEED_WORKBOOK" default:"AE_AP.xlsx" validate:"required"`
	Table       string        `envconfig:"SEED_TABLE" default:"polling_stations" validate:"required"`
	BatchSize   int           `envconfig:"SEED_BATCH_SIZE" default:"400" validate:"gt=0,lt=500"`
	BackupPath  string        `envconfig:"SEED_BACKUP_PATH" default:"election2024_parsed.json"`
	Timeout     time.Duration `envconfig:"SEED_TIMEOUT" default:"10m" validate:"gt=0"`
	LogLevel    string        `envconfig:"SEED_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	DryRun      bool          `envconfig:"DRY_RUN"`
}

var validate = validator.New()

// Load reads configuration from environment variables (optionally .env).
// Callers apply command-line overrides and then call Validate.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.LogLevel = NormalizeLevel(cfg.LogLevel)
	return cfg, nil
}

// NormalizeLevel trims and lowercases a log level name.
func NormalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// Validate checks every field against its constraints. Log level names are
// compared case-insensitively.
func (c Config) Validate() error {
	c.LogLevel = NormalizeLevel(c.LogLevel)
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return fmt.Errorf("invalid %s: failed %q constraint", errs[0].Field(), errs[0].Tag())
		}
		return err
	}
	return nil
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(NormalizeLevel(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
