package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true" validate:"required"`
	Port         int    `envconfig:"PORT" validate:"gte=0,lte=65535"`
	APIPort      int    `envconfig:"API_PORT" default:"8080" validate:"gt=0,lte=65535"`
	Table        string `envconfig:"API_TABLE" default:"polling_stations" validate:"required"`
	BearerToken  string `envconfig:"API_BEARER_TOKEN"`
	DefaultLimit int    `envconfig:"API_DEFAULT_LIMIT" default:"200" validate:"gt=0"`
}

var validate = validator.New()

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return cfg, fmt.Errorf("invalid %s: failed %q constraint", errs[0].Field(), errs[0].Tag())
		}
		return cfg, err
	}
	return cfg, nil
}

// ListenPort prefers PORT (set by most hosting platforms) over API_PORT.
func (c Config) ListenPort() int {
	if c.Port > 0 {
		return c.Port
	}
	return c.APIPort
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.ListenPort())
}
