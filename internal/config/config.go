// Package config loads the gateway's runtime settings from the
// environment, with a best-effort .env file for development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is the gateway's runtime configuration.
type Config struct {
	Env          string
	Port         string
	StoreBaseURL string
}

// Load reads configuration from the environment. A missing .env file is
// not an error; a missing store URL is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:          envOr("ENV", "production"),
		Port:         envOr("PORT", "8080"),
		StoreBaseURL: os.Getenv("STORE_BASE_URL"),
	}
	if cfg.StoreBaseURL == "" {
		return nil, fmt.Errorf("STORE_BASE_URL is required")
	}
	return cfg, nil
}

// Development reports whether the gateway runs in development mode.
func (c *Config) Development() bool {
	return c.Env == "development"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
