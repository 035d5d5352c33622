package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds raw environment values for the client configuration.
type envConfig struct {
	BaseURL      string        `env:"PHOTOTRAIL_BASE_URL"`
	AuthDomain   string        `env:"PHOTOTRAIL_AUTH_DOMAIN"`
	AuthClientID string        `env:"PHOTOTRAIL_AUTH_CLIENT_ID"`
	RedirectURL  string        `env:"PHOTOTRAIL_REDIRECT_URL"`
	DatabasePath string        `env:"PHOTOTRAIL_DATABASE_PATH"`
	PageSize     int           `env:"PHOTOTRAIL_PAGE_SIZE"`
	PollInterval time.Duration `env:"PHOTOTRAIL_POLL_INTERVAL"`
}

// parseEnv overlays cfg with values from the environment. Unset variables
// keep the current value. Panics on parse errors.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BaseURL != "" {
		cfg.BaseURL = ec.BaseURL
	}
	if ec.AuthDomain != "" {
		cfg.AuthDomain = ec.AuthDomain
	}
	if ec.AuthClientID != "" {
		cfg.AuthClientID = ec.AuthClientID
	}
	if ec.RedirectURL != "" {
		cfg.RedirectURL = ec.RedirectURL
	}
	if ec.DatabasePath != "" {
		cfg.DatabasePath = ec.DatabasePath
	}
	if ec.PageSize > 0 {
		cfg.PageSize = ec.PageSize
	}
	if ec.PollInterval > 0 {
		cfg.PollInterval = ec.PollInterval
	}
}
