// Package config loads runtime settings for the Phototrail CLI from, in
// order of precedence: defaults, a JSON file, environment variables, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the Phototrail CLI.
//
// Fields:
//   - BaseURL: base URL of the Phototrail API.
//   - AuthDomain: host of the authorization server.
//   - AuthClientID: OAuth client id for the login flow.
//   - RedirectURL: redirect target registered for the client.
//   - DatabasePath: path of the local sqlite database file.
//   - PageSize: number of posts requested per feed page.
//   - PollInterval: how often the background refresh merges the newest page.
type Config struct {
	BaseURL      string
	AuthDomain   string
	AuthClientID string
	RedirectURL  string
	DatabasePath string
	PageSize     int
	PollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "phototrail.db"
	c.PageSize = 10
	c.PollInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
