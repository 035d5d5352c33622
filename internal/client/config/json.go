package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/phototrail/cli/internal/flagx"
	"github.com/phototrail/cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "30s" or
// as integer nanoseconds.
type JsonConfig struct {
	BaseURL      string         `json:"base_url"`
	AuthDomain   string         `json:"auth_domain"`
	AuthClientID string         `json:"auth_client_id"`
	RedirectURL  string         `json:"redirect_url"`
	DatabasePath string         `json:"database_path"`
	PageSize     int            `json:"page_size"`
	PollInterval timex.Duration `json:"poll_interval"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. If no file is named, nothing happens. Unset JSON fields
// keep the current value. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.AuthDomain != "" {
		cfg.AuthDomain = jc.AuthDomain
	}
	if jc.AuthClientID != "" {
		cfg.AuthClientID = jc.AuthClientID
	}
	if jc.RedirectURL != "" {
		cfg.RedirectURL = jc.RedirectURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
}
