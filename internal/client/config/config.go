// Package config handles configuration for the client: defaults, JSON
// overlay, and command-line flags, later sources taking precedence.
package config

import "time"

// Config holds runtime settings for the clientbook client.
//
// Fields:
//   - ServerURL: base URL of the records service.
//   - RequestTimeout: bound applied to every transport call.
//   - LocalDBPath: path of the local SQLite database holding the
//     persisted session token.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	LocalDBPath    string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.LocalDBPath = "clientbook.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
