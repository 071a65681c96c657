// Package config handles configuration for the records service:
// defaults, JSON overlay, and command-line flags, later sources taking
// precedence.
package config

import "time"

// Config holds runtime settings for the clientbook server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty DSN selects the in-memory
//     store, which is meant for development only.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Override
//     the default outside of development.
//   - TokenValidityDuration: session token lifetime.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
