package config

import "time"

// DefaultMaxUploadBytes is the upload size ceiling applied before any
// network call is made.
const DefaultMaxUploadBytes = 50 << 20 // 50 MiB

// Config holds runtime settings for the cram CLI.
//
// RequestTimeout applies to gateway calls only, never to the byte transfer
// itself; zero disables the timeout, which is the historical behavior of
// the upload pipeline.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	CachePath      string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8000"
	c.RequestTimeout = 0
	c.MaxUploadBytes = DefaultMaxUploadBytes
	c.CachePath = "cram.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
