package config

import "os"

// parseEnv overlays Config with environment values. The backend base URL is
// the only setting the environment controls; everything else comes from the
// JSON file or flags.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("CRAM_BASE_URL"); ok && v != "" {
		cfg.BaseURL = v
	}
}
