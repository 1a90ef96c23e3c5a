// Package config loads runtime configuration for the cram CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. The CRAM_BASE_URL environment variable (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the CramBrain backend
//	-t int      request timeout for gateway calls, in seconds (0 = none)
//	-d string   path to the local cache database
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "30s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:8000",
//	  "request_timeout": "30s",
//	  "max_upload_bytes": 52428800,
//	  "cache_path": "cram.db",
//	  "log_level": "info"
//	}
package config
