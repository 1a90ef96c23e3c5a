package config

import (
	"flag"
	"os"
	"time"

	"github.com/crambrain/cram/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend (default from Config)
//	-t int      gateway request timeout in seconds (default from Config)
//	-d string   cache database path (default from Config)
//	-l string   log level (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with flags owned by
// other components (cobra in particular).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the CramBrain backend")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "gateway request timeout (in seconds, 0 = none)")
	fs.StringVar(&cfg.CachePath, "d", cfg.CachePath, "path to the local cache database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
