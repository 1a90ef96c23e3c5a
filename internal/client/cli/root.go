package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crambrain/cram/internal/client/config"
)

// rootFlags mirror the short config flags so cobra accepts and documents
// them. config.LoadConfig reads the short forms itself through flagx; the
// overlay below makes the long forms win last, keeping flag precedence
// uniform either way.
type rootFlags struct {
	server     string
	timeoutSec int
	cachePath  string
	logLevel   string
	configPath string
}

func (f *rootFlags) overlay(cfg *config.Config) {
	if f.server != "" {
		cfg.BaseURL = f.server
	}
	if f.timeoutSec >= 0 {
		cfg.RequestTimeout = time.Duration(f.timeoutSec) * time.Second
	}
	if f.cachePath != "" {
		cfg.CachePath = f.cachePath
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
}

// NewRootCmd builds the cram command tree. The App is constructed in
// PersistentPreRun so every subcommand sees the fully layered config.
func NewRootCmd() *cobra.Command {
	app := &App{}
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "cram",
		Short: "cram is a terminal client for the CramBrain study assistant",
		Long: `cram uploads PDFs to a CramBrain backend, asks questions grounded in
their content, and renders answers with page citations you can follow
into the document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadConfig()
			flags.overlay(cfg)
			*app = *NewApp(cfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.server, "server", "a", "", "base URL of the CramBrain backend")
	pf.IntVarP(&flags.timeoutSec, "timeout", "t", -1, "gateway request timeout in seconds (0 = none)")
	pf.StringVarP(&flags.cachePath, "db", "d", "", "path to the local cache database")
	pf.StringVarP(&flags.logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to a JSON config file")

	root.AddCommand(
		newUploadCmd(app),
		newAskCmd(app),
		newQuizCmd(app),
		newDocsCmd(app),
		newSearchCmd(app),
		newHealthCmd(app),
		newChatCmd(app),
		newVersionCmd(),
	)

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
