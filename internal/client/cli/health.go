package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.API.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend unreachable at %s: %w", app.Config.BaseURL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", h.Status, h.Time)
			return nil
		},
	}
}
