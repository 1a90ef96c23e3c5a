package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crambrain/cram/internal/client/api"
)

func newSearchCmd(app *App) *cobra.Command {
	var docID string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed documents without generating an answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(app, cmd, api.SearchRequest{Query: args[0], DocID: docID, Limit: limit})
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "restrict search to one document id")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results (1-20)")
	return cmd
}

func runSearch(app *App, cmd *cobra.Command, req api.SearchRequest) error {
	res, err := app.API.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(res.Results) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	for i, r := range res.Results {
		fmt.Fprintf(w, "%2d. p.%-4d %.2f  %s\n", i+1, r.Page, r.Score, quoteExcerpt(r.Text))
	}
	if res.Total > len(res.Results) {
		fmt.Fprintf(w, "(%d of %d matches shown)\n", len(res.Results), res.Total)
	}
	return nil
}
