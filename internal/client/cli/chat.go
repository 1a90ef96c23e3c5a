package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crambrain/cram/internal/client/tui"
)

func newChatCmd(app *App) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat and document viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pages := 0
			if docID != "" {
				doc, err := app.API.GetDocument(ctx, docID)
				if err != nil {
					return fmt.Errorf("failed to load document %s: %w", docID, err)
				}
				pages = doc.Pages
			}
			app.Session.SetDocument(docID, pages)
			if docID != "" {
				if msgs, err := cachedTranscript(ctx, app, docID); err != nil {
					app.Log.Warn(ctx, "saved transcript unavailable", "doc_id", docID, "err", err)
				} else if len(msgs) > 0 {
					app.Session.Restore(msgs)
				}
			}

			return tui.Run(ctx, tui.Options{
				API:     app.API,
				Session: app.Session,
				Uploads: app.Uploads,
				Log:     app.Log,
				DocID:   docID,
				Pages:   pages,
			})
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "open the chat scoped to one document id")
	return cmd
}
