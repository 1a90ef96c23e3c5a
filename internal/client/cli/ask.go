package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/client/session"
)

func newAskCmd(app *App) *cobra.Command {
	var docID string
	var topK int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question grounded in your uploaded documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(app, cmd, args[0], docID, topK)
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "restrict retrieval to one document id")
	cmd.Flags().IntVar(&topK, "top-k", session.DefaultTopK, "retrieval depth (1-20)")
	return cmd
}

func runAsk(app *App, cmd *cobra.Command, query, docID string, topK int) error {
	ctx := cmd.Context()

	sess := session.New(app.API, session.WithLogger(app.Log), session.WithTopK(topK))
	if docID != "" {
		pages := 0
		if doc, err := app.API.GetDocument(ctx, docID); err == nil {
			pages = doc.Pages
		} else {
			app.Log.Warn(ctx, "could not fetch document for citation bounds", "doc_id", docID, "err", err)
		}
		sess.SetDocument(docID, pages)
	}

	reply := sess.Ask(ctx, query)

	renderAnswer(cmd.OutOrStdout(), reply.Text)
	printCitations(cmd.OutOrStdout(), reply.Citations)

	persistTranscript(app, cmd, docID, sess.Messages())
	return nil
}

// historyLimit caps how many saved turns a chat starts with.
const historyLimit = 50

// cachedTranscript loads the saved turns for a document, the most recent
// historyLimit of them in chronological order.
func cachedTranscript(ctx context.Context, app *App, docID string) ([]models.Message, error) {
	if err := app.OpenCache(ctx); err != nil {
		return nil, err
	}
	return app.Msgs.History(ctx, docID, historyLimit)
}

// persistTranscript appends the turns to the local cache so `cram chat`
// can show history later. Cache failures are logged, never fatal.
func persistTranscript(app *App, cmd *cobra.Command, docID string, msgs []models.Message) {
	ctx := cmd.Context()
	if docID == "" {
		return
	}
	if err := app.OpenCache(ctx); err != nil {
		app.Log.Warn(ctx, "transcript not saved", "err", err)
		return
	}
	for i := range msgs {
		if err := app.Msgs.Append(ctx, docID, &msgs[i]); err != nil {
			app.Log.Warn(ctx, "transcript not saved", "err", err)
			return
		}
	}
}
