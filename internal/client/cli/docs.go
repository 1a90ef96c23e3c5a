package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/crambrain/cram/internal/client/models"
)

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List ingested documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocsList(app, cmd)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <doc-id>",
		Short: "Show one document's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocsShow(app, cmd, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <doc-id>",
		Short: "Drop a document and its saved transcript from the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocsRm(app, cmd, args[0])
		},
	})
	return cmd
}

// runDocsRm clears the locally cached metadata and transcript only; the
// document stays on the backend.
func runDocsRm(app *App, cmd *cobra.Command, docID string) error {
	ctx := cmd.Context()
	if err := app.OpenCache(ctx); err != nil {
		return err
	}
	if err := app.Msgs.Clear(ctx, docID); err != nil {
		return err
	}
	if err := app.Docs.Delete(ctx, docID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the local cache.\n", docID)
	return nil
}

func runDocsList(app *App, cmd *cobra.Command) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	docs, err := app.API.ListDocuments(ctx)
	if err != nil {
		// backend unreachable: serve the local cache, marked as such
		app.Log.Warn(ctx, "doc listing failed, trying cache", "err", err)
		if cerr := app.OpenCache(ctx); cerr != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		cached, cerr := app.Docs.GetAll(ctx)
		if cerr != nil || len(cached) == 0 {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		fmt.Fprintln(w, "Backend unreachable; showing cached listing.")
		printDocList(w, cached)
		return nil
	}

	if err := app.OpenCache(ctx); err == nil {
		if cerr := app.RefreshDocs(ctx, docs); cerr != nil {
			app.Log.Warn(ctx, "doc cache refresh failed", "err", cerr)
		}
	}

	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents yet. Upload one with: cram upload <file.pdf>")
		return nil
	}
	printDocList(w, docs)
	return nil
}

func runDocsShow(app *App, cmd *cobra.Command, docID string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	doc, err := app.API.GetDocument(ctx, docID)
	if err != nil {
		app.Log.Warn(ctx, "doc fetch failed, trying cache", "doc_id", docID, "err", err)
		if cerr := app.OpenCache(ctx); cerr != nil {
			return err
		}
		cached, cerr := app.Docs.Get(ctx, docID)
		if cerr != nil {
			return err
		}
		fmt.Fprintln(w, "Backend unreachable; showing cached metadata.")
		doc = cached
	} else if cerr := app.OpenCache(ctx); cerr == nil {
		if uerr := app.Docs.CreateOrUpdate(ctx, doc); uerr != nil {
			app.Log.Warn(ctx, "doc cache update failed", "doc_id", doc.DocID, "err", uerr)
		}
	}

	fmt.Fprintf(w, "%s\n", doc.OriginalName)
	fmt.Fprintf(w, "  id:      %s\n", doc.DocID)
	fmt.Fprintf(w, "  pages:   %d\n", doc.Pages)
	fmt.Fprintf(w, "  chunks:  %d\n", doc.Chunks)
	fmt.Fprintf(w, "  url:     %s\n", doc.FileURL)
	if !doc.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  created: %s\n", humanize.Time(doc.CreatedAt))
	}
	return nil
}

func printDocList(w io.Writer, docs []models.Document) {
	for _, d := range docs {
		age := ""
		if !d.CreatedAt.IsZero() {
			age = humanize.Time(d.CreatedAt)
		}
		fmt.Fprintf(w, "%-36s  %-30s  %3d pages  %s\n", d.DocID, d.OriginalName, d.Pages, age)
	}
}
