// Package tui is the interactive chat surface: a transcript pane, an ask
// input, a citation list, and a viewer pane that follows citation
// selections onto the cited page.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/session"
	"github.com/crambrain/cram/internal/client/upload"
	"github.com/crambrain/cram/internal/logging"
)

// Options carries the wired components the TUI drives.
type Options struct {
	API     api.Service
	Session *session.Session
	Uploads *upload.Orchestrator
	Log     logging.Logger
	DocID   string
	Pages   int
}

// Run starts the full-screen chat and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
