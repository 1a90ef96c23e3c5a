package tui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/client/upload"
)

type uploadProgressMsg upload.Task

type uploadDoneMsg struct {
	task upload.Task
	err  error
}

type docOpenedMsg struct {
	doc *models.Document
	err error
}

// runSlash dispatches the in-chat commands: /upload <file.pdf> adds a new
// document without leaving the chat, /open <doc-id> rescopes the session
// and viewer, /cancel aborts an in-flight transfer.
func (m *model) runSlash(line string) tea.Cmd {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/upload":
		if arg == "" || m.uploading {
			return nil
		}
		m.uploading = true
		return tea.Batch(m.startUpload(arg), m.listenUpload())
	case "/open":
		if arg == "" {
			return nil
		}
		return m.openDocument(arg)
	case "/cancel":
		m.uploads.Cancel()
		return nil
	default:
		m.notice = fmt.Sprintf("unknown command %s", cmd)
		return nil
	}
}

func (m *model) startUpload(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}

		mediaType := mime.TypeByExtension(filepath.Ext(path))
		if i := strings.IndexByte(mediaType, ';'); i >= 0 {
			mediaType = strings.TrimSpace(mediaType[:i])
		}

		m.uploads.OnUpdate(func(t upload.Task) {
			select {
			case m.uploadCh <- t:
			default:
			}
		})

		task, err := m.uploads.Start(m.ctx, upload.File{
			Name:      filepath.Base(path),
			MediaType: mediaType,
			Data:      data,
		})
		return uploadDoneMsg{task: task, err: err}
	}
}

// listenUpload forwards orchestrator updates into the event loop, one
// message per update. An upload that fails before its first update never
// feeds the channel, so the listener also watches for shutdown instead of
// parking forever.
func (m *model) listenUpload() tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-m.uploadCh:
			return uploadProgressMsg(t)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// openDocument rescopes the chat to a document, fetching its page count
// for the viewer and citation clamping.
func (m *model) openDocument(docID string) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.api.GetDocument(m.ctx, docID)
		return docOpenedMsg{doc: doc, err: err}
	}
}
