package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/crambrain/cram/internal/client/citation"
	"github.com/crambrain/cram/internal/client/models"
)

const (
	viewerPaneWidth = 34
	inputHeight     = 3
	statusHeight    = 1
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	markerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	paneStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("11")).Foreground(lipgloss.Color("0"))
)

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.transcript.View(),
		m.inputView(),
	)
	right := m.sidebarView()

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusView())
}

func (m *model) inputView() string {
	prompt := m.input.View()
	if m.pending {
		prompt = m.spin.View() + " thinking..."
	}
	return paneStyle.Width(m.transcript.Width - 2).Render(prompt)
}

func (m *model) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.sess.Messages() {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(userStyle.Render("you") + "  " + msg.Text + "\n\n")
		case models.RoleAssistant:
			linked := citation.Wrap(msg.Text, func(page int, marker string) string {
				return markerStyle.Render(marker)
			})
			b.WriteString(assistantStyle.Render("cram") + " " + linked + "\n\n")
		}
	}
	return b.String()
}

// sidebarView stacks the citation list over the viewer pane.
func (m *model) sidebarView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.citationView(),
		m.viewerView(),
	)
}

func (m *model) citationView() string {
	var b strings.Builder
	b.WriteString("Sources\n")
	if len(m.citations) == 0 {
		b.WriteString(dimStyle.Render("none yet"))
	}
	for i, c := range m.citations {
		line := fmt.Sprintf("p.%d %s", c.Page, truncate(c.Quote, viewerPaneWidth-10))
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(dimStyle.Render("\ntab: next source"))
	return paneStyle.Width(viewerPaneWidth).Render(b.String())
}

// viewerView draws the viewer pane: page position, zoom and rotation, and
// the highlights projected for the current page.
func (m *model) viewerView() string {
	var b strings.Builder

	pages := "?"
	if doc := m.view.Document(); doc != nil && doc.Pages > 0 {
		pages = fmt.Sprintf("%d", doc.Pages)
	}
	b.WriteString(fmt.Sprintf("Page %d/%s", m.view.Page(), pages))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %.0f%%  %d°\n", m.view.Zoom()*100, m.view.Rotation())))

	hs := m.view.Highlights()
	if len(hs) == 0 {
		b.WriteString(dimStyle.Render("no highlights on this page"))
	}
	for _, h := range hs {
		if h.PageLevel {
			b.WriteString(highlightStyle.Render("whole page") + " " + truncate(h.Citation.Quote, viewerPaneWidth-16) + "\n")
			continue
		}
		pos := fmt.Sprintf("(%.0f,%.0f)", h.Rect.X0, h.Rect.Y0)
		b.WriteString(highlightStyle.Render(pos) + " " + truncate(h.Citation.Quote, viewerPaneWidth-16) + "\n")
	}

	b.WriteString(dimStyle.Render("\n←/→ page  ^↑/^↓ zoom  ^r rotate"))
	return paneStyle.Width(viewerPaneWidth).Render(b.String())
}

func (m *model) statusView() string {
	if m.uploading {
		return fmt.Sprintf(" %s %s %s",
			m.uploadTask.Filename, m.uploadTask.Phase,
			m.prog.ViewAs(float64(m.uploadTask.Progress)/100))
	}
	doc := m.docID
	if doc == "" {
		doc = "all documents"
	}
	status := fmt.Sprintf(" %s | /upload /open /cancel | esc to quit", doc)
	if m.notice != "" {
		status = " " + m.notice + " |" + status
	}
	return dimStyle.Render(status)
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
