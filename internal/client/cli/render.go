package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/crambrain/cram/internal/client/citation"
	"github.com/crambrain/cram/internal/client/models"
)

var markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || w > 100 {
		return 100
	}
	return w
}

// renderAnswer renders an assistant answer for one-shot output: markdown
// through glamour on a terminal, plain text when piped. Page markers are
// highlighted but never altered, so piped output still carries the literal
// [p.N] text.
func renderAnswer(w io.Writer, text string) {
	if !isTTY() {
		fmt.Fprintln(w, text)
		return
	}

	linked := citation.Wrap(text, func(page int, marker string) string {
		return markerStyle.Render(marker)
	})

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(termWidth()),
	)
	if err != nil {
		fmt.Fprintln(w, linked)
		return
	}
	out, err := r.Render(linked)
	if err != nil {
		fmt.Fprintln(w, linked)
		return
	}
	fmt.Fprint(w, out)
}

// printCitations lists an answer's sources in citation-list order.
func printCitations(w io.Writer, cs []models.Citation) {
	if len(cs) == 0 {
		return
	}
	fmt.Fprintln(w, "Sources:")
	for i, c := range cs {
		line := fmt.Sprintf("  [%d] p.%d", i+1, c.Page)
		if c.Quote != "" {
			line += " " + quoteExcerpt(c.Quote)
		}
		if c.Score > 0 {
			line += fmt.Sprintf(" (%.2f)", c.Score)
		}
		fmt.Fprintln(w, line)
	}
}

func quoteExcerpt(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if r := []rune(q); len(r) > 80 {
		q = string(r[:80]) + "…"
	}
	return fmt.Sprintf("%q", q)
}
