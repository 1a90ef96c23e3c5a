package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/models"
	"github.com/crambrain/cram/internal/client/session"
	"github.com/crambrain/cram/internal/client/upload"
	"github.com/crambrain/cram/internal/client/viewer"
	"github.com/crambrain/cram/internal/logging"
)

type answerMsg struct {
	reply models.Message
}

type model struct {
	ctx     context.Context
	sess    *session.Session
	view    *viewer.Controller
	api     api.Service
	uploads *upload.Orchestrator
	log     logging.Logger

	transcript viewport.Model
	input      textinput.Model
	spin       spinner.Model
	prog       progress.Model

	docID string
	pages int

	// citations of the latest assistant turn; selected indexes into it
	citations []models.Citation
	selected  int

	pending    bool
	uploading  bool
	uploadTask upload.Task
	uploadCh   chan upload.Task
	notice     string

	width  int
	height int
	ready  bool
}

func newModel(ctx context.Context, opts Options) *model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vc := viewer.New()
	vc.SetDocument(&models.Document{DocID: opts.DocID, Pages: opts.Pages})

	return &model{
		ctx:      ctx,
		sess:     opts.Session,
		view:     vc,
		api:      opts.API,
		uploads:  opts.Uploads,
		log:      logging.OrNop(opts.Log),
		input:    ti,
		spin:     sp,
		prog:     progress.New(progress.WithDefaultGradient()),
		docID:    opts.DocID,
		pages:    opts.Pages,
		selected: -1,
		uploadCh: make(chan upload.Task, 16),
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case answerMsg:
		m.pending = false
		m.citations = msg.reply.Citations
		m.selected = -1
		if len(m.citations) > 0 {
			m.view.SetCitations(m.citations)
		}
		m.refreshTranscript()
		return m, nil

	case uploadProgressMsg:
		m.uploadTask = upload.Task(msg)
		if m.uploadTask.Phase.Terminal() {
			return m, nil
		}
		return m, m.listenUpload()

	case uploadDoneMsg:
		m.uploading = false
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.uploadTask = msg.task
		if msg.task.Phase == upload.PhaseComplete {
			m.notice = fmt.Sprintf("uploaded %s", msg.task.Filename)
			return m, m.openDocument(msg.task.DocID)
		}
		m.notice = msg.task.Notice
		return m, nil

	case docOpenedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.docID = msg.doc.DocID
		m.pages = msg.doc.Pages
		m.sess.SetDocument(msg.doc.DocID, msg.doc.Pages)
		m.view.SetDocument(msg.doc)
		m.notice = fmt.Sprintf("chatting about %s", msg.doc.OriginalName)
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" || m.pending {
			return m, nil
		}
		m.input.Reset()
		if strings.HasPrefix(query, "/") {
			return m, m.runSlash(query)
		}
		m.pending = true
		m.notice = ""
		m.refreshTranscript()
		return m, tea.Batch(m.spin.Tick, m.ask(query))

	case "tab":
		m.selectCitation(1)
		return m, nil
	case "shift+tab":
		m.selectCitation(-1)
		return m, nil

	case "left":
		m.view.PrevPage()
		return m, nil
	case "right":
		m.view.NextPage()
		return m, nil
	case "ctrl+up":
		m.view.ZoomIn()
		return m, nil
	case "ctrl+down":
		m.view.ZoomOut()
		return m, nil
	case "ctrl+r":
		m.view.Rotate()
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask issues the question off the UI loop; the session serializes state.
func (m *model) ask(query string) tea.Cmd {
	return func() tea.Msg {
		return answerMsg{reply: m.sess.Ask(m.ctx, query)}
	}
}

// selectCitation cycles the citation selection and drives the viewer onto
// the selected citation's page.
func (m *model) selectCitation(step int) {
	if len(m.citations) == 0 {
		return
	}
	m.selected = (m.selected + step + len(m.citations)) % len(m.citations)
	m.view.ShowCitation(m.citations[m.selected])
}

func (m *model) layout() {
	w := m.width - viewerPaneWidth - 2
	h := m.height - inputHeight - statusHeight
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	if !m.ready {
		m.transcript = viewport.New(w, h)
		m.ready = true
	} else {
		m.transcript.Width = w
		m.transcript.Height = h
	}
	m.input.Width = w - 4
	m.refreshTranscript()
}

func (m *model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(m.renderMessages())
	m.transcript.GotoBottom()
}
