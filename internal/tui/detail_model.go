package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/model"
)

const (
	commentCharLimit  = 2000
	commentInputWidth = 60
)

// DetailSource is the request detail controller as seen by the view.
type DetailSource interface {
	Load(ctx context.Context, id string) loader.DetailSnapshot
	Retry(ctx context.Context) loader.DetailSnapshot
	AddComment(ctx context.Context, text string) (*model.Comment, error)
	Snapshot() loader.DetailSnapshot
}

type detailLoadedMsg struct {
	snap loader.DetailSnapshot
}

type commentPostedMsg struct {
	comment *model.Comment
	err     error
	snap    loader.DetailSnapshot
}

// DetailModel is the interactive request detail screen.
type DetailModel struct {
	ctx       context.Context
	source    DetailSource
	requestID string

	state   ViewState
	snap    loader.DetailSnapshot
	loading *LoadingState

	input     textinput.Model
	composing bool
	posting   bool
	notice    string

	width  int
	height int
}

// NewDetailModel creates a model that loads requestID on Init.
func NewDetailModel(ctx context.Context, source DetailSource, requestID string) *DetailModel {
	ti := textinput.New()
	ti.Placeholder = "Add a comment..."
	ti.CharLimit = commentCharLimit
	ti.Width = commentInputWidth

	return &DetailModel{
		ctx:       ctx,
		source:    source,
		requestID: requestID,
		state:     ViewStateLoading,
		loading:   NewLoadingState("Loading request " + requestID + "..."),
		input:     ti,
		width:     defaultWidth,
		height:    defaultHeight,
	}
}

// Init starts the spinner and the initial load.
func (m *DetailModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.loadCmd())
}

// Snapshot returns the snapshot currently rendered.
func (m *DetailModel) Snapshot() loader.DetailSnapshot {
	return m.snap
}

// State returns the current screen.
func (m *DetailModel) State() ViewState {
	return m.state
}

// Notice returns the last status line, such as a comment result.
func (m *DetailModel) Notice() string {
	return m.notice
}

func (m *DetailModel) loadCmd() tea.Cmd {
	ctx, source, id := m.ctx, m.source, m.requestID
	return func() tea.Msg {
		return detailLoadedMsg{snap: source.Load(ctx, id)}
	}
}

func (m *DetailModel) retryCmd() tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		return detailLoadedMsg{snap: source.Retry(ctx)}
	}
}

func (m *DetailModel) postCmd(text string) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		c, err := source.AddComment(ctx, text)
		return commentPostedMsg{comment: c, err: err, snap: source.Snapshot()}
	}
}

// Update handles messages and updates the model state.
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case detailLoadedMsg:
		return m.handleLoaded(msg)
	case commentPostedMsg:
		return m.handleCommentPosted(msg)
	case tea.KeyMsg:
		if m.composing {
			return m.handleComposeKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.state == ViewStateLoading {
		return m, m.loading.Update(msg)
	}
	if m.composing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *DetailModel) handleLoaded(msg detailLoadedMsg) (tea.Model, tea.Cmd) {
	// A slower response for an earlier load must not replace a newer one.
	if msg.snap.Seq < m.snap.Seq {
		return m, nil
	}
	m.snap = msg.snap
	switch msg.snap.Status {
	case loader.StatusPopulated:
		m.state = ViewStateDetail
	case loader.StatusNotFound:
		m.state = ViewStateError
	case loader.StatusIdle, loader.StatusLoading:
		m.state = ViewStateLoading
	}
	return m, nil
}

func (m *DetailModel) handleCommentPosted(msg commentPostedMsg) (tea.Model, tea.Cmd) {
	m.posting = false
	if msg.err != nil {
		m.notice = fmt.Sprintf("Failed to add comment: %v", msg.err)
		return m, nil
	}
	m.notice = "Comment added."
	if msg.snap.Seq >= m.snap.Seq {
		m.snap = msg.snap
	}
	return m, nil
}

func (m *DetailModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyRetry:
		if m.state == ViewStateLoading {
			return m, nil
		}
		m.state = ViewStateLoading
		m.notice = ""
		return m, tea.Batch(m.loading.Init(), m.retryCmd())
	case keyReload:
		if m.state == ViewStateLoading {
			return m, nil
		}
		m.state = ViewStateLoading
		m.notice = ""
		return m, tea.Batch(m.loading.Init(), m.loadCmd())
	case "c":
		if m.state != ViewStateDetail || m.posting {
			return m, nil
		}
		m.composing = true
		m.notice = ""
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *DetailModel) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc:
		m.composing = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case keyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.composing = false
		m.posting = true
		m.input.Blur()
		m.input.SetValue("")
		m.notice = "Posting comment..."
		return m, m.postCmd(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the current view.
func (m *DetailModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateError:
		return RenderDetailError(m.snap)
	case ViewStateDetail:
		return m.renderDetailView()
	default:
		return ""
	}
}

func (m *DetailModel) renderDetailView() string {
	sections := []string{RenderDetail(m.snap.Value, m.width)}
	if m.notice != "" {
		sections = append(sections, InfoStyle.Render(m.notice))
	}
	if m.composing {
		sections = append(sections, LabelStyle.Render("Comment: ")+m.input.View())
		sections = append(sections, SubtleStyle.Render("[Enter] Post  [Esc] Cancel"))
	} else {
		sections = append(sections, SubtleStyle.Render("[c] Comment  [r] Retry  [R] Reload  [q] Quit"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
