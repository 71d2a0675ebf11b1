package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ViewState is the screen a model is currently showing.
type ViewState int

const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateDetail
	ViewStateError
	ViewStateQuitting
)

// Key bindings shared by the models.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keyRetry  = "r"
	keyReload = "R"
	keyTab    = "tab"
)

// Layout defaults used before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
	borderPadding = 2
)

// OutputMode selects between the interactive TUI and plain output.
type OutputMode int

const (
	OutputPlain OutputMode = iota
	OutputInteractive
)

// DetectOutputMode returns OutputInteractive only when forced or when stdout
// is a terminal and NO_COLOR/CI are unset.
func DetectOutputMode(force bool) OutputMode {
	if force {
		return OutputInteractive
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CI") != "" {
		return OutputPlain
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputInteractive
	}
	return OutputPlain
}

// TerminalWidth returns the width of stdout, or fallback when unknown.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// LoadingState wraps a spinner with a caption.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a dot spinner with the given caption.
func NewLoadingState(msg string) *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle
	return &LoadingState{spinner: s, message: msg}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading renders the spinner and caption.
func RenderLoading(l *LoadingState) string {
	if l == nil {
		return "Loading..."
	}
	return l.spinner.View() + " " + l.message
}
