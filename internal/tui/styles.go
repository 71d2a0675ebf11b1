package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorHeader  = lipgloss.Color("39")
	ColorLabel   = lipgloss.Color("245")
	ColorValue   = lipgloss.Color("255")
	ColorOK      = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorInfo    = lipgloss.Color("33")
	ColorMuted   = lipgloss.Color("240")
	ColorBorder  = lipgloss.Color("238")
	ColorAccent  = lipgloss.Color("57")
)

// Icons.
const (
	IconDone    = "✓"
	IconCurrent = "●"
	IconPending = "○"
	IconArrow   = "→"
	IconUnread  = "•"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconError   = "✗"
)

//nolint:gochecknoglobals // lipgloss styles are shared read-only values.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(ColorInfo)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	OKStyle     = lipgloss.NewStyle().Foreground(ColorOK)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarning)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(ColorAccent)

	ListHeaderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			BorderBottom(true).
			Bold(true)
)
