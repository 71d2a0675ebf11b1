package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultBufferSize = 5

// RenderFunc renders one item. selected reports whether it has the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// VirtualListModel is a scrolling list over items.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]

	selected    int
	visibleFrom int
	visibleTo   int

	height     int
	width      int
	bufferSize int
}

// NewVirtualListModel creates a list with the cursor on the first item.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		height:     height,
		width:      width,
		bufferSize: defaultBufferSize,
	}
	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update moves the cursor on arrow, page, home/end and j/k keys.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width
		m.updateVisibleRange()
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys move the cursor.
func (m *VirtualListModel[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}
	switch msg.Type {
	case tea.KeyUp:
		m.SetSelected(m.selected - 1)
	case tea.KeyDown:
		m.SetSelected(m.selected + 1)
	case tea.KeyPgUp:
		m.SetSelected(m.selected - m.height)
	case tea.KeyPgDown:
		m.SetSelected(m.selected + m.height)
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		switch msg.String() {
		case "j":
			m.SetSelected(m.selected + 1)
		case "k":
			m.SetSelected(m.selected - 1)
		}
	}
}

// updateVisibleRange keeps the cursor roughly centered in the viewport.
func (m *VirtualListModel[T]) updateVisibleRange() {
	n := len(m.items)
	if n == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}

	from := max(m.selected-m.height/2, 0)
	to := min(from+m.height, n)
	from = max(to-m.height, 0)

	m.visibleFrom, m.visibleTo = from, to
}

// View renders the visible rows plus the buffer.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	from := max(m.visibleFrom-m.bufferSize, 0)
	to := min(m.visibleTo+m.bufferSize, len(m.items))

	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.selected))
	}
	return strings.Join(lines, "\n")
}

// ItemCount returns the number of items.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the cursor index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SetSelected moves the cursor, clamped to the list bounds.
func (m *VirtualListModel[T]) SetSelected(index int) {
	m.selected = min(max(index, 0), max(len(m.items)-1, 0))
	m.updateVisibleRange()
}

// VisibleFrom returns the first visible index.
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.visibleFrom
}

// VisibleTo returns one past the last visible index.
func (m *VirtualListModel[T]) VisibleTo() int {
	return m.visibleTo
}

// SelectedItem returns the item under the cursor, or nil for an empty list.
func (m *VirtualListModel[T]) SelectedItem() *T {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}
