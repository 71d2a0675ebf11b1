package listview

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderInt(i int, selected bool) string {
	if selected {
		return fmt.Sprintf("> %d", i)
	}
	return fmt.Sprintf("  %d", i)
}

func intItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestVirtualList_Navigation(t *testing.T) {
	m := NewVirtualListModel(intItems(100), 10, 80, renderInt)
	assert.Equal(t, 0, m.Selected())

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, m.Selected())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 1, m.Selected())

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 11, m.Selected())

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 99, m.Selected())
	assert.Equal(t, 100, m.VisibleTo())
	assert.Equal(t, 90, m.VisibleFrom())

	m.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, 0, m.VisibleFrom())

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Selected())
}

func TestVirtualList_ViewRendersWindowOnly(t *testing.T) {
	m := NewVirtualListModel(intItems(1000), 10, 80, renderInt)
	m.SetSelected(500)

	view := m.View()
	assert.Contains(t, view, "> 500")
	assert.NotContains(t, view, "  10\n")
	assert.Less(t, len(view), 200)
}

func TestVirtualList_Empty(t *testing.T) {
	m := NewVirtualListModel([]int(nil), 10, 80, renderInt)
	assert.Empty(t, m.View())
	assert.Nil(t, m.SelectedItem())
	m.SetSelected(5)
	assert.Equal(t, 0, m.Selected())
}

func TestVirtualList_SelectedItemAndResize(t *testing.T) {
	m := NewVirtualListModel(intItems(5), 2, 80, renderInt)
	m.SetSelected(42)
	item := m.SelectedItem()
	require.NotNil(t, item)
	assert.Equal(t, 4, *item)

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 3})
	assert.Equal(t, 3, m.VisibleTo()-m.VisibleFrom())
	assert.Equal(t, 5, m.ItemCount())
}
