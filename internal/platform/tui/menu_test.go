package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-suika/internal/core"
)

func newTestMenu() MenuModel {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24})
	m.items = []MenuItem{
		{GameID: "suika", Title: "Suika", HighScore: 42},
		{GameID: "suika_halloween", Title: "Suika Halloween"},
	}
	return m
}

func sendMenuKey(m MenuModel, msg tea.KeyMsg) (MenuModel, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(MenuModel), cmd
}

func TestMenuNavigationAndSelect(t *testing.T) {
	m := newTestMenu()

	m, _ = sendMenuKey(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor, "cursor stays at top")

	m, _ = sendMenuKey(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = sendMenuKey(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor, "cursor stays at bottom")

	m, cmd := sendMenuKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "select leaves quitting to the session")
	require.NotNil(t, m.Selected())
	assert.Equal(t, "suika_halloween", m.Selected().GameID)
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := newTestMenu()

	m, _ = sendMenuKey(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.WantsScoreboard())

	m, cmd := sendMenuKey(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, m.IsQuitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestMenuViewShowsBest(t *testing.T) {
	m := newTestMenu()
	view := m.View()
	assert.Contains(t, view, "S U I K A")
	assert.Contains(t, view, "> Suika  (best 42)")
	assert.Contains(t, view, "Suika Halloween")
}

func TestMenuResizeUpdatesConfig(t *testing.T) {
	m := newTestMenu()
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = model.(MenuModel)
	assert.Equal(t, 120, m.Config().ScreenW)
	assert.Equal(t, 40, m.Config().ScreenH)
}
