package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-suika/internal/core"
)

// DefaultReleaseAfter is how long a movement key may go without a repeat
// before it counts as released.
const DefaultReleaseAfter = 250 * time.Millisecond

// GameKeyMap defines the in-game key bindings.
type GameKeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Drop       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Drop, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Drop},
		{k.Pause, k.Restart, k.Back, k.Screenshot, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/→", "right"),
		),
		Drop: key.NewBinding(
			key.WithKeys("s", "down", " "),
			key.WithHelp("s/↓/space", "drop"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
	}
}

// MapKey translates a key message to a game action.
func (k GameKeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Drop):
		return core.ActionDrop
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Back):
		return core.ActionBack
	}
	return core.ActionNone
}

// HoldTracker turns the key-down stream of a terminal into press and release
// edges. Terminals report auto-repeat presses but never key-up, so a held
// key is considered released once it stops repeating for ReleaseAfter, or
// as soon as another movement key is pressed.
type HoldTracker struct {
	ReleaseAfter time.Duration

	held     core.Action
	lastSeen time.Time
}

// NewHoldTracker creates a tracker. A non-positive releaseAfter uses
// DefaultReleaseAfter.
func NewHoldTracker(releaseAfter time.Duration) HoldTracker {
	if releaseAfter <= 0 {
		releaseAfter = DefaultReleaseAfter
	}
	return HoldTracker{ReleaseAfter: releaseAfter}
}

// Held returns the movement action currently held, or ActionNone.
func (h *HoldTracker) Held() core.Action {
	return h.held
}

// Press records a movement key-down at now and returns the resulting edges.
// Repeats of the held key only refresh the timer.
func (h *HoldTracker) Press(a core.Action, now time.Time) []core.KeyEvent {
	if a == h.held {
		// Repeats re-send the press so a key held through a drop starts
		// moving the next piece once input unlocks.
		h.lastSeen = now
		return []core.KeyEvent{{Action: a, Phase: core.PhasePress}}
	}

	var events []core.KeyEvent
	if h.held != core.ActionNone {
		events = append(events, core.KeyEvent{Action: h.held, Phase: core.PhaseRelease})
	}
	h.held = a
	h.lastSeen = now
	return append(events, core.KeyEvent{Action: a, Phase: core.PhasePress})
}

// Expire returns a release edge if the held key has timed out by now.
func (h *HoldTracker) Expire(now time.Time) []core.KeyEvent {
	if h.held == core.ActionNone || now.Sub(h.lastSeen) < h.ReleaseAfter {
		return nil
	}
	return h.Release()
}

// Release drops the held key immediately.
func (h *HoldTracker) Release() []core.KeyEvent {
	if h.held == core.ActionNone {
		return nil
	}
	ev := core.KeyEvent{Action: h.held, Phase: core.PhaseRelease}
	h.held = core.ActionNone
	return []core.KeyEvent{ev}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionScoreboard
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScoreboard
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
