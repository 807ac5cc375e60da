package tui

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-suika/internal/config"
	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/games/suika"
	"github.com/vovakirdan/tui-suika/internal/storage"
)

// recordingGame captures every input frame it is stepped with.
type recordingGame struct {
	resets   int
	frames   []core.InputFrame
	state    core.GameState
	stats    core.RunStats
	resized  [2]int
	rendered int
}

func (g *recordingGame) ID() string    { return "recording" }
func (g *recordingGame) Title() string { return "Recording" }

func (g *recordingGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.state = core.GameState{}
}

func (g *recordingGame) Step(in core.InputFrame) core.StepResult {
	cp := in
	cp.Keys = append([]core.KeyEvent(nil), in.Keys...)
	cp.Actions = make(map[core.Action]bool, len(in.Actions))
	for k, v := range in.Actions {
		cp.Actions[k] = v
	}
	g.frames = append(g.frames, cp)
	return core.StepResult{State: g.state}
}

func (g *recordingGame) Render(dst *core.Screen) {
	g.rendered++
	dst.DrawText(0, 0, "recording")
}

func (g *recordingGame) State() core.GameState   { return g.state }
func (g *recordingGame) RunStats() core.RunStats { return g.stats }
func (g *recordingGame) Resize(w, h int)         { g.resized = [2]int{w, h} }

func (g *recordingGame) lastFrame() core.InputFrame {
	return g.frames[len(g.frames)-1]
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestModel(t *testing.T, store *storage.Store, opts Options) (Model, *recordingGame, *fakeClock) {
	t.Helper()
	game := &recordingGame{}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	opts.Now = clock.now
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}, opts)
	return m, game, clock
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModelResetsOnCreate(t *testing.T) {
	_, game, _ := newTestModel(t, nil, Options{})
	assert.Equal(t, 1, game.resets)
}

func TestModelSynthesisesKeyRelease(t *testing.T) {
	m, game, clock := newTestModel(t, nil, Options{ReleaseAfter: 250 * time.Millisecond})

	m, _ = update(t, m, runeKey('a'))
	m, _ = update(t, m, TickMsg(clock.t))
	assert.Equal(t, []core.KeyEvent{{Action: core.ActionLeft, Phase: core.PhasePress}}, game.lastFrame().Keys)

	// Repeat within the window: another press, no release.
	clock.t = clock.t.Add(100 * time.Millisecond)
	m, _ = update(t, m, runeKey('a'))
	m, _ = update(t, m, TickMsg(clock.t))
	assert.Equal(t, []core.KeyEvent{{Action: core.ActionLeft, Phase: core.PhasePress}}, game.lastFrame().Keys)

	clock.t = clock.t.Add(300 * time.Millisecond)
	m, _ = update(t, m, TickMsg(clock.t))
	assert.Equal(t, []core.KeyEvent{{Action: core.ActionLeft, Phase: core.PhaseRelease}}, game.lastFrame().Keys)

	_, _ = update(t, m, TickMsg(clock.t))
	assert.Empty(t, game.lastFrame().Keys)
}

func TestModelDropReleasesHeldKey(t *testing.T) {
	m, game, clock := newTestModel(t, nil, Options{})

	m, _ = update(t, m, runeKey('d'))
	m, _ = update(t, m, runeKey('s'))
	_, _ = update(t, m, TickMsg(clock.t))

	assert.Equal(t, []core.KeyEvent{
		{Action: core.ActionRight, Phase: core.PhasePress},
		{Action: core.ActionRight, Phase: core.PhaseRelease},
		{Action: core.ActionDrop, Phase: core.PhasePress},
	}, game.lastFrame().Keys)
}

func TestModelExpressionFoldedIntoFrame(t *testing.T) {
	m, game, clock := newTestModel(t, nil, Options{})

	m, _ = update(t, m, ExpressionMsg("happy"))
	m, _ = update(t, m, TickMsg(clock.t))
	assert.Equal(t, "happy", game.lastFrame().Expression)

	_, _ = update(t, m, TickMsg(clock.t))
	assert.Empty(t, game.lastFrame().Expression)
}

func TestModelPauseAndRestart(t *testing.T) {
	m, game, clock := newTestModel(t, nil, Options{})

	m, _ = update(t, m, runeKey('p'))
	m, _ = update(t, m, TickMsg(clock.t))
	assert.True(t, game.lastFrame().Has(core.ActionPause))

	// Restart is ignored while playing.
	m, _ = update(t, m, runeKey('r'))
	m, _ = update(t, m, TickMsg(clock.t))
	assert.False(t, game.lastFrame().Has(core.ActionRestart))
	assert.Equal(t, 1, game.resets)

	game.state.GameOver = true
	m, _ = update(t, m, TickMsg(clock.t))
	m, _ = update(t, m, runeKey('r'))
	_, _ = update(t, m, TickMsg(clock.t))
	assert.Equal(t, 2, game.resets)
}

func TestModelSavesRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	m, game, clock := newTestModel(t, store, Options{})
	game.stats = core.RunStats{Merges: 4, Drops: 9, MaxTier: 3}
	game.state = core.GameState{Score: 25, GameOver: true}

	clock.t = clock.t.Add(90 * time.Second)
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, TickMsg(clock.t))
	}

	runs, err := store.TopRuns("recording", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 25, runs[0].Score)
	assert.Equal(t, 4, runs[0].Merges)
	assert.Equal(t, 9, runs[0].Drops)
	assert.Equal(t, 3, runs[0].MaxTier)
	assert.Equal(t, 90*time.Second, runs[0].Duration)

	assert.Contains(t, m.View(), "best 25")
}

func TestModelBack(t *testing.T) {
	m, game, clock := newTestModel(t, nil, Options{Embedded: true})

	// Back does nothing mid-game.
	m, _ = update(t, m, runeKey('b'))
	assert.False(t, m.BackToMenu())

	game.state.GameOver = true
	m, _ = update(t, m, TickMsg(clock.t))
	m, _ = update(t, m, runeKey('b'))
	assert.True(t, m.BackToMenu())
	assert.False(t, m.IsQuitting())

	standalone, sgame, sclock := newTestModel(t, nil, Options{})
	sgame.state.GameOver = true
	standalone, _ = update(t, standalone, TickMsg(sclock.t))
	standalone, cmd := update(t, standalone, runeKey('b'))
	assert.True(t, standalone.IsQuitting())
	require.NotNil(t, cmd)
}

func TestModelResize(t *testing.T) {
	m, game, _ := newTestModel(t, nil, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, [2]int{100, 40 - helpHeight}, game.resized)
	assert.Equal(t, 1, game.resets)

	view := m.View()
	assert.Contains(t, view, "recording")
	assert.Equal(t, 40, strings.Count(view, "\n")+1)
}

func TestModelKeyHeldThroughDropMovesNextPiece(t *testing.T) {
	cfg := config.DefaultSuikaConfig()
	game := suika.NewWithConfig(cfg, suika.ThemeBase)
	game.SetPicker(suika.FixedPicker(0))

	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, Options{Now: clock.now})

	m, _ = update(t, m, runeKey('s'))
	m, _ = update(t, m, TickMsg(clock.t))
	require.True(t, game.Session().Locked())

	// Hold left with a 33 ms auto-repeat through the drop delay and beyond.
	frame := time.Second / 60
	for i := 0; i < 180; i++ {
		clock.t = clock.t.Add(frame)
		if i%2 == 0 {
			m, _ = update(t, m, runeKey('a'))
		}
		m, _ = update(t, m, TickMsg(clock.t))
	}

	require.False(t, game.Session().Locked())
	id, _, ok := game.Session().Active()
	require.True(t, ok)
	pos, ok := game.World().Position(id)
	require.True(t, ok)
	assert.Less(t, pos.X, cfg.Spawn.X, "held key must move the piece spawned after the drop")
	assert.Equal(t, suika.DirLeft, game.Session().Moving())
}

type fallbackGame struct{ recordingGame }

func (g *fallbackGame) ConfigError() error { return errors.New("spawn.pool must be at least 1") }

func TestModelWarnsOnConfigFallback(t *testing.T) {
	var buf bytes.Buffer
	NewModel(&fallbackGame{}, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, Options{Logger: log.New(&buf)})

	assert.Contains(t, buf.String(), "using default game config")
	assert.Contains(t, buf.String(), "spawn.pool must be at least 1")
}
