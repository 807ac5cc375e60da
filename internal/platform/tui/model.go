package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/expression"
	"github.com/vovakirdan/tui-suika/internal/registry"
	"github.com/vovakirdan/tui-suika/internal/storage"
)

// helpHeight is the number of rows reserved under the game for key help.
const helpHeight = 1

// runReporter is implemented by games that expose end-of-run totals.
type runReporter interface {
	RunStats() core.RunStats
}

// resizable is implemented by games that can relayout without a reset.
type resizable interface {
	Resize(w, h int)
}

// configReporter is implemented by games that fall back to built-in settings
// when their config file cannot be loaded.
type configReporter interface {
	ConfigError() error
}

// Options tunes a game Model.
type Options struct {
	// Logger receives session events. Nil discards them.
	Logger *log.Logger

	// ReleaseAfter is the synthetic key-up timeout for held movement keys.
	ReleaseAfter time.Duration

	// Embedded marks a model running inside a menu session: back returns to
	// the menu instead of quitting.
	Embedded bool

	// Now overrides the clock used for key hold tracking.
	Now func() time.Time
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	fixedSeed  bool
	keys       GameKeyMap
	help       help.Model
	hold       HoldTracker
	frame      core.InputFrame
	gameState  core.GameState
	now        func() time.Time
	startedAt  time.Time
	highScore  int
	embedded   bool
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the run has been saved for the current game over
}

// NewModel creates a new Bubble Tea model for the given game and resets it.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	fixedSeed := cfg.Seed != 0
	if !fixedSeed {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		game:      game,
		store:     store,
		logger:    logger.With("game", game.ID()),
		config:    cfg,
		fixedSeed: fixedSeed,
		keys:      DefaultGameKeyMap(),
		help:      help.New(),
		hold:      NewHoldTracker(opts.ReleaseAfter),
		frame:     core.NewInputFrame(),
		now:       now,
		embedded:  opts.Embedded,
	}
	m.help.Width = cfg.ScreenW
	m.screen = core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH))
	m.loadHighScore()
	m.reset()
	return m
}

func gameHeight(h int) int {
	return max(h-helpHeight, 0)
}

func (m *Model) reset() {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	m.game.Reset(cfg)
	if cr, ok := m.game.(configReporter); ok && cr.ConfigError() != nil {
		m.logger.Warn("using default game config", "error", cr.ConfigError())
	}
	m.gameState = m.game.State()
	m.startedAt = m.now()
	m.scoreSaved = false
	m.hold.Release()
	m.frame.Clear()
	m.logger.Info("run started", "seed", m.config.Seed)
}

func (m *Model) loadHighScore() {
	if m.store == nil {
		return
	}
	high, err := m.store.HighScore(m.game.ID())
	if err != nil {
		m.logger.Warn("could not load high score", "error", err)
		return
	}
	m.highScore = high
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case ExpressionMsg:
		m.frame.Expression = string(msg)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if !m.gameState.GameOver && !m.gameState.Paused {
			return m, nil
		}
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case core.ActionLeft, core.ActionRight:
		m.frame.Keys = append(m.frame.Keys, m.hold.Press(action, m.now())...)

	case core.ActionDrop:
		m.frame.Keys = append(m.frame.Keys, m.hold.Release()...)
		m.frame.Press(core.ActionDrop)

	case core.ActionPause:
		m.frame.Set(core.ActionPause)

	case core.ActionRestart:
		if m.gameState.GameOver {
			m.frame.Set(core.ActionRestart)
		}
	}

	return m, nil
}

// handleResize relayouts the game for the new window size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width

	if r, ok := m.game.(resizable); ok {
		r.Resize(msg.Width, gameHeight(msg.Height))
	} else if !m.gameState.GameOver {
		m.reset()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.frame.Keys = append(m.frame.Keys, m.hold.Expire(m.now())...)

	if m.frame.Has(core.ActionRestart) && m.gameState.GameOver {
		if !m.fixedSeed {
			m.config.Seed = time.Now().UnixNano()
		}
		m.reset()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.frame)
	m.gameState = result.State
	for _, ev := range result.Events {
		m.logger.Debug("event", "name", ev, "score", result.State.Score)
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveRun()
		m.scoreSaved = true
	}

	m.frame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun records the finished run. Best effort: failures are only logged.
func (m *Model) saveRun() {
	run := storage.Run{
		GameID:   m.game.ID(),
		Score:    m.gameState.Score,
		MaxTier:  -1,
		Duration: m.now().Sub(m.startedAt),
	}
	if r, ok := m.game.(runReporter); ok {
		st := r.RunStats()
		run.Merges, run.Drops, run.MaxTier = st.Merges, st.Drops, st.MaxTier
	}
	m.logger.Info("game over", "score", run.Score, "merges", run.Merges, "drops", run.Drops, "duration", run.Duration)

	if run.Score > m.highScore {
		m.highScore = run.Score
	}
	if m.store == nil || run.Score <= 0 {
		return
	}
	if _, err := m.store.SaveRun(run); err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

// saveScreenshot writes the current screen as plain text.
func (m *Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("tui: cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".suika", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create %s: %w", dir, err)
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteByte('\n')

	line := m.help.View(m.keys)
	if m.highScore > 0 {
		line = fmt.Sprintf("best %d · %s", m.highScore, line)
	}
	b.WriteString(helpStyle.Render(line))
	return b.String()
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// FeedOptions configures the expression feed.
type FeedOptions struct {
	// Addr starts the websocket feed on this address when non-empty.
	Addr string

	// Cadence is the label sampling period.
	Cadence time.Duration
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options, feed FeedOptions) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startExpressionFeed(ctx, p, feed, opts.Logger)

	_, err := p.Run()
	return err
}

// startExpressionFeed forwards sampled classifier labels into the program.
func startExpressionFeed(ctx context.Context, p *tea.Program, feed FeedOptions, logger *log.Logger) {
	if feed.Addr == "" {
		return
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	srv := expression.NewServer(expression.ServerConfig{
		Address:        feed.Addr,
		Cadence:        feed.Cadence,
		AllowAnyOrigin: true,
	}, logger.WithPrefix("expression"))

	go func() {
		err := srv.Run(ctx, func(label string) {
			p.Send(ExpressionMsg(label))
		})
		if err != nil {
			logger.Error("expression feed stopped", "error", err)
		}
	}()
}
