package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/registry"
	"github.com/vovakirdan/tui-suika/internal/storage"
)

type screenKind int

const (
	screenMenu screenKind = iota
	screenGame
	screenScores
)

// SessionConfig configures a menu session.
type SessionConfig struct {
	Runtime   core.RuntimeConfig
	Game      Options
	TierNames func(gameID string) []string
}

// SessionModel manages the full flow: menu -> game or scoreboard -> menu.
// It is used by the menu command and for every SSH connection.
type SessionModel struct {
	store   *storage.Store
	cfg     SessionConfig
	logger  *log.Logger
	current screenKind
	menu    MenuModel
	game    *Model
	scores  *ScoreboardModel
	quit    bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg SessionConfig) SessionModel {
	logger := cfg.Game.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg.Game.Logger = logger
	cfg.Game.Embedded = true

	return SessionModel{
		store:  store,
		cfg:    cfg,
		logger: logger,
		menu:   NewMenuModel(store, cfg.Runtime),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Runtime.ScreenW = wsm.Width
		m.cfg.Runtime.ScreenH = wsm.Height
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.store, m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH, m.cfg.TierNames)
		m.scores = &sb
		m.current = screenScores
		return m, sb.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		game, err := registry.Create(selected.GameID)
		if err != nil {
			// Menu only lists registered games.
			m.logger.Error("cannot create game", "error", err)
			m.menu = NewMenuModel(m.store, m.cfg.Runtime)
			return m, nil
		}

		model := NewModel(game, m.store, m.cfg.Runtime, m.cfg.Game)
		m.game = &model
		m.current = screenGame
		return m, model.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = &game
	}

	if m.game.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		return m.backToMenu()
	}

	return m, cmd
}

// updateScores handles updates when showing the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scores = &sb
	}

	if m.scores.IsQuitting() {
		m.quit = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.current = screenMenu
	m.game = nil
	m.scores = nil
	// Rebuild to pick up new high scores.
	m.menu = NewMenuModel(m.store, m.cfg.Runtime)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quit {
		return ""
	}

	switch m.current {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	}
	return m.menu.View()
}

// RunSession runs the menu session in the local terminal.
func RunSession(store *storage.Store, cfg SessionConfig, feed FeedOptions) error {
	p := tea.NewProgram(
		NewSessionModel(store, cfg),
		tea.WithAltScreen(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startExpressionFeed(ctx, p, feed, cfg.Game.Logger)

	_, err := p.Run()
	return err
}
