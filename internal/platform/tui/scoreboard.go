package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-suika/internal/registry"
	"github.com/vovakirdan/tui-suika/internal/storage"
)

const (
	minWidthForPanel = 80
	panelWidth       = 26
	maxRuns          = 100
)

var (
	sbBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	sbTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	sbActive   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	sbInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sbLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sbEmpty    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next theme")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev theme")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the best runs of each registered theme together with
// aggregate stats.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      *storage.Store
	runs       []storage.Run
	stats      *storage.GameStats
	tierNames  func(gameID string) []string
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
	standalone bool // quit the program on back
}

// NewScoreboardModel creates a scoreboard. tierNames, if set, maps a game to
// its tier names for the best fruit column.
func NewScoreboardModel(store *storage.Store, width, height int, tierNames func(gameID string) []string) ScoreboardModel {
	m := ScoreboardModel{
		games:     registry.List(),
		store:     store,
		tierNames: tierNames,
		keys:      DefaultScoreboardKeyMap(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m *ScoreboardModel) wide() bool {
	return m.width >= minWidthForPanel
}

func (m *ScoreboardModel) newTable() table.Model {
	best := 12
	if m.wide() {
		// Give the spare width to the fruit name.
		spare := m.width - panelWidth - 6 - 50
		best = min(max(best+spare, 12), 16)
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 7},
			{Title: "Merges", Width: 6},
			{Title: "Best", Width: best},
			{Title: "Time", Width: 6},
			{Title: "Date", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *ScoreboardModel) currentGameID() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

// load fetches runs and stats of the selected theme.
func (m *ScoreboardModel) load() {
	m.runs, m.stats = nil, nil
	id := m.currentGameID()
	if m.store != nil && id != "" {
		if runs, err := m.store.TopRuns(id, maxRuns); err == nil {
			m.runs = runs
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
	}
	m.fillRows()
}

func (m *ScoreboardModel) fillRows() {
	id := m.currentGameID()
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Merges),
			m.tierName(id, r.MaxTier),
			formatDuration(r.Duration),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) tierName(gameID string, tier int) string {
	if tier < 0 {
		return "-"
	}
	if m.tierNames != nil {
		if names := m.tierNames(gameID); tier < len(names) {
			return names[tier]
		}
	}
	return fmt.Sprintf("tier %d", tier+1)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (m *ScoreboardModel) cycle(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.gameCursor = (m.gameCursor + delta + len(m.games)) % len(m.games)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(msg, m.keys.NextGame):
			m.cycle(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.cycle(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = m.newTable()
		m.fillRows()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "BEST RUNS"
	if len(m.games) > 0 {
		title += " - " + m.games[m.gameCursor].Title
	}

	var body string
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			sbBorder.Width(panelWidth).Render(m.renderPanel()), "  ",
			sbBorder.Render(m.renderRuns()))
	} else {
		body = lipgloss.JoinVertical(lipgloss.Center,
			m.renderTabs(), "", sbBorder.Render(m.renderRuns()))
	}

	var b strings.Builder
	b.WriteString(sbTitle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(sbInactive.Render(m.help.View(m.keys)))
	return b.String()
}

// renderPanel lists the themes and the selected theme's totals.
func (m ScoreboardModel) renderPanel() string {
	var b strings.Builder
	b.WriteString("Themes\n")
	for i, g := range m.games {
		if i == m.gameCursor {
			b.WriteString(sbActive.Render("> " + g.Title))
		} else {
			b.WriteString(sbInactive.Render("  " + g.Title))
		}
		b.WriteString("\n")
	}

	if m.stats == nil || m.stats.GamesCount == 0 {
		return b.String()
	}

	id := m.currentGameID()
	b.WriteString("\n")
	line := func(label, value string) {
		b.WriteString(sbLabel.Render(fmt.Sprintf("%-8s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	line("Runs", fmt.Sprintf("%d", m.stats.GamesCount))
	line("Best", fmt.Sprintf("%d", m.stats.HighScore))
	line("Average", fmt.Sprintf("%.0f", m.stats.AvgScore))
	line("Merges", fmt.Sprintf("%d", m.stats.TotalMerges))
	line("Fruit", m.tierName(id, m.stats.BestTier))
	if !m.stats.LastPlayed.IsZero() {
		line("Last", m.stats.LastPlayed.Local().Format("Jan 02"))
	}
	return b.String()
}

// renderTabs is the narrow replacement for the panel.
func (m ScoreboardModel) renderTabs() string {
	if len(m.games) == 0 {
		return ""
	}
	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.gameCursor {
			tabs[i] = sbActive.Render("[" + g.Title + "]")
		} else {
			tabs[i] = sbInactive.Render(" " + g.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.games[m.gameCursor].Title)
	}
	return line
}

func (m ScoreboardModel) renderRuns() string {
	if len(m.runs) == 0 {
		return sbEmpty.Render("No runs recorded yet.\nFinish a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack reports whether the user asked to return to the menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard as its own program.
// It returns true if the user went back rather than quitting.
func RunScoreboard(store *storage.Store, width, height int, tierNames func(gameID string) []string) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height, tierNames)
	model.standalone = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
