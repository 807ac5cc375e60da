// Package suika implements the fruit merge game: pieces are dropped into a
// container, equal tiers merge into the next tier on contact, and the game
// ends when a piece touches the top line.
package suika

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-suika/internal/config"
	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/physics"
	"github.com/vovakirdan/tui-suika/internal/registry"
	"github.com/vovakirdan/tui-suika/internal/sched"
)

// Theme names shipped in the default configuration.
const (
	ThemeBase      = "base"
	ThemeHalloween = "halloween"
)

// Game IDs as registered with the platform.
const (
	IDBase      = "suika"
	IDHalloween = "suika_halloween"
)

// Step events reported in core.StepResult.
const (
	EventSpawn    = "spawn"
	EventMerge    = "merge"
	EventGameOver = "game_over"
)

// Minimum screen size for a playable layout.
const (
	minScreenW = 30
	minScreenH = 16
)

// IDForTheme maps a theme name to its game ID. Unknown themes return "".
func IDForTheme(theme string) string {
	switch theme {
	case ThemeBase, "":
		return IDBase
	case ThemeHalloween:
		return IDHalloween
	}
	return ""
}

// ThemeForID maps a game ID back to its theme name.
func ThemeForID(id string) string {
	if id == IDHalloween {
		return ThemeHalloween
	}
	return ThemeBase
}

// Package-level variables for config
var (
	configPath string
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// Game adapts a Session to the registry.Game interface.
type Game struct {
	id    string
	title string
	theme string

	cfg       config.SuikaConfig
	cfgErr    error
	rng       *rand.Rand
	tick      uint64
	tickDur   time.Duration
	picker    Picker
	world     *physics.World
	timers    *sched.Scheduler
	session   *Session
	tiers     []Tier
	events    []string
	lastSpawn Tier

	screenW  int
	screenH  int
	paused   bool
	tooSmall bool
}

// New creates a game using the base theme.
func New() *Game {
	return &Game{id: IDBase, title: "Suika", theme: ThemeBase}
}

// NewHalloween creates a game using the halloween theme.
func NewHalloween() *Game {
	return &Game{id: IDHalloween, title: "Suika (Halloween)", theme: ThemeHalloween}
}

// NewWithConfig creates a game with an explicit configuration and theme,
// bypassing the config search path.
func NewWithConfig(cfg config.SuikaConfig, theme string) *Game {
	id := IDForTheme(theme)
	if id == "" {
		id = IDBase
	}
	g := &Game{id: id, title: "Suika", theme: theme, cfg: cfg}
	if t, ok := cfg.Theme(theme); ok && t.Title != "" {
		g.title = t.Title
	}
	return g
}

// SetPicker overrides random tier selection, e.g. for deterministic tests.
// Takes effect on the next Reset.
func (g *Game) SetPicker(p Picker) {
	g.picker = p
}

func init() {
	registry.Register(IDBase, func() registry.Game {
		return New()
	})
	registry.Register(IDHalloween, func() registry.Game {
		return NewHalloween()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	if g.cfg.Themes == nil {
		cfg, err := config.LoadSuika(configPath)
		if err != nil {
			cfg = config.DefaultSuikaConfig()
		}
		g.cfg, g.cfgErr = cfg, err
	}

	theme, ok := g.cfg.Theme(g.theme)
	if !ok || len(theme.Tiers) == 0 {
		theme, _ = config.DefaultSuikaConfig().Theme(ThemeBase)
	}
	g.tiers = NewTiers(theme)

	tickRate := rc.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	g.tickDur = time.Second / time.Duration(tickRate)
	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.tick = 0
	g.events = nil
	g.paused = false
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH

	pc := g.cfg.Physics
	g.world = physics.NewWorld(physics.Options{
		Gravity:     pc.Gravity,
		Substeps:    pc.Substeps,
		Iterations:  pc.Iterations,
		AirFriction: pc.AirFriction,
		Slop:        physics.DefaultOptions().Slop,
	})
	g.timers = sched.New()
	g.buildContainer()

	picker := g.picker
	if picker == nil {
		picker = RandomPicker(g.rng)
	}

	g.session = NewSession(g.world, g.timers, g.tiers, g.settings(), picker, Hooks{
		OnSpawn: func(t Tier) {
			g.lastSpawn = t
			g.events = append(g.events, EventSpawn)
		},
		OnMerge: func(_, to Tier, _ core.Vec) {
			g.events = append(g.events, fmt.Sprintf("%s:%s", EventMerge, to.Name))
		},
		OnGameOver: func() {
			g.events = append(g.events, EventGameOver)
		},
	})
	g.world.OnCollisionStart(g.session.OnCollision)
	g.session.SpawnPiece()
	g.events = nil
}

func (g *Game) settings() Settings {
	c := g.cfg
	return Settings{
		SpawnPos:       core.V(c.Spawn.X, c.Spawn.Y),
		SpawnPool:      c.Spawn.Pool,
		LeftBound:      c.Container.LeftBound,
		RightBound:     c.Container.RightBound,
		DropDelay:      time.Duration(c.Timing.DropDelayMs) * time.Millisecond,
		MoveInterval:   time.Duration(c.Timing.MoveIntervalMs) * time.Millisecond,
		KeyStep:        c.Controls.KeyStep,
		ExpressionStep: c.Controls.ExpressionStep,
		Restitution:    c.Physics.Restitution,
	}
}

// buildContainer adds the walls, floor and top line sensor.
func (g *Game) buildContainer() {
	ct := g.cfg.Container
	wall := physics.BoxOptions{Tag: physics.Tag{Kind: KindWall}}

	g.world.AddBox(core.V(ct.LeftBound/2, ct.FloorY/2), ct.LeftBound, ct.FloorY, wall)
	g.world.AddBox(core.V((ct.RightBound+ct.Width)/2, ct.FloorY/2), ct.Width-ct.RightBound, ct.FloorY, wall)
	g.world.AddBox(core.V(ct.Width/2, (ct.FloorY+ct.Height)/2), ct.Width, ct.Height-ct.FloorY, wall)
	g.world.AddBox(core.V(ct.Width/2, ct.TopLineY), ct.Width, 2, physics.BoxOptions{
		Tag:    physics.Tag{Kind: KindTopLine},
		Sensor: true,
	})
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.events = nil

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.session.Terminal() {
		g.paused = !g.paused
		if g.paused {
			g.session.StopMove()
		}
	}
	if g.paused || g.session.Terminal() {
		return core.StepResult{State: g.State()}
	}

	for _, k := range in.Keys {
		g.session.OnKey(k.Action, k.Phase)
	}
	if in.Expression != "" {
		g.session.OnExpression(in.Expression)
	}

	g.timers.Advance(g.tickDur)
	g.world.Step(g.tickDur)

	return core.StepResult{State: g.State(), Events: g.events}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{Paused: g.paused}
	if g.session != nil {
		st.Score = g.session.Stats().Score
		st.GameOver = g.session.Terminal()
	}
	return st
}

// Session exposes the controller, mainly for tests and tooling.
func (g *Game) Session() *Session {
	return g.session
}

// World exposes the physics world.
func (g *Game) World() *physics.World {
	return g.world
}

// Tiers returns the active tier table.
func (g *Game) Tiers() []Tier {
	return g.tiers
}

// Config returns the configuration the game was reset with.
func (g *Game) Config() config.SuikaConfig {
	return g.cfg
}

// ConfigError returns the error that made Reset fall back to the built-in
// configuration, or nil.
func (g *Game) ConfigError() error {
	return g.cfgErr
}

// RunStats reports totals for the score store.
func (g *Game) RunStats() core.RunStats {
	if g.session == nil {
		return core.RunStats{MaxTier: -1}
	}
	st := g.session.Stats()
	return core.RunStats{Merges: st.Merges, Drops: st.Drops, MaxTier: st.MaxTier}
}

// Resize adapts the layout to a new screen size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}
