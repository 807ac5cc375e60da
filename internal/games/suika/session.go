package suika

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/expression"
	"github.com/vovakirdan/tui-suika/internal/physics"
	"github.com/vovakirdan/tui-suika/internal/sched"
)

// Body tag kinds used in the physics world.
const (
	KindPiece   uint8 = 1 // Tag.Value is the tier index
	KindWall    uint8 = 2
	KindTopLine uint8 = 3
)

// World is the part of the physics world the session drives.
type World interface {
	AddCircle(pos core.Vec, radius float64, opts physics.CircleOptions) physics.BodyID
	SetPosition(id physics.BodyID, pos core.Vec)
	Position(id physics.BodyID) (core.Vec, bool)
	Remove(ids ...physics.BodyID)
	Wake(id physics.BodyID)
}

// Timers schedules deferred and repeating callbacks on the simulation thread.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) *sched.Timer
	Every(period time.Duration, fn func()) *sched.Timer
}

// Picker chooses a tier index in [0, pool).
type Picker func(pool int) int

// RandomPicker picks uniformly using rng.
func RandomPicker(rng *rand.Rand) Picker {
	return func(pool int) int {
		return rng.Intn(pool)
	}
}

// FixedPicker always picks the same index. Useful for tests and replays.
func FixedPicker(index int) Picker {
	return func(int) int {
		return index
	}
}

// Direction of continuous horizontal movement.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
)

func (d Direction) sign() float64 {
	switch d {
	case DirLeft:
		return -1
	case DirRight:
		return 1
	}
	return 0
}

// Settings holds the rules the session enforces.
type Settings struct {
	SpawnPos       core.Vec
	SpawnPool      int
	LeftBound      float64
	RightBound     float64
	DropDelay      time.Duration
	MoveInterval   time.Duration
	KeyStep        float64
	ExpressionStep float64
	Restitution    float64
}

// Hooks are optional notifications for the presentation layer.
type Hooks struct {
	OnSpawn    func(tier Tier)
	OnMerge    func(from, to Tier, at core.Vec)
	OnGameOver func()
}

// Stats summarises a session.
type Stats struct {
	Score   int
	Merges  int
	Drops   int
	MaxTier int
}

// Session is the game session controller. It owns the tier table and all
// mutable session state; the physics world owns the bodies.
//
// All methods must be called from a single goroutine.
type Session struct {
	world    World
	timers   Timers
	tiers    []Tier
	settings Settings
	pick     Picker
	hooks    Hooks

	active     physics.BodyID // zero when there is no pending piece
	activeTier int
	locked     bool
	terminal   bool
	moveDir    Direction
	moveTimer  *sched.Timer
	spawnTimer *sched.Timer

	stats Stats
}

// NewSession creates a session. tiers must not be empty.
func NewSession(world World, timers Timers, tiers []Tier, settings Settings, pick Picker, hooks Hooks) *Session {
	return &Session{
		world:    world,
		timers:   timers,
		tiers:    tiers,
		settings: settings,
		pick:     pick,
		hooks:    hooks,
		stats:    Stats{MaxTier: -1},
	}
}

// Tiers returns the tier table.
func (s *Session) Tiers() []Tier {
	return s.tiers
}

// Active returns the pending piece and its tier, if any.
func (s *Session) Active() (physics.BodyID, Tier, bool) {
	if s.active == 0 {
		return 0, Tier{}, false
	}
	return s.active, s.tiers[s.activeTier], true
}

// Locked reports whether a drop is in progress.
func (s *Session) Locked() bool {
	return s.locked
}

// Terminal reports whether the game is over.
func (s *Session) Terminal() bool {
	return s.terminal
}

// Moving returns the current continuous-move direction.
func (s *Session) Moving() Direction {
	return s.moveDir
}

// Stats returns the running totals.
func (s *Session) Stats() Stats {
	return s.stats
}

// spawnPool is the number of tiers eligible for spawning. The top tier is
// never spawned unless it is the only one.
func (s *Session) spawnPool() int {
	pool := s.settings.SpawnPool
	if limit := len(s.tiers) - 1; pool > limit {
		pool = limit
	}
	if pool < 1 {
		pool = 1
	}
	return pool
}

// SpawnPiece creates a new pending piece at the spawn point.
func (s *Session) SpawnPiece() {
	if s.terminal {
		return
	}

	pool := s.spawnPool()
	index := core.Clamp(s.pick(pool), 0, pool-1)
	tier := s.tiers[index]

	s.active = s.world.AddCircle(s.settings.SpawnPos, tier.Radius, physics.CircleOptions{
		Tag:         physics.Tag{Kind: KindPiece, Value: index},
		Restitution: s.settings.Restitution,
		Sleeping:    true,
		Texture:     tier.Texture,
	})
	s.activeTier = index
	s.noteTier(index)

	if s.hooks.OnSpawn != nil {
		s.hooks.OnSpawn(tier)
	}
}

// MoveActive displaces the pending piece once, keeping its edge inside the
// container bounds.
func (s *Session) MoveActive(dir Direction, step float64) {
	if s.terminal || s.locked || s.active == 0 {
		return
	}
	pos, ok := s.world.Position(s.active)
	if !ok {
		return
	}

	r := s.tiers[s.activeTier].Radius
	x := pos.X + dir.sign()*step
	x = core.ClampF(x, s.settings.LeftBound+r, s.settings.RightBound-r)
	if x == pos.X {
		return
	}
	s.world.SetPosition(s.active, core.V(x, pos.Y))
}

// StartMove begins continuous movement. It does nothing while another move
// is running; the running move must be stopped first.
func (s *Session) StartMove(dir Direction, step float64) {
	if s.terminal || s.locked || s.active == 0 || dir == DirNone {
		return
	}
	if s.moveTimer.Active() {
		return
	}

	s.moveDir = dir
	s.moveTimer = s.timers.Every(s.settings.MoveInterval, func() {
		s.MoveActive(dir, step)
	})
}

// StopMove cancels continuous movement.
func (s *Session) StopMove() {
	s.moveTimer.Stop()
	s.moveTimer = nil
	s.moveDir = DirNone
}

// DropActive releases the pending piece and schedules the next spawn.
func (s *Session) DropActive() {
	if s.terminal || s.locked || s.active == 0 {
		return
	}

	s.StopMove()
	s.world.Wake(s.active)
	s.active = 0
	s.locked = true
	s.stats.Drops++

	s.spawnTimer = s.timers.AfterFunc(s.settings.DropDelay, func() {
		s.spawnTimer = nil
		if s.terminal {
			return
		}
		s.SpawnPiece()
		s.locked = false
	})
}

// OnCollision applies the merge and game over rules to a collision-start pair.
func (s *Session) OnCollision(c physics.Collision) {
	if s.terminal {
		return
	}

	if c.TagA.Kind == KindPiece && c.TagB.Kind == KindPiece {
		if c.TagA.Value == c.TagB.Value {
			s.merge(c)
		}
		return
	}

	if c.Involves(KindTopLine) && !s.locked {
		s.gameOver()
	}
}

func (s *Session) merge(c physics.Collision) {
	index := c.TagA.Value
	if index < 0 || index >= len(s.tiers)-1 {
		return
	}
	// The pending piece is out of play until dropped.
	if c.A == s.active || c.B == s.active {
		return
	}
	// Either body may already have merged with a third one this step.
	if _, ok := s.world.Position(c.A); !ok {
		return
	}
	if _, ok := s.world.Position(c.B); !ok {
		return
	}

	from, to := s.tiers[index], s.tiers[index+1]
	s.world.Remove(c.A, c.B)
	s.world.AddCircle(c.Point, to.Radius, physics.CircleOptions{
		Tag:     physics.Tag{Kind: KindPiece, Value: to.Index},
		Texture: to.Texture,
	})

	s.stats.Merges++
	s.stats.Score += to.Score
	s.noteTier(to.Index)

	if s.hooks.OnMerge != nil {
		s.hooks.OnMerge(from, to, c.Point)
	}
}

func (s *Session) gameOver() {
	s.terminal = true
	s.StopMove()
	s.spawnTimer.Stop()
	s.spawnTimer = nil

	if s.hooks.OnGameOver != nil {
		s.hooks.OnGameOver()
	}
}

// OnExpression maps a classifier label to an intent.
func (s *Session) OnExpression(label string) {
	if s.terminal || s.locked {
		return
	}

	switch expression.Normalize(label) {
	case expression.Happy:
		s.StartMove(DirLeft, s.settings.ExpressionStep)
	case expression.Surprised:
		s.StartMove(DirRight, s.settings.ExpressionStep)
	case expression.Angry, expression.Sad:
		s.DropActive()
	default:
		s.StopMove()
	}
}

// OnKey handles a key edge. Releases always stop movement; presses are
// ignored while a drop is in progress.
func (s *Session) OnKey(action core.Action, phase core.Phase) {
	if phase == core.PhaseRelease {
		if action == core.ActionLeft || action == core.ActionRight {
			s.StopMove()
		}
		return
	}
	if s.terminal || s.locked {
		return
	}

	switch action {
	case core.ActionLeft:
		s.StartMove(DirLeft, s.settings.KeyStep)
	case core.ActionRight:
		s.StartMove(DirRight, s.settings.KeyStep)
	case core.ActionDrop:
		s.DropActive()
	}
}

func (s *Session) noteTier(index int) {
	if index > s.stats.MaxTier {
		s.stats.MaxTier = index
	}
}
