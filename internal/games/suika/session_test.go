package suika

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-suika/internal/config"
	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/physics"
	"github.com/vovakirdan/tui-suika/internal/sched"
)

func testTiers() []Tier {
	return NewTiers(config.ThemeConfig{Tiers: []config.TierConfig{
		{Name: "a", Radius: 10},
		{Name: "b", Radius: 15},
		{Name: "c", Radius: 20},
	}})
}

func testSettings() Settings {
	return Settings{
		SpawnPos:       core.V(300, 50),
		SpawnPool:      5,
		LeftBound:      30,
		RightBound:     590,
		DropDelay:      time.Second,
		MoveInterval:   4 * time.Millisecond,
		KeyStep:        1,
		ExpressionStep: 0.5,
		Restitution:    0.2,
	}
}

type harness struct {
	world     *physics.World
	timers    *sched.Scheduler
	session   *Session
	spawns    int
	merges    []Tier
	gameOvers int
}

func newHarness(t *testing.T, settings Settings) *harness {
	t.Helper()
	h := &harness{
		world:  physics.NewWorld(physics.DefaultOptions()),
		timers: sched.New(),
	}
	h.session = NewSession(h.world, h.timers, testTiers(), settings, FixedPicker(0), Hooks{
		OnSpawn:    func(Tier) { h.spawns++ },
		OnMerge:    func(_, to Tier, _ core.Vec) { h.merges = append(h.merges, to) },
		OnGameOver: func() { h.gameOvers++ },
	})
	h.session.SpawnPiece()
	return h
}

// place adds a resting piece of the given tier.
func (h *harness) place(tier int, pos core.Vec) physics.BodyID {
	tiers := h.session.Tiers()
	return h.world.AddCircle(pos, tiers[tier].Radius, physics.CircleOptions{
		Tag:     physics.Tag{Kind: KindPiece, Value: tier},
		Texture: tiers[tier].Texture,
	})
}

func (h *harness) pieces() []physics.Body {
	var out []physics.Body
	for _, b := range h.world.Bodies() {
		if b.Tag.Kind == KindPiece {
			out = append(out, b)
		}
	}
	return out
}

func collide(a, b physics.BodyID, tierA, tierB int, at core.Vec) physics.Collision {
	return physics.Collision{
		A:     a,
		B:     b,
		TagA:  physics.Tag{Kind: KindPiece, Value: tierA},
		TagB:  physics.Tag{Kind: KindPiece, Value: tierB},
		Point: at,
	}
}

func TestSpawnPiece(t *testing.T) {
	h := newHarness(t, testSettings())

	id, tier, ok := h.session.Active()
	require.True(t, ok)
	assert.Equal(t, 0, tier.Index)
	assert.Equal(t, "00_a", tier.Texture)
	assert.Equal(t, 1, h.spawns)

	b, ok := h.world.Body(id)
	require.True(t, ok)
	assert.True(t, b.Sleeping)
	assert.Equal(t, core.V(300, 50), b.Pos)
	assert.Equal(t, "00_a", b.Texture)
}

func TestSpawnPoolExcludesTopTier(t *testing.T) {
	h := newHarness(t, testSettings())
	seen := make(map[int]bool)
	h.session.pick = func(pool int) int {
		assert.Equal(t, 2, pool, "pool must stop below the last tier")
		return pool - 1
	}
	for i := 0; i < 5; i++ {
		h.session.SpawnPiece()
		_, tier, _ := h.session.Active()
		seen[tier.Index] = true
	}
	assert.Equal(t, map[int]bool{1: true}, seen)
}

func TestMergeChain(t *testing.T) {
	h := newHarness(t, testSettings())
	initial := len(h.pieces())

	// A + A -> B
	a1 := h.place(0, core.V(100, 700))
	a2 := h.place(0, core.V(120, 700))
	h.session.OnCollision(collide(a1, a2, 0, 0, core.V(110, 700)))

	require.Len(t, h.merges, 1)
	assert.Equal(t, "b", h.merges[0].Name)
	assert.False(t, h.world.Has(a1))
	assert.False(t, h.world.Has(a2))

	ps := h.pieces()
	require.Len(t, ps, initial+1)
	b1 := ps[len(ps)-1]
	assert.Equal(t, 1, b1.Tag.Value)
	assert.Equal(t, core.V(110, 700), b1.Pos)
	assert.Equal(t, 15.0, b1.Radius)
	assert.False(t, b1.Sleeping)

	// B + B -> C
	b2 := h.place(1, core.V(140, 700))
	h.session.OnCollision(collide(b1.ID, b2, 1, 1, core.V(125, 700)))

	ps = h.pieces()
	require.Len(t, ps, initial+1)
	c1 := ps[len(ps)-1]
	assert.Equal(t, 2, c1.Tag.Value)
	assert.Equal(t, core.V(125, 700), c1.Pos)

	// C + C -> no change
	c2 := h.place(2, core.V(170, 700))
	before := h.pieces()
	h.session.OnCollision(collide(c1.ID, c2, 2, 2, core.V(150, 700)))
	assert.Equal(t, before, h.pieces())
	assert.Len(t, h.merges, 2)

	st := h.session.Stats()
	assert.Equal(t, 2, st.Merges)
	assert.Equal(t, h.session.Tiers()[1].Score+h.session.Tiers()[2].Score, st.Score)
	assert.Equal(t, 2, st.MaxTier)
}

func TestMergeIgnoresDifferentTiers(t *testing.T) {
	h := newHarness(t, testSettings())
	a := h.place(0, core.V(100, 700))
	b := h.place(1, core.V(120, 700))

	h.session.OnCollision(collide(a, b, 0, 1, core.V(110, 700)))

	assert.True(t, h.world.Has(a))
	assert.True(t, h.world.Has(b))
	assert.Empty(t, h.merges)
}

func TestMergeSkipsConsumedBodies(t *testing.T) {
	h := newHarness(t, testSettings())
	a1 := h.place(0, core.V(100, 700))
	a2 := h.place(0, core.V(120, 700))
	a3 := h.place(0, core.V(140, 700))

	// Both pairs reported in the same step; a2 can only merge once.
	h.session.OnCollision(collide(a1, a2, 0, 0, core.V(110, 700)))
	h.session.OnCollision(collide(a2, a3, 0, 0, core.V(130, 700)))

	assert.Len(t, h.merges, 1)
	assert.True(t, h.world.Has(a3))
}

func TestMergeSkipsActivePiece(t *testing.T) {
	h := newHarness(t, testSettings())
	active, _, _ := h.session.Active()
	a := h.place(0, core.V(300, 80))

	h.session.OnCollision(collide(active, a, 0, 0, core.V(300, 65)))

	assert.Empty(t, h.merges)
	assert.True(t, h.world.Has(active))
}

func TestMoveActiveClampsToBounds(t *testing.T) {
	s := testSettings()
	s.SpawnPos = core.V(40, 50)
	h := newHarness(t, s)
	id, _, _ := h.session.Active()

	h.session.StartMove(DirLeft, 1)
	require.Equal(t, DirLeft, h.session.Moving())
	for i := 0; i < 50; i++ {
		h.timers.Advance(4 * time.Millisecond)
		pos, _ := h.world.Position(id)
		assert.GreaterOrEqual(t, pos.X-10, 30.0)
	}
	pos, _ := h.world.Position(id)
	assert.Equal(t, 40.0, pos.X)

	h.session.StopMove()
	h.session.StartMove(DirRight, 1)
	h.timers.Advance(3 * time.Second)
	pos, _ = h.world.Position(id)
	assert.Equal(t, 580.0, pos.X)
}

func TestMoveActiveSequence(t *testing.T) {
	tests := []struct {
		name  string
		dir   Direction
		steps int
		step  float64
		wantX float64
	}{
		{"left", DirLeft, 10, 1, 290},
		{"right", DirRight, 10, 1, 310},
		{"soft right", DirRight, 10, 0.5, 305},
		{"none", DirNone, 10, 1, 300},
		{"past left edge", DirLeft, 1000, 1, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testSettings())
			id, _, _ := h.session.Active()
			for i := 0; i < tt.steps; i++ {
				h.session.MoveActive(tt.dir, tt.step)
			}
			pos, _ := h.world.Position(id)
			assert.InDelta(t, tt.wantX, pos.X, 1e-9)
		})
	}
}

func TestStartMoveWhileRunningIsNoop(t *testing.T) {
	h := newHarness(t, testSettings())
	id, _, _ := h.session.Active()

	h.session.StartMove(DirLeft, 1)
	h.session.StartMove(DirRight, 1)
	assert.Equal(t, DirLeft, h.session.Moving())

	h.timers.Advance(40 * time.Millisecond)
	pos, _ := h.world.Position(id)
	assert.Equal(t, 290.0, pos.X)
	assert.Equal(t, 1, h.timers.Pending())
}

func TestDropTwiceSpawnsOnce(t *testing.T) {
	h := newHarness(t, testSettings())
	first, _, _ := h.session.Active()

	h.session.DropActive()
	h.session.DropActive()

	assert.True(t, h.session.Locked())
	_, _, ok := h.session.Active()
	assert.False(t, ok)
	b, _ := h.world.Body(first)
	assert.False(t, b.Sleeping)

	h.timers.Advance(999 * time.Millisecond)
	assert.Equal(t, 1, h.spawns)
	assert.True(t, h.session.Locked())

	h.timers.Advance(time.Millisecond)
	assert.Equal(t, 2, h.spawns)
	assert.False(t, h.session.Locked())

	h.timers.Advance(5 * time.Second)
	assert.Equal(t, 2, h.spawns)
	assert.Equal(t, 1, h.session.Stats().Drops)
}

func TestDropStopsMove(t *testing.T) {
	h := newHarness(t, testSettings())
	h.session.StartMove(DirRight, 1)
	h.session.DropActive()
	assert.Equal(t, DirNone, h.session.Moving())

	// Input while locked is ignored.
	h.session.StartMove(DirRight, 1)
	assert.Equal(t, DirNone, h.session.Moving())
}

func topLineHit(piece physics.BodyID) physics.Collision {
	return physics.Collision{
		A:    piece,
		B:    piece + 1,
		TagA: physics.Tag{Kind: KindPiece},
		TagB: physics.Tag{Kind: KindTopLine},
	}
}

func TestGameOverFiresOnce(t *testing.T) {
	h := newHarness(t, testSettings())
	a := h.place(0, core.V(100, 150))

	h.session.OnCollision(topLineHit(a))
	h.session.OnCollision(topLineHit(a))
	h.session.OnCollision(topLineHit(a))

	assert.Equal(t, 1, h.gameOvers)
	assert.True(t, h.session.Terminal())
}

func TestGameOverIgnoredWhileLocked(t *testing.T) {
	h := newHarness(t, testSettings())
	id, _, _ := h.session.Active()
	h.session.DropActive()

	// The falling piece crosses the top line during the drop window.
	h.session.OnCollision(topLineHit(id))
	assert.False(t, h.session.Terminal())

	h.timers.Advance(time.Second)
	h.session.OnCollision(topLineHit(id))
	assert.True(t, h.session.Terminal())
}

func TestGameOverCancelsPendingSpawn(t *testing.T) {
	h := newHarness(t, testSettings())
	h.session.DropActive()
	h.session.locked = false // a top line contact racing the spawn
	h.session.OnCollision(topLineHit(1))
	require.True(t, h.session.Terminal())

	h.timers.Advance(2 * time.Second)
	assert.Equal(t, 1, h.spawns)
	assert.Equal(t, 0, h.timers.Pending())
}

func TestTerminalIgnoresInput(t *testing.T) {
	h := newHarness(t, testSettings())
	h.session.OnCollision(topLineHit(1))
	require.True(t, h.session.Terminal())

	id, _, _ := h.session.Active()
	h.session.OnKey(core.ActionLeft, core.PhasePress)
	h.session.OnExpression("happy")
	h.session.OnKey(core.ActionDrop, core.PhasePress)
	h.timers.Advance(time.Second)

	pos, _ := h.world.Position(id)
	assert.Equal(t, 300.0, pos.X)
	assert.Equal(t, 0, h.session.Stats().Drops)

	a1 := h.place(0, core.V(100, 700))
	a2 := h.place(0, core.V(120, 700))
	h.session.OnCollision(collide(a1, a2, 0, 0, core.V(110, 700)))
	assert.Empty(t, h.merges)
}

func TestOnExpression(t *testing.T) {
	tests := []struct {
		label   string
		wantDir Direction
		wantX   float64
		dropped bool
	}{
		{"happy", DirLeft, 295, false},
		{"surprised", DirRight, 305, false},
		{"angry", DirNone, 300, true},
		{"sad", DirNone, 300, true},
		{"neutral", DirNone, 300, false},
		{"disgusted", DirNone, 300, false},
		{"fearful", DirNone, 300, false},
		{"bored", DirNone, 300, false},
		{"", DirNone, 300, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			h := newHarness(t, testSettings())
			id, _, _ := h.session.Active()

			h.session.OnExpression(tt.label)
			assert.Equal(t, tt.wantDir, h.session.Moving())
			assert.Equal(t, tt.dropped, h.session.Locked())

			h.timers.Advance(40 * time.Millisecond)
			pos, _ := h.world.Position(id)
			assert.InDelta(t, tt.wantX, pos.X, 1e-9)
		})
	}
}

func TestNeutralExpressionStopsMove(t *testing.T) {
	h := newHarness(t, testSettings())
	h.session.OnExpression("happy")
	require.Equal(t, DirLeft, h.session.Moving())

	h.session.OnExpression("neutral")
	assert.Equal(t, DirNone, h.session.Moving())
	assert.Equal(t, 0, h.timers.Pending())
}

func TestExpressionIgnoredWhileLocked(t *testing.T) {
	h := newHarness(t, testSettings())
	h.session.DropActive()

	h.session.OnExpression("angry")
	h.session.OnExpression("happy")

	assert.Equal(t, DirNone, h.session.Moving())
	assert.Equal(t, 1, h.session.Stats().Drops)
}

func TestOnKey(t *testing.T) {
	h := newHarness(t, testSettings())
	id, _, _ := h.session.Active()

	h.session.OnKey(core.ActionRight, core.PhasePress)
	h.timers.Advance(20 * time.Millisecond)
	h.session.OnKey(core.ActionRight, core.PhaseRelease)
	h.timers.Advance(20 * time.Millisecond)

	pos, _ := h.world.Position(id)
	assert.Equal(t, 305.0, pos.X)

	h.session.OnKey(core.ActionDrop, core.PhasePress)
	assert.True(t, h.session.Locked())
}

func TestKeyReleaseWhileLocked(t *testing.T) {
	h := newHarness(t, testSettings())
	h.session.OnKey(core.ActionLeft, core.PhasePress)
	h.session.OnExpression("angry")
	require.True(t, h.session.Locked())

	h.session.OnKey(core.ActionLeft, core.PhaseRelease)
	assert.Equal(t, DirNone, h.session.Moving())
	assert.Equal(t, 1, h.timers.Pending(), "only the spawn timer remains")
}
