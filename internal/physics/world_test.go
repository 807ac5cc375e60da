package physics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-suika/internal/core"
)

const tick = time.Second / 60

func run(w *World, ticks int) {
	for i := 0; i < ticks; i++ {
		w.Step(tick)
	}
}

func TestCircleFallsAndRestsOnFloor(t *testing.T) {
	w := NewWorld(DefaultOptions())
	w.AddBox(core.V(100, 210), 200, 20, BoxOptions{})
	id := w.AddCircle(core.V(100, 50), 10, CircleOptions{})

	run(w, 180)

	pos, ok := w.Position(id)
	require.True(t, ok)
	assert.InDelta(t, 190, pos.Y, 1.0, "circle should rest on top of the floor")
	assert.InDelta(t, 100, pos.X, 0.01)
}

func TestSleepingBodyStaysPut(t *testing.T) {
	w := NewWorld(DefaultOptions())
	id := w.AddCircle(core.V(100, 50), 10, CircleOptions{Sleeping: true})

	run(w, 60)

	body, ok := w.Body(id)
	require.True(t, ok)
	assert.True(t, body.Sleeping)
	assert.Equal(t, core.V(100, 50), body.Pos)

	w.Wake(id)
	run(w, 10)
	pos, _ := w.Position(id)
	assert.Greater(t, pos.Y, 50.0)
}

func TestSensorReportsButDoesNotCollide(t *testing.T) {
	w := NewWorld(DefaultOptions())
	sensor := w.AddBox(core.V(100, 100), 200, 2, BoxOptions{Sensor: true, Tag: Tag{Kind: 9}})
	id := w.AddCircle(core.V(100, 60), 10, CircleOptions{Tag: Tag{Kind: 1, Value: 3}})

	var events []Collision
	w.OnCollisionStart(func(c Collision) { events = append(events, c) })

	run(w, 60)

	pos, _ := w.Position(id)
	assert.Greater(t, pos.Y, 120.0, "circle should pass through a sensor")
	require.Len(t, events, 1)
	assert.Equal(t, sensor, events[0].A)
	assert.Equal(t, id, events[0].B)
	assert.True(t, events[0].Involves(9))
	assert.Equal(t, 3, events[0].TagB.Value)
}

func TestCollisionStartFiresOncePerContact(t *testing.T) {
	w := NewWorld(DefaultOptions())
	w.AddBox(core.V(100, 210), 200, 20, BoxOptions{})
	a := w.AddCircle(core.V(100, 185), 15, CircleOptions{})
	b := w.AddCircle(core.V(100, 100), 15, CircleOptions{})

	var pairs []Collision
	w.OnCollisionStart(func(c Collision) {
		if c.A == a && c.B == b {
			pairs = append(pairs, c)
		}
	})

	run(w, 240)

	require.Len(t, pairs, 1, "resting contact must not re-fire")
	assert.InDelta(t, 100, pairs[0].Point.X, 1.0)
}

func TestHandlersMayRemoveBodies(t *testing.T) {
	w := NewWorld(DefaultOptions())
	a := w.AddCircle(core.V(100, 100), 10, CircleOptions{Sleeping: true})
	b := w.AddCircle(core.V(100, 70), 10, CircleOptions{})

	w.OnCollisionStart(func(c Collision) {
		w.Remove(c.A, c.B)
		w.AddCircle(c.Point, 15, CircleOptions{})
	})

	run(w, 30)

	assert.False(t, w.Has(a))
	assert.False(t, w.Has(b))
	assert.Equal(t, 1, w.Len())
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	w := NewWorld(DefaultOptions())
	id := w.AddCircle(core.V(0, 0), 5, CircleOptions{})

	w.Remove(BodyID(999))
	assert.Equal(t, 1, w.Len())

	w.Remove(id, id)
	assert.Equal(t, 0, w.Len())
	_, ok := w.Position(id)
	assert.False(t, ok)
}

func TestWallsContainCircle(t *testing.T) {
	w := NewWorld(DefaultOptions())
	w.AddBox(core.V(15, 100), 30, 200, BoxOptions{})
	id := w.AddCircle(core.V(50, 100), 10, CircleOptions{})

	b, _ := w.byID.Get(id)
	b.Vel = core.V(-2000, 0)

	run(w, 30)

	pos, _ := w.Position(id)
	assert.GreaterOrEqual(t, pos.X, 40.0-0.01)
}

func TestIDsAreNotReused(t *testing.T) {
	w := NewWorld(DefaultOptions())
	first := w.AddCircle(core.V(0, 0), 5, CircleOptions{})
	w.Remove(first)
	second := w.AddCircle(core.V(0, 0), 5, CircleOptions{})
	assert.NotEqual(t, first, second)
}
