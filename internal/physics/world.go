package physics

import (
	"math"
	"time"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/tui-suika/internal/core"
)

// Options tunes the simulation.
type Options struct {
	Gravity     float64 // downward acceleration, world units per second squared
	Substeps    int     // integration substeps per Step
	Iterations  int     // constraint iterations per substep
	AirFriction float64 // fraction of velocity lost per second
	Slop        float64 // distance at which touching bodies still count as in contact
}

// DefaultOptions returns settings that keep a container of fruit stable at 60Hz.
func DefaultOptions() Options {
	return Options{
		Gravity:     1000,
		Substeps:    4,
		Iterations:  4,
		AirFriction: 0.6,
		Slop:        0.5,
	}
}

// World holds bodies and advances the simulation.
// It is not safe for concurrent use.
type World struct {
	opts Options

	nextID BodyID
	bodies []*Body
	byID   *intmap.Map[BodyID, *Body]

	contacts *intmap.Map[uint64, struct{}]
	handlers []func(Collision)
}

// NewWorld creates an empty world.
func NewWorld(opts Options) *World {
	if opts.Substeps < 1 {
		opts.Substeps = 1
	}
	if opts.Iterations < 1 {
		opts.Iterations = 1
	}
	return &World{
		opts:     opts,
		byID:     intmap.New[BodyID, *Body](64),
		contacts: intmap.New[uint64, struct{}](64),
	}
}

// AddCircle inserts a dynamic circle body and returns its ID.
func (w *World) AddCircle(pos core.Vec, radius float64, opts CircleOptions) BodyID {
	return w.insert(&Body{
		Shape:       ShapeCircle,
		Tag:         opts.Tag,
		Pos:         pos,
		Radius:      radius,
		Restitution: opts.Restitution,
		Texture:     opts.Texture,
		Sleeping:    opts.Sleeping,
	})
}

// AddBox inserts a static axis-aligned box centered at center.
func (w *World) AddBox(center core.Vec, width, height float64, opts BoxOptions) BodyID {
	return w.insert(&Body{
		Shape:  ShapeBox,
		Tag:    opts.Tag,
		Pos:    center,
		HalfW:  width / 2,
		HalfH:  height / 2,
		Static: true,
		Sensor: opts.Sensor,
	})
}

func (w *World) insert(b *Body) BodyID {
	w.nextID++
	b.ID = w.nextID
	w.bodies = append(w.bodies, b)
	w.byID.Put(b.ID, b)
	return b.ID
}

// Remove deletes bodies from the world. Unknown IDs are ignored.
func (w *World) Remove(ids ...BodyID) {
	removed := 0
	for _, id := range ids {
		if w.byID.Del(id) {
			removed++
		}
	}
	if removed == 0 {
		return
	}

	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if w.byID.Has(b.ID) {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = kept
}

// Has reports whether the body exists.
func (w *World) Has(id BodyID) bool {
	return w.byID.Has(id)
}

// Body returns a copy of the body's state.
func (w *World) Body(id BodyID) (Body, bool) {
	b, ok := w.byID.Get(id)
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Position returns the body's position.
func (w *World) Position(id BodyID) (core.Vec, bool) {
	b, ok := w.byID.Get(id)
	if !ok {
		return core.Vec{}, false
	}
	return b.Pos, true
}

// SetPosition teleports a body. Velocity is left unchanged.
func (w *World) SetPosition(id BodyID, pos core.Vec) {
	if b, ok := w.byID.Get(id); ok {
		b.Pos = pos
	}
}

// Wake lets a sleeping body start moving.
func (w *World) Wake(id BodyID) {
	if b, ok := w.byID.Get(id); ok {
		b.Sleeping = false
	}
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// Bodies returns copies of all bodies in insertion order.
func (w *World) Bodies() []Body {
	out := make([]Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = *b
	}
	return out
}

// OnCollisionStart registers a handler for collision-start events.
// Handlers run after the step completes, so they may add or remove bodies.
func (w *World) OnCollisionStart(fn func(Collision)) {
	w.handlers = append(w.handlers, fn)
}

// Step advances the simulation by dt and dispatches collision-start events
// for pairs that came into contact during the step.
func (w *World) Step(dt time.Duration) {
	sub := dt.Seconds() / float64(w.opts.Substeps)
	damping := math.Max(0, 1-w.opts.AirFriction*sub)

	current := intmap.New[uint64, struct{}](w.contacts.Len() + 8)
	var started []Collision

	record := func(a, b *Body, point core.Vec) {
		key := pairKey(a.ID, b.ID)
		if current.Has(key) {
			return
		}
		current.Put(key, struct{}{})
		if w.contacts.Has(key) {
			return
		}
		c := Collision{A: a.ID, B: b.ID, TagA: a.Tag, TagB: b.Tag, Point: point}
		if b.ID < a.ID {
			c.A, c.B, c.TagA, c.TagB = b.ID, a.ID, b.Tag, a.Tag
		}
		started = append(started, c)
	}

	for s := 0; s < w.opts.Substeps; s++ {
		w.integrate(sub, damping)
		for it := 0; it < w.opts.Iterations; it++ {
			w.solve(it == 0, record)
		}
	}

	w.contacts = current

	for _, c := range started {
		for _, fn := range w.handlers {
			fn(c)
		}
	}
}

func (w *World) integrate(dt, damping float64) {
	for _, b := range w.bodies {
		if b.invMass() == 0 {
			continue
		}
		b.Vel.Y += w.opts.Gravity * dt
		b.Vel = b.Vel.Scale(damping)
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	}
}

// solve resolves overlaps for every pair. When detect is set, touching pairs
// are reported through record.
func (w *World) solve(detect bool, record func(a, b *Body, point core.Vec)) {
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			switch {
			case a.Shape == ShapeCircle && b.Shape == ShapeCircle:
				w.circleCircle(a, b, detect, record)
			case a.Shape == ShapeCircle && b.Shape == ShapeBox:
				w.circleBox(a, b, detect, record)
			case a.Shape == ShapeBox && b.Shape == ShapeCircle:
				w.circleBox(b, a, detect, record)
			}
		}
	}
}

func (w *World) circleCircle(a, b *Body, detect bool, record func(a, b *Body, point core.Vec)) {
	invA, invB := a.invMass(), b.invMass()
	if invA == 0 && invB == 0 {
		return
	}

	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	overlap := a.Radius + b.Radius - dist
	if overlap < -w.opts.Slop {
		return
	}

	n := core.V(0, 1)
	if dist > 1e-9 {
		n = d.Scale(1 / dist)
	}

	if detect {
		record(a, b, a.Pos.Add(n.Scale(a.Radius)))
	}
	if overlap <= 0 {
		return
	}

	total := invA + invB
	a.Pos = a.Pos.Sub(n.Scale(overlap * invA / total))
	b.Pos = b.Pos.Add(n.Scale(overlap * invB / total))

	vn := b.Vel.Sub(a.Vel).Dot(n)
	if vn >= 0 {
		return
	}
	e := math.Max(a.Restitution, b.Restitution)
	j := -(1 + e) * vn / total
	a.Vel = a.Vel.Sub(n.Scale(j * invA))
	b.Vel = b.Vel.Add(n.Scale(j * invB))
}

func (w *World) circleBox(c, box *Body, detect bool, record func(a, b *Body, point core.Vec)) {
	lo, hi := box.Min(), box.Max()
	closest := core.V(
		core.ClampF(c.Pos.X, lo.X, hi.X),
		core.ClampF(c.Pos.Y, lo.Y, hi.Y),
	)
	d := c.Pos.Sub(closest)
	dist := d.Len()

	var n core.Vec
	var overlap float64
	if dist > 1e-9 {
		n = d.Scale(1 / dist)
		overlap = c.Radius - dist
	} else {
		// Center inside the box: push out along the shallowest axis.
		n, overlap = insideNormal(c.Pos, lo, hi)
		overlap += c.Radius
	}
	if overlap < -w.opts.Slop {
		return
	}

	if detect {
		record(c, box, closest)
	}
	if box.Sensor || overlap <= 0 || c.invMass() == 0 {
		return
	}

	c.Pos = c.Pos.Add(n.Scale(overlap))
	vn := c.Vel.Dot(n)
	if vn < 0 {
		c.Vel = c.Vel.Sub(n.Scale((1 + c.Restitution) * vn))
	}
}

func insideNormal(p, lo, hi core.Vec) (core.Vec, float64) {
	left := p.X - lo.X
	right := hi.X - p.X
	top := p.Y - lo.Y
	bottom := hi.Y - p.Y

	n, depth := core.V(-1, 0), left
	if right < depth {
		n, depth = core.V(1, 0), right
	}
	if top < depth {
		n, depth = core.V(0, -1), top
	}
	if bottom < depth {
		n, depth = core.V(0, 1), bottom
	}
	return n, depth
}

func pairKey(a, b BodyID) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}
