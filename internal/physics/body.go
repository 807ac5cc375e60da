// Package physics implements a small rigid-body world for circles resting in
// a container of static boxes.
//
// It supports gravity, restitution, sleeping bodies (held in place until
// woken), non-colliding sensor boxes and collision-start events. Bodies carry
// a caller-defined Tag that the world never interprets.
package physics

import "github.com/vovakirdan/tui-suika/internal/core"

// BodyID identifies a body within a World. IDs are never reused.
type BodyID uint32

// Shape is the collision shape of a body.
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeBox
)

// Tag is caller-defined data attached to a body.
type Tag struct {
	Kind  uint8
	Value int
}

// Body is a snapshot of a body's state.
type Body struct {
	ID    BodyID
	Shape Shape
	Tag   Tag

	Pos core.Vec
	Vel core.Vec

	Radius       float64 // circles
	HalfW, HalfH float64 // boxes

	Restitution float64
	Texture     string

	Static   bool
	Sensor   bool
	Sleeping bool
}

// Min returns the top-left corner of a box body.
func (b *Body) Min() core.Vec {
	return core.V(b.Pos.X-b.HalfW, b.Pos.Y-b.HalfH)
}

// Max returns the bottom-right corner of a box body.
func (b *Body) Max() core.Vec {
	return core.V(b.Pos.X+b.HalfW, b.Pos.Y+b.HalfH)
}

// invMass returns the inverse mass used by the solver. Static and sleeping
// bodies are immovable.
func (b *Body) invMass() float64 {
	if b.Static || b.Sleeping || b.Shape != ShapeCircle || b.Radius <= 0 {
		return 0
	}
	return 1 / (b.Radius * b.Radius)
}

// CircleOptions configures a new circle body.
type CircleOptions struct {
	Tag         Tag
	Restitution float64
	Sleeping    bool
	Texture     string
}

// BoxOptions configures a new static box body.
type BoxOptions struct {
	Tag    Tag
	Sensor bool
}

// Collision is a collision-start event between two bodies.
// A is always the body with the lower ID.
type Collision struct {
	A, B       BodyID
	TagA, TagB Tag
	Point      core.Vec
}

// Involves reports whether either side carries the given tag kind.
func (c Collision) Involves(kind uint8) bool {
	return c.TagA.Kind == kind || c.TagB.Kind == kind
}
