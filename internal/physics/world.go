package physics

import (
	"errors"
	"iter"

	"github.com/ByteArena/box2d"
)

var (
	// ErrWorldLocked is returned when a body is created or destroyed while
	// the world is in the middle of a step.
	ErrWorldLocked = errors.New("physics: world is locked")
	// ErrBodyAllocation is returned when the world could not create a body.
	ErrBodyAllocation = errors.New("physics: body allocation failed")
)

// WorldConfig holds the constraint solver budget.
type WorldConfig struct {
	VelocityIterations int
	PositionIterations int
}

// World owns the rigid-body simulation. Gravity is fixed at zero (top-down
// table). A World is single-writer: Step, body creation and destruction
// must never run concurrently.
type World struct {
	raw                *box2d.B2World
	velocityIterations int
	positionIterations int
}

// NewWorld creates an empty zero-gravity world.
func NewWorld(cfg WorldConfig) *World {
	w := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	if cfg.VelocityIterations <= 0 {
		cfg.VelocityIterations = DefaultVelocityIterations
	}
	if cfg.PositionIterations <= 0 {
		cfg.PositionIterations = DefaultPositionIterations
	}
	return &World{
		raw:                &w,
		velocityIterations: cfg.VelocityIterations,
		positionIterations: cfg.PositionIterations,
	}
}

// Step advances the simulation by exactly dt seconds: integrate forces,
// solve velocity constraints, then solve position constraints.
func (w *World) Step(dt float64) {
	w.raw.Step(dt, w.velocityIterations, w.positionIterations)
}

// Raw exposes the underlying box2d world.
func (w *World) Raw() *box2d.B2World {
	return w.raw
}

// Bodies iterates over every live body in the world, static ones included.
func (w *World) Bodies() iter.Seq[*box2d.B2Body] {
	return func(yield func(*box2d.B2Body) bool) {
		for b := w.raw.GetBodyList(); b != nil; b = b.GetNext() {
			if !yield(b) {
				return
			}
		}
	}
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return w.raw.GetBodyCount()
}

// createBody is the single allocation path for bodies owned by Ball and Table.
func (w *World) createBody(def *box2d.B2BodyDef) (*box2d.B2Body, error) {
	if w.raw.IsLocked() {
		return nil, ErrWorldLocked
	}
	body := w.raw.CreateBody(def)
	if body == nil {
		return nil, ErrBodyAllocation
	}
	return body, nil
}

func (w *World) destroyBody(body *box2d.B2Body) {
	w.raw.DestroyBody(body)
}
