package physics

import (
	"fmt"

	"github.com/ByteArena/box2d"
)

// BallMaterial configures the body and fixture of a Ball.
type BallMaterial struct {
	Density        float64
	Friction       float64
	Restitution    float64
	LinearDamping  float64
	AngularDamping float64
}

// DefaultBallMaterial returns the standard pool-ball material.
func DefaultBallMaterial() BallMaterial {
	return BallMaterial{
		Density:        DefaultDensity,
		Friction:       DefaultFriction,
		Restitution:    DefaultRestitution,
		LinearDamping:  DefaultLinearDamping,
		AngularDamping: DefaultAngularDamping,
	}
}

// noCopy makes `go vet` flag copies of a Ball by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Ball exclusively owns one dynamic circular body. It must not be copied;
// ownership is transferred with Take or Replace, and released exactly once
// with Destroy.
type Ball struct {
	_ noCopy

	world    *World
	body     *box2d.B2Body
	number   int
	radiusPx float64
}

// NewBall creates a dynamic circle of displayRadius at displayPos. Number 0
// is the cue ball. A non-nil error means the world could not allocate the
// body and setup must not continue.
func NewBall(world *World, number int, displayRadius float64, displayPos Vec2, mat BallMaterial) (*Ball, error) {
	if displayRadius <= 0 {
		return nil, fmt.Errorf("physics: ball radius must be positive, got %v", displayRadius)
	}

	pos := VecToSim(displayPos)

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position.Set(pos.X, pos.Y)
	bd.LinearDamping = mat.LinearDamping
	bd.AngularDamping = mat.AngularDamping
	bd.Bullet = true

	body, err := world.createBody(&bd)
	if err != nil {
		return nil, fmt.Errorf("create ball %d: %w", number, err)
	}

	circle := box2d.MakeB2CircleShape()
	circle.M_radius = ToSim(displayRadius)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &circle
	fd.Density = mat.Density
	fd.Friction = mat.Friction
	fd.Restitution = mat.Restitution
	body.CreateFixtureFromDef(&fd)

	b := &Ball{world: world, body: body, number: number, radiusPx: displayRadius}
	body.SetUserData(b)
	return b, nil
}

// Take moves ownership of the body into a new Ball. The receiver is left
// empty; destroying it afterwards is a no-op.
func (b *Ball) Take() *Ball {
	nb := &Ball{world: b.world, body: b.body, number: b.number, radiusPx: b.radiusPx}
	if nb.body != nil {
		nb.body.SetUserData(nb)
	}
	b.body = nil
	return nb
}

// Replace destroys the receiver's current body (if any) and takes ownership
// of src's body. src is left empty.
func (b *Ball) Replace(src *Ball) {
	if b == src {
		return
	}
	b.Destroy()
	b.world = src.world
	b.body = src.body
	b.number = src.number
	b.radiusPx = src.radiusPx
	if b.body != nil {
		b.body.SetUserData(b)
	}
	src.body = nil
}

// Destroy removes the body from the world. Safe to call more than once and
// on a moved-from Ball.
func (b *Ball) Destroy() {
	if b.body == nil {
		return
	}
	b.body.SetUserData(nil)
	b.world.destroyBody(b.body)
	b.body = nil
}

// Alive reports whether the Ball still owns a body.
func (b *Ball) Alive() bool {
	return b.body != nil
}

// Body returns the owned body, nil once destroyed or moved from.
func (b *Ball) Body() *box2d.B2Body {
	return b.body
}

// Number is the ball's rack number; 0 is the cue ball.
func (b *Ball) Number() int {
	return b.number
}

// Radius returns the display-unit radius.
func (b *Ball) Radius() float64 {
	return b.radiusPx
}

// SimRadius returns the radius in simulation units.
func (b *Ball) SimRadius() float64 {
	return ToSim(b.radiusPx)
}

// Position returns the simulation-space center.
func (b *Ball) Position() Vec2 {
	return fromB2(b.body.GetPosition())
}

// Angle returns the body orientation in radians.
func (b *Ball) Angle() float64 {
	return b.body.GetAngle()
}

// Velocity returns the linear velocity in simulation units per second.
func (b *Ball) Velocity() Vec2 {
	return fromB2(b.body.GetLinearVelocity())
}

// AngularVelocity returns the angular velocity in radians per second.
func (b *Ball) AngularVelocity() float64 {
	return b.body.GetAngularVelocity()
}

// AtRest reports whether both linear speed² and |angular speed| are below
// the given thresholds.
func (b *Ball) AtRest(linearSq, angular float64) bool {
	if b.Velocity().MagnitudeSquared() >= linearSq {
		return false
	}
	w := b.AngularVelocity()
	return w < angular && w > -angular
}

// ContainsPoint reports whether a simulation-space point lies on or inside
// the ball's disc.
func (b *Ball) ContainsPoint(p Vec2) bool {
	r := b.SimRadius()
	return b.Position().DistanceSquared(p) <= r*r
}

// ApplyImpulse applies a linear impulse (simulation units) at the center of
// mass and wakes the body.
func (b *Ball) ApplyImpulse(impulse Vec2) {
	b.body.ApplyLinearImpulse(impulse.b2(), b.body.GetWorldCenter(), true)
}

// Reset teleports the ball to a display-space position with zero linear and
// angular velocity.
func (b *Ball) Reset(displayPos Vec2) {
	p := VecToSim(displayPos)
	b.body.SetTransform(p.b2(), 0)
	b.Stop()
	b.body.SetAwake(true)
}

// Stop zeroes linear and angular velocity.
func (b *Ball) Stop() {
	b.body.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	b.body.SetAngularVelocity(0)
}

// Sleep stops the ball and puts its body to sleep.
func (b *Ball) Sleep() {
	b.Stop()
	b.body.SetAwake(false)
}

// Awake reports whether the body is awake.
func (b *Ball) Awake() bool {
	return b.body.IsAwake()
}

// BallFromBody resolves the Ball owning body, or nil for bodies that are not
// balls (the table).
func BallFromBody(body *box2d.B2Body) *Ball {
	b, _ := body.GetUserData().(*Ball)
	return b
}

// SetVelocity sets the linear velocity in simulation units per second.
func (b *Ball) SetVelocity(v Vec2) {
	b.body.SetLinearVelocity(v.b2())
}

// SetAngularVelocity sets the angular velocity in radians per second.
func (b *Ball) SetAngularVelocity(w float64) {
	b.body.SetAngularVelocity(w)
}
