package game

import (
	"github.com/playpool/billiards/internal/physics"
	"github.com/playpool/billiards/internal/render"
)

// AimState is the state of the aim controller.
type AimState int

const (
	AimIdle AimState = iota
	AimDragging
)

func (s AimState) String() string {
	if s == AimDragging {
		return "dragging"
	}
	return "idle"
}

// AimConfig bounds the drag gesture. Lengths and impulses are in
// simulation units.
type AimConfig struct {
	MaxDrag           float64
	MaxImpulse        float64
	MinDrag           float64
	RestLinearSpeedSq float64
	RestAngularSpeed  float64
}

// AimController turns press/drag/release gestures into an impulse on the
// ball under the press point. The selected ball is a non-owning reference:
// the owner of the ball collection must call Forget before destroying a
// ball.
type AimController struct {
	cfg      AimConfig
	state    AimState
	selected *physics.Ball
	start    physics.Vec2 // display units
	current  physics.Vec2 // display units
	last     physics.Vec2 // last applied impulse
}

func NewAimController(cfg AimConfig) *AimController {
	if cfg.RestLinearSpeedSq <= 0 {
		cfg.RestLinearSpeedSq = physics.RestLinearSpeedSq
	}
	if cfg.RestAngularSpeed <= 0 {
		cfg.RestAngularSpeed = physics.RestAngularSpeed
	}
	return &AimController{cfg: cfg}
}

// Handle feeds one event. It returns true only when a release fired a shot.
func (a *AimController) Handle(ev InputEvent, balls []*physics.Ball) bool {
	switch ev.Action {
	case PointerPress:
		a.press(ev, balls)
	case PointerMove:
		if a.state == AimDragging {
			a.current = ev.Pos
		}
	case PointerRelease:
		return a.release(ev)
	}
	return false
}

func (a *AimController) press(ev InputEvent, balls []*physics.Ball) {
	if ev.Button != ButtonPrimary || a.state == AimDragging {
		return
	}
	if !AllAtRest(balls, a.cfg.RestLinearSpeedSq, a.cfg.RestAngularSpeed) {
		return
	}

	sel := nearestContaining(balls, physics.VecToSim(ev.Pos))
	if sel == nil {
		return
	}

	a.state = AimDragging
	a.selected = sel
	a.start = ev.Pos
	a.current = ev.Pos
}

func (a *AimController) release(ev InputEvent) bool {
	if ev.Button != ButtonPrimary || a.state != AimDragging {
		return false
	}

	a.current = ev.Pos
	drag := physics.VecToSim(a.current.Minus(a.start))
	sel := a.selected

	a.state = AimIdle
	a.selected = nil

	impulse := a.Impulse(drag)
	if impulse.IsZero() || sel == nil || !sel.Alive() {
		return false
	}

	sel.ApplyImpulse(impulse)
	a.last = impulse
	return true
}

// Impulse maps a drag vector (simulation units) to the launch impulse. A drag
// shorter than MinDrag yields zero. Longer drags are clamped to MaxDrag and
// scaled linearly onto [0, MaxImpulse], pointing opposite to the drag.
func (a *AimController) Impulse(drag physics.Vec2) physics.Vec2 {
	length := drag.Magnitude()
	if length < a.cfg.MinDrag || length == 0 {
		return physics.Vec2{}
	}
	clamped := length
	if clamped > a.cfg.MaxDrag {
		clamped = a.cfg.MaxDrag
	}
	magnitude := clamped / a.cfg.MaxDrag * a.cfg.MaxImpulse
	return drag.Times(-magnitude / length)
}

// Forget drops the selection if it is b, cancelling the drag.
func (a *AimController) Forget(b *physics.Ball) {
	if a.selected == b {
		a.Cancel()
	}
}

// Cancel abandons any drag in progress without shooting.
func (a *AimController) Cancel() {
	a.state = AimIdle
	a.selected = nil
}

func (a *AimController) State() AimState {
	return a.state
}

// Selected returns the ball being aimed, nil when idle.
func (a *AimController) Selected() *physics.Ball {
	return a.selected
}

// LastImpulse returns the impulse of the most recent shot.
func (a *AimController) LastImpulse() physics.Vec2 {
	return a.last
}

// AimLine returns the segment from the press point to the current pointer,
// only while dragging.
func (a *AimController) AimLine() (render.AimLine, bool) {
	if a.state != AimDragging {
		return render.AimLine{}, false
	}
	return render.AimLine{Start: a.start, End: a.current}, true
}

// AllAtRest reports whether every ball is below both rest thresholds.
func AllAtRest(balls []*physics.Ball, linearSq, angular float64) bool {
	for _, b := range balls {
		if b.Alive() && !b.AtRest(linearSq, angular) {
			return false
		}
	}
	return true
}

// nearestContaining returns the ball whose disc contains p and whose center
// is closest to p.
func nearestContaining(balls []*physics.Ball, p physics.Vec2) *physics.Ball {
	var best *physics.Ball
	bestDist := 0.0
	for _, b := range balls {
		if !b.Alive() || !b.ContainsPoint(p) {
			continue
		}
		d := b.Position().DistanceSquared(p)
		if best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}
