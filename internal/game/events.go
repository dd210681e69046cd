package game

import "github.com/playpool/billiards/internal/physics"

// PointerAction is the kind of a pointer event.
type PointerAction int

const (
	PointerPress PointerAction = iota
	PointerMove
	PointerRelease
)

func (a PointerAction) String() string {
	switch a {
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	}
	return "unknown"
}

// ParsePointerAction maps a wire name to a PointerAction.
func ParsePointerAction(s string) (PointerAction, bool) {
	switch s {
	case "press", "down":
		return PointerPress, true
	case "move":
		return PointerMove, true
	case "release", "up":
		return PointerRelease, true
	}
	return 0, false
}

// Button identifies a pointer button. Only ButtonPrimary aims and shoots.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// InputEvent is one pointer event in world display coordinates.
type InputEvent struct {
	Action PointerAction
	Button Button
	Pos    physics.Vec2
}

func Press(x, y float64) InputEvent {
	return InputEvent{Action: PointerPress, Button: ButtonPrimary, Pos: physics.NewVec2(x, y)}
}

func Move(x, y float64) InputEvent {
	return InputEvent{Action: PointerMove, Button: ButtonPrimary, Pos: physics.NewVec2(x, y)}
}

func Release(x, y float64) InputEvent {
	return InputEvent{Action: PointerRelease, Button: ButtonPrimary, Pos: physics.NewVec2(x, y)}
}

// Viewport maps window pixels to world display coordinates:
// world = (pixel - offset) / scale.
type Viewport struct {
	ScaleX, ScaleY   float64
	OffsetX, OffsetY float64
}

// IdentityViewport maps pixels one to one.
func IdentityViewport() Viewport {
	return Viewport{ScaleX: 1, ScaleY: 1}
}

// FitViewport scales a worldW × worldH world into a windowW × windowH window.
// The axes scale independently, which suits terminal cells.
func FitViewport(windowW, windowH, worldW, worldH float64) Viewport {
	if worldW <= 0 || worldH <= 0 || windowW <= 0 || windowH <= 0 {
		return IdentityViewport()
	}
	return Viewport{ScaleX: windowW / worldW, ScaleY: windowH / worldH}
}

// MapPixelToCoords converts a window pixel to world display coordinates.
func (v Viewport) MapPixelToCoords(x, y float64) physics.Vec2 {
	return physics.NewVec2((x-v.OffsetX)/v.ScaleX, (y-v.OffsetY)/v.ScaleY)
}

// MapCoordsToPixel converts world display coordinates to a window pixel.
func (v Viewport) MapCoordsToPixel(p physics.Vec2) (x, y float64) {
	return p.X*v.ScaleX + v.OffsetX, p.Y*v.ScaleY + v.OffsetY
}
