// Package render defines the read-only scene handed to renderers once per
// frame, and the Renderer capability that backends implement.
package render

import "github.com/playpool/billiards/internal/physics"

// BallView is what a renderer needs to draw one ball.
type BallView struct {
	Number   int          `json:"number"`
	Position physics.Vec2 `json:"position"` // simulation units
	Angle    float64      `json:"angle"`
	Radius   float64      `json:"radius"` // display units
	Moving   bool         `json:"moving"`
}

// PocketView is one pocket in simulation units.
type PocketView struct {
	ID     int          `json:"id"`
	Center physics.Vec2 `json:"center"`
	Radius float64      `json:"radius"`
}

// TableView describes the playfield in display units plus its walls in
// simulation units.
type TableView struct {
	Width  float64           `json:"width"`
	Height float64           `json:"height"`
	Inset  float64           `json:"inset"`
	Walls  []physics.Segment `json:"walls"`
}

// AimLine runs from the press point to the current pointer, display units.
type AimLine struct {
	Start physics.Vec2 `json:"start"`
	End   physics.Vec2 `json:"end"`
}

// Scene is a read-only snapshot of everything drawable in one frame.
type Scene struct {
	Frame      uint64       `json:"frame"`
	Balls      []BallView   `json:"balls"`
	Pockets    []PocketView `json:"pockets"`
	Table      TableView    `json:"table"`
	Aim        *AimLine     `json:"aim,omitempty"`
	Score      int          `json:"score"`
	ScoreLabel string       `json:"score_label"`
}

// Renderer draws a scene. Implementations never mutate game state.
type Renderer interface {
	DrawScene(scene Scene)
}

// ToDisplay converts a simulation-space point to display units.
func ToDisplay(p physics.Vec2) physics.Vec2 {
	return physics.VecToDisplay(p)
}
