// Package ebitenr draws scenes into an ebiten window.
package ebitenr

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/playpool/billiards/internal/physics"
	"github.com/playpool/billiards/internal/render"
)

// Renderer keeps the latest scene and paints it on demand. DrawScene is
// called from the game's Update, Draw from ebiten's draw callback.
type Renderer struct {
	mu     sync.Mutex
	scene  render.Scene
	drops  *dropTracker
	ready  bool
	Status string
}

func NewRenderer() *Renderer {
	return &Renderer{drops: newDropTracker()}
}

// DrawScene implements render.Renderer.
func (r *Renderer) DrawScene(scene render.Scene) {
	numbers := make([]int, len(scene.Balls))
	positions := make([]physics.Vec2, len(scene.Balls))
	radii := make([]float64, len(scene.Balls))
	for i, b := range scene.Balls {
		numbers[i] = b.Number
		positions[i] = b.Position
		radii[i] = b.Radius
	}

	r.mu.Lock()
	r.scene = scene
	r.ready = true
	r.drops.observe(numbers, positions, radii)
	r.mu.Unlock()
}

// Update advances pocket animations by dt seconds.
func (r *Renderer) Update(dt float64) {
	r.mu.Lock()
	r.drops.update(float32(dt))
	r.mu.Unlock()
}

// Animating reports whether any pocket animation is still running.
func (r *Renderer) Animating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drops.drops) > 0
}

// Draw paints the latest scene onto screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()

	screen.Fill(railColor)
	if !r.ready {
		return
	}
	sc := r.scene

	inset := float32(sc.Table.Inset)
	w, h := float32(sc.Table.Width), float32(sc.Table.Height)
	vector.DrawFilledRect(screen, inset, inset, w-2*inset, h-2*inset, feltColor, false)

	for _, wall := range sc.Table.Walls {
		a, b := physics.VecToDisplay(wall.P1), physics.VecToDisplay(wall.P2)
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, cushionLine, true)
	}

	for _, p := range sc.Pockets {
		c := physics.VecToDisplay(p.Center)
		vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(physics.ToDisplay(p.Radius)), pocketColor, true)
	}

	for _, d := range r.drops.drops {
		drawBall(screen, d.number, d.pos, d.radius)
	}
	for _, b := range sc.Balls {
		drawBall(screen, b.Number, physics.VecToDisplay(b.Position), b.Radius)
	}

	if sc.Aim != nil {
		vector.StrokeLine(screen,
			float32(sc.Aim.Start.X), float32(sc.Aim.Start.Y),
			float32(sc.Aim.End.X), float32(sc.Aim.End.Y),
			2, aimColor, true)
	}

	ebitenutil.DebugPrintAt(screen, sc.ScoreLabel, int(inset)+8, int(inset)+6)
	if r.Status != "" {
		ebitenutil.DebugPrintAt(screen, r.Status, int(inset)+8, int(h-inset)-20)
	}
}

func drawBall(screen *ebiten.Image, number int, pos physics.Vec2, radius float64) {
	if radius <= 0 {
		return
	}
	body, striped := BallColor(number)
	x, y, rad := float32(pos.X), float32(pos.Y), float32(radius)
	if striped {
		vector.DrawFilledCircle(screen, x, y, rad, stripeWhite, true)
		vector.DrawFilledRect(screen, x-rad, y-rad*0.45, 2*rad, rad*0.9, body, true)
	} else {
		vector.DrawFilledCircle(screen, x, y, rad, body, true)
	}
	vector.StrokeCircle(screen, x, y, rad, 1, color.RGBA{A: 0x60}, true)
}
