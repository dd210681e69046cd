// Package termr rasterizes scenes into a styled character grid.
package termr

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/playpool/billiards/internal/physics"
	"github.com/playpool/billiards/internal/render"
)

// cellKind selects the glyph and style of one grid cell.
type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellFelt
	cellWall
	cellPocket
	cellAim
	cellCue
	cellSolid
	cellStripe
	cellEight
)

var styles = map[cellKind]lipgloss.Style{
	cellEmpty:  lipgloss.NewStyle(),
	cellFelt:   lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	cellWall:   lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
	cellPocket: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	cellAim:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	cellCue:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	cellSolid:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	cellStripe: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	cellEight:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
}

var hudStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

type cell struct {
	r    rune
	kind cellKind
}

// Renderer draws into a Cols × Rows grid. The table is stretched to fill the
// grid on both axes.
type Renderer struct {
	mu     sync.Mutex
	cols   int
	rows   int
	grid   []cell
	label  string
	status string
}

func NewRenderer(cols, rows int) *Renderer {
	r := &Renderer{}
	r.Resize(cols, rows)
	return r
}

// Resize changes the grid size. One row is kept for the score line.
func (r *Renderer) Resize(cols, rows int) {
	if cols < 8 {
		cols = 8
	}
	if rows < 4 {
		rows = 4
	}
	r.mu.Lock()
	r.cols, r.rows = cols, rows-1
	r.grid = make([]cell, r.cols*r.rows)
	r.mu.Unlock()
}

// Size returns the playfield grid size, excluding the score line.
func (r *Renderer) Size() (cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cols, r.rows
}

// SetStatus sets a line shown after the score.
func (r *Renderer) SetStatus(s string) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// DrawScene implements render.Renderer.
func (r *Renderer) DrawScene(sc render.Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sc.Table.Width <= 0 || sc.Table.Height <= 0 {
		return
	}
	sx := float64(r.cols) / sc.Table.Width
	sy := float64(r.rows) / sc.Table.Height
	toCell := func(p physics.Vec2) (int, int) {
		return int(math.Floor(p.X * sx)), int(math.Floor(p.Y * sy))
	}

	for i := range r.grid {
		r.grid[i] = cell{r: ' ', kind: cellFelt}
	}

	for _, w := range sc.Table.Walls {
		x0, y0 := toCell(physics.VecToDisplay(w.P1))
		x1, y1 := toCell(physics.VecToDisplay(w.P2))
		glyph := '─'
		if x0 == x1 {
			glyph = '│'
		}
		r.line(x0, y0, x1, y1, cell{r: glyph, kind: cellWall})
	}

	for _, p := range sc.Pockets {
		x, y := toCell(physics.VecToDisplay(p.Center))
		r.set(x, y, cell{r: '◉', kind: cellPocket})
	}

	if sc.Aim != nil {
		x0, y0 := toCell(sc.Aim.Start)
		x1, y1 := toCell(sc.Aim.End)
		r.line(x0, y0, x1, y1, cell{r: '·', kind: cellAim})
	}

	for _, b := range sc.Balls {
		x, y := toCell(physics.VecToDisplay(b.Position))
		r.set(x, y, ballCell(b.Number))
	}

	r.label = sc.ScoreLabel
}

func ballCell(number int) cell {
	switch {
	case number == 0:
		return cell{r: '●', kind: cellCue}
	case number == 8:
		return cell{r: '8', kind: cellEight}
	case number < 8:
		return cell{r: rune('0' + number), kind: cellSolid}
	case number < 16:
		return cell{r: rune('a' + number - 9), kind: cellStripe}
	}
	return cell{r: '?', kind: cellSolid}
}

func (r *Renderer) set(x, y int, c cell) {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows {
		return
	}
	r.grid[y*r.cols+x] = c
}

// line plots a Bresenham line.
func (r *Renderer) line(x0, y0, x1, y1 int, c cell) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	stepX, stepY := 1, 1
	if x0 > x1 {
		stepX = -1
	}
	if y0 > y1 {
		stepY = -1
	}
	e := dx + dy
	for {
		r.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += stepX
		}
		if e2 <= dx {
			e += dx
			y0 += stepY
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Plain returns the grid without styling, for tests and logs.
func (r *Renderer) Plain() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	for y := 0; y < r.rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < r.cols; x++ {
			sb.WriteRune(r.grid[y*r.cols+x].r)
		}
	}
	return sb.String()
}

// View returns the styled grid plus the score line. Adjacent cells of the
// same kind share one escape sequence.
func (r *Renderer) View() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	sb.Grow(r.cols*r.rows*2 + r.rows)
	for y := 0; y < r.rows; y++ {
		x := 0
		for x < r.cols {
			kind := r.grid[y*r.cols+x].kind
			var run strings.Builder
			for x < r.cols && r.grid[y*r.cols+x].kind == kind {
				run.WriteRune(r.grid[y*r.cols+x].r)
				x++
			}
			sb.WriteString(styles[kind].Render(run.String()))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(hudStyle.Render(r.label))
	if r.status != "" {
		sb.WriteString("  ")
		sb.WriteString(r.status)
	}
	return sb.String()
}
