package play

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/playpool/billiards/internal/game"
	"github.com/playpool/billiards/internal/physics"
	"github.com/playpool/billiards/internal/render/termr"
)

// tickMsg drives one frame.
type tickMsg time.Time

func tickCmd(frameRate int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Terminal is the bubbletea model of a local table. Mouse events are
// queued and consumed on the next tick.
type Terminal struct {
	local     *Local
	renderer  *termr.Renderer
	viewport  game.Viewport
	frameRate int
	pending   []game.InputEvent
	quitting  bool
}

func NewTerminal(l *Local, frameRate, cols, rows int) *Terminal {
	if frameRate <= 0 {
		frameRate = 30
	}
	t := &Terminal{local: l, renderer: termr.NewRenderer(cols, rows), frameRate: frameRate}
	t.resize(cols, rows)
	return t
}

func (t *Terminal) resize(cols, rows int) {
	t.renderer.Resize(cols, rows)
	w, h := t.renderer.Size()
	p := t.local.Profile.Table
	t.viewport = game.FitViewport(float64(w), float64(h), p.Width, p.Height)
	t.renderer.DrawScene(t.local.Session().Scene())
}

// Init implements tea.Model.
func (t *Terminal) Init() tea.Cmd {
	return tickCmd(t.frameRate)
}

// Update implements tea.Model.
func (t *Terminal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			t.quitting = true
			t.local.Close()
			return t, tea.Quit
		case "r":
			if err := t.local.Restart(); err != nil {
				logger.Error("restart failed", "err", err)
				t.quitting = true
				return t, tea.Quit
			}
		case "m":
			if t.local.Audio != nil {
				t.local.Audio.SetMuted(!t.local.Audio.Muted())
			}
		}

	case tea.WindowSizeMsg:
		t.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		if ev, ok := t.pointerEvent(msg); ok {
			t.pending = append(t.pending, ev)
		}

	case tickMsg:
		t.local.Advance(t.pending)
		t.pending = t.pending[:0]
		t.renderer.SetStatus(t.local.Status())
		t.renderer.DrawScene(t.local.Session().Scene())
		return t, tickCmd(t.frameRate)
	}
	return t, nil
}

// pointerEvent maps a terminal mouse event into world display units.
func (t *Terminal) pointerEvent(msg tea.MouseMsg) (game.InputEvent, bool) {
	var action game.PointerAction
	switch msg.Action {
	case tea.MouseActionPress:
		action = game.PointerPress
	case tea.MouseActionRelease:
		action = game.PointerRelease
	case tea.MouseActionMotion:
		action = game.PointerMove
	default:
		return game.InputEvent{}, false
	}

	var button game.Button
	switch msg.Button {
	case tea.MouseButtonLeft:
		button = game.ButtonPrimary
	case tea.MouseButtonRight:
		button = game.ButtonSecondary
	case tea.MouseButtonMiddle:
		button = game.ButtonMiddle
	case tea.MouseButtonNone:
		// terminals report releases and plain motion without a button
		if action == game.PointerPress {
			return game.InputEvent{}, false
		}
		button = game.ButtonPrimary
	default:
		return game.InputEvent{}, false
	}

	pos := t.viewport.MapPixelToCoords(float64(msg.X)+0.5, float64(msg.Y)+0.5)
	if action == game.PointerPress {
		pos = t.snapToBall(msg.X, msg.Y, pos)
	}
	return game.InputEvent{Action: action, Button: button, Pos: pos}, true
}

// snapToBall moves a press onto the center of the ball drawn in that cell,
// since a cell can be larger than a ball.
func (t *Terminal) snapToBall(cx, cy int, pos physics.Vec2) physics.Vec2 {
	best := pos
	bestDist := -1.0
	for _, b := range t.local.Session().Balls() {
		c := physics.VecToDisplay(b.Position())
		x, y := t.viewport.MapCoordsToPixel(c)
		if int(x) != cx || int(y) != cy {
			continue
		}
		if d := c.DistanceSquared(pos); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// View implements tea.Model.
func (t *Terminal) View() string {
	if t.quitting {
		return ""
	}
	return t.renderer.View()
}

// RunTerminal plays in the alternate screen with mouse tracking.
func RunTerminal(l *Local, frameRate int) error {
	defer l.Close()
	p := tea.NewProgram(
		NewTerminal(l, frameRate, 80, 24),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
