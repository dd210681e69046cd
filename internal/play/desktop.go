package play

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/playpool/billiards/internal/game"
	"github.com/playpool/billiards/internal/render/ebitenr"
)

// errQuit ends ebiten.RunGame cleanly.
var errQuit = errors.New("quit")

// Desktop adapts a Local table to ebiten's Game interface. One ebiten
// tick is one frame.
type Desktop struct {
	local    *Local
	renderer *ebitenr.Renderer
	pressed  [3]bool
	lastX    int
	lastY    int
}

func NewDesktop(l *Local) *Desktop {
	d := &Desktop{local: l, renderer: ebitenr.NewRenderer()}
	d.renderer.DrawScene(l.Session().Scene())
	return d
}

var desktopButtons = [...]struct {
	ebiten ebiten.MouseButton
	button game.Button
}{
	{ebiten.MouseButtonLeft, game.ButtonPrimary},
	{ebiten.MouseButtonRight, game.ButtonSecondary},
	{ebiten.MouseButtonMiddle, game.ButtonMiddle},
}

// pollEvents turns this tick's mouse state into pointer events.
func (d *Desktop) pollEvents() []game.InputEvent {
	x, y := ebiten.CursorPosition()
	pos := game.IdentityViewport().MapPixelToCoords(float64(x), float64(y))

	var events []game.InputEvent
	for i, b := range desktopButtons {
		switch {
		case inpututil.IsMouseButtonJustPressed(b.ebiten):
			d.pressed[i] = true
			events = append(events, game.InputEvent{Action: game.PointerPress, Button: b.button, Pos: pos})
		case inpututil.IsMouseButtonJustReleased(b.ebiten):
			d.pressed[i] = false
			events = append(events, game.InputEvent{Action: game.PointerRelease, Button: b.button, Pos: pos})
		}
	}
	if (x != d.lastX || y != d.lastY) && d.pressed[0] {
		events = append(events, game.InputEvent{Action: game.PointerMove, Button: game.ButtonPrimary, Pos: pos})
	}
	d.lastX, d.lastY = x, y
	return events
}

// Update implements ebiten.Game.
func (d *Desktop) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return errQuit
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := d.local.Restart(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyM) && d.local.Audio != nil:
		d.local.Audio.SetMuted(!d.local.Audio.Muted())
	}

	d.local.Advance(d.pollEvents())
	d.renderer.Status = d.local.Status()
	d.renderer.DrawScene(d.local.Session().Scene())
	d.renderer.Update(1 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (d *Desktop) Draw(screen *ebiten.Image) {
	d.renderer.Draw(screen)
}

// Layout implements ebiten.Game. The logical screen is the table, so cursor
// positions are already in display units.
func (d *Desktop) Layout(_, _ int) (int, int) {
	p := d.local.Profile.Table
	return int(p.Width), int(p.Height)
}

// RunDesktop opens a window and plays until it is closed.
func RunDesktop(l *Local, frameRate int) error {
	defer l.Close()

	p := l.Profile.Table
	ebiten.SetWindowTitle("Billiards")
	ebiten.SetWindowSize(int(p.Width), int(p.Height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if frameRate > 0 {
		ebiten.SetTPS(frameRate)
	}

	err := ebiten.RunGame(NewDesktop(l))
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
