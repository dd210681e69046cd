package termr

import (
	"strings"
	"testing"

	"github.com/playpool/billiards/internal/physics"
	"github.com/playpool/billiards/internal/render"
)

func testScene() render.Scene {
	return render.Scene{
		Table: render.TableView{Width: 1280, Height: 720, Inset: 20},
		Balls: []render.BallView{
			{Number: 0, Position: physics.NewVec2(3, 3.6), Radius: 10},
			{Number: 9, Position: physics.NewVec2(9, 3.6), Radius: 10},
		},
		Pockets:    []render.PocketView{{ID: 0, Center: physics.NewVec2(0.18, 0.18), Radius: 0.18}},
		ScoreLabel: "Score: 2",
	}
}

func TestDrawSceneMapsBallsToCells(t *testing.T) {
	r := NewRenderer(128, 73) // 128 x 72 playfield: one cell per 10 px
	r.DrawScene(testScene())

	lines := strings.Split(r.Plain(), "\n")
	if len(lines) != 72 {
		t.Fatalf("rows = %d, want 72", len(lines))
	}
	row := []rune(lines[36])
	if row[30] != '●' {
		t.Errorf("cue cell = %q, want ●", row[30])
	}
	if row[90] != 'a' {
		t.Errorf("9 ball cell = %q, want a", row[90])
	}
	if []rune(lines[1])[1] != '◉' {
		t.Errorf("pocket cell = %q", []rune(lines[1])[1])
	}
}

func TestAimLineDrawn(t *testing.T) {
	r := NewRenderer(128, 73)
	sc := testScene()
	sc.Balls = nil
	sc.Aim = &render.AimLine{Start: physics.NewVec2(100, 100), End: physics.NewVec2(200, 100)}
	r.DrawScene(sc)

	row := []rune(strings.Split(r.Plain(), "\n")[10])
	for x := 10; x <= 20; x++ {
		if row[x] != '·' {
			t.Fatalf("aim cell %d = %q", x, row[x])
		}
	}
}

func TestViewIncludesScore(t *testing.T) {
	r := NewRenderer(40, 20)
	r.SetStatus("cleared")
	r.DrawScene(testScene())
	v := r.View()
	if !strings.Contains(v, "Score: 2") || !strings.Contains(v, "cleared") {
		t.Errorf("view missing HUD: %q", v[len(v)-40:])
	}
}

func TestResizeClampsMinimum(t *testing.T) {
	r := NewRenderer(1, 1)
	if c, rows := r.Size(); c != 8 || rows != 3 {
		t.Errorf("size = %dx%d, want 8x3", c, rows)
	}
}

func TestBallCellGlyphs(t *testing.T) {
	cases := map[int]rune{0: '●', 1: '1', 7: '7', 8: '8', 9: 'a', 15: 'g'}
	for n, want := range cases {
		if got := ballCell(n).r; got != want {
			t.Errorf("ballCell(%d) = %q, want %q", n, got, want)
		}
	}
}
