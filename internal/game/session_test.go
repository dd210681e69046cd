package game

import (
	"math"
	"testing"

	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/physics"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(config.DefaultProfile())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewSessionRacksTable(t *testing.T) {
	s := newTestSession(t)

	if got := len(s.Balls()); got != 16 {
		t.Fatalf("ball count = %d, want 16", got)
	}
	if s.Balls()[0] != s.Cue() || s.Cue().Number() != CueBallNumber {
		t.Error("cue ball should be first")
	}
	// table plus sixteen balls
	if got := s.World().BodyCount(); got != 17 {
		t.Errorf("body count = %d, want 17", got)
	}
	p := s.Cue().Position()
	if math.Abs(p.X-3) > 1e-9 || math.Abs(p.Y-3.6) > 1e-9 {
		t.Errorf("cue position = %+v, want (3, 3.6)", p)
	}
	if s.Score().Label() != "Score: 0" {
		t.Errorf("label = %q", s.Score().Label())
	}
	if len(s.Pockets()) != physics.NumPockets {
		t.Errorf("pocket count = %d", len(s.Pockets()))
	}
	if !s.Idle() {
		t.Error("a fresh rack should be idle")
	}
}

func TestNewSessionRejectsInvalidProfile(t *testing.T) {
	p := config.DefaultProfile()
	p.Balls.Radius = 0
	if _, err := NewSession(p); err == nil {
		t.Error("expected error for zero ball radius")
	}
}

func TestFrameFiresShotAtHalfDrag(t *testing.T) {
	s := newTestSession(t)

	res := s.Frame([]InputEvent{Press(300, 360), Move(250, 360), Release(200, 360)})
	if !res.Shot {
		t.Fatal("frame should report a shot")
	}
	if res.ShotBall != CueBallNumber {
		t.Errorf("shot ball = %d, want cue", res.ShotBall)
	}
	if math.Abs(res.Impulse.X-0.5) > 1e-12 || res.Impulse.Y != 0 {
		t.Errorf("impulse = %+v, want (0.5, 0)", res.Impulse)
	}
	if v := s.Cue().Velocity(); v.X <= 0 {
		t.Errorf("cue velocity = %+v, want moving +x", v)
	}
	if s.Aim().State() != AimIdle {
		t.Error("controller should be idle after the shot")
	}
	if s.Scene().Aim != nil {
		t.Error("no aim line after release")
	}
}

func TestAimLineOnlyWhileDragging(t *testing.T) {
	s := newTestSession(t)

	s.Frame([]InputEvent{Press(300, 360), Move(260, 380)})
	scene := s.Scene()
	if scene.Aim == nil {
		t.Fatal("aim line expected while dragging")
	}
	if scene.Aim.Start != physics.NewVec2(300, 360) || scene.Aim.End != physics.NewVec2(260, 380) {
		t.Errorf("aim line = %+v", *scene.Aim)
	}

	s.Frame(nil)
	if s.Scene().Aim == nil {
		t.Error("aim line should persist across frames while dragging")
	}
}

func TestPressIgnoredUntilTableSettles(t *testing.T) {
	s := newTestSession(t)
	s.Frame([]InputEvent{Press(300, 360), Release(150, 360)})

	pos := s.Cue().Position()
	res := s.Frame([]InputEvent{Press(physics.ToDisplay(pos.X), physics.ToDisplay(pos.Y))})
	if res.Shot || s.Aim().State() != AimIdle {
		t.Error("press while balls move should be ignored")
	}
}

func TestCaptureObjectBallScores(t *testing.T) {
	s := newTestSession(t)
	ball := s.Balls()[1]
	number := ball.Number()
	pocket := s.Pockets()[0]
	ball.Reset(physics.VecToDisplay(pocket.Center))

	captures, respawned := s.Capture()
	if respawned {
		t.Error("cue was not pocketed")
	}
	if len(captures) != 1 || captures[0].Ball != number || captures[0].Pocket != pocket.ID || captures[0].Cue {
		t.Fatalf("captures = %+v", captures)
	}
	if ball.Alive() {
		t.Error("pocketed ball should be destroyed")
	}
	if s.Score().Value() != 1 || s.Score().Label() != "Score: 1" {
		t.Errorf("score = %d %q", s.Score().Value(), s.Score().Label())
	}
	if s.ObjectBallsLeft() != 14 {
		t.Errorf("object balls left = %d, want 14", s.ObjectBallsLeft())
	}
	if got := s.World().BodyCount(); got != 16 {
		t.Errorf("body count = %d, want 16", got)
	}
	for _, b := range s.Balls() {
		if b == ball {
			t.Error("pocketed ball still in the collection")
		}
	}
}

func TestCaptureCueBallRespawns(t *testing.T) {
	s := newTestSession(t)
	cue := s.Cue()
	cue.Reset(physics.VecToDisplay(s.Pockets()[1].Center))
	cue.SetVelocity(physics.NewVec2(1, 1))

	captures, respawned := s.Capture()
	if !respawned || len(captures) != 1 || !captures[0].Cue || captures[0].Pocket != 1 {
		t.Fatalf("captures = %+v respawned = %v", captures, respawned)
	}
	if !cue.Alive() || s.Balls()[0] != cue {
		t.Error("cue ball must survive capture")
	}
	p := cue.Position()
	if math.Abs(p.X-3) > 1e-9 || math.Abs(p.Y-3.6) > 1e-9 {
		t.Errorf("respawn position = %+v, want (3, 3.6)", p)
	}
	if !cue.Velocity().IsZero() {
		t.Errorf("respawn velocity = %+v, want zero", cue.Velocity())
	}
	if s.Score().Value() != 0 {
		t.Error("cue capture must not score")
	}
}

func TestCaptureCancelsDragOnPocketedBall(t *testing.T) {
	s := newTestSession(t)
	s.HandleEvent(Press(900, 360))
	sel := s.Aim().Selected()
	if sel == nil || sel.Number() != 1 {
		t.Fatalf("expected apex ball selected, got %v", sel)
	}

	sel.Reset(physics.VecToDisplay(s.Pockets()[5].Center))
	s.Capture()

	if s.Aim().Selected() != nil || s.Aim().State() != AimIdle {
		t.Error("drag on a pocketed ball should be cancelled")
	}
	if s.HandleEvent(Release(800, 360)) {
		t.Error("release after capture should not shoot")
	}
}

func TestClearingTheRack(t *testing.T) {
	s := newTestSession(t)
	pocket := physics.VecToDisplay(s.Pockets()[4].Center)
	for _, b := range s.Balls()[1:] {
		b.Reset(pocket)
	}

	captures, _ := s.Capture()
	if len(captures) != 15 {
		t.Errorf("captures = %d, want 15", len(captures))
	}
	if !s.Cleared() {
		t.Error("table should be cleared")
	}
	if res := s.Frame(nil); !res.Cleared {
		t.Error("frame should report the cleared table")
	}
	if s.Score().Label() != "Score: 15" {
		t.Errorf("label = %q", s.Score().Label())
	}
	if len(s.Balls()) != 1 {
		t.Errorf("only the cue should remain, got %d", len(s.Balls()))
	}
}

func TestSettleSleepsSlowBalls(t *testing.T) {
	s := newTestSession(t)
	cue := s.Cue()
	cue.SetVelocity(physics.NewVec2(0.001, 0))

	s.Settle()
	if !cue.Velocity().IsZero() {
		t.Errorf("velocity = %+v, want zero", cue.Velocity())
	}
	if cue.Awake() {
		t.Error("settled ball should sleep")
	}
}

func TestFramesAreDeterministic(t *testing.T) {
	a := newTestSession(t)
	b := newTestSession(t)
	shot := []InputEvent{Press(300, 360), Release(100, 355)}

	a.Frame(shot)
	b.Frame(shot)
	for i := 0; i < 240; i++ {
		a.Frame(nil)
		b.Frame(nil)
	}

	if len(a.Balls()) != len(b.Balls()) {
		t.Fatalf("ball counts differ: %d vs %d", len(a.Balls()), len(b.Balls()))
	}
	for i := range a.Balls() {
		if a.Balls()[i].Position() != b.Balls()[i].Position() {
			t.Errorf("ball %d diverged: %+v vs %+v", i, a.Balls()[i].Position(), b.Balls()[i].Position())
		}
	}
	if a.Score().Value() != b.Score().Value() {
		t.Error("scores diverged")
	}
}

func TestCloseReleasesBodies(t *testing.T) {
	s, err := NewSession(config.DefaultProfile())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	s.Close()
	s.Close()

	if got := s.World().BodyCount(); got != 1 {
		t.Errorf("body count after close = %d, want 1 (table)", got)
	}
	if res := s.Frame([]InputEvent{Press(300, 360)}); res.Shot {
		t.Error("closed session should ignore frames")
	}
}

func TestRackPositionsTriangle(t *testing.T) {
	rack := config.DefaultProfile().Rack
	pos := RackPositions(rack, 10)
	if len(pos) != 15 {
		t.Fatalf("rack size = %d, want 15", len(pos))
	}
	if pos[0] != physics.NewVec2(900, 360) {
		t.Errorf("apex = %+v", pos[0])
	}
	minDist := math.Inf(1)
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			d := math.Sqrt(pos[i].DistanceSquared(pos[j]))
			minDist = math.Min(minDist, d)
		}
	}
	if math.Abs(minDist-22) > 1e-9 {
		t.Errorf("closest centers %.6f apart, want 22", minDist)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := FitViewport(160, 45, 1280, 720)
	p := v.MapPixelToCoords(80, 22.5)
	if math.Abs(p.X-640) > 1e-9 || math.Abs(p.Y-360) > 1e-9 {
		t.Errorf("center maps to %+v", p)
	}
	x, y := v.MapCoordsToPixel(p)
	if math.Abs(x-80) > 1e-9 || math.Abs(y-22.5) > 1e-9 {
		t.Errorf("round trip = (%v, %v)", x, y)
	}
}

func TestScoreBoardLabel(t *testing.T) {
	sb := NewScoreBoard()
	for i := 0; i < 3; i++ {
		sb.Increase()
	}
	if sb.Value() != 3 || sb.Label() != "Score: 3" {
		t.Errorf("score = %d %q", sb.Value(), sb.Label())
	}
}
