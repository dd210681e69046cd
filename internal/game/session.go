package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/physics"
	"github.com/playpool/billiards/internal/render"
)

var logger = log.WithPrefix("game")

// CueBallNumber identifies the cue ball.
const CueBallNumber = 0

// CaptureEvent records one ball dropping into a pocket.
type CaptureEvent struct {
	Ball   int  `json:"ball"`
	Pocket int  `json:"pocket"`
	Cue    bool `json:"cue"`
}

// FrameResult summarises what happened during one frame.
type FrameResult struct {
	Frame        uint64         `json:"frame"`
	Shot         bool           `json:"shot"`
	ShotBall     int            `json:"shot_ball"`
	Impulse      physics.Vec2   `json:"impulse"`
	Captures     []CaptureEvent `json:"captures,omitempty"`
	CueRespawned bool           `json:"cue_respawned"`
	Cleared      bool           `json:"cleared"`
}

// Session owns the whole game state of one table: world, walls, balls,
// pockets, score and aim controller. It is single-writer; exactly one
// goroutine may call its methods.
type Session struct {
	profile config.Profile
	world   *physics.World
	table   *physics.Table
	cue     *physics.Ball
	balls   []*physics.Ball // live balls, cue first
	pockets []physics.Pocket
	score   *ScoreBoard
	aim     *AimController
	spawn   physics.Vec2
	frame   uint64
	closed  bool
}

// NewSession racks a fresh table. An error means a body could not be
// allocated; no partially built session is returned.
func NewSession(p config.Profile) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	world := physics.NewWorld(physics.WorldConfig{
		VelocityIterations: p.Simulation.VelocityIterations,
		PositionIterations: p.Simulation.PositionIterations,
	})

	table, err := physics.NewTable(world, p.Table.Width, p.Table.Height, p.Table.WallInset)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	mat := physics.BallMaterial{
		Density:        p.Balls.Density,
		Friction:       p.Balls.Friction,
		Restitution:    p.Balls.Restitution,
		LinearDamping:  p.Balls.LinearDamping,
		AngularDamping: p.Balls.AngularDamping,
	}

	s := &Session{
		profile: p,
		world:   world,
		table:   table,
		pockets: physics.DefaultPockets(p.Table.Width, p.Table.Height, p.Table.PocketRadius),
		score:   NewScoreBoard(),
		spawn:   physics.NewVec2(p.Rack.CueSpawnX, p.Rack.CueSpawnY),
		aim: NewAimController(AimConfig{
			MaxDrag:           p.Aim.MaxDrag,
			MaxImpulse:        p.Aim.MaxImpulse,
			MinDrag:           p.Aim.MinDrag,
			RestLinearSpeedSq: p.Simulation.RestLinearSpeedSq,
			RestAngularSpeed:  p.Simulation.RestAngularSpeed,
		}),
	}

	cue, err := physics.NewBall(world, CueBallNumber, p.Balls.Radius, s.spawn, mat)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	s.cue = cue
	s.balls = append(s.balls, cue)

	for i, pos := range RackPositions(p.Rack, p.Balls.Radius) {
		b, err := physics.NewBall(world, i+1, p.Balls.Radius, pos, mat)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("new session: %w", err)
		}
		s.balls = append(s.balls, b)
	}

	return s, nil
}

// HandleEvent feeds one input event to the aim controller. It returns true
// when the event fired a shot.
func (s *Session) HandleEvent(ev InputEvent) bool {
	if s.closed {
		return false
	}
	return s.aim.Handle(ev, s.balls)
}

// Step advances the world by one simulation step, split into equal
// sub-steps to bound per-step travel at high speed.
func (s *Session) Step() {
	n := s.profile.Simulation.SubSteps
	dt := s.profile.Simulation.Step / float64(n)
	for i := 0; i < n; i++ {
		s.world.Step(dt)
	}
}

// Settle zeroes residual motion below the rest thresholds and puts fully
// stopped balls to sleep.
func (s *Session) Settle() {
	linSq := s.profile.Simulation.RestLinearSpeedSq
	ang := s.profile.Simulation.RestAngularSpeed
	for _, b := range s.balls {
		linStopped := b.Velocity().MagnitudeSquared() < linSq
		w := b.AngularVelocity()
		angStopped := w < ang && w > -ang

		switch {
		case linStopped && angStopped:
			if b.Awake() {
				b.Sleep()
			}
		case linStopped:
			b.SetVelocity(physics.Vec2{})
		case angStopped:
			b.SetAngularVelocity(0)
		}
	}
}

// Capture tests every live ball against the pockets in their fixed order,
// first match wins. The cue ball is respawned; any other ball is destroyed,
// removed from the collection and scored.
func (s *Session) Capture() (captures []CaptureEvent, respawned bool) {
	live := s.balls[:0]
	for _, b := range s.balls {
		idx := physics.FirstCapturing(s.pockets, b)
		if idx < 0 {
			live = append(live, b)
			continue
		}

		if b == s.cue {
			s.aim.Forget(b)
			b.Reset(s.spawn)
			respawned = true
			live = append(live, b)
			captures = append(captures, CaptureEvent{Ball: b.Number(), Pocket: s.pockets[idx].ID, Cue: true})
			logger.Debug("cue ball pocketed, respawned", "pocket", s.pockets[idx].ID, "frame", s.frame)
			continue
		}

		captures = append(captures, CaptureEvent{Ball: b.Number(), Pocket: s.pockets[idx].ID})
		s.aim.Forget(b)
		b.Destroy()
		s.score.Increase()
		logger.Debug("ball pocketed", "ball", captures[len(captures)-1].Ball, "pocket", s.pockets[idx].ID, "score", s.score.Value())
	}

	for i := len(live); i < len(s.balls); i++ {
		s.balls[i] = nil
	}
	s.balls = live
	return captures, respawned
}

// Frame runs one rendered frame: input events, physics sub-steps, the
// settle pass and the capture pass, in that order.
func (s *Session) Frame(events []InputEvent) FrameResult {
	res := FrameResult{Frame: s.frame}
	if s.closed {
		return res
	}

	for _, ev := range events {
		var sel *physics.Ball
		if ev.Action == PointerRelease {
			sel = s.aim.Selected()
		}
		if s.aim.Handle(ev, s.balls) {
			res.Shot = true
			res.Impulse = s.aim.LastImpulse()
			if sel != nil {
				res.ShotBall = sel.Number()
			}
		}
	}

	s.Step()
	s.Settle()
	res.Captures, res.CueRespawned = s.Capture()
	res.Cleared = s.Cleared()

	s.frame++
	return res
}

// Scene returns a read-only view for renderers.
func (s *Session) Scene() render.Scene {
	scene := render.Scene{
		Frame:      s.frame,
		Balls:      make([]render.BallView, 0, len(s.balls)),
		Pockets:    make([]render.PocketView, 0, len(s.pockets)),
		Score:      s.score.Value(),
		ScoreLabel: s.score.Label(),
		Table: render.TableView{
			Width:  s.profile.Table.Width,
			Height: s.profile.Table.Height,
			Inset:  s.profile.Table.WallInset,
		},
	}

	for _, b := range s.balls {
		scene.Balls = append(scene.Balls, render.BallView{
			Number:   b.Number(),
			Position: b.Position(),
			Angle:    b.Angle(),
			Radius:   b.Radius(),
			Moving:   !b.AtRest(s.profile.Simulation.RestLinearSpeedSq, s.profile.Simulation.RestAngularSpeed),
		})
	}
	for _, p := range s.pockets {
		scene.Pockets = append(scene.Pockets, render.PocketView{ID: p.ID, Center: p.Center, Radius: p.Radius})
	}
	walls := s.table.Segments()
	scene.Table.Walls = walls[:]

	if line, ok := s.aim.AimLine(); ok {
		scene.Aim = &line
	}
	return scene
}

// Idle reports whether nothing is moving and no drag is in progress.
func (s *Session) Idle() bool {
	return s.aim.State() == AimIdle && s.AllAtRest()
}

// AllAtRest reports whether every live ball is stationary.
func (s *Session) AllAtRest() bool {
	return AllAtRest(s.balls, s.profile.Simulation.RestLinearSpeedSq, s.profile.Simulation.RestAngularSpeed)
}

// Balls returns the live balls, cue first. Callers must not retain or
// mutate the slice.
func (s *Session) Balls() []*physics.Ball {
	return s.balls
}

func (s *Session) Cue() *physics.Ball {
	return s.cue
}

func (s *Session) Pockets() []physics.Pocket {
	return s.pockets
}

func (s *Session) Score() *ScoreBoard {
	return s.score
}

func (s *Session) Aim() *AimController {
	return s.aim
}

func (s *Session) World() *physics.World {
	return s.world
}

func (s *Session) Table() *physics.Table {
	return s.table
}

func (s *Session) Profile() config.Profile {
	return s.profile
}

// FrameCount returns the number of frames run so far.
func (s *Session) FrameCount() uint64 {
	return s.frame
}

// ObjectBallsLeft counts live balls other than the cue ball.
func (s *Session) ObjectBallsLeft() int {
	n := 0
	for _, b := range s.balls {
		if b != s.cue {
			n++
		}
	}
	return n
}

// Cleared reports whether every object ball has been pocketed.
func (s *Session) Cleared() bool {
	return s.ObjectBallsLeft() == 0
}

// Close destroys every ball body. Further frames are no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.aim.Cancel()
	for _, b := range s.balls {
		b.Destroy()
	}
	if s.cue != nil {
		s.cue.Destroy()
	}
	s.balls = nil
	s.closed = true
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	return s.closed
}
