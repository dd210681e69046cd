package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playpool/billiards/internal/render"
)

// eventBuffer bounds input queued between two frames.
const eventBuffer = 256

// Summary is a thread-safe snapshot of a running session.
type Summary struct {
	Frame     uint64       `json:"frame"`
	Score     int          `json:"score"`
	Label     string       `json:"label"`
	BallsLeft int          `json:"balls_left"`
	Shots     int          `json:"shots"`
	Idle      bool         `json:"idle"`
	Cleared   bool         `json:"cleared"`
	Scene     render.Scene `json:"scene"`
}

// Runner drives one Session on its own goroutine at a fixed frame rate.
// Input arrives through Submit from any goroutine; the session itself is
// only ever touched by the runner goroutine.
type Runner struct {
	session  *Session
	interval time.Duration
	events   chan InputEvent
	renderer render.Renderer
	onResult func(FrameResult)

	forceDraw atomic.Bool
	dropped   atomic.Int64

	mu      sync.RWMutex
	summary Summary

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewRunner wraps s. renderer and onResult may be nil.
func NewRunner(s *Session, frameRate int, renderer render.Renderer, onResult func(FrameResult)) *Runner {
	if frameRate <= 0 {
		frameRate = 60
	}
	r := &Runner{
		session:  s,
		interval: time.Second / time.Duration(frameRate),
		events:   make(chan InputEvent, eventBuffer),
		renderer: renderer,
		onResult: onResult,
		done:     make(chan struct{}),
	}
	r.publish(0, s.Idle())
	return r
}

// Start launches the frame loop. It returns immediately.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		ctx, r.cancel = context.WithCancel(ctx)
		r.forceDraw.Store(true)
		go r.run(ctx)
	})
}

// Stop ends the loop, closes the session and waits for the goroutine.
func (r *Runner) Stop() {
	r.startOnce.Do(func() {
		// never started
		r.session.Close()
		close(r.done)
	})
	if r.cancel != nil {
		r.cancel()
	}
	<-r.done
}

// Done is closed once the loop has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Submit queues an event for the next frame. It never blocks; a full queue
// drops the event and returns false.
func (r *Runner) Submit(ev InputEvent) bool {
	select {
	case r.events <- ev:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Dropped returns how many events Submit has discarded.
func (r *Runner) Dropped() int64 {
	return r.dropped.Load()
}

// Redraw asks the loop to render the next frame even if the table is idle.
func (r *Runner) Redraw() {
	r.forceDraw.Store(true)
}

// Summary returns the latest snapshot.
func (r *Runner) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

func (r *Runner) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer func() {
		ticker.Stop()
		r.session.Close()
		close(r.done)
	}()

	wasIdle := false
	var batch []InputEvent
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			batch = r.drain(batch[:0])
			res := r.session.Frame(batch)

			idle := r.session.Idle()
			shots := r.Summary().Shots
			if res.Shot {
				shots++
			}
			r.publish(shots, idle)

			if r.onResult != nil {
				r.onResult(res)
			}

			draw := r.forceDraw.Swap(false) || !idle || !wasIdle || len(batch) > 0
			if draw && r.renderer != nil {
				r.renderer.DrawScene(r.Summary().Scene)
			}
			wasIdle = idle
		}
	}
}

func (r *Runner) drain(buf []InputEvent) []InputEvent {
	for {
		select {
		case ev := <-r.events:
			buf = append(buf, ev)
		default:
			return buf
		}
	}
}

func (r *Runner) publish(shots int, idle bool) {
	s := r.session
	sum := Summary{
		Frame:     s.FrameCount(),
		Score:     s.Score().Value(),
		Label:     s.Score().Label(),
		BallsLeft: s.ObjectBallsLeft(),
		Shots:     shots,
		Idle:      idle,
		Cleared:   s.Cleared(),
		Scene:     s.Scene(),
	}
	r.mu.Lock()
	r.summary = sum
	r.mu.Unlock()
}
