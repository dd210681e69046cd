// Package audio plays synthesized table sounds through the system speaker.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

var logger = log.WithPrefix("audio")

// Player mixes shot and pocket sounds. A Player whose speaker failed to
// open stays silent; every method is safe to call.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. Failure is logged and leaves the player silent.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		logger.Warn("speaker unavailable, sound disabled", "err", err)
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// SetMuted toggles output without closing the speaker.
func (p *Player) SetMuted(m bool) {
	p.mu.Lock()
	p.muted = m
	p.mu.Unlock()
}

func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	ok := p.initialized && !p.muted
	p.mu.Unlock()
	if !ok {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Shot plays the cue strike; strength is the impulse fraction in [0,1].
func (p *Player) Shot(strength float64) { p.play(ShotSound(strength, sampleRate)) }

// Pocket plays an object ball dropping.
func (p *Player) Pocket() { p.play(PocketSound(sampleRate)) }

// Scratch plays the cue ball dropping.
func (p *Player) Scratch() { p.play(ScratchSound(sampleRate)) }

// Close silences the mixer.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
