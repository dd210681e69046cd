package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is a decaying sine burst.
type tone struct {
	freq     float64
	phase    float64
	total    int
	position int
	decay    float64
	gain     float64
	rate     beep.SampleRate
}

// newTone returns a sine at freq that decays exponentially over d.
func newTone(freq float64, d time.Duration, gain float64, rate beep.SampleRate) *tone {
	n := rate.N(d)
	return &tone{
		freq:  freq,
		total: n,
		decay: 5.0 / float64(max(n, 1)),
		gain:  gain,
		rate:  rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		env := math.Exp(-t.decay * float64(t.position))
		v := t.gain * env * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// ShotSound is the click of the cue. strength is the impulse fraction in [0,1].
func ShotSound(strength float64, rate beep.SampleRate) beep.Streamer {
	strength = math.Max(0, math.Min(1, strength))
	return newTone(900+600*strength, 60*time.Millisecond, 0.25+0.5*strength, rate)
}

// PocketSound is a low thud followed by a short rattle.
func PocketSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		newTone(140, 120*time.Millisecond, 0.7, rate),
		newTone(320, 50*time.Millisecond, 0.3, rate),
	)
}

// ScratchSound plays when the cue ball is pocketed.
func ScratchSound(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		newTone(440, 90*time.Millisecond, 0.4, rate),
		newTone(330, 90*time.Millisecond, 0.4, rate),
		newTone(220, 160*time.Millisecond, 0.4, rate),
	)
}
