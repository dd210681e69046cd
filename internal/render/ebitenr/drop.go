package ebitenr

import (
	"github.com/playpool/billiards/internal/physics"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// dropDuration is how long a pocketed ball takes to shrink away, seconds.
const dropDuration = 0.35

// drop animates a ball that left the table.
type drop struct {
	number int
	pos    physics.Vec2 // display units
	radius float64
	tween  *gween.Tween
	done   bool
}

func newDrop(number int, pos physics.Vec2, radius float64) *drop {
	return &drop{
		number: number,
		pos:    pos,
		radius: radius,
		tween:  gween.New(float32(radius), 0, dropDuration, ease.InQuad),
	}
}

func (d *drop) update(dt float32) {
	if d.done {
		return
	}
	r, finished := d.tween.Update(dt)
	d.radius = float64(r)
	d.done = finished
}

// dropTracker diffs consecutive scenes and animates balls that vanished.
type dropTracker struct {
	last  map[int]physics.Vec2
	radii map[int]float64
	drops []*drop
}

func newDropTracker() *dropTracker {
	return &dropTracker{last: map[int]physics.Vec2{}, radii: map[int]float64{}}
}

// observe records the balls of a new scene; positions are in simulation units.
func (t *dropTracker) observe(numbers []int, positions []physics.Vec2, radii []float64) {
	present := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		present[n] = true
	}
	for n, pos := range t.last {
		if !present[n] {
			t.drops = append(t.drops, newDrop(n, physics.VecToDisplay(pos), t.radii[n]))
			delete(t.last, n)
			delete(t.radii, n)
		}
	}
	for i, n := range numbers {
		t.last[n] = positions[i]
		t.radii[n] = radii[i]
	}
}

func (t *dropTracker) update(dt float32) {
	live := t.drops[:0]
	for _, d := range t.drops {
		d.update(dt)
		if !d.done {
			live = append(live, d)
		}
	}
	t.drops = live
}
