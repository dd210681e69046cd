package physics

// Pocket is a capture disc in simulation units.
type Pocket struct {
	ID     int     `json:"id"`
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// DefaultPockets derives the six pockets of a displayWidth × displayHeight
// table: four corners then two mid-edges, in the fixed order
// top-left, top-center, top-right, bottom-left, bottom-center, bottom-right.
// Each center sits one pocket radius in from the window edges.
func DefaultPockets(displayWidth, displayHeight, displayRadius float64) []Pocket {
	w := ToSim(displayWidth)
	h := ToSim(displayHeight)
	r := ToSim(displayRadius)
	off := r

	return []Pocket{
		{ID: 0, Center: NewVec2(off, off), Radius: r},
		{ID: 1, Center: NewVec2(w/2, off), Radius: r},
		{ID: 2, Center: NewVec2(w-off, off), Radius: r},
		{ID: 3, Center: NewVec2(off, h-off), Radius: r},
		{ID: 4, Center: NewVec2(w/2, h-off), Radius: r},
		{ID: 5, Center: NewVec2(w-off, h-off), Radius: r},
	}
}

// Captures reports whether a simulation-space center lies within the
// pocket. A center exactly on the boundary circle is captured.
func (p Pocket) Captures(center Vec2) bool {
	dx := center.X - p.Center.X
	dy := center.Y - p.Center.Y
	return dx*dx+dy*dy <= p.Radius*p.Radius
}

// InPocket reports whether the ball's center is within the pocket.
func InPocket(p Pocket, b *Ball) bool {
	return p.Captures(b.Position())
}

// FirstCapturing returns the index of the first pocket, in enumeration
// order, that captures the ball, or -1.
func FirstCapturing(pockets []Pocket, b *Ball) int {
	c := b.Position()
	for i, p := range pockets {
		if p.Captures(c) {
			return i
		}
	}
	return -1
}
