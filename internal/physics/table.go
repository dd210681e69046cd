package physics

import (
	"fmt"

	"github.com/ByteArena/box2d"
)

// Segment is a wall segment in simulation units.
type Segment struct {
	Name string `json:"name"`
	P1   Vec2   `json:"p1"`
	P2   Vec2   `json:"p2"`
}

// Table is the static rectangular boundary: four edge fixtures on one static
// body, inset from the playfield edges. Immutable after construction.
type Table struct {
	body     *box2d.B2Body
	segments [4]Segment
	width    float64
	height   float64
	offset   float64
}

// NewTable builds the walls of a displayWidth × displayHeight playfield,
// inset by displayOffset on every side.
func NewTable(world *World, displayWidth, displayHeight, displayOffset float64) (*Table, error) {
	l := ToSim(displayOffset)
	r := ToSim(displayWidth - displayOffset)
	t := ToSim(displayOffset)
	b := ToSim(displayHeight - displayOffset)

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_staticBody
	bd.Position.Set(0, 0)

	body, err := world.createBody(&bd)
	if err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}

	tbl := &Table{
		body:   body,
		width:  displayWidth,
		height: displayHeight,
		offset: displayOffset,
		segments: [4]Segment{
			{Name: "top", P1: NewVec2(l, t), P2: NewVec2(r, t)},
			{Name: "bottom", P1: NewVec2(l, b), P2: NewVec2(r, b)},
			{Name: "left", P1: NewVec2(l, t), P2: NewVec2(l, b)},
			{Name: "right", P1: NewVec2(r, t), P2: NewVec2(r, b)},
		},
	}

	for _, s := range tbl.segments {
		edge := box2d.MakeB2EdgeShape()
		edge.Set(s.P1.b2(), s.P2.b2())
		body.CreateFixture(&edge, 0)
	}

	return tbl, nil
}

// Segments returns the four walls in simulation units.
func (t *Table) Segments() [4]Segment {
	return t.segments
}

// Body returns the static wall body.
func (t *Table) Body() *box2d.B2Body {
	return t.body
}

// Size returns the playfield size in display units.
func (t *Table) Size() (width, height float64) {
	return t.width, t.height
}

// Offset returns the wall inset in display units.
func (t *Table) Offset() float64 {
	return t.offset
}
