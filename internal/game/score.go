package game

import "strconv"

// ScoreBoard counts pocketed object balls. It only ever increases.
type ScoreBoard struct {
	score int
	label string
}

func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{label: "Score: 0"}
}

// Increase adds one point and regenerates the label.
func (s *ScoreBoard) Increase() {
	s.score++
	s.label = "Score: " + strconv.Itoa(s.score)
}

func (s *ScoreBoard) Value() int {
	return s.score
}

// Label returns the display string, "Score: {n}".
func (s *ScoreBoard) Label() string {
	return s.label
}
