package game

import (
	"math"

	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/physics"
)

// RackPositions returns display-space centers for a triangular rack whose
// apex points at the cue ball. Row i holds i+1 balls; neighbouring centers
// are 2*radius+gap apart.
func RackPositions(rack config.RackProfile, radius float64) []physics.Vec2 {
	spacing := 2*radius + rack.Gap
	rowStep := spacing * math.Sqrt(3) / 2

	positions := make([]physics.Vec2, 0, rack.Rows*(rack.Rows+1)/2)
	for row := 0; row < rack.Rows; row++ {
		x := rack.ApexX + float64(row)*rowStep
		for j := 0; j <= row; j++ {
			y := rack.ApexY + (float64(j)-float64(row)/2)*spacing
			positions = append(positions, physics.NewVec2(x, y))
		}
	}
	return positions
}
