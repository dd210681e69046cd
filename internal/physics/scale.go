package physics

// PixelsPerMeter is the fixed scale between display units (pixels) and
// simulation units (meters): 100 px = 1 m.
const PixelsPerMeter = 100.0

// ToSim converts a display-unit scalar to simulation units.
func ToSim(px float64) float64 { return px / PixelsPerMeter }

// ToDisplay converts a simulation-unit scalar to display units.
func ToDisplay(m float64) float64 { return m * PixelsPerMeter }

// VecToSim converts a display-unit vector to simulation units.
func VecToSim(v Vec2) Vec2 { return Vec2{X: v.X / PixelsPerMeter, Y: v.Y / PixelsPerMeter} }

// VecToDisplay converts a simulation-unit vector to display units.
func VecToDisplay(v Vec2) Vec2 { return Vec2{X: v.X * PixelsPerMeter, Y: v.Y * PixelsPerMeter} }
