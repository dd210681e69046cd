package physics

// Solver and material defaults for a top-down pool table. Session profiles
// override these; the values here are what NewWorld and BallMaterial fall
// back to when a field is left at zero.
const (
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3

	DefaultDensity        = 5.4 // ~0.17 kg for a 0.1 m ball
	DefaultFriction       = 0.05
	DefaultRestitution    = 0.93
	DefaultLinearDamping  = 0.6
	DefaultAngularDamping = 0.6

	// A ball is at rest when |v|² < RestLinearSpeedSq and |ω| < RestAngularSpeed.
	RestLinearSpeedSq = 1e-4
	RestAngularSpeed  = 1e-2

	NumPockets = 6
)
