package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed session.yaml
var defaultProfileYAML []byte

// Profile is the fixed parameter set of one game session. Display values
// are in pixels, physical values in simulation units (meters, seconds,
// kilograms).
type Profile struct {
	Table      TableProfile      `yaml:"table" json:"table"`
	Balls      BallProfile       `yaml:"balls" json:"balls"`
	Rack       RackProfile       `yaml:"rack" json:"rack"`
	Simulation SimulationProfile `yaml:"simulation" json:"simulation"`
	Aim        AimProfile        `yaml:"aim" json:"aim"`
}

type TableProfile struct {
	Width        float64 `yaml:"width" json:"width"`
	Height       float64 `yaml:"height" json:"height"`
	WallInset    float64 `yaml:"wall_inset" json:"wall_inset"`
	PocketRadius float64 `yaml:"pocket_radius" json:"pocket_radius"`
}

type BallProfile struct {
	Radius         float64 `yaml:"radius" json:"radius"`
	Density        float64 `yaml:"density" json:"density"`
	Friction       float64 `yaml:"friction" json:"friction"`
	Restitution    float64 `yaml:"restitution" json:"restitution"`
	LinearDamping  float64 `yaml:"linear_damping" json:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping" json:"angular_damping"`
}

type RackProfile struct {
	Rows      int     `yaml:"rows" json:"rows"`
	Gap       float64 `yaml:"gap" json:"gap"`
	ApexX     float64 `yaml:"apex_x" json:"apex_x"`
	ApexY     float64 `yaml:"apex_y" json:"apex_y"`
	CueSpawnX float64 `yaml:"cue_spawn_x" json:"cue_spawn_x"`
	CueSpawnY float64 `yaml:"cue_spawn_y" json:"cue_spawn_y"`
}

type SimulationProfile struct {
	Step               float64 `yaml:"step" json:"step"`
	SubSteps           int     `yaml:"sub_steps" json:"sub_steps"`
	VelocityIterations int     `yaml:"velocity_iterations" json:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations" json:"position_iterations"`
	RestLinearSpeedSq  float64 `yaml:"rest_linear_speed_sq" json:"rest_linear_speed_sq"`
	RestAngularSpeed   float64 `yaml:"rest_angular_speed" json:"rest_angular_speed"`
}

type AimProfile struct {
	MaxDrag    float64 `yaml:"max_drag" json:"max_drag"`
	MaxImpulse float64 `yaml:"max_impulse" json:"max_impulse"`
	MinDrag    float64 `yaml:"min_drag" json:"min_drag"`
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() Profile {
	var p Profile
	if err := yaml.Unmarshal(defaultProfileYAML, &p); err != nil {
		panic(fmt.Sprintf("config: embedded session profile is invalid: %v", err))
	}
	return p
}

// LoadProfile loads a session profile.
// Search order: customPath -> ./configs/session.yaml -> embedded default.
// Fields missing from a file keep their default values.
func LoadProfile(customPath string) (Profile, error) {
	p := DefaultProfile()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return p, fmt.Errorf("failed to read profile %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse profile %s: %w", customPath, err)
		}
		return p, p.Validate()
	}

	if data, err := os.ReadFile("configs/session.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return DefaultProfile(), fmt.Errorf("failed to parse configs/session.yaml: %w", err)
		}
	}

	return p, p.Validate()
}

// Validate rejects parameter sets the simulation cannot run with.
func (p Profile) Validate() error {
	var errs []error
	if p.Table.Width <= 0 || p.Table.Height <= 0 {
		errs = append(errs, errors.New("table width and height must be positive"))
	}
	if p.Table.WallInset < 0 || 2*p.Table.WallInset >= p.Table.Width || 2*p.Table.WallInset >= p.Table.Height {
		errs = append(errs, errors.New("wall inset must fit inside the table"))
	}
	if p.Table.PocketRadius <= 0 {
		errs = append(errs, errors.New("pocket radius must be positive"))
	}
	if p.Balls.Radius <= 0 {
		errs = append(errs, errors.New("ball radius must be positive"))
	}
	if p.Balls.Density <= 0 {
		errs = append(errs, errors.New("ball density must be positive"))
	}
	if p.Rack.Rows < 0 {
		errs = append(errs, errors.New("rack rows must not be negative"))
	}
	if p.Simulation.Step <= 0 {
		errs = append(errs, errors.New("simulation step must be positive"))
	}
	if p.Simulation.SubSteps < 1 {
		errs = append(errs, errors.New("sub steps must be at least 1"))
	}
	if p.Aim.MaxDrag <= 0 || p.Aim.MaxImpulse <= 0 {
		errs = append(errs, errors.New("max drag and max impulse must be positive"))
	}
	if p.Aim.MinDrag < 0 || p.Aim.MinDrag >= p.Aim.MaxDrag {
		errs = append(errs, errors.New("min drag must be in [0, max drag)"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid session profile: %w", errors.Join(errs...))
	}
	return nil
}

// RackSize returns the number of object balls in a full rack.
func (p Profile) RackSize() int {
	return p.Rack.Rows * (p.Rack.Rows + 1) / 2
}
