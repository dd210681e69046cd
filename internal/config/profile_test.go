package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultProfileMatchesSessionConstants(t *testing.T) {
	p := DefaultProfile()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
	if p.Table.Width != 1280 || p.Table.Height != 720 {
		t.Errorf("table = %vx%v, want 1280x720", p.Table.Width, p.Table.Height)
	}
	if p.Table.WallInset != 20 || p.Balls.Radius != 10 || p.Table.PocketRadius != 18 {
		t.Errorf("inset/ball/pocket = %v/%v/%v", p.Table.WallInset, p.Balls.Radius, p.Table.PocketRadius)
	}
	if p.RackSize() != 15 {
		t.Errorf("rack size = %d, want 15", p.RackSize())
	}
	if p.Rack.CueSpawnX != 300 || p.Rack.CueSpawnY != 360 {
		t.Errorf("cue spawn = (%v,%v)", p.Rack.CueSpawnX, p.Rack.CueSpawnY)
	}
	if p.Simulation.SubSteps != 4 || p.Aim.MaxDrag != 2.0 {
		t.Errorf("sub steps = %d, max drag = %v", p.Simulation.SubSteps, p.Aim.MaxDrag)
	}
}

func TestLoadProfileCustomPathOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fast.yaml")
	data := "aim:\n  max_drag: 2.0\n  max_impulse: 2.0\n  min_drag: 0.001\nsimulation:\n  sub_steps: 8\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Aim.MaxImpulse != 2.0 || p.Simulation.SubSteps != 8 {
		t.Errorf("overrides not applied: impulse=%v substeps=%d", p.Aim.MaxImpulse, p.Simulation.SubSteps)
	}
	if p.Table.Width != 1280 {
		t.Errorf("unspecified fields should keep defaults, width=%v", p.Table.Width)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom profile")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	p := DefaultProfile()
	p.Balls.Radius = 0
	p.Simulation.SubSteps = 0
	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "ball radius") || !strings.Contains(err.Error(), "sub steps") {
		t.Errorf("error should name every problem: %v", err)
	}
}
