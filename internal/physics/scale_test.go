package physics

import (
	"math"
	"testing"
)

func TestScaleRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 10, 0.5, 1280, 720, -333.25, 1e-6, 1e9}
	for _, x := range values {
		if got := ToSim(ToDisplay(x)); math.Abs(got-x) > 1e-9*math.Max(1, math.Abs(x)) {
			t.Errorf("ToSim(ToDisplay(%v)) = %v", x, got)
		}
		if got := ToDisplay(ToSim(x)); math.Abs(got-x) > 1e-9*math.Max(1, math.Abs(x)) {
			t.Errorf("ToDisplay(ToSim(%v)) = %v", x, got)
		}
	}
}

func TestScaleConstant(t *testing.T) {
	if ToSim(100) != 1 {
		t.Errorf("100 px should be 1 m, got %v", ToSim(100))
	}
	if ToDisplay(2) != 200 {
		t.Errorf("2 m should be 200 px, got %v", ToDisplay(2))
	}
}

func TestVectorScaleRoundTrip(t *testing.T) {
	v := NewVec2(640, -360.5)
	back := VecToDisplay(VecToSim(v))
	if math.Abs(back.X-v.X) > 1e-9 || math.Abs(back.Y-v.Y) > 1e-9 {
		t.Errorf("vector round trip: got %+v want %+v", back, v)
	}
	s := VecToSim(v)
	if s.X != 6.4 || math.Abs(s.Y+3.605) > 1e-12 {
		t.Errorf("VecToSim(%+v) = %+v", v, s)
	}
}
