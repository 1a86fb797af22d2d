package state

import (
	"math"
	"testing"
)

func TestSpringPresets(t *testing.T) {
	d := DefaultSpring(100)
	c := CriticalSpring(100)

	if c.Damping != 20 {
		t.Errorf("expected critical damping 20, got %f", c.Damping)
	}
	if ratio := d.Damping / c.Damping; math.Abs(ratio-0.6) > 1e-9 {
		t.Errorf("expected default damping ratio 0.6, got %f", ratio)
	}
}

func TestSpringConvergesToTarget(t *testing.T) {
	s := CriticalSpring(100)
	s.Value = 1

	for i := 0; i < 600; i++ {
		s.Update(1.0 / 60)
	}
	if math.Abs(s.X-1) > 1e-3 {
		t.Errorf("expected spring to settle at 1, got %f", s.X)
	}
}

func TestSpringDefaultOvershoots(t *testing.T) {
	s := DefaultSpring(100)
	s.Value = 1

	peak := 0.0
	for i := 0; i < 120; i++ {
		s.Update(1.0 / 60)
		peak = math.Max(peak, s.X)
	}
	if peak <= 1 {
		t.Errorf("expected underdamped spring to overshoot, peak %f", peak)
	}
}

func TestSpringClampsStep(t *testing.T) {
	a := DefaultSpring(100)
	a.Value = 1
	b := a

	a.Update(MaxSpringStep)
	b.Update(5)

	if a.X != b.X || a.V != b.V {
		t.Errorf("expected step of 5s to be clamped to %v: got (%f,%f) vs (%f,%f)",
			MaxSpringStep, b.X, b.V, a.X, a.V)
	}
}

func TestSpringZeroStep(t *testing.T) {
	s := DefaultSpring(100)
	s.Value = 1
	s.Update(0)
	if s.X != 0 || s.V != 0 {
		t.Errorf("expected no motion for dt=0, got x=%f v=%f", s.X, s.V)
	}
}
