package state

import "math"

// MaxSpringStep caps a single integration step, in seconds, so a long pause
// (a hidden window, a debugger stop) does not blow the oscillator up.
const MaxSpringStep = 0.33

// Spring is a damped harmonic oscillator pulling X toward Value.
type Spring struct {
	X       float64 // position
	V       float64 // velocity
	Value   float64 // target
	Force   float64 // stiffness
	Damping float64
}

// DefaultSpring returns an underdamped spring, 0.6 of critical damping.
func DefaultSpring(force float64) Spring {
	return Spring{Force: force, Damping: math.Sqrt(force * 36 / 25)}
}

// CriticalSpring returns a critically damped spring.
func CriticalSpring(force float64) Spring {
	return Spring{Force: force, Damping: 2 * math.Sqrt(force)}
}

// accel is the acceleration acting on the spring at its current state.
func (s *Spring) accel() float64 {
	return -s.Force*(s.X-s.Value) - s.Damping*s.V
}

// Update advances the spring by dt seconds with a semi-implicit Euler step.
func (s *Spring) Update(dt float64) {
	if dt > MaxSpringStep {
		dt = MaxSpringStep
	}
	if dt <= 0 {
		return
	}
	s.V += s.accel() * dt
	s.X += s.V * dt
}
