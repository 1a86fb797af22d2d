// Package render composes frames from the client state and decides when a
// frame is needed.
package render

import (
	"time"

	"PlaceBoard/internal/state"
)

// FrameSource runs a callback at the next display refresh.
type FrameSource interface {
	RequestFrame(fn func())
}

// FrameFunc draws one frame. dt is the time since the previous frame in
// seconds. It reports whether anything is still animating.
type FrameFunc func(now time.Time, dt float64) bool

// Token identifies one continuous run of the scheduler. Starting a new run
// invalidates every earlier token.
type Token uint64

// Scheduler drives redraws. It is idle until StartContinuous is called and
// returns to idle on its own once the frame function reports nothing left to
// animate.
type Scheduler struct {
	frames FrameSource
	draw   FrameFunc
	clock  state.Clock

	gen      Token
	running  bool
	lastDraw time.Time
}

// NewScheduler builds an idle scheduler.
func NewScheduler(frames FrameSource, clock state.Clock, draw FrameFunc) *Scheduler {
	if clock == nil {
		clock = state.SystemClock{}
	}
	return &Scheduler{frames: frames, draw: draw, clock: clock, lastDraw: clock.Now()}
}

// Running reports whether a continuous run is active.
func (s *Scheduler) Running() bool { return s.running }

// RequestRedraw paints one frame now regardless of state.
func (s *Scheduler) RequestRedraw() {
	if !s.redraw() && s.running {
		s.stop()
	}
}

// StartContinuous begins a new run that repaints once per display refresh.
// Any run already in flight is superseded, so calling it repeatedly never
// leaves more than one pending continuation.
func (s *Scheduler) StartContinuous() Token {
	s.gen++
	s.running = true
	tok := s.gen
	s.frame(tok)
	return tok
}

// Valid reports whether tok still belongs to the active run.
func (s *Scheduler) Valid(tok Token) bool { return s.running && tok == s.gen }

func (s *Scheduler) frame(tok Token) {
	if !s.Valid(tok) {
		return
	}
	if !s.redraw() {
		s.stop()
		return
	}
	s.frames.RequestFrame(func() { s.frame(tok) })
}

func (s *Scheduler) stop() {
	s.running = false
	s.gen++
}

func (s *Scheduler) redraw() bool {
	now := s.clock.Now()
	dt := now.Sub(s.lastDraw).Seconds()
	s.lastDraw = now
	return s.draw(now, dt)
}
