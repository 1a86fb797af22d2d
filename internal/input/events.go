// Package input turns raw pointer, wheel, touch and key events into view
// changes and pixel intents.
package input

import "PlaceBoard/internal/state"

// Modifiers is the set of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
)

// Picks reports whether a click with these modifiers picks a color instead of
// painting.
func (m Modifiers) Picks() bool { return m&(ModCtrl|ModAlt) != 0 }

// Event is one queued input event. Positions are in screen coordinates
// relative to the canvas.
type Event interface{ event() }

type PointerDown struct {
	Pos  state.Point
	Mods Modifiers
}

type PointerMove struct {
	Pos  state.Point
	Mods Modifiers
}

type PointerUp struct {
	Pos  state.Point
	Mods Modifiers
}

// PointerLeave is sent when the pointer exits the canvas.
type PointerLeave struct{}

// Wheel carries scroll deltas in the browser convention: positive DY scrolls
// the content up.
type Wheel struct {
	Pos    state.Point
	DX, DY float64
	Mods   Modifiers
}

// TouchStart, TouchMove and TouchEnd carry the active touch points, first
// finger first.
type TouchStart struct{ Touches []state.Point }

type TouchMove struct{ Touches []state.Point }

type TouchEnd struct{}

// Zoom is a zoom button press.
type Zoom struct{ In bool }

// Key is a released key outside any text entry.
type Key struct{ Name string }

// Resize reports a new canvas size.
type Resize struct{ W, H float64 }

func (PointerDown) event() {}
func (PointerMove) event() {}
func (PointerUp) event() {}
func (PointerLeave) event() {}
func (Wheel) event() {}
func (TouchStart) event() {}
func (TouchMove) event() {}
func (TouchEnd) event() {}
func (Zoom) event() {}
func (Key) event() {}
func (Resize) event() {}
