package input

import (
	"math"

	"github.com/rs/zerolog/log"

	"PlaceBoard/internal/state"
)

const (
	DefaultClickTolerance = 4
	DefaultZoomStep       = 1.25
	wheelZoomDivisor      = 100
)

// Actions receives the intents a gesture produces. Positions are in world
// coordinates.
type Actions interface {
	Paint(at state.Point)
	Pick(at state.Point)
}

// Controller applies events to a View. Every gesture that moves the view ends
// with a clamp.
type Controller struct {
	view      *state.View
	act       Actions
	tolerance float64
	zoomStep  float64
	pen       bool

	cursor     state.Point
	cursorShow bool

	down       *state.Point
	prev       state.Point
	downOffset state.Point
	moved      float64

	pinch      *state.Point
	pinchMid   state.Point
	pinchScale float64
}

// NewController builds a controller for v. Non-positive tolerance or step
// select the defaults.
func NewController(v *state.View, act Actions, tolerance, zoomStep float64) *Controller {
	if tolerance <= 0 {
		tolerance = DefaultClickTolerance
	}
	if zoomStep <= 1 {
		zoomStep = DefaultZoomStep
	}
	return &Controller{view: v, act: act, tolerance: tolerance, zoomStep: zoomStep}
}

// Cursor returns the last pointer position and whether the hint is shown.
func (c *Controller) Cursor() (state.Point, bool) { return c.cursor, c.cursorShow }

// Pen reports whether pen mode is on.
func (c *Controller) Pen() bool { return c.pen }

// SetPen switches pen mode. While on, a press never turns into a pan and every
// move paints.
func (c *Controller) SetPen(on bool) {
	c.pen = on
	log.Debug().Bool("pen", on).Msg("pen mode")
}

func (c *Controller) clickTolerance() float64 {
	if c.pen {
		return math.Inf(1)
	}
	return c.tolerance
}

// Handle applies ev and reports whether the frame needs repainting.
func (c *Controller) Handle(ev Event) bool {
	switch ev := ev.(type) {
	case PointerDown:
		c.press(ev.Pos)
		return false
	case PointerMove:
		c.pointerMove(ev)
		return true
	case PointerUp:
		c.pointerUp(ev)
		return true
	case PointerLeave:
		c.cursorShow = false
		return true
	case Wheel:
		c.wheel(ev)
		return true
	case TouchStart:
		c.touchStart(ev.Touches)
		return false
	case TouchMove:
		return c.touchMove(ev.Touches)
	case TouchEnd:
		c.touchEnd()
		return false
	case Zoom:
		f := c.zoomStep
		if !ev.In {
			f = 1 / f
		}
		mid := c.view.Center()
		c.view.ScaleAroundPoint(f, mid.X, mid.Y)
		c.view.Clamp()
		return true
	case Key:
		if ev.Name == "p" {
			c.SetPen(!c.pen)
		}
		return false
	case Resize:
		c.view.SetViewport(ev.W, ev.H)
		c.view.Clamp()
		return true
	}
	return false
}

func (c *Controller) press(p state.Point) {
	c.down = &p
	c.prev = p
	c.downOffset = c.view.Offset
	c.moved = 0
}

func (c *Controller) travel(p state.Point) {
	c.moved += math.Hypot(p.X-c.prev.X, p.Y-c.prev.Y)
	c.prev = p
}

func (c *Controller) pan(p state.Point) {
	c.view.Offset = p.Sub(*c.down).Add(c.downOffset)
}

func (c *Controller) pointerMove(ev PointerMove) {
	c.cursor = ev.Pos
	c.cursorShow = true
	if c.down == nil {
		return
	}
	c.travel(ev.Pos)
	switch {
	case c.moved >= c.clickTolerance():
		c.pan(ev.Pos)
		c.view.Clamp()
	case c.pen && !ev.Mods.Picks():
		c.act.Paint(c.view.ToWorld(ev.Pos))
	}
}

func (c *Controller) pointerUp(ev PointerUp) {
	if c.moved < c.clickTolerance() {
		at := c.view.ToWorld(ev.Pos)
		if ev.Mods.Picks() {
			c.act.Pick(at)
		} else {
			c.act.Paint(at)
		}
		if c.down != nil {
			c.view.Offset = c.downOffset
		}
	}
	c.down = nil
	c.moved = 0
}

func (c *Controller) wheel(ev Wheel) {
	c.cursor = ev.Pos
	if ev.Mods&ModCtrl != 0 {
		if f := 1 - ev.DY/wheelZoomDivisor; f > 0 {
			c.view.ScaleAroundPoint(f, ev.Pos.X, ev.Pos.Y)
		}
	} else {
		c.view.Translate(-ev.DX, -ev.DY)
	}
	c.view.Clamp()
}

func (c *Controller) touchStart(ts []state.Point) {
	c.cursorShow = false
	if len(ts) == 0 {
		return
	}
	c.press(ts[0])
	if len(ts) > 1 {
		second := ts[1]
		c.pinch = &second
		c.pinchMid = state.Point{X: (ts[0].X + second.X) / 2, Y: (ts[0].Y + second.Y) / 2}
		c.pinchScale = c.view.Scale
	}
}

// touchMove pans with one finger and pinches with two. The pinch keeps the
// initial midpoint fixed; bounds are enforced once after the update.
func (c *Controller) touchMove(ts []state.Point) bool {
	if c.down == nil || len(ts) == 0 {
		return false
	}
	first := ts[0]
	c.travel(first)
	switch {
	case c.pinch != nil && len(ts) > 1:
		start := math.Hypot(c.pinch.X-c.down.X, c.pinch.Y-c.down.Y)
		if start == 0 {
			break
		}
		f := math.Hypot(ts[1].X-first.X, ts[1].Y-first.Y) / start
		if f <= 0 {
			break
		}
		off := c.downOffset.Sub(c.pinchMid)
		c.view.Set(state.Point{X: off.X*f + c.pinchMid.X, Y: off.Y*f + c.pinchMid.Y}, c.pinchScale*f)
	case c.pinch == nil:
		c.pan(first)
	}
	c.view.Clamp()
	return true
}

func (c *Controller) touchEnd() {
	if c.down != nil && c.moved < c.tolerance && c.pinch == nil {
		c.act.Paint(c.view.ToWorld(c.prev))
	}
	c.down = nil
	c.pinch = nil
	c.moved = 0
}
