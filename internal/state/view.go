package state

import "math"

// View defaults.
const (
	DefaultPadding  = 20
	DefaultMinScale = 0.1
	// maxScaleDivisor sets the zoom ceiling to the mirror diagonal over 20.
	maxScaleDivisor = 20
)

// View is the pan/zoom transform from world (mirror cells) to screen.
// screen = world*Scale + Offset.
type View struct {
	Offset Point
	Scale  float64

	// Viewport is the on-screen canvas size, Content the mirror size.
	Viewport Size
	Content  Size

	Padding  float64
	MinScale float64
}

// NewView returns an identity view with the default bounds.
func NewView() *View {
	return &View{Scale: 1, Padding: DefaultPadding, MinScale: DefaultMinScale}
}

// SetViewport records the canvas size. Call Clamp afterwards.
func (v *View) SetViewport(w, h float64) { v.Viewport = Size{W: w, H: h} }

// SetContent records the mirror size. Call Clamp afterwards.
func (v *View) SetContent(s Size) { v.Content = s }

// Center is the middle of the viewport in screen coordinates.
func (v *View) Center() Point { return Point{v.Viewport.W / 2, v.Viewport.H / 2} }

// MaxScale is the zoom ceiling for the current content. It never drops below
// MinScale so an empty mirror still has a valid range.
func (v *View) MaxScale() float64 {
	m := math.Hypot(v.Content.W, v.Content.H) / maxScaleDivisor
	if m < v.MinScale {
		return v.MinScale
	}
	return m
}

// ScaleAroundPoint multiplies the scale by factor keeping the world point
// under screen point (px, py) fixed.
func (v *View) ScaleAroundPoint(factor, px, py float64) {
	v.Scale *= factor
	v.Offset.X = (v.Offset.X-px)*factor + px
	v.Offset.Y = (v.Offset.Y-py)*factor + py
}

// Translate pans by (dx, dy) screen units.
func (v *View) Translate(dx, dy float64) {
	v.Offset.X += dx
	v.Offset.Y += dy
}

// Set replaces offset and scale wholesale, as gestures anchored at their
// start state do.
func (v *View) Set(offset Point, scale float64) {
	v.Offset = offset
	v.Scale = scale
}

// Clamp forces scale into [MinScale, MaxScale] around the viewport centre and
// keeps the mirror within Padding of the viewport edges. Per axis the two
// bounds are ordered before use: a mirror larger than the viewport may be
// dragged until its far edge is Padding inside, a smaller one may sit
// anywhere inside the viewport.
func (v *View) Clamp() {
	c := v.Center()
	if !(v.Scale > 0) || math.IsInf(v.Scale, 0) {
		v.Scale = v.MinScale
	}
	if lo := v.MinScale; v.Scale < lo {
		v.ScaleAroundPoint(lo/v.Scale, c.X, c.Y)
		v.Scale = lo
	}
	if hi := v.MaxScale(); v.Scale > hi {
		v.ScaleAroundPoint(hi/v.Scale, c.X, c.Y)
		v.Scale = hi
	}

	minX, maxX := 0.0, v.Viewport.W-v.Content.W*v.Scale
	minY, maxY := 0.0, v.Viewport.H-v.Content.H*v.Scale
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	if math.IsNaN(v.Offset.X) || math.IsNaN(v.Offset.Y) {
		v.Offset = Point{}
	}
	v.Offset.X = clamp(v.Offset.X, minX-v.Padding, maxX+v.Padding)
	v.Offset.Y = clamp(v.Offset.Y, minY-v.Padding, maxY+v.Padding)
}

// ToWorld maps a screen point into mirror coordinates.
func (v *View) ToWorld(p Point) Point {
	return Point{(p.X - v.Offset.X) / v.Scale, (p.Y - v.Offset.Y) / v.Scale}
}

// ToScreen maps a mirror point onto the screen.
func (v *View) ToScreen(p Point) Point {
	return Point{p.X*v.Scale + v.Offset.X, p.Y*v.Scale + v.Offset.Y}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
