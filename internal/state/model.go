package state

import (
	"fmt"
	"image/color"
)

// Point is a 2D position. Screen points are in viewport units, world points in
// mirror cells.
type Point struct{ X, Y float64 }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Overlaps reports whether the two rectangles share any interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// RGB is one mirror cell.
type RGB struct{ R, G, B uint8 }

// RGBA converts c to an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

// Hex formats c as six lowercase hex digits without a leading '#'.
func (c RGB) Hex() string { return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B) }

// Palette is the fixed set of quick-pick colors shown in the toolbar.
var Palette = []RGB{
	{0x00, 0x00, 0x00},
	{0xc9, 0x1b, 0x00},
	{0x00, 0xc2, 0x00},
	{0xc7, 0xc4, 0x00},
	{0x57, 0x75, 0xff},
	{0xca, 0x30, 0xc7},
	{0x00, 0xc5, 0xc7},
	{0xc7, 0xc7, 0xc7},
	{0x68, 0x68, 0x68},
	{0xff, 0x6e, 0x67},
	{0x5f, 0xfa, 0x68},
	{0xff, 0xfc, 0x67},
	{0x9c, 0xa2, 0xff},
	{0xff, 0x77, 0xff},
	{0x60, 0xfd, 0xff},
	{0xff, 0xff, 0xff},
}
