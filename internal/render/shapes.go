package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// fillRoundedRect fills an axis-aligned rounded rectangle. Corners are
// quadratic approximations of circular arcs.
func fillRoundedRect(dst draw.Image, x, y, w, h, r float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	roundedRectPath(z, x-float32(b.Min.X), y-float32(b.Min.Y), w, h, r, false)
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// strokeRoundedRect draws a ring of the given width centred on the outline.
func strokeRoundedRect(dst draw.Image, x, y, w, h, r, width float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	ox, oy := x-float32(b.Min.X), y-float32(b.Min.Y)
	hw := width / 2
	roundedRectPath(z, ox-hw, oy-hw, w+width, h+width, r+hw, false)
	// Opposite winding cancels coverage inside the inner outline.
	roundedRectPath(z, ox+hw, oy+hw, w-width, h-width, max(r-hw, 0), true)
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func roundedRectPath(z *vector.Rasterizer, x, y, w, h, r float32, reverse bool) {
	if w <= 0 || h <= 0 {
		return
	}
	r = min(r, min(w, h)/2)
	z.MoveTo(x+r, y)
	if reverse {
		z.QuadTo(x, y, x, y+r)
		z.LineTo(x, y+h-r)
		z.QuadTo(x, y+h, x+r, y+h)
		z.LineTo(x+w-r, y+h)
		z.QuadTo(x+w, y+h, x+w, y+h-r)
		z.LineTo(x+w, y+r)
		z.QuadTo(x+w, y, x+w-r, y)
	} else {
		z.LineTo(x+w-r, y)
		z.QuadTo(x+w, y, x+w, y+r)
		z.LineTo(x+w, y+h-r)
		z.QuadTo(x+w, y+h, x+w-r, y+h)
		z.LineTo(x+r, y+h)
		z.QuadTo(x, y+h, x, y+h-r)
		z.LineTo(x, y+r)
		z.QuadTo(x, y, x+r, y)
	}
	z.ClosePath()
}

// drawLine rasterizes a straight segment of the given width onto dst.
func drawLine(dst draw.Image, x0, y0, x1, y1, width float64, c color.Color) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2

	bounds := image.Rect(
		int(math.Floor(math.Min(x0, x1)-width)), int(math.Floor(math.Min(y0, y1)-width)),
		int(math.Ceil(math.Max(x0, x1)+width)), int(math.Ceil(math.Max(y0, y1)+width)),
	)
	clip := bounds.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}
	// The mask is aligned with clip.Min; the path may run outside it.
	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(x0+nx-ox), float32(y0+ny-oy))
	z.LineTo(float32(x1+nx-ox), float32(y1+ny-oy))
	z.LineTo(float32(x1-nx-ox), float32(y1-ny-oy))
	z.LineTo(float32(x0-nx-ox), float32(y0-ny-oy))
	z.ClosePath()
	z.Draw(dst, clip, image.NewUniform(c), image.Point{})
}

// strokeRect outlines a rectangle with 1px edges.
func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+1, r.Min.X+1, r.Max.Y-1),
		image.Rect(r.Max.X-1, r.Min.Y+1, r.Max.X, r.Max.Y-1),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Over)
	}
}
