package render

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"

	"PlaceBoard/internal/state"
)

var (
	background  = color.RGBA{0, 0, 0, 0xff}
	bubbleBlue  = color.NRGBA{24, 131, 255, 0xff}
	adminBorder = color.NRGBA{0x18, 0x83, 0xff, 0xff}
)

const (
	dimAlpha     = 0.5
	bubbleAlpha  = 0.7
	bubbleHeight = 18
	bubblePadX   = 10
	outlineWidth = 2 // half the broadcast stroke width
)

// Cursor is the pointer hint drawn over the mirror.
type Cursor struct {
	Visible bool
	Screen  state.Point
	Color   state.RGB
}

// Scene is everything one frame reads. The painter never mutates it.
type Scene struct {
	Now       time.Time
	Mirror    *state.Mirror
	View      *state.View
	Overlays  *state.Overlays
	Connected bool
	Cursor    Cursor
}

// Painter composes frames into a reusable RGBA buffer.
type Painter struct {
	faces faces
	frame *image.RGBA
}

// NewPainter loads the embedded fonts.
func NewPainter() (*Painter, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return &Painter{faces: f, frame: image.NewRGBA(image.Rectangle{})}, nil
}

// Frame returns the last painted frame.
func (p *Painter) Frame() *image.RGBA { return p.frame }

// Paint draws sc and returns the frame. Layers, bottom up: background, the
// mirror under the view transform (dimmed while disconnected), broadcasts,
// the cursor hint, chat bubbles oldest first.
func (p *Painter) Paint(sc Scene) *image.RGBA {
	w := int(math.Ceil(sc.View.Viewport.W))
	h := int(math.Ceil(sc.View.Viewport.H))
	if p.frame.Rect.Dx() != w || p.frame.Rect.Dy() != h {
		p.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	dst := p.frame
	draw.Draw(dst, dst.Rect, image.NewUniform(background), image.Point{}, draw.Src)

	p.paintMirror(dst, sc)
	for _, b := range sc.Overlays.Broadcasts() {
		p.paintBroadcast(dst, sc, b)
	}
	p.paintCursor(dst, sc)
	for _, b := range sc.Overlays.Bubbles() {
		p.paintBubble(dst, sc, b)
	}
	return dst
}

func (p *Painter) paintMirror(dst *image.RGBA, sc Scene) {
	if sc.Mirror == nil || !sc.Mirror.Ready() {
		return
	}
	v := sc.View
	src := sc.Mirror.Image()
	s2d := f64.Aff3{v.Scale, 0, v.Offset.X, 0, v.Scale, v.Offset.Y}
	draw.NearestNeighbor.Transform(dst, s2d, src, src.Bounds(), draw.Over, nil)
	if !sc.Connected {
		veil := color.NRGBA{A: alpha(dimAlpha)}
		draw.Draw(dst, dst.Rect, image.NewUniform(veil), image.Point{}, draw.Over)
	}
}

func (p *Painter) paintBroadcast(dst *image.RGBA, sc Scene, b *state.Broadcast) {
	op := b.Opacity(sc.Now)
	if op <= 0 {
		return
	}
	face := p.faces.broadcast
	x := (int(sc.View.Viewport.W) - textWidth(face, b.Text)) / 2
	y := (int(sc.View.Viewport.H) - 12) / 2

	d := font.Drawer{Dst: dst, Face: face}
	d.Src = image.NewUniform(color.NRGBA{A: alpha(op)})
	for oy := -outlineWidth; oy <= outlineWidth; oy++ {
		for ox := -outlineWidth; ox <= outlineWidth; ox++ {
			if ox == 0 && oy == 0 {
				continue
			}
			d.Dot = dot(x+ox, y+oy)
			d.DrawString(b.Text)
		}
	}
	d.Src = image.NewUniform(color.NRGBA{0xff, 0xff, 0xff, alpha(op)})
	d.Dot = dot(x, y)
	d.DrawString(b.Text)
}

func (p *Painter) paintCursor(dst *image.RGBA, sc Scene) {
	if !sc.Cursor.Visible {
		return
	}
	v := sc.View
	w := v.ToWorld(sc.Cursor.Screen)
	cell := state.Point{X: math.Floor(w.X), Y: math.Floor(w.Y)}
	a := v.ToScreen(cell)
	b := v.ToScreen(cell.Add(state.Point{X: 1, Y: 1}))
	r := image.Rect(int(math.Floor(a.X)), int(math.Floor(a.Y)), int(math.Ceil(b.X)), int(math.Ceil(b.Y)))
	strokeRect(dst, r, sc.Cursor.Color.RGBA())
}

// paintBubble draws the connector and label of one bubble. Geometry is built
// in label space (screen pixels at bubble scale 1, origin at the anchor) and
// mapped through the bubble's scale and tilt.
func (p *Painter) paintBubble(dst *image.RGBA, sc Scene, b *state.ChatBubble) {
	op := b.Opacity(sc.Now)
	s := b.Scale.X
	if op <= 0 || s <= 0 {
		return
	}
	v := sc.View
	anchor := v.ToScreen(b.Anchor())
	off := b.LabelOffset()
	lx, ly := off.X*v.Scale, off.Y*v.Scale

	theta := (s - 1) / 10
	sin, cos := math.Sincos(theta)
	a00, a01, a10, a11 := s*cos, -s*sin, s*sin, s*cos
	toScreen := func(x, y float64) (float64, float64) {
		return anchor.X + a00*x + a01*y, anchor.Y + a10*x + a11*y
	}

	x0, y0 := toScreen(0, 0)
	x1, y1 := toScreen(lx, ly)
	drawLine(dst, x0, y0, x1, y1, 1, color.NRGBA{A: alpha(op)})

	label := p.label(b, op)
	// Label image has a 1px margin around the rectangle, whose top-left is at
	// (lx, ly-12) in label space.
	ox, oy := lx-1, ly-12-1
	tx, ty := toScreen(ox, oy)
	s2d := f64.Aff3{a00, a01, tx, a10, a11, ty}
	draw.ApproxBiLinear.Transform(dst, s2d, label, label.Bounds(), draw.Over, nil)
}

// label renders the bubble body, axis aligned, with opacity applied.
func (p *Painter) label(b *state.ChatBubble, op float64) *image.RGBA {
	face := p.faces.bubble
	tw := textWidth(face, b.Text)
	rw, rh := 2*bubblePadX+tw, bubbleHeight
	img := image.NewRGBA(image.Rect(0, 0, rw+2, rh+2))

	fill := bubbleFill(b.Hue)
	fill.A = alpha(op * bubbleAlpha)
	radius := float32(rh) / 2
	fillRoundedRect(img, 1, 1, float32(rw), float32(rh), radius, fill)
	if b.Admin {
		border := adminBorder
		border.A = alpha(op)
		strokeRoundedRect(img, 1, 1, float32(rw), float32(rh), radius, 1, border)
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{0xff, 0xff, 0xff, alpha(op)}),
		Face: face,
		Dot:  dot(1+bubblePadX, 1+12),
	}
	d.DrawString(b.Text)
	return img
}

// bubbleFill is the label color: the author's identity hue at 70%
// saturation and 40% lightness, or the default blue.
func bubbleFill(hue *float64) color.NRGBA {
	if hue == nil {
		return bubbleBlue
	}
	r, g, b := colorful.Hsl(*hue*360, 0.7, 0.4).Clamped().RGB255()
	return color.NRGBA{r, g, b, 0xff}
}

func alpha(op float64) uint8 {
	return uint8(math.Round(255 * math.Max(0, math.Min(1, op))))
}
