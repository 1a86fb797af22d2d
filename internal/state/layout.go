package state

// Label geometry in screen units; the layout divides by the view scale so
// labels keep a constant on-screen size at any zoom.
const (
	labelOffsetX = 20
	labelOffsetY = -20
	labelStep    = 20
	labelMarginX = 100
	labelMarginY = 15
)

// Placement is where a bubble label wants to sit this frame.
type Placement struct {
	Bubble *ChatBubble
	Anchor Point // world point the bubble hangs from
	Offset Point // label target relative to Anchor
	Rect   Rect  // obstacle claimed by the label, in world units
}

// Layout places bubble labels first-fit in arrival order. Each label starts
// at a fixed offset up and to the right of its anchor and is pushed down in
// fixed steps until its rectangle clears every label placed before it.
func (o *Overlays) Layout(f Frame) []Placement {
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	var (
		out    []Placement
		placed []Rect
	)
	for _, it := range o.items {
		b, ok := it.(*ChatBubble)
		if !ok {
			continue
		}
		anchor := f.Cursor
		if b.At != nil {
			anchor = *b.At
		}
		off, r := placeLabel(anchor, scale, placed)
		placed = append(placed, r)
		out = append(out, Placement{Bubble: b, Anchor: anchor, Offset: off, Rect: r})
	}
	return out
}

// placeLabel finds the first free slot below the default label position.
func placeLabel(anchor Point, scale float64, placed []Rect) (Point, Rect) {
	off := Point{labelOffsetX / scale, labelOffsetY / scale}
	r := Rect{
		X: anchor.X + off.X,
		Y: anchor.Y + off.Y,
		W: labelMarginX / scale,
		H: labelMarginY / scale,
	}
	for moved := true; moved; {
		moved = false
		for _, p := range placed {
			if r.Overlaps(p) {
				off.Y += labelStep / scale
				r.Y += labelStep / scale
				moved = true
			}
		}
	}
	return off, r
}
