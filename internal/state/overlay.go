package state

import "time"

// Overlay schedule shared by every item.
const (
	HoldDuration = 8 * time.Second
	FadeDuration = 2 * time.Second

	bubbleForce  = 100
	collapseKick = 10
)

// Opacity is the age-based alpha of an overlay: opaque while held, then a
// linear ramp to zero over the fade window.
func Opacity(age time.Duration) float64 {
	switch {
	case age <= HoldDuration:
		return 1
	case age >= HoldDuration+FadeDuration:
		return 0
	default:
		return 1 - float64(age-HoldDuration)/float64(FadeDuration)
	}
}

// Overlay is a transient element drawn over the mirror. The concrete types
// are *ChatBubble and *Broadcast.
type Overlay interface {
	Born() time.Time
	Opacity(now time.Time) float64
	overlay()
}

// ChatBubble is a chat line attached to a point on the mirror.
type ChatBubble struct {
	ID    uint64
	At    *Point // author position; nil follows the local cursor
	Text  string
	Hue   *float64
	Admin bool

	Scale   Spring
	OffsetX Spring
	OffsetY Spring

	born       time.Time
	anchor     Point
	collapsing bool
}

func (b *ChatBubble) Born() time.Time { return b.born }

func (b *ChatBubble) Opacity(now time.Time) float64 { return Opacity(now.Sub(b.born)) }

func (*ChatBubble) overlay() {}

// Anchor is the world point the bubble was attached to on the last tick.
func (b *ChatBubble) Anchor() Point { return b.anchor }

// LabelOffset is the animated label position relative to the anchor.
func (b *ChatBubble) LabelOffset() Point { return Point{b.OffsetX.X, b.OffsetY.X} }

// advance drives the scale spring through its grow/hold/collapse schedule and
// reports whether the collapse has finished.
func (b *ChatBubble) advance(now time.Time, dt float64) (done bool) {
	switch {
	case now.Sub(b.born) < HoldDuration:
		b.Scale.Value = 1
	case !b.collapsing:
		b.collapsing = true
		b.Scale.Value = 0
		b.Scale.V = collapseKick
	case b.Scale.X < 0:
		done = true
	}
	b.Scale.Update(dt)
	return done
}

// Broadcast is a server-wide announcement centred on the viewport.
type Broadcast struct {
	ID   uint64
	Text string

	born time.Time
}

func (b *Broadcast) Born() time.Time { return b.born }

func (b *Broadcast) Opacity(now time.Time) float64 { return Opacity(now.Sub(b.born)) }

func (*Broadcast) overlay() {}

func (b *Broadcast) expired(now time.Time) bool {
	return now.Sub(b.born) > HoldDuration+FadeDuration
}

// BubbleInput is the payload for a new chat bubble.
type BubbleInput struct {
	At    *Point
	Text  string
	Hue   *float64
	Admin bool
}

// Frame carries the view state a tick needs for label placement.
type Frame struct {
	Scale  float64
	Cursor Point // local cursor in world coordinates
}

// Overlays owns every live overlay item in arrival order.
type Overlays struct {
	clock  Clock
	items  []Overlay
	nextID uint64
}

// NewOverlays creates an empty manager stamping items with clock.
func NewOverlays(clock Clock) *Overlays {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Overlays{clock: clock}
}

// AddChatBubble appends a bubble born now. Its scale spring starts collapsed
// at 0 and grows on the first tick.
func (o *Overlays) AddChatBubble(in BubbleInput) *ChatBubble {
	o.nextID++
	b := &ChatBubble{
		ID:      o.nextID,
		At:      in.At,
		Text:    in.Text,
		Hue:     in.Hue,
		Admin:   in.Admin,
		Scale:   DefaultSpring(bubbleForce),
		OffsetX: CriticalSpring(bubbleForce),
		OffsetY: CriticalSpring(bubbleForce),
		born:    o.clock.Now(),
	}
	if in.At != nil {
		b.anchor = *in.At
	}
	o.items = append(o.items, b)
	return b
}

// AddBroadcast appends a broadcast born now.
func (o *Overlays) AddBroadcast(text string) *Broadcast {
	o.nextID++
	b := &Broadcast{ID: o.nextID, Text: text, born: o.clock.Now()}
	o.items = append(o.items, b)
	return b
}

// Len is the number of live items.
func (o *Overlays) Len() int { return len(o.items) }

// Bubbles returns the live chat bubbles oldest first.
func (o *Overlays) Bubbles() []*ChatBubble {
	var out []*ChatBubble
	for _, it := range o.items {
		if b, ok := it.(*ChatBubble); ok {
			out = append(out, b)
		}
	}
	return out
}

// Broadcasts returns the live broadcasts oldest first.
func (o *Overlays) Broadcasts() []*Broadcast {
	var out []*Broadcast
	for _, it := range o.items {
		if b, ok := it.(*Broadcast); ok {
			out = append(out, b)
		}
	}
	return out
}

// Tick advances every item by dt seconds, re-runs label placement, and drops
// broadcasts past their fade and bubbles whose collapse has finished. Items
// removed on this tick were still laid out, so they act as obstacles for
// later bubbles one last time. It reports whether any item remains.
func (o *Overlays) Tick(now time.Time, dt float64, f Frame) bool {
	remove := make([]bool, len(o.items))
	for i, it := range o.items {
		switch it := it.(type) {
		case *Broadcast:
			remove[i] = it.expired(now)
		case *ChatBubble:
			remove[i] = it.advance(now, dt)
		}
	}

	for _, p := range o.Layout(f) {
		b := p.Bubble
		b.anchor = p.Anchor
		b.OffsetX.Value = p.Offset.X
		b.OffsetY.Value = p.Offset.Y
		b.OffsetX.Update(dt)
		b.OffsetY.Update(dt)
	}

	kept := o.items[:0]
	for i, it := range o.items {
		if !remove[i] {
			kept = append(kept, it)
		}
	}
	for i := len(kept); i < len(o.items); i++ {
		o.items[i] = nil
	}
	o.items = kept
	return len(o.items) > 0
}
