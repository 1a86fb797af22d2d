package state

import (
	"testing"
	"time"
)

func TestLayoutSeparatesSharedAnchor(t *testing.T) {
	o, _ := newTestOverlays()
	at := Point{100, 100}
	o.AddChatBubble(BubbleInput{At: &at, Text: "one"})
	o.AddChatBubble(BubbleInput{At: &at, Text: "two"})

	for _, scale := range []float64{0.1, 1, 3.7} {
		ps := o.Layout(Frame{Scale: scale})
		if len(ps) != 2 {
			t.Fatalf("expected 2 placements, got %d", len(ps))
		}
		if ps[0].Rect.Overlaps(ps[1].Rect) {
			t.Errorf("scale %v: rectangles overlap: %+v %+v", scale, ps[0].Rect, ps[1].Rect)
		}
		if ps[1].Offset.Y <= ps[0].Offset.Y {
			t.Errorf("scale %v: expected second label below first", scale)
		}
	}
}

func TestLayoutStacksInArrivalOrder(t *testing.T) {
	o, _ := newTestOverlays()
	at := Point{0, 0}
	for i := 0; i < 5; i++ {
		o.AddChatBubble(BubbleInput{At: &at, Text: "x"})
	}
	ps := o.Layout(Frame{Scale: 1})
	for i, p := range ps {
		want := float64(labelOffsetY + i*labelStep)
		if p.Offset.Y != want {
			t.Errorf("bubble %d: expected offset y %v, got %v", i, want, p.Offset.Y)
		}
		for j := 0; j < i; j++ {
			if p.Rect.Overlaps(ps[j].Rect) {
				t.Errorf("bubble %d overlaps bubble %d", i, j)
			}
		}
	}
}

func TestLayoutDistantAnchorsKeepDefault(t *testing.T) {
	o, _ := newTestOverlays()
	a, b := Point{0, 0}, Point{500, 500}
	o.AddChatBubble(BubbleInput{At: &a, Text: "a"})
	o.AddChatBubble(BubbleInput{At: &b, Text: "b"})

	for i, p := range o.Layout(Frame{Scale: 1}) {
		if p.Offset != (Point{labelOffsetX, labelOffsetY}) {
			t.Errorf("bubble %d: expected default offset, got %v", i, p.Offset)
		}
	}
}

func TestLayoutSkipsBroadcasts(t *testing.T) {
	o, clk := newTestOverlays()
	o.AddBroadcast("news")
	clk.Advance(time.Second)
	o.AddChatBubble(BubbleInput{Text: "c"})
	if got := len(o.Layout(Frame{Scale: 1})); got != 1 {
		t.Errorf("expected only bubbles placed, got %d", got)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	tests := []struct {
		b    Rect
		want bool
	}{
		{Rect{5, 5, 10, 10}, true},
		{Rect{10, 0, 5, 5}, false},
		{Rect{0, 10, 5, 5}, false},
		{Rect{-5, -5, 6, 6}, true},
		{Rect{20, 20, 1, 1}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("Overlaps(%+v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}
