package render

import (
	"image"
	"image/color"
	"testing"
	"time"

	"PlaceBoard/internal/state"
)

func testScene(t *testing.T) (Scene, *state.ManualClock) {
	t.Helper()
	clk := &state.ManualClock{T: time.Unix(1700000000, 0)}
	m := state.NewMirror()
	raw := make([]byte, 4*4*4)
	for i := 0; i < 16; i++ {
		raw[i*4+0] = 0xff
		raw[i*4+3] = 0xff
	}
	if err := m.ApplyFullSnapshot(4, 4, state.EncodeBlob(raw)); err != nil {
		t.Fatalf("ApplyFullSnapshot() error: %v", err)
	}
	v := state.NewView()
	v.SetViewport(200, 100)
	v.SetContent(m.Size())
	v.Set(state.Point{}, 10)
	return Scene{
		Now:       clk.Now(),
		Mirror:    m,
		View:      v,
		Overlays:  state.NewOverlays(clk),
		Connected: true,
	}, clk
}

func newTestPainter(t *testing.T) *Painter {
	t.Helper()
	p, err := NewPainter()
	if err != nil {
		t.Fatalf("NewPainter() error: %v", err)
	}
	return p
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func countLit(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R != 0 || c.G != 0 || c.B != 0 {
				n++
			}
		}
	}
	return n
}

func TestPaintMirrorUnderTransform(t *testing.T) {
	sc, _ := testScene(t)
	img := newTestPainter(t).Paint(sc)

	if img.Rect.Dx() != 200 || img.Rect.Dy() != 100 {
		t.Fatalf("expected 200x100 frame, got %v", img.Rect)
	}
	if c := rgbaAt(img, 5, 5); c.R != 0xff || c.G != 0 {
		t.Errorf("expected red inside mirror, got %v", c)
	}
	if c := rgbaAt(img, 100, 50); c != background {
		t.Errorf("expected background outside mirror, got %v", c)
	}
}

func TestPaintDimsWhenDisconnected(t *testing.T) {
	sc, _ := testScene(t)
	sc.Connected = false
	img := newTestPainter(t).Paint(sc)

	c := rgbaAt(img, 5, 5)
	if c.R < 120 || c.R > 135 {
		t.Errorf("expected mirror dimmed to about half, got %v", c)
	}
}

func TestPaintCursorHint(t *testing.T) {
	sc, _ := testScene(t)
	sc.Cursor = Cursor{Visible: true, Screen: state.Point{X: 15, Y: 15}, Color: state.RGB{G: 0xff}}
	img := newTestPainter(t).Paint(sc)

	if c := rgbaAt(img, 10, 15); c.G != 0xff {
		t.Errorf("expected cursor outline at cell edge, got %v", c)
	}
	if c := rgbaAt(img, 15, 15); c.G != 0 {
		t.Errorf("expected cell interior untouched, got %v", c)
	}
}

func TestPaintBroadcastFades(t *testing.T) {
	sc, clk := testScene(t)
	sc.Mirror = state.NewMirror()
	sc.Overlays.AddBroadcast("hello world")
	p := newTestPainter(t)
	band := image.Rect(0, 20, 200, 60)

	if n := countLit(p.Paint(sc), band); n == 0 {
		t.Error("expected broadcast text pixels")
	}

	clk.Advance(11 * time.Second)
	sc.Now = clk.Now()
	if n := countLit(p.Paint(sc), band); n != 0 {
		t.Errorf("expected faded broadcast to draw nothing, got %d pixels", n)
	}
}

func TestPaintBubbleLabel(t *testing.T) {
	sc, clk := testScene(t)
	sc.Mirror = state.NewMirror()
	sc.View.Set(state.Point{}, 1)
	at := state.Point{X: 40, Y: 60}
	sc.Overlays.AddChatBubble(state.BubbleInput{At: &at, Text: "hey"})

	for i := 0; i < 120; i++ {
		clk.Advance(time.Second / 60)
		sc.Overlays.Tick(clk.Now(), 1.0/60, state.Frame{Scale: 1})
	}
	sc.Now = clk.Now()
	img := newTestPainter(t).Paint(sc)

	label := image.Rect(60, 28, 100, 46)
	if n := countLit(img, label); n == 0 {
		t.Error("expected bubble label pixels up and right of the anchor")
	}
	if n := countLit(img, image.Rect(0, 80, 30, 100)); n != 0 {
		t.Errorf("expected nothing drawn far from the bubble, got %d", n)
	}
}

func TestBubbleFill(t *testing.T) {
	if got := bubbleFill(nil); got != bubbleBlue {
		t.Errorf("expected default blue, got %v", got)
	}
	hue := 0.0
	got := bubbleFill(&hue)
	if got.R <= got.G || got.R <= got.B {
		t.Errorf("expected hue 0 to be red dominant, got %v", got)
	}
}
