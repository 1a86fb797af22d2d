package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"PlaceBoard/internal/input"
	"PlaceBoard/internal/state"
)

// EventSink receives the events the canvas widget produces.
type EventSink interface {
	Push(ev input.Event)
}

// CanvasWidget shows the painted frame and forwards pointer, wheel and touch
// input as queued events.
type CanvasWidget struct {
	widget.BaseWidget
	sink     EventSink
	frame    func() *image.RGBA
	raster   *canvas.Raster
	touching bool
	pressed  bool
}

var _ fyne.Widget = (*CanvasWidget)(nil)
var _ fyne.Draggable = (*CanvasWidget)(nil)
var _ fyne.Scrollable = (*CanvasWidget)(nil)
var _ desktop.Mouseable = (*CanvasWidget)(nil)
var _ desktop.Hoverable = (*CanvasWidget)(nil)
var _ mobile.Touchable = (*CanvasWidget)(nil)

// NewCanvasWidget displays whatever frame returns and pushes input to sink.
func NewCanvasWidget(sink EventSink, frame func() *image.RGBA) *CanvasWidget {
	c := &CanvasWidget{sink: sink, frame: frame}
	c.raster = canvas.NewRaster(func(w, h int) image.Image {
		if img := c.frame(); img != nil && !img.Rect.Empty() {
			return img
		}
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	})
	c.raster.ScaleMode = canvas.ImageScalePixels
	c.ExtendBaseWidget(c)
	return c
}

// Present schedules the latest frame for display.
func (c *CanvasWidget) Present(*image.RGBA) { c.raster.Refresh() }

func point(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func modifiers(m fyne.KeyModifier) input.Modifiers {
	var out input.Modifiers
	if m&fyne.KeyModifierControl != 0 || m&fyne.KeyModifierSuper != 0 {
		out |= input.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= input.ModAlt
	}
	if m&fyne.KeyModifierShift != 0 {
		out |= input.ModShift
	}
	return out
}

// heldModifiers reads the keyboard state for events that do not carry it.
func heldModifiers() input.Modifiers {
	app := fyne.CurrentApp()
	if app == nil {
		return 0
	}
	if drv, ok := app.Driver().(desktop.Driver); ok {
		return modifiers(drv.CurrentKeyModifiers())
	}
	return 0
}

func (c *CanvasWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.pressed = true
	c.sink.Push(input.PointerDown{Pos: point(e.Position), Mods: modifiers(e.Modifier)})
}

func (c *CanvasWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !c.pressed {
		return
	}
	c.pressed = false
	c.sink.Push(input.PointerUp{Pos: point(e.Position), Mods: modifiers(e.Modifier)})
}

func (c *CanvasWidget) MouseIn(e *desktop.MouseEvent) {
	c.sink.Push(input.PointerMove{Pos: point(e.Position), Mods: modifiers(e.Modifier)})
}

func (c *CanvasWidget) MouseMoved(e *desktop.MouseEvent) {
	c.sink.Push(input.PointerMove{Pos: point(e.Position), Mods: modifiers(e.Modifier)})
}

func (c *CanvasWidget) MouseOut() { c.sink.Push(input.PointerLeave{}) }

// Dragged carries pointer motion while a button or finger is down.
func (c *CanvasWidget) Dragged(e *fyne.DragEvent) {
	if c.touching {
		c.sink.Push(input.TouchMove{Touches: []state.Point{point(e.Position)}})
		return
	}
	c.sink.Push(input.PointerMove{Pos: point(e.Position), Mods: heldModifiers()})
}

func (c *CanvasWidget) DragEnd() {}

func (c *CanvasWidget) Scrolled(e *fyne.ScrollEvent) {
	// fyne reports wheel-up as positive DY; the controller expects the
	// browser sign.
	c.sink.Push(input.Wheel{
		Pos:  point(e.Position),
		DX:   -float64(e.Scrolled.DX),
		DY:   -float64(e.Scrolled.DY),
		Mods: heldModifiers(),
	})
}

func (c *CanvasWidget) TouchDown(e *mobile.TouchEvent) {
	c.touching = true
	c.sink.Push(input.TouchStart{Touches: []state.Point{point(e.Position)}})
}

func (c *CanvasWidget) TouchUp(*mobile.TouchEvent) {
	c.touching = false
	c.sink.Push(input.TouchEnd{})
}

func (c *CanvasWidget) TouchCancel(*mobile.TouchEvent) {
	c.touching = false
	c.sink.Push(input.TouchEnd{})
}

func (c *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	return &canvasRenderer{c: c}
}

type canvasRenderer struct {
	c    *CanvasWidget
	size fyne.Size
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.c.raster} }

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.c.raster.Resize(size)
	if size == r.size {
		return
	}
	r.size = size
	r.c.sink.Push(input.Resize{W: float64(size.Width), H: float64(size.Height)})
}

func (r *canvasRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *canvasRenderer) Refresh() { r.c.raster.Refresh() }

func (r *canvasRenderer) Destroy() {}
