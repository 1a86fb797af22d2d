package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"PlaceBoard/internal/input"
	"PlaceBoard/internal/state"
)

const swatchSize = 24

// colorSwatch is a tappable palette entry.
type colorSwatch struct {
	widget.BaseWidget
	Color    state.RGB
	OnTapped func(state.RGB)
}

func newColorSwatch(c state.RGB, tapped func(state.RGB)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color.RGBA())
	rect.SetMinSize(fyne.NewSize(swatchSize, swatchSize))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// ToolbarActions is what the toolbar controls.
type ToolbarActions interface {
	Color() state.RGB
	SetColor(c state.RGB)
	Push(ev input.Event)
	Export()
}

// Toolbar holds the palette, the current color with its hex entry, zoom
// buttons and export.
type Toolbar struct {
	root    fyne.CanvasObject
	current *canvas.Rectangle
	hex     *widget.Entry
	act     ToolbarActions
}

// NewToolbar builds the toolbar for act.
func NewToolbar(act ToolbarActions) *Toolbar {
	t := &Toolbar{act: act}

	t.current = canvas.NewRectangle(act.Color().RGBA())
	t.current.SetMinSize(fyne.NewSize(swatchSize*1.5, swatchSize*1.5))
	t.current.StrokeColor = color.White
	t.current.StrokeWidth = 1

	t.hex = widget.NewEntry()
	t.hex.OnSubmitted = func(string) { t.applyHex() }
	hexBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(90, 36)), t.hex)

	palette := container.NewHBox()
	for _, c := range state.Palette {
		palette.Add(newColorSwatch(c, t.pick))
	}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { act.Push(input.Zoom{In: true}) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { act.Push(input.Zoom{In: false}) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), act.Export),
	)

	t.root = container.NewHBox(
		t.current,
		widget.NewLabel("#"),
		hexBox,
		widget.NewSeparator(),
		palette,
		widget.NewSeparator(),
		tb,
		layout.NewSpacer(),
	)
	t.ShowColor(act.Color())
	return t
}

// Object returns the toolbar's canvas object.
func (t *Toolbar) Object() fyne.CanvasObject { return t.root }

func (t *Toolbar) pick(c state.RGB) {
	t.act.SetColor(c)
	t.ShowColor(c)
}

func (t *Toolbar) applyHex() {
	c, err := input.ParseHexColor(t.hex.Text)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring hex color")
		t.ShowColor(t.act.Color())
		return
	}
	t.pick(c)
}

// ShowColor updates the current color display and hex entry.
func (t *Toolbar) ShowColor(c state.RGB) {
	t.current.FillColor = c.RGBA()
	t.current.Refresh()
	t.hex.SetText(c.Hex())
}
