package ui

import (
	"context"
	"fmt"
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"github.com/rs/zerolog/log"

	"PlaceBoard/internal/export"
	"PlaceBoard/internal/input"
	pnet "PlaceBoard/internal/net"
	"PlaceBoard/internal/session"
	"PlaceBoard/internal/state"
)

// Options configures the desktop client.
type Options struct {
	// URL is the canvas socket address.
	URL            string
	ReconnectDelay time.Duration
	Session        session.Options
}

// host connects the widgets to the session and window.
type host struct {
	*session.Session
	win     fyne.Window
	canvas  *CanvasWidget
	toolbar *Toolbar
	console *consolePanel
}

// Export asks for a file and saves the mirror as PNG or PDF by extension.
func (h *host) Export() {
	img := h.Mirror().Image()
	if img.Rect.Empty() {
		dialog.ShowInformation("Export", "No canvas received yet.", h.win)
		return
	}
	snap := image.NewRGBA(img.Rect)
	copy(snap.Pix, img.Pix)
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, h.win)
			return
		}
		if wc == nil {
			return
		}
		name := wc.URI().Name()
		err = export.Write(wc, snap, export.FormatFor(name), name)
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("export failed")
			dialog.ShowError(err, h.win)
			return
		}
		log.Info().Str("file", wc.URI().String()).Msg("exported canvas")
	}, h.win)
	d.SetFileName("place.png")
	d.Show()
}

func (h *host) typedRune(r rune) {
	switch r {
	case 't':
		pos, _ := h.Controller().Cursor()
		origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(h.canvas)
		at := origin.Add(fyne.NewPos(float32(pos.X), float32(pos.Y)))
		openChat(h.win.Canvas(), at, h.Chat)
	case 'p':
		h.Push(input.Key{Name: "p"})
	}
}

func (h *host) typedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyF4 {
		h.console.toggle(h.win.Canvas())
	}
}

// Run opens the client window and blocks until it is closed.
func Run(ctx context.Context, opts Options) error {
	a := app.NewWithID("io.github.placeboard")
	w := a.NewWindow(fmt.Sprintf("Place - %s", opts.URL))
	w.Resize(fyne.NewSize(1024, 768))

	h := &host{win: w, console: newConsolePanel()}

	so := opts.Session
	so.Frames = displayFrames{}
	so.Console = h.console
	so.After = afterOnMain
	so.Present = func(img *image.RGBA) {
		if h.canvas != nil {
			h.canvas.Present(img)
		}
	}
	so.ColorChanged = func(c state.RGB) {
		if h.toolbar != nil {
			h.toolbar.ShowColor(c)
		}
	}
	s, err := session.New(so)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	h.Session = s

	client := pnet.NewClient(opts.URL, s,
		pnet.WithReconnectDelay(opts.ReconnectDelay),
		pnet.WithPost(fyne.Do),
	)
	s.SetConn(client)
	h.console.submit = s.Console().Submit

	h.canvas = NewCanvasWidget(s, s.Frame)
	h.toolbar = NewToolbar(h)

	w.SetContent(container.NewBorder(h.toolbar.Object(), h.console.root, nil, nil, h.canvas))
	w.Canvas().SetOnTypedRune(h.typedRune)
	w.Canvas().SetOnTypedKey(h.typedKey)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.SetOnClosed(cancel)
	go func() {
		if err := client.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("transport stopped")
		}
	}()

	log.Info().Str("url", opts.URL).Str("client_id", state.ClientID).Msg("starting client")
	w.ShowAndRun()
	return nil
}
