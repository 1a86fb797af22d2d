// Package session ties the mirror, view, overlays and render loop to one
// server connection.
package session

import (
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"PlaceBoard/internal/input"
	pnet "PlaceBoard/internal/net"
	"PlaceBoard/internal/render"
	"PlaceBoard/internal/state"
)

// Conn is the outbound side of the socket.
type Conn interface {
	Send(typ string, payload any) error
	Drop()
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Clock   state.Clock
	Frames  render.FrameSource
	Console ConsoleView
	// After schedules fn on the UI thread after d.
	After func(d time.Duration, fn func())
	// Present receives every painted frame.
	Present func(frame *image.RGBA)
	// ColorChanged is told when a pick changes the current color.
	ColorChanged func(c state.RGB)

	Padding        float64
	MinScale       float64
	ClickTolerance float64
	ZoomStep       float64
	PenRate        float64
	PenBurst       int
	LogChat        bool
}

// Session owns all client state. Every method must be called from the UI
// thread.
type Session struct {
	clock    state.Clock
	frames   render.FrameSource
	mirror   *state.Mirror
	view     *state.View
	overlays *state.Overlays
	painter  *render.Painter
	sched    *render.Scheduler
	queue    input.Queue
	ctl      *input.Controller
	console  *Console

	conn      Conn
	connected bool
	color     state.RGB
	pen       *rate.Limiter
	logChat   bool

	present      func(*image.RGBA)
	colorChanged func(state.RGB)
	flushPending bool
}

// New builds a disconnected session.
func New(opts Options) (*Session, error) {
	if opts.Frames == nil {
		return nil, errors.New("session needs a frame source")
	}
	if opts.Clock == nil {
		opts.Clock = state.SystemClock{}
	}
	painter, err := render.NewPainter()
	if err != nil {
		return nil, err
	}
	penRate := rate.Inf
	if opts.PenRate > 0 {
		penRate = rate.Limit(opts.PenRate)
	}
	burst := opts.PenBurst
	if burst <= 0 {
		burst = 1
	}

	s := &Session{
		clock:        opts.Clock,
		frames:       opts.Frames,
		mirror:       state.NewMirror(),
		view:         state.NewView(),
		overlays:     state.NewOverlays(opts.Clock),
		painter:      painter,
		pen:          rate.NewLimiter(penRate, burst),
		logChat:      opts.LogChat,
		present:      opts.Present,
		colorChanged: opts.ColorChanged,
		color:        state.Palette[0],
	}
	if opts.Padding > 0 {
		s.view.Padding = opts.Padding
	}
	if opts.MinScale > 0 {
		s.view.MinScale = opts.MinScale
	}
	if opts.Console == nil {
		opts.Console = nopConsole{}
	}
	s.console = NewConsole(opts.Console, s.send, opts.After)
	s.ctl = input.NewController(s.view, s, opts.ClickTolerance, opts.ZoomStep)
	s.sched = render.NewScheduler(opts.Frames, opts.Clock, s.draw)
	return s, nil
}

// SetConn attaches the outbound connection.
func (s *Session) SetConn(c Conn) { s.conn = c }

func (s *Session) Mirror() *state.Mirror { return s.mirror }
func (s *Session) View() *state.View { return s.view }
func (s *Session) Overlays() *state.Overlays { return s.overlays }
func (s *Session) Console() *Console { return s.console }
func (s *Session) Scheduler() *render.Scheduler { return s.sched }
func (s *Session) Controller() *input.Controller { return s.ctl }
func (s *Session) Connected() bool { return s.connected }

// Frame returns the last painted frame.
func (s *Session) Frame() *image.RGBA { return s.painter.Frame() }

// Color returns the current drawing color.
func (s *Session) Color() state.RGB { return s.color }

// SetColor changes the drawing color.
func (s *Session) SetColor(c state.RGB) {
	s.color = c
	if !s.sched.Running() {
		s.sched.RequestRedraw()
	}
}

// Push queues an input event. Events are applied at the next frame, in
// arrival order.
func (s *Session) Push(ev input.Event) {
	s.queue.Push(ev)
	if s.flushPending {
		return
	}
	s.flushPending = true
	s.frames.RequestFrame(s.flush)
}

func (s *Session) flush() {
	s.flushPending = false
	if s.drainInput() && !s.sched.Running() {
		s.sched.RequestRedraw()
	}
}

func (s *Session) drainInput() bool {
	dirty := false
	for _, ev := range s.queue.Drain() {
		if s.ctl.Handle(ev) {
			dirty = true
		}
	}
	return dirty
}

// Redraw paints one frame now.
func (s *Session) Redraw() { s.sched.RequestRedraw() }

func (s *Session) draw(now time.Time, dt float64) bool {
	s.drainInput()
	cursor, shown := s.ctl.Cursor()
	alive := s.overlays.Tick(now, dt, state.Frame{Scale: s.view.Scale, Cursor: s.view.ToWorld(cursor)})
	frame := s.painter.Paint(render.Scene{
		Now:       now,
		Mirror:    s.mirror,
		View:      s.view,
		Overlays:  s.overlays,
		Connected: s.connected,
		Cursor:    render.Cursor{Visible: shown, Screen: cursor, Color: s.color},
	})
	if s.present != nil {
		s.present(frame)
	}
	return alive
}

func (s *Session) send(typ string, payload any) error {
	if s.conn == nil {
		return pnet.ErrNotConnected
	}
	return s.conn.Send(typ, payload)
}

// Paint sends a set-pixel for the cell under at in the current color. In pen
// mode sends beyond the configured rate are dropped.
func (s *Session) Paint(at state.Point) {
	if s.ctl.Pen() && !s.pen.Allow() {
		return
	}
	px := pnet.SetPixel{X: int(at.X), Y: int(at.Y), R: s.color.R, G: s.color.G, B: s.color.B}
	if err := s.send(pnet.TypeSetPixel, px); err != nil {
		log.Debug().Err(err).Int("x", px.X).Int("y", px.Y).Msg("set-pixel not sent")
	}
}

// Pick adopts the mirror color under at, if any.
func (s *Session) Pick(at state.Point) {
	c, ok := s.mirror.ReadPixel(int(at.X), int(at.Y))
	if !ok {
		return
	}
	s.color = c
	if s.colorChanged != nil {
		s.colorChanged(c)
	}
}

// Chat posts text at the world position under the cursor.
func (s *Session) Chat(text string) error {
	cursor, _ := s.ctl.Cursor()
	at := s.view.ToWorld(cursor)
	return s.send(pnet.TypeChatMessage, pnet.ChatPost{X: at.X, Y: at.Y, Text: text})
}

// Opened marks the session connected.
func (s *Session) Opened() {
	s.connected = true
	s.sched.RequestRedraw()
	s.console.Opened()
}

// Closed marks the session disconnected. The transport retries on its own.
func (s *Session) Closed(err error) {
	wasConnected := s.connected
	s.connected = false
	if wasConnected {
		log.Info().Err(err).Msg("disconnected")
	}
	s.sched.RequestRedraw()
	s.console.Closed()
}

type nopConsole struct{}

func (nopConsole) SetPrompt(string, bool) {}
func (nopConsole) SetEnabled(bool) {}
func (nopConsole) Put(string, LineKind) {}
