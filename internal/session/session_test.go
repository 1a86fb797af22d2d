package session

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"testing"
	"time"

	"PlaceBoard/internal/input"
	pnet "PlaceBoard/internal/net"
	"PlaceBoard/internal/state"
)

type fakeFrames struct{ pending []func() }

func (f *fakeFrames) RequestFrame(fn func()) { f.pending = append(f.pending, fn) }

func (f *fakeFrames) flush() {
	p := f.pending
	f.pending = nil
	for _, fn := range p {
		fn()
	}
}

type sent struct {
	typ     string
	payload any
}

type fakeConn struct {
	sent    []sent
	dropped int
}

func (c *fakeConn) Send(typ string, payload any) error {
	c.sent = append(c.sent, sent{typ, payload})
	return nil
}

func (c *fakeConn) Drop() { c.dropped++ }

type line struct {
	text string
	kind LineKind
}

type fakeConsole struct {
	prompt   string
	password bool
	enabled  bool
	lines    []line
}

func (c *fakeConsole) SetPrompt(text string, password bool) { c.prompt, c.password = text, password }
func (c *fakeConsole) SetEnabled(enabled bool) { c.enabled = enabled }
func (c *fakeConsole) Put(text string, kind LineKind) { c.lines = append(c.lines, line{text, kind}) }

type harness struct {
	s        *Session
	clock    *state.ManualClock
	frames   *fakeFrames
	conn     *fakeConn
	console  *fakeConsole
	presents int
	deferred []func()
	picked   []state.RGB
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		clock:   &state.ManualClock{T: time.Unix(1_700_000_000, 0)},
		frames:  &fakeFrames{},
		conn:    &fakeConn{},
		console: &fakeConsole{},
	}
	opts.Clock = h.clock
	opts.Frames = h.frames
	opts.Console = h.console
	opts.Present = func(*image.RGBA) { h.presents++ }
	opts.After = func(_ time.Duration, fn func()) { h.deferred = append(h.deferred, fn) }
	opts.ColorChanged = func(c state.RGB) { h.picked = append(h.picked, c) }
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetConn(h.conn)
	s.View().SetViewport(200, 100)
	h.s = s
	return h
}

func (h *harness) message(t *testing.T, typ string, data any) {
	t.Helper()
	raw, err := pnet.Encode(typ, data)
	if err != nil {
		t.Fatalf("encode %s: %v", typ, err)
	}
	h.s.Message(raw)
}

func solid(w, hgt int, c state.RGB) []byte {
	buf := make([]byte, w*hgt*4)
	for i := 0; i < w*hgt; i++ {
		copy(buf[i*4:], []byte{c.R, c.G, c.B, 0xff})
	}
	return buf
}

func (h *harness) snapshot(t *testing.T, w, hgt int, c state.RGB) {
	t.Helper()
	h.message(t, pnet.TypeFullUpdate, pnet.FullUpdate{W: w, H: hgt, Data: state.EncodeBlob(solid(w, hgt, c))})
}

var (
	black = state.RGB{}
	red   = state.RGB{R: 0xff}
)

func TestFullUpdateReplacesMirror(t *testing.T) {
	h := newHarness(t, Options{})
	h.snapshot(t, 4, 4, black)
	raw := solid(4, 4, black)
	raw[(2*4+2)*4] = 0x7f
	h.message(t, pnet.TypeFullUpdate, pnet.FullUpdate{W: 4, H: 4, Data: state.EncodeBlob(raw)})

	if got, ok := h.s.Mirror().ReadPixel(2, 2); !ok || got != (state.RGB{R: 0x7f}) {
		t.Fatalf("ReadPixel(2,2) = %v, %v", got, ok)
	}
	if h.s.View().Content != (state.Size{W: 4, H: 4}) {
		t.Fatalf("view content = %v", h.s.View().Content)
	}
	if h.presents != 2 {
		t.Fatalf("presented %d frames, want 2", h.presents)
	}
}

func TestRegionsApplyThenRedrawOnce(t *testing.T) {
	h := newHarness(t, Options{})
	h.snapshot(t, 4, 4, black)
	h.presents = 0

	h.message(t, pnet.TypeRegions, []pnet.Region{
		{X: 1, Y: 1, W: 2, H: 1, Data: state.EncodeBlob(solid(2, 1, red))},
		{X: 1, Y: 2, W: 2, H: 1, Data: state.EncodeBlob(solid(2, 1, red))},
	})

	changed := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c, _ := h.s.Mirror().ReadPixel(x, y)
			if c != black {
				changed++
			}
		}
	}
	if changed != 4 {
		t.Fatalf("%d pixels changed, want 4", changed)
	}
	if h.presents != 1 {
		t.Fatalf("presented %d frames, want 1", h.presents)
	}
}

func TestMalformedRegionDropsConnection(t *testing.T) {
	h := newHarness(t, Options{})
	h.snapshot(t, 4, 4, black)
	h.message(t, pnet.TypeRegions, []pnet.Region{
		{X: 0, Y: 0, W: 1, H: 1, Data: state.EncodeBlob(solid(1, 1, red))},
		{X: 1, Y: 1, W: 2, H: 2, Data: "!!not base64"},
	})

	if c, _ := h.s.Mirror().ReadPixel(0, 0); c != black {
		t.Fatalf("first region applied despite bad batch: %v", c)
	}
	if h.conn.dropped != 1 {
		t.Fatalf("dropped %d times, want 1", h.conn.dropped)
	}
}

func TestShortSnapshotDropsConnection(t *testing.T) {
	h := newHarness(t, Options{})
	h.message(t, pnet.TypeFullUpdate, pnet.FullUpdate{W: 4, H: 4, Data: state.EncodeBlob(make([]byte, 10))})
	if h.s.Mirror().Ready() || h.conn.dropped != 1 {
		t.Fatalf("ready=%v dropped=%d", h.s.Mirror().Ready(), h.conn.dropped)
	}
}

func TestHugeSnapshotDropsConnection(t *testing.T) {
	h := newHarness(t, Options{})
	h.message(t, pnet.TypeFullUpdate, pnet.FullUpdate{W: math.MaxInt/4 + 1, H: 2})
	if h.s.Mirror().Ready() || h.conn.dropped != 1 {
		t.Fatalf("ready=%v dropped=%d", h.s.Mirror().Ready(), h.conn.dropped)
	}
}

func TestUnknownTypeIgnored(t *testing.T) {
	h := newHarness(t, Options{})
	h.s.Message([]byte(`{"type":"mystery","data":{}}`))
	h.s.Message([]byte(`not json`))
	if h.conn.dropped != 0 || h.presents != 0 {
		t.Fatalf("dropped=%d presents=%d", h.conn.dropped, h.presents)
	}
}

func TestChatRunsLoopUntilCollapsed(t *testing.T) {
	h := newHarness(t, Options{})
	x, y := 1.0, 2.0
	h.message(t, pnet.TypeChatMessage, pnet.ChatMessage{X: &x, Y: &y, Text: "hi"})

	if h.s.Overlays().Len() != 1 || !h.s.Scheduler().Running() || h.presents == 0 {
		t.Fatalf("len=%d running=%v presents=%d", h.s.Overlays().Len(), h.s.Scheduler().Running(), h.presents)
	}
	if b := h.s.Overlays().Bubbles()[0]; b.At == nil || *b.At != (state.Point{X: 1, Y: 2}) {
		t.Fatalf("bubble position = %v", b.At)
	}
	for i := 0; i < 2000 && h.s.Scheduler().Running(); i++ {
		h.clock.Advance(16 * time.Millisecond)
		h.frames.flush()
	}
	if h.s.Scheduler().Running() || h.s.Overlays().Len() != 0 {
		t.Fatalf("loop still running=%v with %d items", h.s.Scheduler().Running(), h.s.Overlays().Len())
	}
	if len(h.frames.pending) != 0 {
		t.Fatalf("%d frames still scheduled after idle", len(h.frames.pending))
	}
}

func TestBroadcastsShareOneLoop(t *testing.T) {
	h := newHarness(t, Options{})
	h.message(t, pnet.TypeBroadcast, pnet.Broadcast{Text: "one"})
	h.message(t, pnet.TypeBroadcast, pnet.Broadcast{Text: "two"})
	h.presents = 0
	h.clock.Advance(16 * time.Millisecond)
	h.frames.flush()
	if h.presents != 1 {
		t.Fatalf("one refresh painted %d frames, want 1", h.presents)
	}
	if len(h.s.Overlays().Broadcasts()) != 2 {
		t.Fatalf("broadcasts = %d", len(h.s.Overlays().Broadcasts()))
	}
}

func TestClickSendsTruncatedPixel(t *testing.T) {
	h := newHarness(t, Options{})
	h.snapshot(t, 10, 10, black)
	h.s.View().Set(state.Point{}, 1)
	h.s.SetColor(state.RGB{R: 1, G: 2, B: 3})

	h.s.Push(input.PointerDown{Pos: state.Point{X: 2.7, Y: 3.9}})
	h.s.Push(input.PointerUp{Pos: state.Point{X: 2.7, Y: 3.9}})
	if len(h.conn.sent) != 0 {
		t.Fatalf("sent before the frame ran: %v", h.conn.sent)
	}
	h.frames.flush()

	if len(h.conn.sent) != 1 || h.conn.sent[0].typ != pnet.TypeSetPixel {
		t.Fatalf("sent = %v", h.conn.sent)
	}
	want := pnet.SetPixel{X: 2, Y: 3, R: 1, G: 2, B: 3}
	if got := h.conn.sent[0].payload.(pnet.SetPixel); got != want {
		t.Fatalf("set-pixel = %+v, want %+v", got, want)
	}
}

func TestCtrlClickPicksColor(t *testing.T) {
	h := newHarness(t, Options{})
	h.snapshot(t, 10, 10, red)
	h.s.View().Set(state.Point{}, 1)

	h.s.Push(input.PointerDown{Pos: state.Point{X: 5, Y: 5}, Mods: input.ModCtrl})
	h.s.Push(input.PointerUp{Pos: state.Point{X: 5, Y: 5}, Mods: input.ModCtrl})
	h.frames.flush()

	if h.s.Color() != red || len(h.picked) != 1 || len(h.conn.sent) != 0 {
		t.Fatalf("color=%v picked=%v sent=%v", h.s.Color(), h.picked, h.conn.sent)
	}
}

func TestPenModeIsThrottled(t *testing.T) {
	h := newHarness(t, Options{PenRate: 0.001, PenBurst: 2})
	h.snapshot(t, 10, 10, black)
	h.s.Push(input.Key{Name: "p"})
	h.s.Push(input.PointerDown{Pos: state.Point{X: 1, Y: 1}})
	for i := 2; i < 8; i++ {
		h.s.Push(input.PointerMove{Pos: state.Point{X: float64(i), Y: 1}})
	}
	h.frames.flush()
	if len(h.conn.sent) != 2 {
		t.Fatalf("pen stroke sent %d pixels, want 2", len(h.conn.sent))
	}
}

func TestChatUsesCursorWorldPosition(t *testing.T) {
	h := newHarness(t, Options{})
	h.snapshot(t, 10, 10, black)
	h.s.View().Set(state.Point{X: 10, Y: 20}, 2)
	h.s.Push(input.PointerMove{Pos: state.Point{X: 30, Y: 40}})
	h.frames.flush()

	if err := h.s.Chat("hello"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	want := pnet.ChatPost{X: 10, Y: 10, Text: "hello"}
	if len(h.conn.sent) != 1 || h.conn.sent[0].payload.(pnet.ChatPost) != want {
		t.Fatalf("sent = %+v, want %+v", h.conn.sent, want)
	}
}

func TestConnectionLifecycle(t *testing.T) {
	h := newHarness(t, Options{})
	h.s.Opened()
	if !h.s.Connected() || !h.console.enabled || h.console.prompt != PromptLogin {
		t.Fatalf("after open: connected=%v console=%+v", h.s.Connected(), h.console)
	}
	h.s.Closed(fmt.Errorf("eof"))
	if h.s.Connected() || h.console.enabled || h.console.prompt != PromptDisconnected {
		t.Fatalf("after close: connected=%v console=%+v", h.s.Connected(), h.console)
	}
	if h.presents != 2 {
		t.Fatalf("presented %d frames, want 2", h.presents)
	}
}

func TestConsoleFlow(t *testing.T) {
	h := newHarness(t, Options{})
	h.s.Opened()
	c := h.s.Console()

	c.Submit("admin")
	if c.State() != ConsolePassword || !h.console.password {
		t.Fatalf("after login: state=%v password=%v", c.State(), h.console.password)
	}
	c.Submit("hunter2")
	if c.State() != ConsoleWaiting || h.console.prompt != PromptLoggingIn {
		t.Fatalf("after password: state=%v prompt=%q", c.State(), h.console.prompt)
	}
	if want := (pnet.AuthRequest{Login: "admin", Password: "hunter2"}); len(h.conn.sent) != 1 || h.conn.sent[0].payload != want {
		t.Fatalf("sent = %+v", h.conn.sent)
	}
	if keep := c.Submit("early"); keep != "early" {
		t.Fatalf("waiting kept %q", keep)
	}

	h.s.Message([]byte(`{"type":"auth","data":true}`))
	if c.State() != ConsoleLoggedIn || h.console.prompt != PromptPlace {
		t.Fatalf("after auth: state=%v prompt=%q", c.State(), h.console.prompt)
	}
	c.Submit("stats")
	if last := h.conn.sent[len(h.conn.sent)-1]; last.typ != pnet.TypeConsole || last.payload != "stats" {
		t.Fatalf("command sent as %+v", last)
	}
	h.s.Message([]byte(`{"type":"console","data":"42 users"}`))
	want := []line{{"stats", LineCommand}, {"42 users", LineOutput}}
	if len(h.console.lines) != 2 || h.console.lines[0] != want[0] || h.console.lines[1] != want[1] {
		t.Fatalf("lines = %+v", h.console.lines)
	}
}

func TestConsoleAuthRejectedAndRateLimited(t *testing.T) {
	h := newHarness(t, Options{})
	h.s.Opened()
	c := h.s.Console()

	c.Submit("a")
	c.Submit("b")
	h.s.Message([]byte(`{"type":"auth","data":false}`))
	if c.State() != ConsoleLogin || h.console.prompt != PromptLogin {
		t.Fatalf("rejected: state=%v prompt=%q", c.State(), h.console.prompt)
	}

	c.Submit("a")
	c.Submit("b")
	h.s.Message([]byte(`{"type":"auth","data":null}`))
	if c.State() != ConsoleLogin || h.console.prompt != PromptWaiting || len(h.deferred) != 1 {
		t.Fatalf("limited: state=%v prompt=%q deferred=%d", c.State(), h.console.prompt, len(h.deferred))
	}
	h.deferred[0]()
	if h.console.prompt != PromptLogin {
		t.Fatalf("prompt after retry delay = %q", h.console.prompt)
	}
}

func TestServerErrorReachesConsole(t *testing.T) {
	h := newHarness(t, Options{})
	data, _ := json.Marshal(pnet.ServerError{Code: "invalid_pixel", Message: "out of bounds"})
	h.s.Message([]byte(`{"type":"error","data":` + string(data) + `}`))
	if len(h.console.lines) != 1 || h.console.lines[0] != (line{"invalid_pixel: out of bounds", LineError}) {
		t.Fatalf("lines = %+v", h.console.lines)
	}
	if h.conn.dropped != 0 {
		t.Fatal("server error dropped the connection")
	}
}
