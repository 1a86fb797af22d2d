package session

import (
	"time"

	"github.com/rs/zerolog/log"

	pnet "PlaceBoard/internal/net"
)

// ConsoleState is the stage of the console login flow.
type ConsoleState int

const (
	ConsoleLogin ConsoleState = iota
	ConsolePassword
	ConsoleWaiting
	ConsoleLoggedIn
)

func (s ConsoleState) String() string {
	switch s {
	case ConsoleLogin:
		return "login"
	case ConsolePassword:
		return "password"
	case ConsoleWaiting:
		return "waiting"
	case ConsoleLoggedIn:
		return "logged-in"
	}
	return "unknown"
}

// Console prompts.
const (
	PromptLogin        = "login"
	PromptPassword     = "password"
	PromptLoggingIn    = "logging in…"
	PromptWaiting      = "waiting"
	PromptPlace        = "place"
	PromptDisconnected = "Disconnected"
)

// RateLimitedRetry is how long the console waits before offering the login
// prompt again after a rate-limited attempt.
const RateLimitedRetry = 3 * time.Second

// LineKind tags a console output line.
type LineKind int

const (
	LineOutput LineKind = iota
	LineCommand
	LineError
)

// ConsoleView is the widget side of the console.
type ConsoleView interface {
	SetPrompt(text string, password bool)
	SetEnabled(enabled bool)
	Put(line string, kind LineKind)
}

// Console runs the login, password and command flow on top of the socket.
type Console struct {
	view  ConsoleView
	send  func(typ string, payload any) error
	after func(d time.Duration, fn func())

	state ConsoleState
	login string
}

// NewConsole wires a console to view. after schedules deferred prompt
// changes; it must run fn on the UI thread.
func NewConsole(view ConsoleView, send func(string, any) error, after func(time.Duration, func())) *Console {
	if after == nil {
		after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	return &Console{view: view, send: send, after: after}
}

// State returns the current stage.
func (c *Console) State() ConsoleState { return c.state }

func (c *Console) reset() {
	c.state = ConsoleLogin
	c.view.SetPrompt(PromptLogin, false)
}

// Opened enables input and starts a fresh login.
func (c *Console) Opened() {
	c.view.SetEnabled(true)
	c.reset()
}

// Closed disables input.
func (c *Console) Closed() {
	c.view.SetPrompt(PromptDisconnected, false)
	c.view.SetEnabled(false)
}

// Submit handles one entered line. It returns the text the input should keep,
// which is only non-empty while a login is pending.
func (c *Console) Submit(line string) string {
	switch c.state {
	case ConsoleLogin:
		c.login = line
		c.state = ConsolePassword
		c.view.SetPrompt(PromptPassword, true)
	case ConsolePassword:
		c.state = ConsoleWaiting
		c.view.SetPrompt(PromptLoggingIn, false)
		c.sendOrReport(pnet.TypeAuth, pnet.AuthRequest{Login: c.login, Password: line})
	case ConsoleWaiting:
		return line
	case ConsoleLoggedIn:
		c.view.Put(line, LineCommand)
		c.sendOrReport(pnet.TypeConsole, line)
	}
	return ""
}

func (c *Console) sendOrReport(typ string, payload any) {
	if err := c.send(typ, payload); err != nil {
		log.Warn().Err(err).Str("type", typ).Msg("console send failed")
		c.view.Put(err.Error(), LineError)
	}
}

// Auth handles the server's verdict. nil means the attempt was rate limited.
func (c *Console) Auth(ok *bool) {
	switch {
	case ok != nil && *ok:
		c.state = ConsoleLoggedIn
		c.view.SetPrompt(PromptPlace, false)
	case ok == nil:
		c.state = ConsoleLogin
		c.view.SetPrompt(PromptWaiting, false)
		c.after(RateLimitedRetry, func() { c.view.SetPrompt(PromptLogin, false) })
	default:
		c.reset()
	}
}

// Line displays server output.
func (c *Console) Line(text string) { c.view.Put(text, LineOutput) }

// Error displays a rejected request.
func (c *Console) Error(e pnet.ServerError) {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	c.view.Put(msg, LineError)
}
