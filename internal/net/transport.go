package net

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"PlaceBoard/internal/state"
)

// ErrNotConnected is returned by Send while no connection is open.
var ErrNotConnected = errors.New("not connected")

const (
	// DefaultReconnectDelay is the fixed wait between connection attempts.
	DefaultReconnectDelay = time.Second
	writeTimeout          = 5 * time.Second
	handshakeTimeout      = 10 * time.Second
)

// Handler receives connection events. Calls are serialized through the
// client's post function.
type Handler interface {
	Opened()
	Closed(err error)
	Message(raw []byte)
}

// Client keeps one websocket open to the canvas server, redialing after a
// fixed delay whenever it drops.
type Client struct {
	url     string
	delay   time.Duration
	handler Handler
	post    func(func())
	dialer  *websocket.Dialer
	header  http.Header

	mu   sync.Mutex
	conn *websocket.Conn
}

// Option configures a Client.
type Option func(*Client)

// WithReconnectDelay overrides the wait between attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithPost routes handler calls through fn, typically onto the UI thread.
func WithPost(fn func(func())) Option {
	return func(c *Client) {
		if fn != nil {
			c.post = fn
		}
	}
}

// NewClient creates a client for the socket at url.
func NewClient(url string, h Handler, opts ...Option) *Client {
	c := &Client{
		url:     url,
		delay:   DefaultReconnectDelay,
		handler: h,
		post:    func(fn func()) { fn() },
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		header: http.Header{"User-Agent": {"PlaceBoard/" + state.ClientID}},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run dials and reads until ctx is cancelled. Each dropped connection is
// reported through Closed and retried after the reconnect delay.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Str("url", c.url).Dur("retry_in", c.delay).Msg("connection lost")
		t := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		c.post(func() { c.handler.Closed(err) })
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	log.Info().Str("url", c.url).Msg("connected")
	c.post(c.handler.Opened)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()
			conn.Close()
			c.post(func() { c.handler.Closed(err) })
			return err
		}
		if kind != websocket.TextMessage {
			log.Debug().Int("kind", kind).Msg("ignoring non-text frame")
			continue
		}
		c.post(func() { c.handler.Message(raw) })
	}
}

// Send encodes payload as a typ message and writes it.
func (c *Client) Send(typ string, payload any) error {
	raw, err := Encode(typ, payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return fmt.Errorf("write %s: %w", typ, err)
	}
	return nil
}

// Drop closes the current connection. Run reconnects after the usual delay.
func (c *Client) Drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
