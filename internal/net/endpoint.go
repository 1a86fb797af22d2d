package net

import (
	"fmt"
	"net/url"
	"strings"
)

// SocketPath is appended to the page path to reach the canvas socket.
const SocketPath = "canvas"

// Endpoint derives the websocket URL from the page location the canvas is
// served from. http maps to ws and https to wss; the socket lives at the page
// path with SocketPath appended. A URL that already names the socket is
// returned in ws form unchanged.
func Endpoint(page string) (string, error) {
	u, err := url.Parse(page)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("page url %q has no host", page)
	}
	dir := u.Path
	if dir == "" {
		dir = "/"
	}
	if !strings.HasSuffix(dir, "/"+SocketPath) {
		dir += SocketPath
	}
	u.Path = dir
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
