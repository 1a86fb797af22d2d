package net

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"
)

// DefaultService is the mDNS service type canvas servers announce.
const DefaultService = "_place._tcp"

// ErrNoServer is returned when discovery finds nothing before the timeout.
var ErrNoServer = errors.New("no canvas server found")

// Discover browses the local network for service and returns the socket URL
// of the first server that answers with a usable address.
func Discover(service string, timeout time.Duration) (string, error) {
	if service == "" {
		service = DefaultService
	}
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	go func() {
		for e := range entries {
			u, ok := entryURL(e)
			if !ok {
				continue
			}
			select {
			case found <- u:
			default:
			}
		}
	}()

	params := mdns.DefaultParams(service)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	if err != nil {
		return "", fmt.Errorf("mdns query %s: %w", service, err)
	}

	select {
	case u := <-found:
		log.Info().Str("service", service).Str("url", u).Msg("discovered canvas server")
		return u, nil
	case <-time.After(50 * time.Millisecond):
		return "", ErrNoServer
	}
}

// entryURL turns an announcement into a socket URL. A "path=" TXT field
// names the page path; it defaults to the root.
func entryURL(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	scheme, path := "http", "/"
	for _, f := range e.InfoFields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		switch k {
		case "path":
			if strings.HasPrefix(v, "/") {
				path = v
			}
		case "tls":
			if v == "1" || v == "true" {
				scheme = "https"
			}
		}
	}
	u, err := Endpoint(fmt.Sprintf("%s://%s:%d%s", scheme, e.AddrV4, e.Port, path))
	if err != nil {
		return "", false
	}
	return u, true
}
