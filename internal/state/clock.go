package state

import (
	"time"

	"github.com/google/uuid"
)

// ClientID identifies this viewer process. It is attached to log lines and to
// the user agent sent when connecting.
var ClientID = uuid.NewString()

// Clock is the time source for overlay ages and frame deltas.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	T time.Time
}

func (c *ManualClock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
