package ui

import (
	"time"

	"fyne.io/fyne/v2"
)

const refreshInterval = time.Second / 60

// displayFrames runs frame callbacks on the UI thread at roughly the display
// refresh rate.
type displayFrames struct{}

func (displayFrames) RequestFrame(fn func()) {
	time.AfterFunc(refreshInterval, func() { fyne.Do(fn) })
}

// afterOnMain runs fn on the UI thread once d has passed.
func afterOnMain(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { fyne.Do(fn) })
}
