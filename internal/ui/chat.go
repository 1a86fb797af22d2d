package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
)

const chatEntryWidth = 240

// chatEntry is a one-line entry that closes on Escape.
type chatEntry struct {
	widget.Entry
	onCancel func()
}

func newChatEntry() *chatEntry {
	e := &chatEntry{}
	e.PlaceHolder = "Chat"
	e.ExtendBaseWidget(e)
	return e
}

func (e *chatEntry) TypedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyEscape && e.onCancel != nil {
		e.onCancel()
		return
	}
	e.Entry.TypedKey(k)
}

// openChat shows a chat entry at pos on c. Enter posts the text; Escape or a
// tap elsewhere discards it.
func openChat(c fyne.Canvas, pos fyne.Position, post func(text string) error) {
	e := newChatEntry()
	pop := widget.NewPopUp(e, c)
	e.onCancel = pop.Hide
	e.OnSubmitted = func(text string) {
		pop.Hide()
		if text == "" {
			return
		}
		if err := post(text); err != nil {
			log.Warn().Err(err).Msg("chat not sent")
		}
	}
	pop.Resize(fyne.NewSize(chatEntryWidth, e.MinSize().Height))
	pop.ShowAtPosition(pos)
	c.Focus(e)
}
