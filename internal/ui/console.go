package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"PlaceBoard/internal/session"
)

const maxConsoleLines = 500

// consolePanel is the F4 console. It implements session.ConsoleView.
type consolePanel struct {
	prompt *widget.Label
	input  *widget.Entry
	lines  *fyne.Container
	scroll *container.Scroll
	root   fyne.CanvasObject

	submit func(line string) string
}

var _ session.ConsoleView = (*consolePanel)(nil)

func newConsolePanel() *consolePanel {
	p := &consolePanel{
		prompt: widget.NewLabel(session.PromptDisconnected),
		input:  widget.NewEntry(),
		lines:  container.NewVBox(),
	}
	p.prompt.TextStyle = fyne.TextStyle{Monospace: true}
	p.input.Disable()
	p.input.OnSubmitted = func(text string) {
		keep := ""
		if p.submit != nil {
			keep = p.submit(text)
		}
		p.input.SetText(keep)
	}
	p.scroll = container.NewVScroll(p.lines)
	p.scroll.SetMinSize(fyne.NewSize(0, 160))
	p.root = container.NewBorder(nil, container.NewBorder(nil, nil, p.prompt, nil, p.input), nil, nil, p.scroll)
	p.root.Hide()
	return p
}

func (p *consolePanel) SetPrompt(text string, password bool) {
	p.prompt.SetText(text)
	if !password && p.input.Password {
		p.input.SetText("")
	}
	p.input.Password = password
	p.input.Refresh()
}

func (p *consolePanel) SetEnabled(enabled bool) {
	if enabled {
		p.input.Enable()
	} else {
		p.input.Disable()
	}
}

func (p *consolePanel) Put(line string, kind session.LineKind) {
	l := widget.NewLabel(line)
	l.Wrapping = fyne.TextWrapWord
	l.TextStyle = fyne.TextStyle{Monospace: true}
	switch kind {
	case session.LineCommand:
		l.TextStyle.Bold = true
	case session.LineError:
		l.Importance = widget.DangerImportance
	}
	if len(p.lines.Objects) >= maxConsoleLines {
		p.lines.Remove(p.lines.Objects[0])
	}
	p.lines.Add(l)
	p.scroll.ScrollToBottom()
}

// toggle shows or hides the panel, focusing the input when shown.
func (p *consolePanel) toggle(c fyne.Canvas) {
	if p.root.Visible() {
		p.root.Hide()
		c.Unfocus()
		return
	}
	p.root.Show()
	c.Focus(p.input)
}
