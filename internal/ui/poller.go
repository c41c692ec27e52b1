package ui

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"stocktui/internal/event"
)

// ScreenPoller adapts tcell's blocking event stream to the timed Poll
// the event source needs.
type ScreenPoller struct {
	events chan tcell.Event
	quit   chan struct{}
}

// NewScreenPoller starts draining the screen's events.
func NewScreenPoller(s tcell.Screen) *ScreenPoller {
	p := &ScreenPoller{
		events: make(chan tcell.Event, 16),
		quit:   make(chan struct{}),
	}
	go s.ChannelEvents(p.events, p.quit)
	return p
}

// Poll waits up to timeout for a key or resize event. Other terminal
// events (mouse, paste) are discarded without consuming the timeout
// budget beyond their arrival.
func (p *ScreenPoller) Poll(timeout time.Duration) (event.Event, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case tev, ok := <-p.events:
			if !ok {
				return event.Event{}, false, errors.New("input stream closed")
			}
			if ev, known := translate(tev); known {
				return ev, true, nil
			}
		case <-timer.C:
			return event.Event{}, false, nil
		}
	}
}

// Stop ends the drain goroutine.
func (p *ScreenPoller) Stop() {
	close(p.quit)
}

func translate(tev tcell.Event) (event.Event, bool) {
	switch ev := tev.(type) {
	case *tcell.EventKey:
		kp := event.KeyPress{}
		switch ev.Key() {
		case tcell.KeyRune:
			kp.Rune = ev.Rune()
		case tcell.KeyEnter:
			kp.Special = event.KeyEnter
		case tcell.KeyEscape:
			kp.Special = event.KeyEsc
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			kp.Special = event.KeyBackspace
		case tcell.KeyUp:
			kp.Special = event.KeyUp
		case tcell.KeyDown:
			kp.Special = event.KeyDown
		case tcell.KeyLeft:
			kp.Special = event.KeyLeft
		case tcell.KeyRight:
			kp.Special = event.KeyRight
		case tcell.KeyPgUp:
			kp.Special = event.KeyPgUp
		case tcell.KeyPgDn:
			kp.Special = event.KeyPgDn
		case tcell.KeyCtrlC:
			kp.Rune, kp.Ctrl = 'c', true
		default:
			return event.Event{}, false
		}
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			kp.Ctrl = true
		}
		return event.Event{Type: event.TypeKey, Key: kp}, true
	case *tcell.EventResize:
		w, h := ev.Size()
		return event.Event{Type: event.TypeResize, Width: w, Height: h}, true
	}
	return event.Event{}, false
}
