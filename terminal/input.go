package terminal

import (
	"github.com/gdamore/tcell/v2"

	"typeline/surface"
)

// Subscribe registers fn for one signal kind. Key events fire SignalKey
// subscribers; mouse button presses fire SignalPointer subscribers on the
// press edge only.
func (t *Terminal) Subscribe(kind surface.SignalKind, fn func()) surface.Subscription {
	t.inputMu.Lock()
	defer t.inputMu.Unlock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = subEntry{kind: kind, fn: fn}
	return &termSub{t: t, id: id}
}

type termSub struct {
	t  *Terminal
	id int
}

func (s *termSub) Cancel() {
	s.t.inputMu.Lock()
	defer s.t.inputMu.Unlock()
	delete(s.t.subs, s.id)
}

// poll pumps the screen's event stream into the buffered channel. It exits
// when the screen is finalized (PollEvent returns nil) or on the interrupt
// posted by Fini.
func (t *Terminal) poll() {
	defer close(t.events)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			select {
			case <-t.stop:
				return
			default:
				continue
			}
		}
		select {
		case t.events <- ev:
		case <-t.stop:
			return
		}
	}
}

// dispatch converts terminal events into engine signals. Subscriber
// callbacks run outside inputMu so a callback that reaches back into the
// engine cannot deadlock against a reveal in progress.
func (t *Terminal) dispatch() {
	for ev := range t.events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if t.OnKey != nil && t.OnKey(ev) {
				continue
			}
			t.fire(surface.SignalKey)
		case *tcell.EventMouse:
			if t.pressEdge(ev.Buttons()) {
				t.fire(surface.SignalPointer)
			}
		case *tcell.EventResize:
			t.screen.Sync()
			if t.OnResize != nil {
				w, h := ev.Size()
				t.OnResize(w, h)
			}
		}
	}
}

// pressEdge reports whether this mouse state newly pressed button 1.
// Motion and release events do not signal.
func (t *Terminal) pressEdge(buttons tcell.ButtonMask) bool {
	t.inputMu.Lock()
	defer t.inputMu.Unlock()
	prev := t.buttons
	t.buttons = buttons
	return buttons&tcell.Button1 != 0 && prev&tcell.Button1 == 0
}

func (t *Terminal) fire(kind surface.SignalKind) {
	t.inputMu.Lock()
	fns := make([]func(), 0, len(t.subs))
	for _, e := range t.subs {
		if e.kind == kind {
			fns = append(fns, e.fn)
		}
	}
	t.inputMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
