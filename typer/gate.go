package typer

import "sync"

// waiter is one pending continue suspension. Resolution and abandonment
// are distinct: a resolved waiter advances the queue, an abandoned one is
// dropped by the halted drain without ever firing.
type waiter struct {
	ch   chan struct{}
	once sync.Once
}

func newWaiter() *waiter {
	return &waiter{ch: make(chan struct{})}
}

// resolve fires the waiter exactly once; later calls are no-ops.
func (w *waiter) resolve() {
	w.once.Do(func() { close(w.ch) })
}

func (w *waiter) done() <-chan struct{} {
	return w.ch
}

// gate suspends the drain after a revealed message. With WaitForInput the
// suspension is a continue waiter behind the visible affordance; otherwise
// it is the fixed DelayAfter timer, which input cannot cancel. Returns
// false when the session was halted while suspended.
func (t *Typer) gate(s *session, cur *cursor) bool {
	if cur.cfg.WaitForInput {
		w := newWaiter()
		t.mu.Lock()
		t.waiter = w
		t.mu.Unlock()
		t.surface.SetVisible(t.anchor, true)

		select {
		case <-w.done():
			t.surface.SetVisible(t.anchor, false)
			return true
		case <-s.stop:
			return t.bail(s)
		}
	}

	if d := cur.cfg.DelayAfter; d > 0 {
		timer := t.clk.NewTimer(d)
		select {
		case <-timer.C():
		case <-s.stop:
			timer.Stop()
			return t.bail(s)
		}
	}
	return true
}

// Press delivers one input signal edge. It is the two-phase latch: while a
// skippable message is still revealing, the first press finishes it; once
// the message is complete and a continue waiter is pending, a press
// resolves the waiter. Every other press (engine idle, reveal not
// skippable, waiter already resolved, skip already consumed) is a benign
// no-op. Input subscriptions call Press; hosts may call it directly.
func (t *Typer) Press() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	cur := t.cur
	if cur == nil {
		t.mu.Unlock()
		return
	}
	if cur.cfg.Skippable && !cur.complete && !cur.skipped {
		cur.skipped = true
		select {
		case cur.skipCh <- struct{}{}:
		default:
		}
		t.mu.Unlock()
		return
	}
	if cur.complete && t.waiter != nil {
		w := t.waiter
		t.waiter = nil // cleared so a second press cannot double-resolve
		t.mu.Unlock()
		w.resolve()
		return
	}
	t.mu.Unlock()
}
