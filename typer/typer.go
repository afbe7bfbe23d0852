// Package typer is the queue-driven reveal engine: it plays queued
// messages onto a display surface one character at a time, with inline
// effect segments, input-driven skipping and input-gated advancement.
package typer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"typeline/clock"
	"typeline/segment"
	"typeline/surface"
)

// ErrNilSurface is returned by New when no display surface is provided.
var ErrNilSurface = errors.New("typer: display surface is required")

// continueGlyph is the text of the continue affordance node.
const continueGlyph = "▼"

// Typer reveals queued messages on a Surface in strict FIFO order. All
// content mutations happen on a single drain goroutine; public methods are
// safe to call from any goroutine, except that ClearQueue and Destroy must
// not be called from inside a Surface implementation.
type Typer struct {
	surface surface.Surface
	input   surface.InputSource // optional; Press is the signal path either way
	clk     clock.Clock
	log     atomic.Pointer[slog.Logger]

	mu        sync.Mutex
	cfg       Config
	queue     []string
	cur       *cursor
	waiter    *waiter
	session   *session
	subs      []surface.Subscription
	destroyed bool

	// typing mirrors session != nil; kept atomic so IsTyping never blocks.
	typing atomic.Bool

	// owned and anchor are touched only by the drain goroutine, the
	// constructor, and Destroy after the drain has stopped.
	owned  []surface.Node
	anchor surface.Node
}

// session is one drain-goroutine lifetime. halt abandons it; finish marks
// it exited. Both are idempotent.
type session struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	doneOnce sync.Once
}

func newSession() *session {
	return &session{stop: make(chan struct{}), done: make(chan struct{})}
}

func (s *session) halt()   { s.stopOnce.Do(func() { close(s.stop) }) }
func (s *session) finish() { s.doneOnce.Do(func() { close(s.done) }) }

func (s *session) halted() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// New constructs a Typer bound to a display surface and an optional input
// source. opts are merged over DefaultConfig. The only construction error
// is a missing surface; everything else degrades to benign no-ops.
func New(surf surface.Surface, input surface.InputSource, opts Options) (*Typer, error) {
	if surf == nil {
		return nil, ErrNilSurface
	}
	t := &Typer{
		surface: surf,
		input:   input,
		clk:     clock.System(),
		cfg:     DefaultConfig().Merge(opts),
	}

	t.anchor = surf.CreateNode()
	surf.SetText(t.anchor, continueGlyph)
	surf.SetEffectTag(t.anchor, surface.EffectCue)
	surf.SetVisible(t.anchor, false)
	surf.InsertBefore(t.anchor, nil)

	t.applyPresentation(t.cfg)

	// Both signal kinds feed the same latch; which phase a signal lands in
	// is decided per message by the config snapshot.
	if input != nil {
		t.subs = append(t.subs,
			input.Subscribe(surface.SignalKey, t.Press),
			input.Subscribe(surface.SignalPointer, t.Press),
		)
	}
	return t, nil
}

// SetClock replaces the timer source. Call before the first Enqueue.
func (t *Typer) SetClock(c clock.Clock) {
	if c != nil {
		t.clk = c
	}
}

// SetLogger attaches a logger for debug-level lifecycle events. Nil (the
// default) silences the engine.
func (t *Typer) SetLogger(l *slog.Logger) {
	t.log.Store(l)
}

// Enqueue appends one message and starts draining if the engine is idle.
func (t *Typer) Enqueue(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.queue = append(t.queue, text)
	t.startLocked()
}

// EnqueueAll appends messages in order and starts draining if idle.
func (t *Typer) EnqueueAll(texts []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed || len(texts) == 0 {
		return
	}
	t.queue = append(t.queue, texts...)
	t.startLocked()
}

func (t *Typer) startLocked() {
	if t.session != nil {
		return
	}
	s := newSession()
	t.session = s
	t.typing.Store(true)
	go t.drain(s)
}

// drain pops and plays messages until the queue empties or the session is
// halted. It is the only goroutine that mutates surface content.
func (t *Typer) drain(s *session) {
	defer s.finish()
	defer t.recoverPanic(s)

	for {
		t.mu.Lock()
		if s.halted() || t.destroyed {
			t.bailLocked(s)
			t.mu.Unlock()
			return
		}
		if len(t.queue) == 0 {
			t.surface.SetVisible(t.anchor, false)
			t.cur = nil
			t.session = nil
			t.typing.Store(false)
			t.mu.Unlock()
			t.debug("queue drained")
			return
		}
		raw := t.queue[0]
		t.queue = t.queue[1:]
		cur := newCursor(segment.Parse(raw), t.cfg)
		t.cur = cur
		t.mu.Unlock()

		t.debug("revealing", "chars", cur.total(), "segments", len(cur.segs))
		if !t.reveal(s, cur) {
			return
		}
		if !t.gate(s, cur) {
			return
		}
		t.finishMessage(cur)
	}
}

// finishMessage applies the display-mode policy of the finished message
// and retires its cursor.
func (t *Typer) finishMessage(cur *cursor) {
	switch cur.cfg.DisplayMode {
	case ModePersist:
		br := t.surface.CreateNode()
		t.surface.SetText(br, "\n")
		t.surface.InsertBefore(br, t.anchor)
		t.owned = append(t.owned, br)
	default:
		for _, n := range t.owned {
			t.surface.RemoveChild(n)
		}
		t.owned = t.owned[:0]
	}
	t.mu.Lock()
	t.cur = nil
	t.mu.Unlock()
}

// bail resets engine state after a halt and reports false so callers can
// return it. The pending waiter, if any, is abandoned, never resolved.
func (t *Typer) bail(s *session) bool {
	t.mu.Lock()
	t.bailLocked(s)
	t.mu.Unlock()
	return false
}

func (t *Typer) bailLocked(s *session) {
	t.surface.SetVisible(t.anchor, false)
	t.cur = nil
	t.waiter = nil
	if t.session == s {
		t.session = nil
		t.typing.Store(false)
		// Messages enqueued after the halt emptied the queue still get
		// drained; the halted goroutine hands off to a fresh one.
		if len(t.queue) > 0 && !t.destroyed {
			t.startLocked()
		}
	}
}

func (t *Typer) recoverPanic(s *session) {
	r := recover()
	if r == nil {
		return
	}
	t.errorLog("reveal goroutine panicked", "panic", fmt.Sprint(r))
	t.mu.Lock()
	t.cur = nil
	t.waiter = nil
	if t.session == s {
		t.session = nil
		t.typing.Store(false)
	}
	t.mu.Unlock()
}

// ClearQueue drops every pending message and cancels any in-flight reveal:
// the character timer dies, the continue waiter is abandoned and the engine
// returns to idle. It blocks until the drain goroutine has stopped, so no
// render instruction is emitted after it returns. Safe at any time,
// including mid-reveal and mid-wait; clearing an empty queue is a no-op.
func (t *Typer) ClearQueue() {
	t.mu.Lock()
	t.queue = nil
	s := t.session
	t.mu.Unlock()
	if s == nil {
		return
	}
	s.halt()
	<-s.done
	t.debug("queue cleared")
}

// UpdateOptions merges opts over the current configuration and re-applies
// presentation. The message currently revealing keeps the configuration
// snapshot it started with.
func (t *Typer) UpdateOptions(opts Options) {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.cfg = t.cfg.Merge(opts)
	cfg := t.cfg
	t.mu.Unlock()
	t.applyPresentation(cfg)
}

// applyPresentation forwards retained style options to the surface root.
func (t *Typer) applyPresentation(cfg Config) {
	entries := cfg.styleEntries()
	if len(entries) == 0 {
		return
	}
	root := t.surface.Root()
	for k, v := range entries {
		t.surface.SetStyle(root, k, v)
	}
}

// IsTyping reports whether the engine is draining (revealing or between
// queued messages).
func (t *Typer) IsTyping() bool {
	return t.typing.Load()
}

// Pending returns the number of queued messages not yet started.
func (t *Typer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

// Wait blocks until the engine is idle. It returns immediately when
// nothing is queued.
func (t *Typer) Wait() {
	for {
		t.mu.Lock()
		s := t.session
		t.mu.Unlock()
		if s == nil {
			return
		}
		<-s.done
	}
}

// Destroy tears the engine down: stops the drain goroutine, revokes every
// input subscription and removes every owned node, the continue affordance
// included. Idempotent, never panics, and safe even when construction went
// no further than the surface check.
func (t *Typer) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	t.queue = nil
	s := t.session
	subs := t.subs
	t.subs = nil
	t.mu.Unlock()

	if s != nil {
		s.halt()
		<-s.done
	}
	for _, sub := range subs {
		if sub != nil {
			sub.Cancel()
		}
	}
	for _, n := range t.owned {
		t.surface.RemoveChild(n)
	}
	t.owned = nil
	if t.anchor != nil {
		t.surface.RemoveChild(t.anchor)
		t.anchor = nil
	}
	t.debug("destroyed")
}

func (t *Typer) debug(msg string, args ...any) {
	if l := t.log.Load(); l != nil {
		l.Debug(msg, args...)
	}
}

func (t *Typer) errorLog(msg string, args ...any) {
	if l := t.log.Load(); l != nil {
		l.Error(msg, args...)
	}
}
