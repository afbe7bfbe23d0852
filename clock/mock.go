package clock

import (
	"sync"
	"time"
)

// Mock provides a controllable time source for testing. Timers fire when
// Advance or SetTime moves the clock past their deadline; a timer whose
// deadline is not in the future fires on creation
type Mock struct {
	mu     sync.RWMutex
	now    time.Time
	timers []*mockTimer
}

// NewMock creates a mock clock starting at the given time
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the current mocked time
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// NewTimer creates a timer that fires when the mock clock reaches now+d
func (m *Mock) NewTimer(d time.Duration) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTimer{
		clk: m,
		at:  m.now.Add(d),
		ch:  make(chan time.Time, 1),
	}
	if !t.at.After(m.now) {
		t.fired = true
		t.ch <- m.now
		return t
	}
	m.timers = append(m.timers, t)
	return t
}

// SetTime sets the current time, firing every timer whose deadline has
// been reached
func (m *Mock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
	m.fireDue()
}

// Advance moves the current time forward by d, firing due timers
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	m.fireDue()
}

// Pending returns the number of timers waiting to fire. Tests poll this to
// learn that the code under test has parked on a timer before advancing
func (m *Mock) Pending() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.timers)
}

func (m *Mock) fireDue() {
	keep := m.timers[:0]
	for _, t := range m.timers {
		if t.stopped {
			continue
		}
		if !t.at.After(m.now) {
			t.fired = true
			select {
			case t.ch <- t.at:
			default:
			}
			continue
		}
		keep = append(keep, t)
	}
	m.timers = keep
}

type mockTimer struct {
	clk     *Mock
	at      time.Time
	ch      chan time.Time
	fired   bool
	stopped bool
}

func (t *mockTimer) C() <-chan time.Time {
	return t.ch
}

func (t *mockTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	for i, x := range t.clk.timers {
		if x == t {
			t.clk.timers = append(t.clk.timers[:i], t.clk.timers[i+1:]...)
			break
		}
	}
	return true
}
