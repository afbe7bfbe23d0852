// Package clock abstracts time and single-shot timers so the reveal
// cadence can be driven by the system clock in production and advanced
// manually in tests.
package clock

import "time"

// Clock provides the current time and single-shot timers
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer is a single-shot timer. C fires at most once; Stop prevents an
// unfired timer from firing and reports whether it did
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// System returns the real wall clock
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) C() <-chan time.Time {
	return s.t.C
}

func (s systemTimer) Stop() bool {
	return s.t.Stop()
}
