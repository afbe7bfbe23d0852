package typer

import (
	"fmt"
	"time"
)

// DisplayMode selects what happens to a message's revealed nodes once the
// message has been gated through.
type DisplayMode string

const (
	// ModeDisappear removes all revealed content before the next message.
	ModeDisappear DisplayMode = "disappear"
	// ModePersist keeps prior content and separates messages with a line
	// break node.
	ModePersist DisplayMode = "persist"
)

// Option keys recognized by Merge. Any other key is retained opaquely and
// forwarded to the surface's style pass-through.
const (
	OptSpeed        = "speed"
	OptDisplayMode  = "displayMode"
	OptDelayAfter   = "delayAfter"
	OptSkippable    = "skippable"
	OptWaitForInput = "waitForInput"
)

// Options is a partial configuration, merged over the current one with
// last-write-wins semantics.
type Options map[string]any

// Config is the resolved engine configuration. Each message snapshots the
// Config in force when it starts revealing, so updates never alter an
// in-flight reveal.
type Config struct {
	// Speed is the reveal cadence in characters per second. Always > 0.
	Speed float64
	// DisplayMode is the post-message content policy.
	DisplayMode DisplayMode
	// DelayAfter is the fixed pause after a reveal when WaitForInput is
	// false. It is not cancellable by input.
	DelayAfter time.Duration
	// Skippable lets an input signal finish the current reveal at once.
	Skippable bool
	// WaitForInput holds each revealed message until a signal arrives.
	WaitForInput bool

	extra map[string]any
}

// DefaultConfig returns the documented defaults: 20 chars/second,
// disappear mode, 1.5s delay, skippable, waiting for input.
func DefaultConfig() Config {
	return Config{
		Speed:        20,
		DisplayMode:  ModeDisappear,
		DelayAfter:   1500 * time.Millisecond,
		Skippable:    true,
		WaitForInput: true,
	}
}

// Merge returns c with opts applied over it. Recognized keys are coerced
// into their typed fields; values of the wrong type, non-positive speeds
// and unknown display modes are ignored. Unrecognized keys are retained
// verbatim, last write wins.
func (c Config) Merge(opts Options) Config {
	out := c
	if len(c.extra) > 0 {
		out.extra = make(map[string]any, len(c.extra))
		for k, v := range c.extra {
			out.extra[k] = v
		}
	}
	for k, v := range opts {
		switch k {
		case OptSpeed:
			if f, ok := toFloat(v); ok && f > 0 {
				out.Speed = f
			}
		case OptDisplayMode:
			if s, ok := v.(string); ok {
				switch DisplayMode(s) {
				case ModeDisappear, ModePersist:
					out.DisplayMode = DisplayMode(s)
				}
			} else if m, ok := v.(DisplayMode); ok && (m == ModeDisappear || m == ModePersist) {
				out.DisplayMode = m
			}
		case OptDelayAfter:
			if d, ok := toDuration(v); ok && d >= 0 {
				out.DelayAfter = d
			}
		case OptSkippable:
			if b, ok := v.(bool); ok {
				out.Skippable = b
			}
		case OptWaitForInput:
			if b, ok := v.(bool); ok {
				out.WaitForInput = b
			}
		default:
			if out.extra == nil {
				out.extra = make(map[string]any)
			}
			out.extra[k] = v
		}
	}
	return out
}

// CharDelay is the pause between revealed characters: 1000/Speed ms.
func (c Config) CharDelay() time.Duration {
	return time.Duration(float64(time.Second) / c.Speed)
}

// Get looks up a retained unrecognized option.
func (c Config) Get(key string) (any, bool) {
	v, ok := c.extra[key]
	return v, ok
}

// styleEntries renders the retained options as strings for the surface's
// style pass-through. Non-scalar values are skipped.
func (c Config) styleEntries() map[string]string {
	if len(c.extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.extra))
	for k, v := range c.extra {
		switch v.(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// toDuration accepts either a millisecond count or a time.Duration.
func toDuration(v any) (time.Duration, bool) {
	if d, ok := v.(time.Duration); ok {
		return d, true
	}
	if f, ok := toFloat(v); ok {
		return time.Duration(f * float64(time.Millisecond)), true
	}
	return 0, false
}
