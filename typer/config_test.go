package typer

import (
	"testing"
	"time"
)

// TestDefaultConfig pins the documented defaults.
func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Speed != 20 {
		t.Errorf("Expected default speed 20, got %v", c.Speed)
	}
	if c.DisplayMode != ModeDisappear {
		t.Errorf("Expected default mode disappear, got %v", c.DisplayMode)
	}
	if c.DelayAfter != 1500*time.Millisecond {
		t.Errorf("Expected default delay 1.5s, got %v", c.DelayAfter)
	}
	if !c.Skippable || !c.WaitForInput {
		t.Errorf("Expected skippable and waitForInput by default, got %+v", c)
	}
}

// TestMergeRecognizedKeys covers coercion of the typed options.
func TestMergeRecognizedKeys(t *testing.T) {
	c := DefaultConfig().Merge(Options{
		OptSpeed:        50,
		OptDisplayMode:  "persist",
		OptDelayAfter:   250,
		OptSkippable:    false,
		OptWaitForInput: false,
	})
	if c.Speed != 50 {
		t.Errorf("Expected speed 50, got %v", c.Speed)
	}
	if c.DisplayMode != ModePersist {
		t.Errorf("Expected persist, got %v", c.DisplayMode)
	}
	if c.DelayAfter != 250*time.Millisecond {
		t.Errorf("Expected 250ms delay, got %v", c.DelayAfter)
	}
	if c.Skippable || c.WaitForInput {
		t.Errorf("Expected both flags off, got %+v", c)
	}
}

// TestMergeCoercions verifies the numeric and duration flexibility.
func TestMergeCoercions(t *testing.T) {
	c := DefaultConfig().Merge(Options{OptSpeed: 12.5})
	if c.Speed != 12.5 {
		t.Errorf("Expected float speed 12.5, got %v", c.Speed)
	}
	c = DefaultConfig().Merge(Options{OptDelayAfter: 2 * time.Second})
	if c.DelayAfter != 2*time.Second {
		t.Errorf("Expected native duration accepted, got %v", c.DelayAfter)
	}
	c = DefaultConfig().Merge(Options{OptDisplayMode: ModePersist})
	if c.DisplayMode != ModePersist {
		t.Errorf("Expected typed DisplayMode accepted, got %v", c.DisplayMode)
	}
}

// TestMergeRejectsInvalidValues verifies bad values leave fields untouched.
func TestMergeRejectsInvalidValues(t *testing.T) {
	base := DefaultConfig()
	c := base.Merge(Options{
		OptSpeed:        0,
		OptDisplayMode:  "sideways",
		OptDelayAfter:   -10,
		OptSkippable:    "yes",
		OptWaitForInput: 1,
	})
	if c.Speed != base.Speed {
		t.Errorf("Expected non-positive speed rejected, got %v", c.Speed)
	}
	if c.DisplayMode != base.DisplayMode {
		t.Errorf("Expected unknown mode rejected, got %v", c.DisplayMode)
	}
	if c.DelayAfter != base.DelayAfter {
		t.Errorf("Expected negative delay rejected, got %v", c.DelayAfter)
	}
	if c.Skippable != base.Skippable || c.WaitForInput != base.WaitForInput {
		t.Errorf("Expected mistyped booleans rejected, got %+v", c)
	}
}

// TestMergeUnknownKeysLastWriteWins verifies retention and ordering of
// opaque options across successive merges.
func TestMergeUnknownKeysLastWriteWins(t *testing.T) {
	c := DefaultConfig().Merge(Options{"color": "red", "font": "mono"})
	c = c.Merge(Options{"color": "blue"})

	if v, ok := c.Get("color"); !ok || v != "blue" {
		t.Errorf("Expected color blue, got %v (ok=%t)", v, ok)
	}
	if v, ok := c.Get("font"); !ok || v != "mono" {
		t.Errorf("Expected font retained, got %v (ok=%t)", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Expected absent key to report !ok")
	}
}

// TestMergeDoesNotMutateReceiver verifies Merge is value-semantics even
// with retained options present.
func TestMergeDoesNotMutateReceiver(t *testing.T) {
	base := DefaultConfig().Merge(Options{"color": "red"})
	_ = base.Merge(Options{"color": "blue", OptSpeed: 99})

	if v, _ := base.Get("color"); v != "red" {
		t.Errorf("Expected receiver untouched, color became %v", v)
	}
	if base.Speed != 20 {
		t.Errorf("Expected receiver speed untouched, got %v", base.Speed)
	}
}

// TestCharDelay pins the cadence arithmetic.
func TestCharDelay(t *testing.T) {
	tests := []struct {
		speed float64
		want  time.Duration
	}{
		{1000, time.Millisecond},
		{20, 50 * time.Millisecond},
		{1, time.Second},
	}
	for _, tt := range tests {
		c := DefaultConfig().Merge(Options{OptSpeed: tt.speed})
		if got := c.CharDelay(); got != tt.want {
			t.Errorf("CharDelay(speed=%v): expected %v, got %v", tt.speed, tt.want, got)
		}
	}
}

// TestStyleEntries verifies scalar stringification and non-scalar skipping.
func TestStyleEntries(t *testing.T) {
	c := DefaultConfig().Merge(Options{
		"color":   "#102030",
		"padding": 4,
		"scale":   1.5,
		"bold":    true,
		"nested":  map[string]any{"x": 1},
	})
	entries := c.styleEntries()
	want := map[string]string{
		"color":   "#102030",
		"padding": "4",
		"scale":   "1.5",
		"bold":    "true",
	}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d (%v)", len(want), len(entries), entries)
	}
	for k, v := range want {
		if entries[k] != v {
			t.Errorf("Expected %s=%s, got %s", k, v, entries[k])
		}
	}
}
