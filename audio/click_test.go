package audio

import (
	"testing"

	"typeline/surface"
)

type countingCues struct {
	clicks int
	chimes int
}

func (c *countingCues) Click() { c.clicks++ }
func (c *countingCues) Chime() { c.chimes++ }

func TestClickerTicksOnAppend(t *testing.T) {
	mem := surface.NewMemory()
	cues := &countingCues{}
	s := NewClicker(mem, cues)

	n := s.CreateNode()
	s.InsertBefore(n, nil)
	s.AppendText(n, "a")
	s.AppendText(n, "b")
	s.SetText(n, "replaced")

	if cues.clicks != 2 {
		t.Errorf("Expected 2 clicks, got %d", cues.clicks)
	}
	if got := mem.ContentText(); got != "replaced" {
		t.Errorf("Expected pass-through content, got %q", got)
	}
}

func TestClickerSilentOnWhitespace(t *testing.T) {
	mem := surface.NewMemory()
	cues := &countingCues{}
	s := NewClicker(mem, cues)

	n := s.CreateNode()
	s.InsertBefore(n, nil)
	s.AppendText(n, " ")
	s.AppendText(n, "\n")
	s.AppendText(n, "x")

	if cues.clicks != 1 {
		t.Errorf("Expected only the printable append to click, got %d", cues.clicks)
	}
}

func TestClickerChimesOnCueVisibility(t *testing.T) {
	mem := surface.NewMemory()
	cues := &countingCues{}
	s := NewClicker(mem, cues)

	cue := s.CreateNode()
	s.SetEffectTag(cue, surface.EffectCue)
	s.InsertBefore(cue, nil)
	s.SetVisible(cue, false)
	s.SetVisible(cue, true)
	s.SetVisible(cue, true)
	s.SetVisible(cue, false)

	if cues.chimes != 2 {
		t.Errorf("Expected a chime per visible transition, got %d", cues.chimes)
	}
}

func TestClickerIgnoresPlainNodeVisibility(t *testing.T) {
	mem := surface.NewMemory()
	cues := &countingCues{}
	s := NewClicker(mem, cues)

	n := s.CreateNode()
	s.SetEffectTag(n, "glow")
	s.InsertBefore(n, nil)
	s.SetVisible(n, true)

	if cues.chimes != 0 {
		t.Errorf("Expected no chime for a non-cue node, got %d", cues.chimes)
	}
}

func TestClickerRemoveForgetsTag(t *testing.T) {
	mem := surface.NewMemory()
	cues := &countingCues{}
	s := NewClicker(mem, cues)

	cue := s.CreateNode()
	s.SetEffectTag(cue, surface.EffectCue)
	s.InsertBefore(cue, nil)
	s.RemoveChild(cue)
	s.SetVisible(cue, true)

	if cues.chimes != 0 {
		t.Errorf("Expected no chime after removal, got %d", cues.chimes)
	}
}

func TestClickerNilCuesStaysQuietButForwards(t *testing.T) {
	mem := surface.NewMemory()
	s := NewClicker(mem, nil)

	n := s.CreateNode()
	s.InsertBefore(n, nil)
	s.AppendText(n, "x")
	s.SetStyle(s.Root(), "color", "#ffffff")

	if got := mem.ContentText(); got != "x" {
		t.Errorf("Expected forwarded append, got %q", got)
	}
	if got, ok := mem.Style(mem.Root(), "color"); !ok || got != "#ffffff" {
		t.Errorf("Expected forwarded style, got %q", got)
	}
}
