package audio

import (
	"strings"
	"sync"

	"typeline/surface"
)

// Cues is what the decorator needs from a sound source. Synth satisfies
// it; tests substitute a counter.
type Cues interface {
	Click()
	Chime()
}

// Clicker decorates a Surface with typewriter sound: AppendText ticks,
// and the continue cue chimes when it becomes visible. All other calls
// pass straight through. Whitespace appends stay silent.
type Clicker struct {
	inner surface.Surface
	cues  Cues

	mu   sync.Mutex
	tags map[surface.Node]string
}

// NewClicker wraps inner. A nil cues disables sound without disabling the
// pass-through.
func NewClicker(inner surface.Surface, cues Cues) *Clicker {
	return &Clicker{
		inner: inner,
		cues:  cues,
		tags:  make(map[surface.Node]string),
	}
}

func (c *Clicker) Root() surface.Node       { return c.inner.Root() }
func (c *Clicker) CreateNode() surface.Node { return c.inner.CreateNode() }

func (c *Clicker) InsertBefore(n, ref surface.Node) { c.inner.InsertBefore(n, ref) }

func (c *Clicker) RemoveChild(n surface.Node) {
	c.mu.Lock()
	delete(c.tags, n)
	c.mu.Unlock()
	c.inner.RemoveChild(n)
}

func (c *Clicker) SetText(n surface.Node, text string) { c.inner.SetText(n, text) }

func (c *Clicker) AppendText(n surface.Node, text string) {
	c.inner.AppendText(n, text)
	if c.cues != nil && strings.TrimSpace(text) != "" {
		c.cues.Click()
	}
}

func (c *Clicker) SetEffectTag(n surface.Node, tag string) {
	c.mu.Lock()
	c.tags[n] = tag
	c.mu.Unlock()
	c.inner.SetEffectTag(n, tag)
}

func (c *Clicker) SetVisible(n surface.Node, visible bool) {
	c.inner.SetVisible(n, visible)
	if !visible || c.cues == nil {
		return
	}
	c.mu.Lock()
	tag := c.tags[n]
	c.mu.Unlock()
	if tag == surface.EffectCue {
		c.cues.Chime()
	}
}

func (c *Clicker) SetStyle(n surface.Node, property, value string) {
	c.inner.SetStyle(n, property, value)
}
