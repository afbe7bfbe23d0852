// Package teaview renders the reveal engine inside a Bubble Tea program.
// It implements both collaborator seams: Surface mutations land in a span
// store and nudge the program to repaint; key and mouse events become
// engine signals.
package teaview

import (
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"typeline/surface"
)

// node is one surface span.
type node struct {
	text    strings.Builder
	effect  string
	visible bool
}

type subEntry struct {
	kind surface.SignalKind
	fn   func()
}

// View is the shared state behind the Bubble Tea model. Construct it with
// New, hand Model to tea.NewProgram, then Attach the program so surface
// mutations can trigger repaints.
type View struct {
	mu       sync.Mutex
	children []*node
	fg       lipgloss.Color
	bg       lipgloss.Color
	accent   lipgloss.Color
	pad      int

	program atomic.Pointer[tea.Program]
	done    atomic.Bool

	inputMu sync.Mutex
	subs    map[int]subEntry
	nextSub int
}

// New returns an empty view with the default palette.
func New() *View {
	return &View{
		fg:     lipgloss.Color("#c0caf5"),
		bg:     lipgloss.Color("#1a1b26"),
		accent: lipgloss.Color("#ffa500"),
		pad:    1,
		subs:   make(map[int]subEntry),
	}
}

// Model returns the tea.Model for this view.
func (v *View) Model() tea.Model {
	return model{view: v, cueOn: true}
}

// Attach connects the running program so mutations repaint. Call it right
// after tea.NewProgram.
func (v *View) Attach(p *tea.Program) {
	v.program.Store(p)
}

// refresh nudges the program to re-render. Safe before Attach and after
// the program has quit. The send is detached: a surface mutation must
// never wait on the event loop.
func (v *View) refresh() {
	if p := v.program.Load(); p != nil && !v.done.Load() {
		go p.Send(refreshMsg{})
	}
}

// Root returns the style target node.
func (v *View) Root() surface.Node { return v }

// CreateNode allocates a detached span.
func (v *View) CreateNode() surface.Node { return &node{visible: true} }

// InsertBefore attaches n before ref, or at the end for a nil ref.
func (v *View) InsertBefore(n, ref surface.Node) {
	nd, ok := n.(*node)
	if !ok || nd == nil {
		return
	}
	v.mu.Lock()
	v.detachLocked(nd)
	idx := len(v.children)
	if r, ok := ref.(*node); ok && r != nil {
		for i, c := range v.children {
			if c == r {
				idx = i
				break
			}
		}
	}
	v.children = append(v.children, nil)
	copy(v.children[idx+1:], v.children[idx:])
	v.children[idx] = nd
	v.mu.Unlock()
	v.refresh()
}

// RemoveChild detaches n.
func (v *View) RemoveChild(n surface.Node) {
	nd, ok := n.(*node)
	if !ok || nd == nil {
		return
	}
	v.mu.Lock()
	v.detachLocked(nd)
	v.mu.Unlock()
	v.refresh()
}

func (v *View) detachLocked(nd *node) {
	for i, c := range v.children {
		if c == nd {
			v.children = append(v.children[:i], v.children[i+1:]...)
			return
		}
	}
}

// SetText replaces the text of n.
func (v *View) SetText(n surface.Node, text string) {
	nd, ok := n.(*node)
	if !ok || nd == nil {
		return
	}
	v.mu.Lock()
	nd.text.Reset()
	nd.text.WriteString(text)
	v.mu.Unlock()
	v.refresh()
}

// AppendText appends to the text of n.
func (v *View) AppendText(n surface.Node, text string) {
	nd, ok := n.(*node)
	if !ok || nd == nil {
		return
	}
	v.mu.Lock()
	nd.text.WriteString(text)
	v.mu.Unlock()
	v.refresh()
}

// SetEffectTag labels n for the style map.
func (v *View) SetEffectTag(n surface.Node, tag string) {
	nd, ok := n.(*node)
	if !ok || nd == nil {
		return
	}
	v.mu.Lock()
	nd.effect = tag
	v.mu.Unlock()
	v.refresh()
}

// SetVisible toggles n without detaching it.
func (v *View) SetVisible(n surface.Node, visible bool) {
	nd, ok := n.(*node)
	if !ok || nd == nil {
		return
	}
	v.mu.Lock()
	nd.visible = visible
	v.mu.Unlock()
	v.refresh()
}

// SetStyle applies a root pass-through property.
func (v *View) SetStyle(n surface.Node, property, value string) {
	if n != surface.Node(v) {
		return
	}
	v.mu.Lock()
	switch property {
	case "color":
		if c, ok := colorFor(value); ok {
			v.fg = c
		}
	case "background":
		if c, ok := colorFor(value); ok {
			v.bg = c
		}
	case "accent":
		if c, ok := colorFor(value); ok {
			v.accent = c
		}
	case "margin", "padding":
		if len(value) == 1 && value[0] >= '0' && value[0] <= '8' {
			v.pad = int(value[0] - '0')
		}
	}
	v.mu.Unlock()
	v.refresh()
}

// Subscribe registers fn for one signal kind.
func (v *View) Subscribe(kind surface.SignalKind, fn func()) surface.Subscription {
	v.inputMu.Lock()
	defer v.inputMu.Unlock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = subEntry{kind: kind, fn: fn}
	return &viewSub{v: v, id: id}
}

type viewSub struct {
	v  *View
	id int
}

func (s *viewSub) Cancel() {
	s.v.inputMu.Lock()
	defer s.v.inputMu.Unlock()
	delete(s.v.subs, s.id)
}

// fire runs the subscribers of one kind outside inputMu.
func (v *View) fire(kind surface.SignalKind) {
	v.inputMu.Lock()
	fns := make([]func(), 0, len(v.subs))
	for _, e := range v.subs {
		if e.kind == kind {
			fns = append(fns, e.fn)
		}
	}
	v.inputMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// render builds the framed transcript. cueOn gates the blinking continue
// cue.
func (v *View) render(width int, cueOn bool) string {
	v.mu.Lock()
	var b strings.Builder
	for _, nd := range v.children {
		if !nd.visible {
			continue
		}
		if nd.effect == surface.EffectCue && !cueOn {
			continue
		}
		b.WriteString(v.styleFor(nd.effect).Render(nd.text.String()))
	}
	frame := lipgloss.NewStyle().
		Foreground(v.fg).
		Background(v.bg).
		Padding(v.pad, v.pad*2).
		Width(width)
	v.mu.Unlock()
	return frame.Render(b.String())
}

// styleFor maps an effect tag to a span style. Dynamic effects keep a
// static approximation here; the tcell backend animates them.
func (v *View) styleFor(tag string) lipgloss.Style {
	switch tag {
	case "":
		return lipgloss.NewStyle()
	case surface.EffectCue, "glow":
		return lipgloss.NewStyle().Foreground(v.accent).Bold(true)
	case "wave":
		return lipgloss.NewStyle().Foreground(v.accent).Italic(true)
	case "shake":
		return lipgloss.NewStyle().Foreground(v.accent).Blink(true)
	case "blink":
		return lipgloss.NewStyle().Blink(true)
	default:
		if c, ok := colorFor(tag); ok {
			return lipgloss.NewStyle().Foreground(c)
		}
		return lipgloss.NewStyle()
	}
}

// namedColors mirrors the effect-tag palette of the tcell backend.
var namedColors = map[string]string{
	"white":   "#ffffff",
	"gray":    "#b4b4b4",
	"red":     "#ff5050",
	"green":   "#32c832",
	"blue":    "#6496ff",
	"yellow":  "#ffd700",
	"gold":    "#ffff00",
	"orange":  "#ffa500",
	"cyan":    "#00c8c8",
	"magenta": "#d75fd7",
}

func colorFor(value string) (lipgloss.Color, bool) {
	if strings.HasPrefix(value, "#") && len(value) == 7 {
		return lipgloss.Color(value), true
	}
	if hex, ok := namedColors[strings.ToLower(value)]; ok {
		return lipgloss.Color(hex), true
	}
	return "", false
}
