// Package terminal renders the reveal engine on a tcell screen. It
// implements both collaborator seams: Surface for content and InputSource
// for key and mouse signals. Drawing is frame-driven; the host calls
// Redraw on its own ticker.
package terminal

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"typeline/clock"
	"typeline/surface"
)

// span is one surface node: a run of text sharing an effect tag.
type span struct {
	text    strings.Builder
	effect  string
	visible bool
}

// Terminal is a tcell-backed Surface and InputSource. All methods are safe
// for concurrent use. Content mutations land in the span list; nothing hits
// the screen until Redraw.
type Terminal struct {
	screen tcell.Screen
	clk    clock.Clock

	mu       sync.Mutex
	children []*span
	styles   styleSheet

	inputMu sync.Mutex
	subs    map[int]subEntry
	nextSub int
	buttons tcell.ButtonMask

	events  chan tcell.Event
	stop    chan struct{}
	stopped sync.Once
	started bool

	// OnKey, when set, sees every key event before dispatch and consumes
	// it by returning true. Hosts use it for quit combos.
	OnKey func(*tcell.EventKey) bool
	// OnResize, when set, runs after the screen has synced to a new size.
	OnResize func(width, height int)
}

type subEntry struct {
	kind surface.SignalKind
	fn   func()
}

// New creates a terminal over a fresh tcell screen and initializes it.
// Input delivery stays off until Start, so the caller can set OnKey and
// OnResize first.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return Attach(screen), nil
}

// Attach wraps an already initialized screen without starting the input
// goroutines. Tests attach a simulation screen and call Start themselves.
func Attach(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen: screen,
		clk:    clock.System(),
		styles: defaultStyles(),
		subs:   make(map[int]subEntry),
		events: make(chan tcell.Event, 256),
		stop:   make(chan struct{}),
	}
}

// SetClock replaces the time source behind the animated effects.
func (t *Terminal) SetClock(c clock.Clock) {
	if c != nil {
		t.clk = c
	}
}

// Start launches the poll and dispatch goroutines. Safe to call once.
func (t *Terminal) Start() {
	t.inputMu.Lock()
	if t.started {
		t.inputMu.Unlock()
		return
	}
	t.started = true
	t.inputMu.Unlock()

	go t.poll()
	go t.dispatch()
}

// Fini stops input delivery and restores the terminal. Idempotent.
func (t *Terminal) Fini() {
	t.stopped.Do(func() {
		close(t.stop)
		// Wake the poller if it is parked in PollEvent.
		t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	t.screen.Fini()
}

// Root returns the style target node. The terminal styles globally, so the
// root is a fixed sentinel rather than a span.
func (t *Terminal) Root() surface.Node {
	return t
}

// CreateNode allocates a detached span.
func (t *Terminal) CreateNode() surface.Node {
	return &span{visible: true}
}

// InsertBefore attaches n before ref, or at the end for a nil ref. An
// attached node moves instead of duplicating.
func (t *Terminal) InsertBefore(n, ref surface.Node) {
	sp, ok := n.(*span)
	if !ok || sp == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detachLocked(sp)
	if refSp, ok := ref.(*span); ok && refSp != nil {
		for i, c := range t.children {
			if c == refSp {
				t.children = append(t.children[:i], append([]*span{sp}, t.children[i:]...)...)
				return
			}
		}
	}
	t.children = append(t.children, sp)
}

// RemoveChild detaches n. Unknown nodes are ignored.
func (t *Terminal) RemoveChild(n surface.Node) {
	sp, ok := n.(*span)
	if !ok || sp == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detachLocked(sp)
}

func (t *Terminal) detachLocked(sp *span) {
	for i, c := range t.children {
		if c == sp {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

// SetText replaces the text of n.
func (t *Terminal) SetText(n surface.Node, text string) {
	sp, ok := n.(*span)
	if !ok || sp == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	sp.text.Reset()
	sp.text.WriteString(text)
}

// AppendText appends to the text of n.
func (t *Terminal) AppendText(n surface.Node, text string) {
	sp, ok := n.(*span)
	if !ok || sp == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	sp.text.WriteString(text)
}

// SetEffectTag labels n for the effect palette.
func (t *Terminal) SetEffectTag(n surface.Node, tag string) {
	sp, ok := n.(*span)
	if !ok || sp == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	sp.effect = tag
}

// SetVisible toggles n without detaching it.
func (t *Terminal) SetVisible(n surface.Node, visible bool) {
	sp, ok := n.(*span)
	if !ok || sp == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	sp.visible = visible
}

// SetStyle applies a pass-through property. Only the root accepts styles;
// unknown properties and bad values are ignored.
func (t *Terminal) SetStyle(n surface.Node, property, value string) {
	if n != surface.Node(t) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.styles.apply(property, value)
}

// cell is one positioned grapheme cluster ready to draw.
type cell struct {
	x, y    int
	cluster string
	effect  string
	column  int // cluster index within its span, drives wave phase
}

// Redraw lays the visible spans out into the text region and flushes the
// screen. The host drives this from a frame ticker.
func (t *Terminal) Redraw() {
	t.mu.Lock()
	cells, styles := t.layoutLocked()
	t.mu.Unlock()

	now := t.clk.Now()
	width, height := t.screen.Size()
	t.screen.Fill(' ', styles.base())
	for _, c := range cells {
		if c.x < 0 || c.y < 0 || c.x >= width || c.y >= height {
			continue
		}
		style, dx, visible := styles.resolve(c.effect, now, c.column)
		if !visible {
			continue
		}
		runes := []rune(c.cluster)
		if len(runes) == 0 {
			continue
		}
		t.screen.SetContent(c.x+dx, c.y, runes[0], runes[1:], style)
	}
	t.screen.Show()
}

// layoutLocked wraps the visible spans into the margined text region and
// returns draw-ready cells plus a snapshot of the style sheet.
func (t *Terminal) layoutLocked() ([]cell, styleSheet) {
	width, height := t.screen.Size()
	margin := t.styles.margin
	regionW := width - 2*margin
	if regionW < 1 {
		regionW = 1
	}

	var cells []cell
	x, y := 0, 0
	for _, sp := range t.children {
		if !sp.visible {
			continue
		}
		column := 0
		g := uniseg.NewGraphemes(sp.text.String())
		for g.Next() {
			cluster := g.Str()
			if cluster == "\n" {
				x = 0
				y++
				continue
			}
			w := runewidth.StringWidth(cluster)
			if w <= 0 {
				continue
			}
			if x+w > regionW {
				x = 0
				y++
			}
			cells = append(cells, cell{
				x:       margin + x,
				y:       margin + y,
				cluster: cluster,
				effect:  sp.effect,
				column:  column,
			})
			x += w
			column++
		}
	}

	// Scroll so the tail stays on screen when content outgrows the region.
	regionH := height - 2*margin
	if regionH < 1 {
		regionH = 1
	}
	overflow := y + 1 - regionH
	if overflow > 0 {
		kept := cells[:0]
		for _, c := range cells {
			c.y -= overflow
			if c.y >= margin {
				kept = append(kept, c)
			}
		}
		cells = kept
	}
	return cells, t.styles
}

// ContentText returns the visible text, line breaks included. Used by the
// simulation tests and handy for debugging.
func (t *Terminal) ContentText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var b strings.Builder
	for _, sp := range t.children {
		if sp.visible {
			b.WriteString(sp.text.String())
		}
	}
	return b.String()
}
