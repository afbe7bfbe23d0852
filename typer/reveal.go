package typer

import (
	"github.com/rivo/uniseg"

	"typeline/segment"
	"typeline/surface"
)

// cursor is the per-message reveal state: which grapheme of which segment
// comes next, the nodes created so far, and the completion flags. A cursor
// lives from pop to display-mode cleanup and is never reused.
type cursor struct {
	segs     []segment.Segment
	clusters [][]string
	cfg      Config

	// segIdx, charIdx and nodes belong to the drain goroutine.
	segIdx  int
	charIdx int
	nodes   []surface.Node

	// skipped and complete are guarded by Typer.mu.
	skipped  bool
	complete bool

	// skipCh carries at most one skip request into the reveal select.
	skipCh chan struct{}
}

func newCursor(segs []segment.Segment, cfg Config) *cursor {
	c := &cursor{
		segs:     segs,
		clusters: make([][]string, len(segs)),
		cfg:      cfg,
		skipCh:   make(chan struct{}, 1),
	}
	for i, s := range segs {
		c.clusters[i] = splitClusters(s.Text)
	}
	return c
}

// peek reports the next grapheme to reveal, first advancing over exhausted
// segments. Segment transitions cost no tick; only characters do.
func (c *cursor) peek() (segIdx int, gr string, ok bool) {
	for c.segIdx < len(c.segs) {
		cl := c.clusters[c.segIdx]
		if c.charIdx < len(cl) {
			return c.segIdx, cl[c.charIdx], true
		}
		c.segIdx++
		c.charIdx = 0
	}
	return 0, "", false
}

// total counts the graphemes across all segments.
func (c *cursor) total() int {
	n := 0
	for _, cl := range c.clusters {
		n += len(cl)
	}
	return n
}

// splitClusters breaks text into user-visible characters so combining
// marks and emoji reveal as single steps.
func splitClusters(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

// reveal plays cur onto the surface one grapheme per timer tick. It
// returns false when the session was halted mid-reveal. An empty message
// completes immediately without a render instruction.
func (t *Typer) reveal(s *session, cur *cursor) bool {
	delay := cur.cfg.CharDelay()
	for {
		idx, gr, ok := cur.peek()
		if !ok {
			break
		}
		timer := t.clk.NewTimer(delay)
		select {
		case <-timer.C():
		case <-cur.skipCh:
			timer.Stop()
			t.skipRender(cur)
			return true
		case <-s.stop:
			timer.Stop()
			return t.bail(s)
		}
		t.emit(cur, idx, gr)
	}
	t.mu.Lock()
	cur.complete = true
	t.mu.Unlock()
	t.debug("reveal complete")
	return true
}

// emit appends one grapheme to its segment's node.
func (t *Typer) emit(cur *cursor, idx int, gr string) {
	n := t.segmentNode(cur, idx)
	t.surface.AppendText(n, gr)
	cur.charIdx++
}

// segmentNode returns the node for segment idx, creating and attaching
// nodes lazily so each segment's node appears with its first character,
// already carrying its effect tag.
func (t *Typer) segmentNode(cur *cursor, idx int) surface.Node {
	for len(cur.nodes) <= idx {
		seg := cur.segs[len(cur.nodes)]
		n := t.surface.CreateNode()
		if seg.Effect != "" {
			t.surface.SetEffectTag(n, seg.Effect)
		}
		t.surface.InsertBefore(n, t.anchor)
		cur.nodes = append(cur.nodes, n)
		t.owned = append(t.owned, n)
	}
	return cur.nodes[idx]
}

// skipRender finishes the whole message in one shot: every segment's full
// text lands on its node, overwriting partially revealed text and creating
// nodes for segments not yet started.
func (t *Typer) skipRender(cur *cursor) {
	for i, seg := range cur.segs {
		n := t.segmentNode(cur, i)
		t.surface.SetText(n, seg.Text)
	}
	cur.segIdx = len(cur.segs)
	cur.charIdx = 0
	t.mu.Lock()
	cur.complete = true
	t.mu.Unlock()
	t.debug("reveal skipped")
}
