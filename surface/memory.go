package surface

import (
	"fmt"
	"strings"
	"sync"
)

// OpKind identifies one recorded surface mutation.
type OpKind string

const (
	OpCreate  OpKind = "create"
	OpInsert  OpKind = "insert"
	OpRemove  OpKind = "remove"
	OpSetText OpKind = "setText"
	OpAppend  OpKind = "appendText"
	OpEffect  OpKind = "setEffect"
	OpVisible OpKind = "setVisible"
	OpStyle   OpKind = "setStyle"
)

// Op is one recorded mutation. Node is the target's id (0 is the root);
// Text carries the payload: appended or replaced text, the effect tag,
// "true"/"false" for visibility, or "property=value" for styles.
type Op struct {
	Kind OpKind
	Node int
	Text string
}

func (o Op) String() string {
	return fmt.Sprintf("%s #%d %q", o.Kind, o.Node, o.Text)
}

// ChildInfo is a read-only snapshot of one attached node.
type ChildInfo struct {
	ID      int
	Text    string
	Effect  string
	Visible bool
}

type memNode struct {
	id      int
	text    strings.Builder
	effect  string
	visible bool
	styles  map[string]string
}

// Memory is an in-process Surface that keeps an ordered child list and a
// log of every mutation. It backs the engine tests and the trace tool and
// works as a headless surface for hosts that only want the instruction
// stream. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	nextID   int
	root     *memNode
	children []*memNode
	ops      []Op
}

// NewMemory returns an empty surface.
func NewMemory() *Memory {
	m := &Memory{
		root:   &memNode{id: 0, visible: true, styles: map[string]string{}},
		nextID: 1,
	}
	return m
}

func (m *Memory) Root() Node { return m.root }

func (m *Memory) CreateNode() Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := &memNode{id: m.nextID, visible: true, styles: map[string]string{}}
	m.nextID++
	m.record(OpCreate, n.id, "")
	return n
}

func (m *Memory) InsertBefore(n, ref Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil || node == m.root {
		return
	}
	m.detach(node)
	idx := len(m.children)
	if r := m.node(ref); r != nil {
		for i, c := range m.children {
			if c == r {
				idx = i
				break
			}
		}
	}
	m.children = append(m.children, nil)
	copy(m.children[idx+1:], m.children[idx:])
	m.children[idx] = node
	m.record(OpInsert, node.id, "")
}

func (m *Memory) RemoveChild(n Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil || node == m.root {
		return
	}
	if m.detach(node) {
		m.record(OpRemove, node.id, "")
	}
}

func (m *Memory) SetText(n Node, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil {
		return
	}
	node.text.Reset()
	node.text.WriteString(text)
	m.record(OpSetText, node.id, text)
}

func (m *Memory) AppendText(n Node, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil {
		return
	}
	node.text.WriteString(text)
	m.record(OpAppend, node.id, text)
}

func (m *Memory) SetEffectTag(n Node, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil {
		return
	}
	node.effect = tag
	m.record(OpEffect, node.id, tag)
}

func (m *Memory) SetVisible(n Node, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil {
		return
	}
	node.visible = visible
	m.record(OpVisible, node.id, fmt.Sprintf("%t", visible))
}

func (m *Memory) SetStyle(n Node, property, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil {
		return
	}
	node.styles[property] = value
	m.record(OpStyle, node.id, property+"="+value)
}

// Children returns a snapshot of the attached nodes in order.
func (m *Memory) Children() []ChildInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChildInfo, len(m.children))
	for i, c := range m.children {
		out[i] = ChildInfo{ID: c.id, Text: c.text.String(), Effect: c.effect, Visible: c.visible}
	}
	return out
}

// ChildCount returns the number of attached nodes.
func (m *Memory) ChildCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.children)
}

// ContentText concatenates the text of every visible attached node.
func (m *Memory) ContentText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, c := range m.children {
		if c.visible {
			b.WriteString(c.text.String())
		}
	}
	return b.String()
}

// Style returns a root or node style property recorded via SetStyle.
func (m *Memory) Style(n Node, property string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.node(n)
	if node == nil {
		return "", false
	}
	v, ok := node.styles[property]
	return v, ok
}

// Ops returns a copy of the mutation log.
func (m *Memory) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Op, len(m.ops))
	copy(out, m.ops)
	return out
}

// CountOps returns how many logged mutations have the given kind.
func (m *Memory) CountOps(kind OpKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, op := range m.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (m *Memory) node(n Node) *memNode {
	v, _ := n.(*memNode)
	return v
}

func (m *Memory) detach(node *memNode) bool {
	for i, c := range m.children {
		if c == node {
			m.children = append(m.children[:i], m.children[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Memory) record(kind OpKind, node int, text string) {
	m.ops = append(m.ops, Op{Kind: kind, Node: node, Text: text})
}
