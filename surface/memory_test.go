package surface

import (
	"sync"
	"testing"
)

// TestMemoryInsertOrdering verifies InsertBefore semantics with and without
// a reference node.
func TestMemoryInsertOrdering(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	b := m.CreateNode()
	c := m.CreateNode()
	m.SetText(a, "a")
	m.SetText(b, "b")
	m.SetText(c, "c")

	m.InsertBefore(a, nil)
	m.InsertBefore(c, nil)
	m.InsertBefore(b, c) // a b c

	kids := m.Children()
	if len(kids) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(kids))
	}
	got := kids[0].Text + kids[1].Text + kids[2].Text
	if got != "abc" {
		t.Errorf("Expected order abc, got %q", got)
	}
}

// TestMemoryInsertMovesAttachedNode verifies re-insertion moves instead of
// duplicating.
func TestMemoryInsertMovesAttachedNode(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	b := m.CreateNode()
	m.InsertBefore(a, nil)
	m.InsertBefore(b, nil)
	m.InsertBefore(b, a) // b moves in front of a

	kids := m.Children()
	if len(kids) != 2 {
		t.Fatalf("Expected 2 children after move, got %d", len(kids))
	}
	if kids[0].ID != 2 || kids[1].ID != 1 {
		t.Errorf("Expected order [2 1], got [%d %d]", kids[0].ID, kids[1].ID)
	}
}

// TestMemoryRemoveChild verifies detaching and that removing twice is a
// no-op.
func TestMemoryRemoveChild(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	m.InsertBefore(a, nil)
	m.RemoveChild(a)
	m.RemoveChild(a)

	if m.ChildCount() != 0 {
		t.Errorf("Expected 0 children, got %d", m.ChildCount())
	}
	if got := m.CountOps(OpRemove); got != 1 {
		t.Errorf("Expected 1 remove op, got %d", got)
	}
}

// TestMemoryContentTextSkipsHidden verifies visibility filtering.
func TestMemoryContentTextSkipsHidden(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode()
	b := m.CreateNode()
	m.SetText(a, "shown")
	m.SetText(b, "hidden")
	m.InsertBefore(a, nil)
	m.InsertBefore(b, nil)
	m.SetVisible(b, false)

	if got := m.ContentText(); got != "shown" {
		t.Errorf("Expected %q, got %q", "shown", got)
	}
	m.SetVisible(b, true)
	if got := m.ContentText(); got != "shownhidden" {
		t.Errorf("Expected %q, got %q", "shownhidden", got)
	}
}

// TestMemoryAppendAndSetText verifies append accumulation and overwrite.
func TestMemoryAppendAndSetText(t *testing.T) {
	m := NewMemory()
	n := m.CreateNode()
	m.AppendText(n, "a")
	m.AppendText(n, "b")
	m.InsertBefore(n, nil)
	if got := m.ContentText(); got != "ab" {
		t.Errorf("Expected ab, got %q", got)
	}
	m.SetText(n, "full")
	if got := m.ContentText(); got != "full" {
		t.Errorf("Expected full after SetText, got %q", got)
	}
	if got := m.CountOps(OpAppend); got != 2 {
		t.Errorf("Expected 2 append ops, got %d", got)
	}
}

// TestMemoryNilAndForeignNodes verifies best-effort handling of bad handles.
func TestMemoryNilAndForeignNodes(t *testing.T) {
	m := NewMemory()
	m.SetText(nil, "x")
	m.AppendText(nil, "x")
	m.RemoveChild(nil)
	m.InsertBefore(nil, nil)
	m.SetVisible(struct{}{}, true)
	m.SetStyle("not a node", "color", "red")

	if m.ChildCount() != 0 {
		t.Errorf("Expected no children, got %d", m.ChildCount())
	}
	if len(m.Ops()) != 0 {
		t.Errorf("Expected no recorded ops, got %d", len(m.Ops()))
	}
}

// TestMemoryRootStyles verifies style pass-through lands on the root node.
func TestMemoryRootStyles(t *testing.T) {
	m := NewMemory()
	m.SetStyle(m.Root(), "color", "#ff0000")
	m.SetStyle(m.Root(), "color", "#00ff00")

	v, ok := m.Style(m.Root(), "color")
	if !ok || v != "#00ff00" {
		t.Errorf("Expected last write #00ff00, got %q (ok=%t)", v, ok)
	}
	if got := m.CountOps(OpStyle); got != 2 {
		t.Errorf("Expected 2 style ops, got %d", got)
	}
}

// TestMemoryConcurrentAppends verifies the surface tolerates concurrent
// writers without losing ops.
func TestMemoryConcurrentAppends(t *testing.T) {
	m := NewMemory()
	n := m.CreateNode()
	m.InsertBefore(n, nil)

	var wg sync.WaitGroup
	const writers = 8
	const per = 50
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < per; j++ {
				m.AppendText(n, "x")
			}
		}()
	}
	wg.Wait()

	if got := m.CountOps(OpAppend); got != writers*per {
		t.Errorf("Expected %d append ops, got %d", writers*per, got)
	}
	if got := len(m.ContentText()); got != writers*per {
		t.Errorf("Expected %d chars, got %d", writers*per, got)
	}
}
