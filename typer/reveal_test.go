package typer

import (
	"testing"

	"typeline/segment"
)

// TestSplitClustersGraphemes verifies character stepping follows grapheme
// cluster boundaries, not runes or bytes.
func TestSplitClustersGraphemes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"ab", 2},
		{"éx", 2},     // combining accent stays with its base
		{"\U0001F44D", 1},   // thumbs up
		{"\U0001F1EB\U0001F1F7", 1}, // regional indicator pair
		{"世界", 2},
	}
	for _, tt := range tests {
		got := splitClusters(tt.in)
		if len(got) != tt.want {
			t.Errorf("splitClusters(%q): expected %d clusters, got %d (%v)", tt.in, tt.want, len(got), got)
		}
	}
}

// TestCursorPeekWalksSegments verifies peek yields every grapheme in order
// and hops segment boundaries without yielding anything for them.
func TestCursorPeekWalksSegments(t *testing.T) {
	cur := newCursor(segment.Parse("a{f:bc}d"), DefaultConfig())

	type step struct {
		seg int
		gr  string
	}
	want := []step{{0, "a"}, {1, "b"}, {1, "c"}, {2, "d"}}
	for i, w := range want {
		seg, gr, ok := cur.peek()
		if !ok {
			t.Fatalf("Step %d: expected more graphemes", i)
		}
		if seg != w.seg || gr != w.gr {
			t.Errorf("Step %d: expected (%d,%q), got (%d,%q)", i, w.seg, w.gr, seg, gr)
		}
		cur.charIdx++
	}
	if _, _, ok := cur.peek(); ok {
		t.Error("Expected cursor exhausted after final grapheme")
	}
}

// TestCursorEmptyMessage verifies the terminal no-op cursor.
func TestCursorEmptyMessage(t *testing.T) {
	cur := newCursor(segment.Parse(""), DefaultConfig())
	if got := cur.total(); got != 0 {
		t.Errorf("Expected 0 graphemes, got %d", got)
	}
	if _, _, ok := cur.peek(); ok {
		t.Error("Expected empty cursor to be exhausted immediately")
	}
}

// TestCursorTotal counts graphemes across all segments.
func TestCursorTotal(t *testing.T) {
	cur := newCursor(segment.Parse("hi {fx:there}!"), DefaultConfig())
	if got := cur.total(); got != 9 {
		t.Errorf("Expected 9 graphemes, got %d", got)
	}
}
