// Package segment tokenizes raw message text into ordered runs of
// characters sharing a presentation effect. Markers use the form
// {tag:content}; everything outside a marker is plain text.
package segment

// Segment is one run of message text. Effect is the marker tag that
// applies to Text, or empty for plain text. Concatenating the Text of
// every segment reproduces the original message minus marker syntax.
type Segment struct {
	Text   string
	Effect string
}

// Plain reports whether the segment carries no effect tag.
func (s Segment) Plain() bool { return s.Effect == "" }

// Parse splits raw into ordered segments. Scanning is left-to-right,
// non-overlapping and non-nested: a marker is an ASCII word tag followed
// by a colon and one or more non-brace characters, all inside braces.
// Malformed markers (unclosed brace, empty tag or content, non-word tag)
// pass through as literal text. An empty input yields a single empty
// plain segment so callers always receive at least one segment.
func Parse(raw string) []Segment {
	if raw == "" {
		return []Segment{{}}
	}

	var segs []Segment
	plain := 0 // start of the pending plain run
	i := 0
	for i < len(raw) {
		if raw[i] != '{' {
			i++
			continue
		}
		tag, content, end, ok := scanMarker(raw, i)
		if !ok {
			i++
			continue
		}
		if i > plain {
			segs = append(segs, Segment{Text: raw[plain:i]})
		}
		segs = append(segs, Segment{Text: content, Effect: tag})
		i = end
		plain = end
	}
	if plain < len(raw) {
		segs = append(segs, Segment{Text: raw[plain:]})
	}
	return segs
}

// scanMarker reads a {tag:content} marker starting at the opening brace.
// end is the index just past the closing brace. ok is false when the text
// at start is not a well-formed marker.
func scanMarker(raw string, start int) (tag, content string, end int, ok bool) {
	j := start + 1
	tagStart := j
	for j < len(raw) && isWord(raw[j]) {
		j++
	}
	if j == tagStart || j >= len(raw) || raw[j] != ':' {
		return "", "", 0, false
	}
	tag = raw[tagStart:j]
	j++
	contentStart := j
	for j < len(raw) && raw[j] != '}' {
		j++
	}
	if j >= len(raw) || j == contentStart {
		return "", "", 0, false
	}
	return tag, raw[contentStart:j], j + 1, true
}

func isWord(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}
