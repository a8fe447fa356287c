package richtext

// Selection is a text selection between an anchor and a head position. A
// collapsed selection (anchor == head) is a cursor.
type Selection struct {
	Type   string `json:"type"`
	Anchor int    `json:"anchor"`
	Head   int    `json:"head"`
}

// Cursor returns a collapsed selection at pos
func Cursor(pos int) Selection {
	return Selection{Type: "text", Anchor: pos, Head: pos}
}

// Range returns a selection from anchor to head
func Range(anchor, head int) Selection {
	return Selection{Type: "text", Anchor: anchor, Head: head}
}

// Empty reports whether the selection is collapsed
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// From returns the smaller end of the selection
func (s Selection) From() int {
	return min(s.Anchor, s.Head)
}

// To returns the larger end of the selection
func (s Selection) To() int {
	return max(s.Anchor, s.Head)
}

// Clamp fits the selection inside a document of the given size
func (s Selection) Clamp(size int) Selection {
	return Selection{Type: "text", Anchor: clamp(s.Anchor, 0, size), Head: clamp(s.Head, 0, size)}
}

// mapReplace moves a position across a replacement of from..to by n
// positions of new content
func mapReplace(pos, from, to, n int) int {
	switch {
	case pos <= from:
		return pos
	case pos >= to:
		return pos - (to - from) + n
	default:
		return from + n
	}
}
