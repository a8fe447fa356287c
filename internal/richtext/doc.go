// Package richtext implements the rich-text content held by outline nodes:
// the document value type, selections, and the editor engine that turns key
// presses into transactions.
package richtext

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// BlockType names the block node that wraps a document's inline content
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
)

// InlineType names an inline node
type InlineType string

const (
	InlineText      InlineType = "text"
	InlineHardBreak InlineType = "hard_break"
	InlineImage     InlineType = "image"
)

// BlockAttrs holds the attributes of a heading block
type BlockAttrs struct {
	Level int `json:"level"`
}

// Doc is the content of one outline node: a single block holding inline
// content. Positions are rune offsets into the inline content, where every
// non-text inline node counts as one position.
//
// A Doc is a value. Every operation returns a new Doc and never modifies the
// slices of its receiver, so a Doc captured in a history snapshot stays valid.
type Doc struct {
	Type    BlockType   `json:"type"`
	Attrs   *BlockAttrs `json:"attrs,omitempty"`
	Content []Inline    `json:"content,omitempty"`
}

// Inline is a text run, a hard break or an image
type Inline struct {
	Type  InlineType        `json:"type"`
	Text  string            `json:"text,omitempty"`
	Marks []Mark            `json:"marks,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// NewParagraph returns a paragraph holding plain text
func NewParagraph(text string) Doc {
	d := Doc{Type: BlockParagraph}
	if text != "" {
		d.Content = []Inline{{Type: InlineText, Text: text}}
	}
	return d
}

// NewHeading returns a heading of the given level holding plain text
func NewHeading(level int, text string) Doc {
	d := NewParagraph(text)
	d.Type = BlockHeading
	d.Attrs = &BlockAttrs{Level: level}
	return d
}

// NewDoc builds a document from inline content, merging adjacent text runs
// with the same marks
func NewDoc(t BlockType, attrs *BlockAttrs, content ...Inline) Doc {
	return Doc{Type: t, Attrs: attrs}.appendInline(content)
}

// Text returns a plain text inline node with optional marks
func Text(text string, marks ...Mark) Inline {
	return Inline{Type: InlineText, Text: text, Marks: marks}
}

// HardBreak returns a hard break inline node
func HardBreak() Inline {
	return Inline{Type: InlineHardBreak}
}

// Image returns an image inline node
func Image(src, alt string) Inline {
	attrs := map[string]string{"src": src}
	if alt != "" {
		attrs["alt"] = alt
	}
	return Inline{Type: InlineImage, Attrs: attrs}
}

// IsZero reports whether d is the zero Doc (no block type at all)
func (d Doc) IsZero() bool {
	return d.Type == ""
}

func (in Inline) size() int {
	if in.Type == InlineText {
		return utf8.RuneCountInString(in.Text)
	}
	return 1
}

func (in Inline) clone() Inline {
	out := in
	if in.Marks != nil {
		out.Marks = append([]Mark(nil), in.Marks...)
	}
	if in.Attrs != nil {
		out.Attrs = make(map[string]string, len(in.Attrs))
		for k, v := range in.Attrs {
			out.Attrs[k] = v
		}
	}
	return out
}

func (a *BlockAttrs) clone() *BlockAttrs {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Size returns the number of positions in the document's content
func (d Doc) Size() int {
	n := 0
	for _, in := range d.Content {
		n += in.size()
	}
	return n
}

// Cut returns the part of the document between from and to as a complete
// document of the same block type. Offsets are clamped to the content.
func (d Doc) Cut(from, to int) Doc {
	size := d.Size()
	from = clamp(from, 0, size)
	to = clamp(to, from, size)

	out := Doc{Type: d.Type, Attrs: d.Attrs.clone()}
	pos := 0
	for _, in := range d.Content {
		n := in.size()
		start, end := pos, pos+n
		pos = end
		if start >= to || end <= from {
			continue
		}
		if in.Type != InlineText {
			out.Content = append(out.Content, in.clone())
			continue
		}
		runes := []rune(in.Text)
		part := in.clone()
		part.Text = string(runes[max(from-start, 0):min(to-start, n)])
		out.Content = append(out.Content, part)
	}
	return out.normalized()
}

// CutFrom returns the document from pos to the end
func (d Doc) CutFrom(pos int) Doc {
	return d.Cut(pos, d.Size())
}

// Append returns d followed by the inline content of other. The block type
// of d is kept.
func (d Doc) Append(other Doc) Doc {
	return d.appendInline(other.Content)
}

func (d Doc) appendInline(content []Inline) Doc {
	out := Doc{Type: d.Type, Attrs: d.Attrs.clone()}
	out.Content = make([]Inline, 0, len(d.Content)+len(content))
	for _, in := range d.Content {
		out.Content = append(out.Content, in.clone())
	}
	for _, in := range content {
		out.Content = append(out.Content, in.clone())
	}
	return out.normalized()
}

// Replace replaces the range from..to with the given inline content
func (d Doc) Replace(from, to int, content ...Inline) Doc {
	size := d.Size()
	from = clamp(from, 0, size)
	to = clamp(to, from, size)
	return d.Cut(0, from).appendInline(content).Append(d.Cut(to, size))
}

// WithBlockType returns the same content wrapped in another block type
func (d Doc) WithBlockType(t BlockType, attrs *BlockAttrs) Doc {
	out := d.appendInline(nil)
	out.Type = t
	out.Attrs = attrs.clone()
	return out
}

// AddMark adds m to every text run between from and to. A mark of the same
// type already present is replaced.
func (d Doc) AddMark(from, to int, m Mark) Doc {
	return d.mapRange(from, to, func(in Inline) Inline {
		in.Marks = addToMarkSet(in.Marks, m)
		return in
	})
}

// RemoveMark removes marks of type t from every text run between from and to
func (d Doc) RemoveMark(from, to int, t MarkType) Doc {
	return d.mapRange(from, to, func(in Inline) Inline {
		in.Marks = removeFromMarkSet(in.Marks, t)
		return in
	})
}

func (d Doc) mapRange(from, to int, fn func(Inline) Inline) Doc {
	size := d.Size()
	from = clamp(from, 0, size)
	to = clamp(to, from, size)
	if from == to {
		return d
	}
	middle := d.Cut(from, to)
	mapped := make([]Inline, len(middle.Content))
	for i, in := range middle.Content {
		if in.Type == InlineText {
			in = fn(in)
		}
		mapped[i] = in
	}
	return d.Cut(0, from).appendInline(mapped).Append(d.Cut(to, size))
}

// RangeHasMark reports whether any text run between from and to carries a
// mark of type t
func (d Doc) RangeHasMark(from, to int, t MarkType) bool {
	for _, in := range d.Cut(from, to).Content {
		if _, ok := findMark(in.Marks, t); ok {
			return true
		}
	}
	return false
}

// MarksAt returns the marks of the text immediately before pos, or of the
// first run when pos is at the start
func (d Doc) MarksAt(pos int) []Mark {
	if len(d.Content) == 0 {
		return nil
	}
	if pos <= 0 {
		return append([]Mark(nil), d.Content[0].Marks...)
	}
	pos = clamp(pos, 0, d.Size())
	pieces := d.Cut(pos-1, pos).Content
	if len(pieces) == 0 {
		return nil
	}
	return append([]Mark(nil), pieces[0].Marks...)
}

// PlainText returns the text content. Hard breaks become newlines and images
// are dropped.
func (d Doc) PlainText() string {
	var sb strings.Builder
	for _, in := range d.Content {
		switch in.Type {
		case InlineText:
			sb.WriteString(in.Text)
		case InlineHardBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// normalized drops empty text runs, orders mark sets and merges adjacent
// text runs that carry identical marks
func (d Doc) normalized() Doc {
	out := Doc{Type: d.Type, Attrs: d.Attrs}
	for _, in := range d.Content {
		if in.Type == InlineText {
			if in.Text == "" {
				continue
			}
			in.Marks = sortMarkSet(in.Marks)
			if n := len(out.Content); n > 0 {
				last := &out.Content[n-1]
				if last.Type == InlineText && sameMarkSet(last.Marks, in.Marks) {
					last.Text += in.Text
					continue
				}
			}
		}
		out.Content = append(out.Content, in)
	}
	return out
}

// Equal reports whether two documents have the same structure and content
func Equal(a, b Doc) bool {
	a, b = a.normalized(), b.normalized()
	if a.Type != b.Type || len(a.Content) != len(b.Content) {
		return false
	}
	if (a.Attrs == nil) != (b.Attrs == nil) || (a.Attrs != nil && *a.Attrs != *b.Attrs) {
		return false
	}
	for i := range a.Content {
		x, y := a.Content[i], b.Content[i]
		if x.Type != y.Type || x.Text != y.Text || !sameAttrs(x.Attrs, y.Attrs) || !sameMarkSet(x.Marks, y.Marks) {
			return false
		}
	}
	return true
}

// Validate checks the document against the schema
func (d Doc) Validate() error {
	switch d.Type {
	case BlockParagraph:
	case BlockHeading:
		if d.Attrs == nil || d.Attrs.Level < 1 || d.Attrs.Level > 6 {
			return fmt.Errorf("%w: heading level must be 1-6", ErrInvalidContent)
		}
	default:
		return fmt.Errorf("%w: unknown block type %q", ErrInvalidContent, d.Type)
	}

	for i, in := range d.Content {
		switch in.Type {
		case InlineText:
			if in.Text == "" {
				return fmt.Errorf("%w: empty text node at %d", ErrInvalidContent, i)
			}
		case InlineHardBreak:
		case InlineImage:
			if in.Attrs["src"] == "" {
				return fmt.Errorf("%w: image without src at %d", ErrInvalidContent, i)
			}
		default:
			return fmt.Errorf("%w: unknown inline type %q", ErrInvalidContent, in.Type)
		}
		seen := make(map[MarkType]bool, len(in.Marks))
		for _, m := range in.Marks {
			if err := m.Validate(); err != nil {
				return err
			}
			if seen[m.Type] {
				return fmt.Errorf("%w: duplicate mark %q", ErrInvalidContent, m.Type)
			}
			seen[m.Type] = true
		}
	}
	return nil
}

// UnmarshalJSON decodes and validates a document
func (d *Doc) UnmarshalJSON(data []byte) error {
	type rawDoc Doc
	var raw rawDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc := Doc(raw)
	if err := doc.Validate(); err != nil {
		return err
	}
	*d = doc.normalized()
	return nil
}

func sameAttrs(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
