package richtext

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidContent is returned when a document does not match the schema
	ErrInvalidContent = errors.New("invalid rich-text content")
	// ErrSurfaceBusy is returned when an editor is mounted on a surface that
	// another live editor still owns
	ErrSurfaceBusy = errors.New("surface is owned by another editor")
)

// MarkType names an inline mark
type MarkType string

const (
	MarkLink      MarkType = "link"
	MarkStrong    MarkType = "strong"
	MarkEm        MarkType = "em"
	MarkCode      MarkType = "code"
	MarkUnderline MarkType = "underline"
	MarkStrike    MarkType = "strike"
	MarkColor     MarkType = "color"
)

// markRank fixes the order marks appear in a mark set
var markRank = map[MarkType]int{
	MarkLink:      0,
	MarkStrong:    1,
	MarkEm:        2,
	MarkCode:      3,
	MarkUnderline: 4,
	MarkStrike:    5,
	MarkColor:     6,
}

// Mark is a formatting mark on a text run
type Mark struct {
	Type  MarkType          `json:"type"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Strong returns a bold mark
func Strong() Mark { return Mark{Type: MarkStrong} }

// Em returns an italic mark
func Em() Mark { return Mark{Type: MarkEm} }

// Code returns an inline code mark
func Code() Mark { return Mark{Type: MarkCode} }

// Underline returns an underline mark
func Underline() Mark { return Mark{Type: MarkUnderline} }

// Strike returns a strikethrough mark
func Strike() Mark { return Mark{Type: MarkStrike} }

// Link returns a link mark pointing to href
func Link(href string) Mark {
	return Mark{Type: MarkLink, Attrs: map[string]string{"href": href}}
}

// Color returns a text color mark
func Color(color string) Mark {
	return Mark{Type: MarkColor, Attrs: map[string]string{"color": color}}
}

// Validate checks a mark against the schema
func (m Mark) Validate() error {
	if _, ok := markRank[m.Type]; !ok {
		return fmt.Errorf("%w: unknown mark %q", ErrInvalidContent, m.Type)
	}
	switch m.Type {
	case MarkLink:
		if m.Attrs["href"] == "" {
			return fmt.Errorf("%w: link without href", ErrInvalidContent)
		}
	case MarkColor:
		if m.Attrs["color"] == "" {
			return fmt.Errorf("%w: color mark without color", ErrInvalidContent)
		}
	}
	return nil
}

// Attr returns an attribute of the mark
func (m Mark) Attr(key string) string {
	return m.Attrs[key]
}

func (m Mark) eq(o Mark) bool {
	return m.Type == o.Type && sameAttrs(m.Attrs, o.Attrs)
}

// HasMark reports whether the set holds a mark of type t
func HasMark(set []Mark, t MarkType) bool {
	_, ok := findMark(set, t)
	return ok
}

func findMark(set []Mark, t MarkType) (Mark, bool) {
	for _, m := range set {
		if m.Type == t {
			return m, true
		}
	}
	return Mark{}, false
}

func sortMarkSet(set []Mark) []Mark {
	if len(set) == 0 {
		return nil
	}
	out := slices.Clone(set)
	slices.SortStableFunc(out, func(a, b Mark) int {
		return markRank[a.Type] - markRank[b.Type]
	})
	return out
}

func addToMarkSet(set []Mark, m Mark) []Mark {
	out := make([]Mark, 0, len(set)+1)
	for _, existing := range set {
		if existing.Type != m.Type {
			out = append(out, existing)
		}
	}
	return sortMarkSet(append(out, m))
}

func removeFromMarkSet(set []Mark, t MarkType) []Mark {
	var out []Mark
	for _, existing := range set {
		if existing.Type != t {
			out = append(out, existing)
		}
	}
	return out
}

func sameMarkSet(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].eq(b[i]) {
			return false
		}
	}
	return true
}
