package theme

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// MarkStyle applies the marks of a text run to a base style
func (t *Theme) MarkStyle(base tcell.Style, marks []richtext.Mark) tcell.Style {
	s := base
	for _, m := range marks {
		switch m.Type {
		case richtext.MarkStrong:
			s = s.Bold(true)
		case richtext.MarkEm:
			s = s.Italic(true)
		case richtext.MarkUnderline:
			s = s.Underline(true)
		case richtext.MarkStrike:
			s = s.StrikeThrough(true)
		case richtext.MarkCode:
			s = s.Foreground(t.Colors.MarkCode)
		case richtext.MarkLink:
			s = s.Foreground(t.Colors.MarkLink).Underline(true)
		case richtext.MarkColor:
			if c := HexToColor(m.Attr("color")); c != tcell.ColorDefault {
				s = s.Foreground(c)
			}
		}
	}
	return s
}

// BlockStyle returns the base style for a node's block type
func (t *Theme) BlockStyle(doc richtext.Doc) tcell.Style {
	if doc.Type == richtext.BlockHeading {
		return ColorToStyle(t.Colors.TreeHeading).Bold(true)
	}
	return ColorToStyle(t.Colors.TreeText)
}
