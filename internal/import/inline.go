package import_parser

import (
	"strings"
	"unicode/utf8"

	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

var toggleOrder = []richtext.MarkType{
	richtext.MarkStrong,
	richtext.MarkEm,
	richtext.MarkStrike,
	richtext.MarkUnderline,
	richtext.MarkCode,
}

// parseInline reads markdown inline syntax. Unbalanced delimiters apply to
// the rest of the text. base holds marks applied to all text.
func parseInline(s string, base []richtext.Mark) []richtext.Inline {
	var out []richtext.Inline
	var buf strings.Builder
	active := map[richtext.MarkType]bool{}

	current := func() []richtext.Mark {
		marks := append([]richtext.Mark(nil), base...)
		for _, t := range toggleOrder {
			if active[t] && !richtext.HasMark(base, t) {
				marks = append(marks, richtext.Mark{Type: t})
			}
		}
		return marks
	}
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, richtext.Text(buf.String(), current()...))
			buf.Reset()
		}
	}
	set := func(t richtext.MarkType, on bool) {
		flush()
		active[t] = on
	}
	writeRune := func(rest string) int {
		r, size := utf8.DecodeRuneInString(rest)
		buf.WriteRune(r)
		return size
	}

	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case rest[0] == '\\' && len(rest) > 1:
			i += 1 + writeRune(rest[1:])
		case active[richtext.MarkCode]:
			if rest[0] == '`' {
				set(richtext.MarkCode, false)
				i++
			} else {
				i += writeRune(rest)
			}
		case strings.HasPrefix(rest, "**"):
			set(richtext.MarkStrong, !active[richtext.MarkStrong])
			i += 2
		case strings.HasPrefix(rest, "~~"):
			set(richtext.MarkStrike, !active[richtext.MarkStrike])
			i += 2
		case strings.HasPrefix(rest, "<u>"):
			set(richtext.MarkUnderline, true)
			i += 3
		case strings.HasPrefix(rest, "</u>"):
			set(richtext.MarkUnderline, false)
			i += 4
		case strings.HasPrefix(rest, "<br>"):
			flush()
			out = append(out, richtext.HardBreak())
			i += 4
		case rest[0] == '*':
			set(richtext.MarkEm, !active[richtext.MarkEm])
			i++
		case rest[0] == '`':
			set(richtext.MarkCode, true)
			i++
		case strings.HasPrefix(rest, "!["):
			if alt, src, n, ok := parseLink(rest[1:]); ok && src != "" {
				flush()
				out = append(out, richtext.Image(src, alt))
				i += 1 + n
			} else {
				i += writeRune(rest)
			}
		case rest[0] == '[':
			if text, href, n, ok := parseLink(rest); ok && href != "" {
				flush()
				marks := append(current(), richtext.Link(href))
				out = append(out, parseInline(text, marks)...)
				i += n
			} else {
				i += writeRune(rest)
			}
		default:
			i += writeRune(rest)
		}
	}
	flush()
	return out
}

// parseLink reads "[text](target)" at the start of s and returns the byte
// length consumed
func parseLink(s string) (text, target string, n int, ok bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth > 0 {
				continue
			}
			if i+1 >= len(s) || s[i+1] != '(' {
				return "", "", 0, false
			}
			end := strings.IndexByte(s[i+2:], ')')
			if end < 0 {
				return "", "", 0, false
			}
			return s[1:i], s[i+2 : i+2+end], i + 3 + end, true
		}
	}
	return "", "", 0, false
}
