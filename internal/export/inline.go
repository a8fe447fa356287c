package export

import (
	"strings"

	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// marks in the order they are opened, outermost first
var markOrder = []richtext.MarkType{
	richtext.MarkLink,
	richtext.MarkStrong,
	richtext.MarkEm,
	richtext.MarkStrike,
	richtext.MarkUnderline,
	richtext.MarkCode,
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"~", `\~`,
	"<", `\<`,
)

// InlineMarkdown renders the inline content of a document. Color marks
// have no markdown form and are dropped.
func InlineMarkdown(doc richtext.Doc) string {
	var sb strings.Builder
	var open []richtext.Mark

	closeFrom := func(i int) {
		for j := len(open) - 1; j >= i; j-- {
			sb.WriteString(closeDelim(open[j]))
		}
		open = open[:i]
	}

	for _, in := range doc.Content {
		var want []richtext.Mark
		if in.Type == richtext.InlineText {
			want = ordered(in.Marks)
		}

		keep := 0
		for keep < len(open) && keep < len(want) && sameMark(open[keep], want[keep]) {
			keep++
		}
		closeFrom(keep)
		for _, m := range want[keep:] {
			sb.WriteString(openDelim(m))
			open = append(open, m)
		}

		switch in.Type {
		case richtext.InlineText:
			if richtext.HasMark(in.Marks, richtext.MarkCode) {
				sb.WriteString(in.Text)
			} else {
				sb.WriteString(markdownEscaper.Replace(in.Text))
			}
		case richtext.InlineHardBreak:
			sb.WriteString("<br>")
		case richtext.InlineImage:
			sb.WriteString("![" + in.Attrs["alt"] + "](" + in.Attrs["src"] + ")")
		}
	}
	closeFrom(0)
	return sb.String()
}

func ordered(marks []richtext.Mark) []richtext.Mark {
	var out []richtext.Mark
	for _, t := range markOrder {
		for _, m := range marks {
			if m.Type == t {
				out = append(out, m)
			}
		}
	}
	return out
}

func sameMark(a, b richtext.Mark) bool {
	return a.Type == b.Type && a.Attr("href") == b.Attr("href")
}

func openDelim(m richtext.Mark) string {
	switch m.Type {
	case richtext.MarkLink:
		return "["
	case richtext.MarkStrong:
		return "**"
	case richtext.MarkEm:
		return "*"
	case richtext.MarkStrike:
		return "~~"
	case richtext.MarkUnderline:
		return "<u>"
	case richtext.MarkCode:
		return "`"
	}
	return ""
}

func closeDelim(m richtext.Mark) string {
	switch m.Type {
	case richtext.MarkLink:
		return "](" + m.Attr("href") + ")"
	case richtext.MarkUnderline:
		return "</u>"
	}
	return openDelim(m)
}
