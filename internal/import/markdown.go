package import_parser

import (
	"bufio"
	"strings"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// MarkdownParser imports markdown files. Headers open outline levels, list
// items nest by indentation below the current header and other lines become
// children of the node above them. Inline emphasis, code, links and images
// become marks and inline nodes.
type MarkdownParser struct{}

func (p *MarkdownParser) Name() string {
	return "Markdown"
}

// Parse converts markdown content to outline nodes
func (p *MarkdownParser) Parse(content string) ([]*model.Node, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	var b builder
	headerDepth := 0 // levels opened by headers

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if level, text := parseHeader(line); level > 0 {
			n := newNode(headingDoc(level, text))
			b.add(n, min(level-1, headerDepth))
			headerDepth = len(b.stack)
			continue
		}

		if listLevel, text := parseListItem(line); listLevel >= 0 {
			b.add(newNode(listItemDoc(text)), headerDepth+listLevel)
			continue
		}

		b.addChild(newNode(paragraphDoc(strings.TrimSpace(line))))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.roots, nil
}

// parseHeader extracts the 1-based level and text from a markdown header
func parseHeader(line string) (level int, text string) {
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || line[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level:])
}

// parseListItem extracts indentation level and text from list item
func parseListItem(line string) (level int, text string) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > 2 && (trimmed[0] == '-' || trimmed[0] == '*' || trimmed[0] == '+') && trimmed[1] == ' ' {
		return getIndentLevel(line), strings.TrimSpace(trimmed[2:])
	}
	return -1, ""
}

// listItemDoc reads a list item, where a leading "#" prefix marks a heading
func listItemDoc(text string) richtext.Doc {
	if level, rest := parseHeader(text); level > 0 {
		return headingDoc(level, rest)
	}
	return paragraphDoc(text)
}

func headingDoc(level int, text string) richtext.Doc {
	return richtext.NewDoc(richtext.BlockHeading, &richtext.BlockAttrs{Level: level}, parseInline(text, nil)...)
}

func paragraphDoc(text string) richtext.Doc {
	return richtext.NewDoc(richtext.BlockParagraph, nil, parseInline(text, nil)...)
}
