package import_parser

import (
	"bufio"
	"strings"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// IndentedTextParser imports plain text files with indentation-based hierarchy
type IndentedTextParser struct{}

func (p *IndentedTextParser) Name() string {
	return "Indented Text"
}

// Parse converts indented text to outline nodes. Each line becomes a plain
// paragraph node; a line indented deeper than the previous one becomes its
// child.
func (p *IndentedTextParser) Parse(content string) ([]*model.Node, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	var b builder

	for scanner.Scan() {
		line := scanner.Text()
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		b.add(newNode(richtext.NewParagraph(text)), getIndentLevel(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.roots, nil
}
