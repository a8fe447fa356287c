package import_parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// ImportFormat represents different file formats that can be imported
type ImportFormat string

const (
	FormatMarkdown     ImportFormat = "markdown"
	FormatIndentedText ImportFormat = "indented"
	FormatAuto         ImportFormat = "auto" // Auto-detect from extension
)

// Parser interface for different import formats
type Parser interface {
	Parse(content string) ([]*model.Node, error)
	Name() string
}

// ImportFile parses content and returns the root nodes of the imported
// subtrees. Every node gets a fresh id.
func ImportFile(content string, format ImportFormat) ([]*model.Node, error) {
	var parser Parser
	switch format {
	case FormatMarkdown:
		parser = &MarkdownParser{}
	case FormatIndentedText:
		parser = &IndentedTextParser{}
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}

	nodes, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", parser.Name(), err)
	}
	return nodes, nil
}

// DetectFormat picks the format from the file extension. Unknown
// extensions are read as indented text.
func DetectFormat(filename string) ImportFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatIndentedText
	}
}

// builder attaches nodes to the parent open at each level
type builder struct {
	roots []*model.Node
	stack []*model.Node
}

// add appends n at level (0 is the root). A level deeper than the open
// parents attaches n to the deepest one.
func (b *builder) add(n *model.Node, level int) {
	if level > len(b.stack) {
		level = len(b.stack)
	}
	b.stack = b.stack[:level]
	if level == 0 {
		b.roots = append(b.roots, n)
	} else {
		parent := b.stack[level-1]
		parent.Children = append(parent.Children, n)
		n.ParentID = parent.ID
	}
	b.stack = append(b.stack, n)
}

// addChild appends n under the deepest open node without opening a level
func (b *builder) addChild(n *model.Node) {
	if len(b.stack) == 0 {
		b.roots = append(b.roots, n)
		return
	}
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, n)
	n.ParentID = parent.ID
}

func newNode(content richtext.Doc) *model.Node {
	return model.NewNode(model.NewID(), content)
}

// getIndentLevel calculates the indentation level (0-based)
// Counts tabs and spaces (tab = 2 spaces)
func getIndentLevel(line string) int {
	indent := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			indent += 2
		} else if line[i] == ' ' {
			indent++
		} else {
			break
		}
	}
	return indent / 2
}
