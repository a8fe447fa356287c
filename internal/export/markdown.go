package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// ExportToMarkdown exports an outline to a markdown file with unordered list format.
// Nodes are represented as bullets with indentation based on depth.
func ExportToMarkdown(doc *model.Document, filePath string) error {
	if err := os.WriteFile(filePath, []byte(Markdown(doc.Tree)), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// Markdown renders the tree as nested markdown bullets, two spaces per
// level. Empty nodes are skipped and their children move up a level.
// Headings keep their level as a "#" prefix inside the bullet.
func Markdown(tree model.Tree) string {
	var sb strings.Builder
	walkNonEmpty(tree, func(n *model.Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		if n.Content.Type == richtext.BlockHeading && n.Content.Attrs != nil {
			sb.WriteString(strings.Repeat("#", n.Content.Attrs.Level))
			sb.WriteByte(' ')
		}
		sb.WriteString(InlineMarkdown(n.Content))
		sb.WriteByte('\n')
	})
	return sb.String()
}

// PlainText renders the tree as indented plain text, two spaces per level
func PlainText(tree model.Tree) string {
	var sb strings.Builder
	walkNonEmpty(tree, func(n *model.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		text := strings.ReplaceAll(n.Text(), "\n", " ")
		sb.WriteString(indent)
		sb.WriteString(text)
		sb.WriteByte('\n')
	})
	return sb.String()
}

// walkNonEmpty visits nodes in document order. Nodes without text are not
// visited; their children are visited at the node's own depth.
func walkNonEmpty(tree model.Tree, fn func(n *model.Node, depth int)) {
	type frame struct {
		node  *model.Node
		depth int
	}
	stack := make([]frame, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: tree[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}

		childDepth := f.depth
		if strings.TrimSpace(f.node.Text()) != "" || hasImage(f.node.Content) {
			fn(f.node, f.depth)
			childDepth++
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], depth: childDepth})
		}
	}
}

func hasImage(doc richtext.Doc) bool {
	for _, in := range doc.Content {
		if in.Type == richtext.InlineImage {
			return true
		}
	}
	return false
}
