package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

func node(id string, doc richtext.Doc, children ...*model.Node) *model.Node {
	n := model.NewNode(id, doc)
	for _, c := range children {
		c.ParentID = id
		n.Children = append(n.Children, c)
	}
	return n
}

func sampleTree() model.Tree {
	return model.Tree{
		node("1", richtext.NewParagraph("First Item"),
			node("1.1", richtext.NewParagraph("Nested Item 1")),
			node("1.2", richtext.NewParagraph("Nested Item 2"),
				node("1.2.1", richtext.NewParagraph("Deep Item")),
			),
		),
		node("2", richtext.NewHeading(2, "Second Item")),
	}
}

func TestMarkdown(t *testing.T) {
	expected := "- First Item\n" +
		"  - Nested Item 1\n" +
		"  - Nested Item 2\n" +
		"    - Deep Item\n" +
		"- ## Second Item\n"
	assert.Equal(t, expected, Markdown(sampleTree()))
}

func TestMarkdownSkipsEmptyNodes(t *testing.T) {
	tree := model.Tree{
		node("a", richtext.NewParagraph("Parent"),
			node("b", richtext.NewParagraph("   "),
				node("c", richtext.NewParagraph("Orphan")),
			),
		),
		node("d", richtext.NewDoc(richtext.BlockParagraph, nil, richtext.Image("cat.png", "cat"))),
	}
	expected := "- Parent\n" +
		"  - Orphan\n" +
		"- ![cat](cat.png)\n"
	assert.Equal(t, expected, Markdown(tree))
}

func TestInlineMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		content  []richtext.Inline
		expected string
	}{
		{
			name:     "plain",
			content:  []richtext.Inline{richtext.Text("hello")},
			expected: "hello",
		},
		{
			name: "bold then nested italic",
			content: []richtext.Inline{
				richtext.Text("bold ", richtext.Strong()),
				richtext.Text("both", richtext.Strong(), richtext.Em()),
				richtext.Text(" plain"),
			},
			expected: "**bold *both*** plain",
		},
		{
			name: "strike and underline",
			content: []richtext.Inline{
				richtext.Text("gone", richtext.Strike()),
				richtext.Text(" "),
				richtext.Text("under", richtext.Underline()),
			},
			expected: "~~gone~~ <u>under</u>",
		},
		{
			name:     "code is not escaped",
			content:  []richtext.Inline{richtext.Text("a*b", richtext.Code())},
			expected: "`a*b`",
		},
		{
			name:     "escapes markdown characters",
			content:  []richtext.Inline{richtext.Text(`2*3 [x] <y> \ ~`)},
			expected: `2\*3 \[x\] \<y> \\ \~`,
		},
		{
			name: "link with bold part",
			content: []richtext.Inline{
				richtext.Text("see ", richtext.Link("https://example.com")),
				richtext.Text("this", richtext.Link("https://example.com"), richtext.Strong()),
			},
			expected: "[see **this**](https://example.com)",
		},
		{
			name: "hard break and image",
			content: []richtext.Inline{
				richtext.Text("one"),
				richtext.HardBreak(),
				richtext.Text("two "),
				richtext.Image("pic.png", "alt"),
			},
			expected: "one<br>two ![alt](pic.png)",
		},
		{
			name:     "color is dropped",
			content:  []richtext.Inline{richtext.Text("red", richtext.Color("#ff0000"))},
			expected: "red",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := richtext.NewDoc(richtext.BlockParagraph, nil, tt.content...)
			assert.Equal(t, tt.expected, InlineMarkdown(doc))
		})
	}
}

func TestPlainText(t *testing.T) {
	expected := "First Item\n" +
		"  Nested Item 1\n" +
		"  Nested Item 2\n" +
		"    Deep Item\n" +
		"Second Item\n"
	assert.Equal(t, expected, PlainText(sampleTree()))
}

func TestExportToMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	doc := &model.Document{Title: "Test Outline", Tree: sampleTree()}

	require.NoError(t, ExportToMarkdown(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Markdown(doc.Tree), string(data))
}

func TestExportToMarkdownBadPath(t *testing.T) {
	doc := &model.Document{Tree: sampleTree()}
	err := ExportToMarkdown(doc, filepath.Join(t.TempDir(), "missing", "out.md"))
	assert.ErrorContains(t, err, "failed to write markdown file")
}
