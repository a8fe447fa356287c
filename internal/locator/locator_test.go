package locator

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

func node(id string, children ...*model.Node) *model.Node {
	n := model.NewNode(id, richtext.NewParagraph(id))
	for _, c := range children {
		c.ParentID = id
	}
	n.Children = append(n.Children, children...)
	return n
}

func ids(nodes []*model.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

// a
// ├── b
// │   └── c
// └── d
// e
func sampleTree() model.Tree {
	return model.Tree{
		node("a", node("b", node("c")), node("d")),
		node("e"),
	}
}

func TestFindNodeByID(t *testing.T) {
	tree := sampleTree()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		n := FindNodeByID(tree, id)
		require.NotNil(t, n, id)
		assert.Equal(t, id, n.ID)
	}
	assert.Nil(t, FindNodeByID(tree, "missing"))
	assert.Nil(t, FindNodeByID(tree, ""))
	assert.Nil(t, FindNodeByID(nil, "a"))
}

func TestFindParentNode(t *testing.T) {
	tree := sampleTree()

	assert.Nil(t, FindParentNode(tree, "a"))
	assert.Nil(t, FindParentNode(tree, "e"))
	assert.Equal(t, "a", FindParentNode(tree, "b").ID)
	assert.Equal(t, "b", FindParentNode(tree, "c").ID)
	assert.Equal(t, "a", FindParentNode(tree, "d").ID)
	assert.Nil(t, FindParentNode(tree, "missing"))
}

func TestFindSiblings(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, []string{"a", "e"}, ids(FindSiblings(tree, "e")))
	assert.Equal(t, []string{"b", "d"}, ids(FindSiblings(tree, "d")))
	assert.Equal(t, []string{"c"}, ids(FindSiblings(tree, "c")))
}

func TestFindPreviousAndNextNode(t *testing.T) {
	tree := sampleTree()

	assert.Nil(t, FindPreviousNode(tree, "a"))
	assert.Equal(t, "a", FindPreviousNode(tree, "e").ID)
	assert.Equal(t, "b", FindPreviousNode(tree, "d").ID)
	assert.Nil(t, FindPreviousNode(tree, "c"))

	assert.Equal(t, "e", FindNextNode(tree, "a").ID)
	assert.Equal(t, "d", FindNextNode(tree, "b").ID)
	assert.Nil(t, FindNextNode(tree, "d"))
	assert.Nil(t, FindNextNode(tree, "missing"))
}

func TestFindNodePath(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, []string{"a", "b", "c"}, ids(FindNodePath(tree, "c")))
	assert.Equal(t, []string{"e"}, ids(FindNodePath(tree, "e")))
	assert.Nil(t, FindNodePath(tree, "missing"))

}

func TestLocate(t *testing.T) {
	tree := sampleTree()

	loc, ok := Locate(tree, "d")
	require.True(t, ok)
	assert.Equal(t, "d", loc.Node.ID)
	assert.Equal(t, "a", loc.Parent.ID)
	assert.Equal(t, 1, loc.Index)
	assert.Equal(t, []string{"b", "d"}, ids(loc.Siblings))
	assert.Equal(t, []int{0, 1}, loc.Path)

	loc, ok = Locate(tree, "c")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0, 0}, loc.Path)

	loc, ok = Locate(tree, "e")
	require.True(t, ok)
	assert.Nil(t, loc.Parent)
	assert.Equal(t, 1, loc.Index)
	assert.Equal(t, []int{1}, loc.Path)

	_, ok = Locate(tree, "missing")
	assert.False(t, ok)
}

func TestDeepTree(t *testing.T) {
	const depth = 10000
	leaf := node("n0")
	for i := 1; i < depth; i++ {
		leaf = node("n"+strconv.Itoa(i), leaf)
	}
	tree := model.Tree{leaf}

	n := FindNodeByID(tree, "n0")
	require.NotNil(t, n)
	assert.Len(t, FindNodePath(tree, "n0"), depth)
	assert.Len(t, VisibleNodes(tree), depth)
}

func TestVisibleNodesSkipsCollapsed(t *testing.T) {
	tree := sampleTree()
	tree[0].Children[0].SetExpanded(false)

	var got []string
	for _, v := range VisibleNodes(tree) {
		got = append(got, v.Node.ID)
	}
	assert.Equal(t, []string{"a", "b", "d", "e"}, got)

	assert.Equal(t, "d", NextVisible(tree, "b").ID)
	assert.Equal(t, "b", PrevVisible(tree, "d").ID)
	assert.Nil(t, NextVisible(tree, "e"))
	assert.Nil(t, PrevVisible(tree, "a"))
	assert.Equal(t, "a", NextVisible(tree, "").ID)
	assert.Equal(t, "e", PrevVisible(tree, "").ID)
}

func TestWalkDepth(t *testing.T) {
	depths := map[string]int{}
	Walk(sampleTree(), func(n *model.Node, depth int) bool {
		depths[n.ID] = depth
		return true
	})
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2, "d": 1, "e": 0}, depths)
}

func TestDescendants(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, []string{"b", "c", "d"}, Descendants(tree[0]))
	assert.Empty(t, Descendants(tree[1]))
}
