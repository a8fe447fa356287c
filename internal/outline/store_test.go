package outline

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tuo-notes/internal/history"
	"github.com/pstuifzand/tuo-notes/internal/locator"
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

func newTestStore(t *testing.T, tree model.Tree, focus string) *Store {
	t.Helper()
	state := model.NewState(tree)
	state.FocusID = focus
	log := history.NewLog(state)
	log.Push()

	seq := 0
	return New(state, log,
		WithIDGenerator(func() string {
			seq++
			return "new" + strconv.Itoa(seq)
		}),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }),
	)
}

func TestSplitScenario(t *testing.T) {
	root := model.NewNode("r", richtext.NewParagraph("大纲笔记功能"))
	s := newTestStore(t, model.Tree{root}, "r")

	require.True(t, s.SplitNode("r", root.Content, richtext.Cursor(2)))

	tree := s.Tree()
	require.Len(t, tree, 2)
	assert.Equal(t, "r", tree[0].ID)
	assert.Equal(t, "大纲", tree[0].Text())
	assert.Equal(t, "笔记功能", tree[1].Text())
	assert.True(t, tree[1].IsExpanded())
	assert.Empty(t, tree[1].Children)
	assert.NotNil(t, tree[1].CreatedAt)
	assert.Equal(t, tree[1].ID, s.FocusID())
	assert.Equal(t, 0, s.FocusOffset())

	require.True(t, s.Undo())
	tree = s.Tree()
	require.Len(t, tree, 1)
	assert.Equal(t, "大纲笔记功能", tree[0].Text())
	assert.Equal(t, "r", s.FocusID())
}

func TestSplitPreservesContent(t *testing.T) {
	doc := richtext.Doc{
		Type: richtext.BlockParagraph,
		Content: []richtext.Inline{
			richtext.Text("bold ", richtext.Strong()),
			richtext.Text("and "),
			richtext.Image("pic.png", "pic"),
			richtext.Text("plain", richtext.Em()),
		},
	}

	for k := 0; k <= doc.Size(); k++ {
		n := model.NewNode("n", doc)
		s := newTestStore(t, model.Tree{n}, "n")
		require.True(t, s.SplitNode("n", doc, richtext.Cursor(k)))

		tree := s.Tree()
		joined := tree[0].Content.Append(tree[1].Content)
		assert.True(t, richtext.Equal(doc, joined), "offset %d", k)
		assert.NoError(t, tree.Validate())
	}
}

func TestSplitKeepsChildrenOnOriginal(t *testing.T) {
	tree := model.Tree{node("a", node("b"))}
	s := newTestStore(t, tree, "a")

	require.True(t, s.SplitNode("a", tree[0].Content, richtext.Cursor(1)))
	assert.Equal(t, []string{"b"}, ids(s.Tree()[0].Children))
	assert.Empty(t, s.Tree()[1].Children)
}

func TestSplitNestedSetsParentID(t *testing.T) {
	tree := model.Tree{node("a", node("b"))}
	s := newTestStore(t, tree, "b")

	require.True(t, s.SplitNode("b", richtext.NewParagraph("bb"), richtext.Cursor(1)))
	children := s.Tree()[0].Children
	require.Len(t, children, 2)
	assert.Equal(t, "a", children[1].ParentID)
	assert.NoError(t, s.Tree().Validate())
}

func TestSplitRangeSelectionIsNoop(t *testing.T) {
	tree := model.Tree{node("abc")}
	s := newTestStore(t, tree, "abc")

	assert.False(t, s.SplitNode("abc", tree[0].Content, richtext.Range(0, 2)))
	assert.Same(t, tree[0], s.Tree()[0])
	assert.Equal(t, 1, s.Log().Len())
}

func TestIndentScenario(t *testing.T) {
	tree := model.Tree{node("A"), node("B")}
	s := newTestStore(t, tree, "B")

	sel := richtext.Cursor(1)
	require.True(t, s.IndentNode("B", &sel))

	tree = s.Tree()
	assert.Equal(t, []string{"A"}, ids(tree))
	assert.Equal(t, []string{"B"}, ids(tree[0].Children))
	b := tree[0].Children[0]
	assert.Equal(t, "A", b.ParentID)
	assert.Equal(t, &sel, b.Selection)
	assert.Equal(t, "B", s.FocusID())
	assert.Equal(t, 2, s.Log().Len())
}

func TestIndentFirstChildIsNoop(t *testing.T) {
	tree := model.Tree{node("a", node("b"), node("c")), node("d")}
	s := newTestStore(t, tree, "b")

	assert.False(t, s.IndentNode("a", nil))
	assert.False(t, s.IndentNode("b", nil))
	assert.False(t, s.IndentNode("missing", nil))
	assert.Equal(t, tree, s.Tree())
	assert.Same(t, tree[0], s.Tree()[0])
	assert.Equal(t, 1, s.Log().Len())
}

func TestIndentMovesSubtree(t *testing.T) {
	tree := model.Tree{
		node("a", node("x")),
		node("b", node("c", node("e")), node("d")),
	}
	s := newTestStore(t, tree, "b")

	require.True(t, s.IndentNode("b", nil))

	tree = s.Tree()
	require.Len(t, tree, 1)
	assert.Equal(t, []string{"x", "b"}, ids(tree[0].Children))
	b := tree[0].Children[1]
	assert.Equal(t, []string{"c", "d"}, ids(b.Children))
	assert.Equal(t, []string{"c", "e", "d"}, locator.Descendants(b))
	assert.NoError(t, tree.Validate())
}

func TestIndentExpandsCollapsedTarget(t *testing.T) {
	a := node("a", node("x"))
	a.SetExpanded(false)
	s := newTestStore(t, model.Tree{a, node("b")}, "b")

	require.True(t, s.IndentNode("b", nil))
	assert.True(t, s.Tree()[0].IsExpanded())
	assert.False(t, a.IsExpanded(), "the old tree is not modified")
}

func TestDeleteRemovesSubtree(t *testing.T) {
	tree := model.Tree{node("a", node("b", node("c")), node("d")), node("e")}
	s := newTestStore(t, tree, "e")

	require.True(t, s.DeleteNode("b"))
	for _, id := range []string{"b", "c"} {
		assert.Nil(t, locator.FindNodeByID(s.Tree(), id))
	}
	assert.NotNil(t, locator.FindNodeByID(s.Tree(), "d"))
	assert.Equal(t, "", s.FocusID(), "focus is cleared even for an unrelated node")
	assert.Equal(t, 2, s.Log().Len())

	require.True(t, s.DeleteNode("e"))
	assert.Equal(t, []string{"a"}, ids(s.Tree()))

	assert.False(t, s.DeleteNode("missing"))
	assert.Equal(t, 3, s.Log().Len())
}

func TestMutationsDoNotModifyOldTree(t *testing.T) {
	old := model.Tree{node("a", node("b", node("c")), node("d")), node("e")}
	s := newTestStore(t, old, "c")

	require.True(t, s.UpdateNodeByID("c", richtext.NewParagraph("changed")))

	assert.Equal(t, "c", old[0].Children[0].Children[0].Text())
	assert.Equal(t, "changed", locator.FindNodeByID(s.Tree(), "c").Text())

	// the path to the root is copied, other subtrees are shared
	assert.NotSame(t, old[0], s.Tree()[0])
	assert.NotSame(t, old[0].Children[0], s.Tree()[0].Children[0])
	assert.Same(t, old[0].Children[1], s.Tree()[0].Children[1])
	assert.Same(t, old[1], s.Tree()[1])
}

func TestUnknownIDsAreNoops(t *testing.T) {
	tree := model.Tree{node("a")}
	s := newTestStore(t, tree, "a")

	assert.False(t, s.UpdateNodeByID("x", richtext.NewParagraph("x")))
	assert.False(t, s.AddNodeAfter("x", model.NewNode("n", richtext.NewParagraph(""))))
	assert.False(t, s.ToggleExpandNode("x"))
	assert.False(t, s.SplitNode("x", richtext.NewParagraph("x"), richtext.Cursor(0)))
	assert.False(t, s.OutdentNode("x", nil))
	assert.False(t, s.MoveNodeUp("x"))
	assert.False(t, s.InsertChildNode("x"))

	assert.Same(t, tree[0], s.Tree()[0])
	assert.Equal(t, 1, s.Log().Len())
}

func TestAddNodeAfterNested(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a", node("b"), node("c"))}, "")

	require.True(t, s.AddNodeAfter("b", model.NewNode("n", richtext.NewParagraph("n"))))
	assert.Equal(t, []string{"b", "n", "c"}, ids(s.Tree()[0].Children))
	assert.Equal(t, "a", s.Tree()[0].Children[1].ParentID)
	assert.Equal(t, 1, s.Log().Len(), "adding a node does not record history")
}

func TestToggleExpand(t *testing.T) {
	tree := model.Tree{node("a", node("b", node("c")))}
	s := newTestStore(t, tree, "c")

	require.True(t, s.ToggleExpandNode("a"))
	a := s.Tree()[0]
	assert.False(t, a.IsExpanded())
	assert.Equal(t, []string{"b"}, ids(a.Children), "children are kept")
	assert.Equal(t, "a", s.FocusID(), "focus leaves the hidden node")

	require.True(t, s.ToggleExpandNode("a"))
	assert.True(t, s.Tree()[0].IsExpanded())
	assert.Equal(t, 3, s.Log().Len())
}

func TestOutdent(t *testing.T) {
	tree := model.Tree{node("a", node("b", node("x")), node("c")), node("d")}
	s := newTestStore(t, tree, "b")

	require.True(t, s.OutdentNode("b", nil))
	tree = s.Tree()
	assert.Equal(t, []string{"a", "b", "d"}, ids(tree))
	assert.Equal(t, []string{"c"}, ids(tree[0].Children))
	assert.Equal(t, "", tree[1].ParentID)
	assert.Equal(t, []string{"x"}, ids(tree[1].Children))
	assert.NoError(t, tree.Validate())

	assert.False(t, s.OutdentNode("b", nil), "root nodes cannot be outdented")
}

func TestOutdentUndoesIndent(t *testing.T) {
	tree := model.Tree{node("a"), node("b")}
	s := newTestStore(t, tree, "b")

	require.True(t, s.IndentNode("b", nil))
	require.True(t, s.OutdentNode("b", nil))
	assert.Equal(t, []string{"a", "b"}, ids(s.Tree()))
	assert.Empty(t, s.Tree()[0].Children)
	assert.Equal(t, "", s.Tree()[1].ParentID)
}

func TestMoveNode(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a"), node("b"), node("c")}, "b")

	require.True(t, s.MoveNodeUp("b"))
	assert.Equal(t, []string{"b", "a", "c"}, ids(s.Tree()))
	assert.False(t, s.MoveNodeUp("b"))

	require.True(t, s.MoveNodeDown("a"))
	assert.Equal(t, []string{"b", "c", "a"}, ids(s.Tree()))
	assert.False(t, s.MoveNodeDown("a"))
}

func TestInsertNodes(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a", node("x"))}, "a")

	require.True(t, s.InsertNodeBelow("a"))
	assert.Equal(t, []string{"a", "new1"}, ids(s.Tree()))
	assert.Equal(t, "new1", s.FocusID())

	require.True(t, s.InsertNodeAbove("a"))
	assert.Equal(t, []string{"new2", "a", "new1"}, ids(s.Tree()))

	require.True(t, s.InsertChildNode("a"))
	assert.Equal(t, []string{"new3", "x"}, ids(s.Tree()[1].Children))
	assert.Equal(t, "a", s.Tree()[1].Children[0].ParentID)
	assert.Equal(t, "new3", s.FocusID())
	assert.Equal(t, 4, s.Log().Len())
}

func TestAppendRootNode(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a")}, "a")

	n := s.AppendRootNode(richtext.NewParagraph("from inbox"))
	assert.Equal(t, []string{"a", n.ID}, ids(s.Tree()))
	assert.Equal(t, "a", s.FocusID())
}

func TestFocusNavigation(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a", node("b")), node("c")}, "")

	require.True(t, s.FocusNext())
	assert.Equal(t, "a", s.FocusID())
	require.True(t, s.FocusNext())
	assert.Equal(t, "b", s.FocusID())
	require.True(t, s.FocusNext())
	assert.Equal(t, "c", s.FocusID())
	assert.False(t, s.FocusNext())

	require.True(t, s.FocusPrev())
	assert.Equal(t, "b", s.FocusID())
}

func TestApplyTransactionCoalesces(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a"), node("b")}, "a")
	require.True(t, s.SplitNode("a", s.Tree()[0].Content, richtext.Cursor(1)))
	focus := s.FocusID()
	entries := s.Log().Len()

	for _, text := range []string{"x", "xy", "xyz"} {
		require.True(t, s.ApplyTransaction(richtext.NewParagraph(text), richtext.Cursor(len(text))))
	}
	assert.Equal(t, entries, s.Log().Len())
	assert.Equal(t, "xyz", locator.FindNodeByID(s.Tree(), focus).Text())
	assert.Equal(t, 3, s.FocusOffset())
	assert.Equal(t, richtext.Cursor(3), *locator.FindNodeByID(s.Tree(), focus).Selection)

	require.True(t, s.Undo())
	assert.Equal(t, []string{"a", "b"}, ids(s.Tree()))
	assert.Equal(t, "a", s.Tree()[0].Text())
}

func TestApplyTransactionWithoutFocus(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a")}, "")
	assert.False(t, s.ApplyTransaction(richtext.NewParagraph("x"), richtext.Cursor(1)))
}

func TestHistoryBranchDiscarded(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a"), node("b"), node("c")}, "b")

	require.True(t, s.IndentNode("b", nil))
	require.True(t, s.Undo())
	require.True(t, s.DeleteNode("c"))

	assert.False(t, s.Redo())
	assert.Equal(t, []string{"a", "b"}, ids(s.Tree()))
	assert.Empty(t, s.Tree()[0].Children)
}

func TestReset(t *testing.T) {
	changes := 0
	state := model.NewState(nil)
	s := New(state, history.NewLog(state), WithChangeHook(func() { changes++ }))

	s.Reset(&model.Document{})
	require.Len(t, s.Tree(), 1)
	assert.Equal(t, s.Tree()[0].ID, s.FocusID())
	assert.Equal(t, 1, s.Log().Len())

	doc := &model.Document{Tree: model.Tree{node("a"), node("b")}, FocusID: "b", FocusOffset: 1}
	s.Reset(doc)
	assert.Equal(t, "b", s.FocusID())
	assert.Equal(t, 1, s.FocusOffset())
	assert.Equal(t, 1, s.Log().Len())
	assert.Equal(t, 2, changes)
}

func TestImportNodes(t *testing.T) {
	s := newTestStore(t, model.Tree{node("a", node("a1")), node("b")}, "a")

	imported := node("x", node("x1"))
	require.True(t, s.ImportNodes("a1", []*model.Node{imported, node("y")}))

	a := s.Tree()[0]
	assert.Equal(t, []string{"a1", "x", "y"}, ids(a.Children))
	assert.Equal(t, "a", a.Children[1].ParentID)
	assert.Equal(t, "x", a.Children[1].Children[0].ParentID)
	assert.Equal(t, "x", s.FocusID())
	assert.Equal(t, 2, s.Log().Len())

	require.True(t, s.ImportNodes("", []*model.Node{node("z")}))
	assert.Equal(t, []string{"a", "b", "z"}, ids(s.Tree()))

	assert.False(t, s.ImportNodes("", []*model.Node{node("b")}), "clashing ids")
	assert.False(t, s.ImportNodes("missing", []*model.Node{node("q")}))
	assert.False(t, s.ImportNodes("a", nil))
	assert.Equal(t, 3, s.Log().Len())
}

func TestRevealNode(t *testing.T) {
	a1 := node("a1", node("a11"))
	a1.SetExpanded(false)
	a := node("a", a1)
	a.SetExpanded(false)
	s := newTestStore(t, model.Tree{a, node("b")}, "b")

	require.True(t, s.RevealNode("a11"))
	assert.Equal(t, "a11", s.FocusID())
	assert.Equal(t, 0, s.FocusOffset())
	assert.True(t, locator.FindNodeByID(s.Tree(), "a").IsExpanded())
	assert.True(t, locator.FindNodeByID(s.Tree(), "a1").IsExpanded())
	assert.Equal(t, 2, s.Log().Len())

	require.True(t, s.RevealNode("b"))
	assert.Equal(t, "b", s.FocusID())
	assert.Equal(t, 2, s.Log().Len())

	assert.False(t, s.RevealNode("missing"))
	assert.Equal(t, "b", s.FocusID())

	require.True(t, s.Undo())
	assert.False(t, locator.FindNodeByID(s.Tree(), "a").IsExpanded())
}
