package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

func treeOf(texts ...string) model.Tree {
	tree := make(model.Tree, len(texts))
	for i, text := range texts {
		tree[i] = model.NewNode(text, richtext.NewParagraph(text))
	}
	return tree
}

func texts(tree model.Tree) []string {
	out := make([]string, len(tree))
	for i, n := range tree {
		out[i] = n.Text()
	}
	return out
}

func TestEmptyLog(t *testing.T) {
	l := NewLog(model.NewState(nil))

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, -1, l.Index())
	assert.False(t, l.Undo())
	assert.False(t, l.Redo())
}

func TestPushUndoRedo(t *testing.T) {
	s := model.NewState(treeOf("a"))
	l := NewLog(s)
	l.Push()

	s.Tree = treeOf("a", "b")
	s.FocusID = "b"
	l.Push()

	require.True(t, l.Undo())
	assert.Equal(t, []string{"a"}, texts(s.Tree))
	assert.Equal(t, "", s.FocusID)
	assert.False(t, l.Undo(), "the first entry cannot be undone")

	require.True(t, l.Redo())
	assert.Equal(t, []string{"a", "b"}, texts(s.Tree))
	assert.Equal(t, "b", s.FocusID)
	assert.False(t, l.Redo())
}

func TestPushTruncatesRedo(t *testing.T) {
	s := model.NewState(treeOf("start"))
	l := NewLog(s)
	l.Push()

	s.Tree = treeOf("A")
	l.Push()
	require.True(t, l.Undo())

	s.Tree = treeOf("B")
	l.Push()

	assert.Equal(t, 2, l.Len())
	assert.False(t, l.CanRedo())
	assert.False(t, l.Redo())
	assert.Equal(t, []string{"B"}, texts(s.Tree))

	require.True(t, l.Undo())
	assert.Equal(t, []string{"start"}, texts(s.Tree))
	require.True(t, l.Redo())
	assert.Equal(t, []string{"B"}, texts(s.Tree), "A is no longer reachable")
}

func TestCoalesceDoesNotGrowLog(t *testing.T) {
	s := model.NewState(treeOf("x"))
	l := NewLog(s)
	l.Push()

	s.Tree = treeOf("x", "")
	l.Push()
	before := l.Len()

	for _, text := range []string{"h", "he", "hel", "hell", "hello"} {
		s.Tree = treeOf("x", text)
		s.FocusOffset = len(text)
		l.Coalesce()
	}
	assert.Equal(t, before, l.Len())

	require.True(t, l.Undo())
	assert.Equal(t, []string{"x"}, texts(s.Tree))

	require.True(t, l.Redo())
	assert.Equal(t, []string{"x", "hello"}, texts(s.Tree))
	assert.Equal(t, 5, s.FocusOffset)
}

func TestCoalesceOnEmptyLogPushes(t *testing.T) {
	s := model.NewState(treeOf("a"))
	l := NewLog(s)
	l.Coalesce()

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.Index())
}

func TestEntriesAreSnapshots(t *testing.T) {
	s := model.NewState(treeOf("a"))
	l := NewLog(s)
	l.Push()

	s.FocusID = "changed"
	assert.Equal(t, "", l.entries[0].FocusID)

	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.CanUndo())
}
