package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

func TestNewNode(t *testing.T) {
	n := NewNode("a", richtext.NewParagraph("hello"))

	assert.Equal(t, "a", n.ID)
	assert.True(t, n.IsExpanded())
	assert.NotNil(t, n.Children)
	assert.Equal(t, "hello", n.Text())

	n.SetExpanded(false)
	assert.False(t, n.IsExpanded())

	assert.NotEqual(t, NewID(), NewID())
}

func TestExpandedDefaultsToTrue(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","content":{"type":"paragraph"},"children":[]}`), &n))
	assert.Nil(t, n.Expanded)
	assert.True(t, n.IsExpanded())
}

func TestNodeJSONShape(t *testing.T) {
	child := NewNode("c", richtext.NewParagraph("child"))
	child.ParentID = "p"
	sel := richtext.Cursor(2)
	child.Selection = &sel
	parent := NewNode("p", richtext.NewParagraph("parent"))
	parent.Children = []*Node{child}

	data, err := json.Marshal(parent)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "p", raw["id"])
	assert.Contains(t, raw, "content")
	assert.Equal(t, true, raw["expanded"])
	assert.NotContains(t, raw, "parentId")
	assert.NotContains(t, raw, "createdAt")

	children := raw["children"].([]any)
	require.Len(t, children, 1)
	c := children[0].(map[string]any)
	assert.Equal(t, "p", c["parentId"])
	assert.Equal(t, map[string]any{"type": "text", "anchor": float64(2), "head": float64(2)}, c["selection"])
	assert.Equal(t, []any{}, c["children"])
}

func TestValidate(t *testing.T) {
	a := NewNode("a", richtext.NewParagraph("a"))
	b := NewNode("b", richtext.NewParagraph("b"))
	b.ParentID = "a"
	a.Children = []*Node{b}

	require.NoError(t, Tree{a}.Validate())
	assert.Equal(t, 2, Tree{a}.Count())

	dup := NewNode("b", richtext.NewParagraph("again"))
	assert.ErrorIs(t, Tree{a, dup}.Validate(), ErrInvalidTree)

	stray := NewNode("s", richtext.NewParagraph("s"))
	stray.ParentID = "a"
	assert.ErrorIs(t, Tree{stray}.Validate(), ErrInvalidTree)

	noID := NewNode("", richtext.NewParagraph("x"))
	assert.ErrorIs(t, Tree{noID}.Validate(), ErrInvalidTree)

	bad := NewNode("z", richtext.Doc{})
	assert.ErrorIs(t, Tree{bad}.Validate(), richtext.ErrInvalidContent)
}

func TestRestoreParentIDs(t *testing.T) {
	data := `[{"id":"a","content":{"type":"paragraph"},"children":[
		{"id":"b","content":{"type":"paragraph"},"children":[
			{"id":"c","content":{"type":"paragraph"}}
		]}
	]}]`

	var tree Tree
	require.NoError(t, json.Unmarshal([]byte(data), &tree))
	RestoreParentIDs(tree)

	b := tree[0].Children[0]
	c := b.Children[0]
	assert.Equal(t, "", tree[0].ParentID)
	assert.Equal(t, "a", b.ParentID)
	assert.Equal(t, "b", c.ParentID)
	assert.NotNil(t, c.Children)
	require.NoError(t, tree.Validate())
}

func TestStateSnapshot(t *testing.T) {
	s := NewState(InitialTree())
	s.FocusID = s.Tree[0].ID
	s.FocusOffset = 3

	snap := s.Snapshot()
	s.FocusID = ""
	s.FocusOffset = 0
	s.Tree = nil

	s.Restore(snap)
	assert.Equal(t, snap.Tree[0].ID, s.FocusID)
	assert.Equal(t, 3, s.FocusOffset)
	assert.Len(t, s.Tree, 1)
}

func TestFileMetaDisplayName(t *testing.T) {
	assert.Equal(t, DefaultTitle, FileMeta{ID: "1"}.DisplayName())
	assert.Equal(t, "Notes", FileMeta{ID: "1", Name: "Notes"}.DisplayName())
}
