// Package outline implements the tree store: the structural operations on
// an outline tree and the shared state they commit to.
//
// Functions in this file never modify their input. They copy the changed
// node and every ancestor up to the root and share all other subtrees with
// the old tree, so trees held by the history log stay valid.
package outline

import (
	"github.com/pstuifzand/tuo-notes/internal/locator"
	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// rebuild returns a copy of tree in which the sibling sequence owned by the
// node at parentPath is replaced by edit's result. An empty parentPath edits
// the root sequence. Every owner on the path is copied.
func rebuild(tree model.Tree, parentPath []int, edit func(seq []*model.Node) []*model.Node) model.Tree {
	owners := make([]*model.Node, len(parentPath))
	seq := []*model.Node(tree)
	for i, idx := range parentPath {
		owners[i] = seq[idx]
		seq = owners[i].Children
	}

	newSeq := edit(seq)
	for i := len(parentPath) - 1; i >= 0; i-- {
		owner := owners[i].Clone()
		owner.Children = newSeq

		up := []*model.Node(tree)
		if i > 0 {
			up = owners[i-1].Children
		}
		newSeq = replaceAt(up, parentPath[i], owner)
	}
	return model.Tree(newSeq)
}

func replaceAt(seq []*model.Node, i int, n *model.Node) []*model.Node {
	out := make([]*model.Node, len(seq))
	copy(out, seq)
	out[i] = n
	return out
}

func insertAt(seq []*model.Node, i int, nodes ...*model.Node) []*model.Node {
	out := make([]*model.Node, 0, len(seq)+len(nodes))
	out = append(out, seq[:i]...)
	out = append(out, nodes...)
	return append(out, seq[i:]...)
}

func removeAt(seq []*model.Node, i int) []*model.Node {
	out := make([]*model.Node, 0, len(seq))
	out = append(out, seq[:i]...)
	return append(out, seq[i+1:]...)
}

func parentIDOf(loc locator.Location) string {
	if loc.Parent == nil {
		return ""
	}
	return loc.Parent.ID
}

// UpdateNode returns a tree in which the node with the given id is replaced
// by a copy that fn has modified. fn must not modify the children slice in
// place. It reports false and returns tree unchanged when id is absent.
func UpdateNode(tree model.Tree, id string, fn func(n *model.Node)) (model.Tree, bool) {
	loc, ok := locator.Locate(tree, id)
	if !ok {
		return tree, false
	}
	n := loc.Node.Clone()
	fn(n)
	return rebuild(tree, loc.Path[:len(loc.Path)-1], func(seq []*model.Node) []*model.Node {
		return replaceAt(seq, loc.Index, n)
	}), true
}

// ReplaceContent returns a tree in which the node's content is doc
func ReplaceContent(tree model.Tree, id string, doc richtext.Doc) (model.Tree, bool) {
	return UpdateNode(tree, id, func(n *model.Node) {
		n.Content = doc
	})
}

// InsertAfter returns a tree with n inserted as the next sibling of the
// anchor node. The parentId of the inserted node is set from its new
// position.
func InsertAfter(tree model.Tree, anchorID string, n *model.Node) (model.Tree, bool) {
	return insertNear(tree, anchorID, n, 1)
}

// InsertBefore returns a tree with n inserted as the previous sibling of
// the anchor node
func InsertBefore(tree model.Tree, anchorID string, n *model.Node) (model.Tree, bool) {
	return insertNear(tree, anchorID, n, 0)
}

func insertNear(tree model.Tree, anchorID string, n *model.Node, offset int) (model.Tree, bool) {
	loc, ok := locator.Locate(tree, anchorID)
	if !ok {
		return tree, false
	}
	inserted := n.Clone()
	inserted.ParentID = parentIDOf(loc)
	return rebuild(tree, loc.Path[:len(loc.Path)-1], func(seq []*model.Node) []*model.Node {
		return insertAt(seq, loc.Index+offset, inserted)
	}), true
}

// InsertSubtrees returns a tree with the subtrees inserted after the anchor
// as its siblings, or appended to the root sequence when anchorID is empty
func InsertSubtrees(tree model.Tree, anchorID string, nodes []*model.Node) (model.Tree, bool) {
	parentID, path, index := "", []int(nil), len(tree)
	if anchorID != "" {
		loc, ok := locator.Locate(tree, anchorID)
		if !ok {
			return tree, false
		}
		parentID, path, index = parentIDOf(loc), loc.Path[:len(loc.Path)-1], loc.Index+1
	}
	inserted := make([]*model.Node, len(nodes))
	for i, n := range nodes {
		inserted[i] = n.Clone()
		inserted[i].ParentID = parentID
	}
	return rebuild(tree, path, func(seq []*model.Node) []*model.Node {
		return insertAt(seq, index, inserted...)
	}), true
}

// InsertFirstChild returns a tree with n as the first child of the parent
// node. A collapsed parent is expanded.
func InsertFirstChild(tree model.Tree, parentID string, n *model.Node) (model.Tree, bool) {
	inserted := n.Clone()
	inserted.ParentID = parentID
	return UpdateNode(tree, parentID, func(p *model.Node) {
		p.Children = insertAt(p.Children, 0, inserted)
		if !p.IsExpanded() {
			p.SetExpanded(true)
		}
	})
}

// RemoveNode returns a tree without the node and its subtree
func RemoveNode(tree model.Tree, id string) (model.Tree, bool) {
	loc, ok := locator.Locate(tree, id)
	if !ok {
		return tree, false
	}
	return rebuild(tree, loc.Path[:len(loc.Path)-1], func(seq []*model.Node) []*model.Node {
		return removeAt(seq, loc.Index)
	}), true
}

// ToggleExpanded returns a tree in which the node's expanded flag is
// flipped. Children are not touched.
func ToggleExpanded(tree model.Tree, id string) (model.Tree, bool) {
	return UpdateNode(tree, id, func(n *model.Node) {
		n.SetExpanded(!n.IsExpanded())
	})
}

// Split returns a tree in which the node's content is cut at the collapsed
// selection. The node keeps the content before the cursor and its
// children. A new sibling holding the rest of the content, built by
// newNode, is inserted right after it. A range selection is a no-op.
func Split(tree model.Tree, id string, doc richtext.Doc, sel richtext.Selection, newNode func(content richtext.Doc) *model.Node) (model.Tree, *model.Node, bool) {
	if !sel.Empty() {
		return tree, nil, false
	}
	if locator.FindNodeByID(tree, id) == nil {
		return tree, nil, false
	}

	from := sel.From()
	before := doc.Cut(0, from)
	after := doc.CutFrom(from)

	tree, _ = ReplaceContent(tree, id, before)
	sibling := newNode(after)
	tree, _ = InsertAfter(tree, id, sibling)
	return tree, locator.FindNodeByID(tree, sibling.ID), true
}

// Indent returns a tree in which the node becomes the last child of its
// previous sibling, together with its subtree. A node without a previous
// sibling is a no-op. When sel is not nil it is stored as the node's
// selection.
func Indent(tree model.Tree, id string, sel *richtext.Selection) (model.Tree, bool) {
	loc, ok := locator.Locate(tree, id)
	if !ok || loc.Index == 0 {
		return tree, false
	}

	prev := loc.Siblings[loc.Index-1]
	moved := loc.Node.Clone()
	moved.ParentID = prev.ID
	if sel != nil {
		s := *sel
		moved.Selection = &s
	}

	newPrev := prev.Clone()
	newPrev.Children = insertAt(prev.Children, len(prev.Children), moved)
	if !newPrev.IsExpanded() {
		newPrev.SetExpanded(true)
	}

	return rebuild(tree, loc.Path[:len(loc.Path)-1], func(seq []*model.Node) []*model.Node {
		out := replaceAt(seq, loc.Index-1, newPrev)
		return removeAt(out, loc.Index)
	}), true
}

// Outdent returns a tree in which the node moves out of its parent and is
// placed right after it, together with its subtree. Root nodes are a no-op.
func Outdent(tree model.Tree, id string, sel *richtext.Selection) (model.Tree, bool) {
	loc, ok := locator.Locate(tree, id)
	if !ok || loc.Parent == nil {
		return tree, false
	}
	parentLoc, _ := locator.Locate(tree, loc.Parent.ID)

	moved := loc.Node.Clone()
	moved.ParentID = parentIDOf(parentLoc)
	if sel != nil {
		s := *sel
		moved.Selection = &s
	}

	newParent := loc.Parent.Clone()
	newParent.Children = removeAt(loc.Parent.Children, loc.Index)

	return rebuild(tree, parentLoc.Path[:len(parentLoc.Path)-1], func(seq []*model.Node) []*model.Node {
		out := replaceAt(seq, parentLoc.Index, newParent)
		return insertAt(out, parentLoc.Index+1, moved)
	}), true
}

// Move returns a tree in which the node swaps places with the sibling delta
// positions away (-1 for up, 1 for down). Moving past either end is a no-op.
func Move(tree model.Tree, id string, delta int) (model.Tree, bool) {
	loc, ok := locator.Locate(tree, id)
	if !ok {
		return tree, false
	}
	target := loc.Index + delta
	if target < 0 || target >= len(loc.Siblings) {
		return tree, false
	}
	return rebuild(tree, loc.Path[:len(loc.Path)-1], func(seq []*model.Node) []*model.Node {
		out := replaceAt(seq, loc.Index, seq[target])
		out[target] = seq[loc.Index]
		return out
	}), true
}

// ExpandAncestors returns a tree in which every collapsed ancestor of id is
// expanded. changed is false when id is absent or already visible.
func ExpandAncestors(tree model.Tree, id string) (out model.Tree, changed bool) {
	path := locator.FindNodePath(tree, id)
	out = tree
	for _, anc := range path[:max(len(path)-1, 0)] {
		if anc.IsExpanded() {
			continue
		}
		out, _ = UpdateNode(out, anc.ID, func(n *model.Node) {
			n.SetExpanded(true)
		})
		changed = true
	}
	return out, changed
}
