package locator

import "github.com/pstuifzand/tuo-notes/internal/model"

// WalkFunc is called for each node with its depth. Returning false skips the
// node's children.
type WalkFunc func(n *model.Node, depth int) bool

// Walk visits the tree in pre-order
func Walk(tree model.Tree, fn WalkFunc) {
	type item struct {
		node  *model.Node
		depth int
	}
	stack := make([]item, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, item{node: tree[i]})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.node, it.depth) {
			continue
		}
		children := it.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{node: children[i], depth: it.depth + 1})
		}
	}
}

// VisibleNode is a node in render order with its depth
type VisibleNode struct {
	Node  *model.Node
	Depth int
}

// VisibleNodes returns the nodes in render order. Children of collapsed
// nodes are left out.
func VisibleNodes(tree model.Tree) []VisibleNode {
	var out []VisibleNode
	Walk(tree, func(n *model.Node, depth int) bool {
		out = append(out, VisibleNode{Node: n, Depth: depth})
		return n.IsExpanded()
	})
	return out
}

// NextVisible returns the visible node after id. An empty id or an id that
// is not visible yields the first visible node.
func NextVisible(tree model.Tree, id string) *model.Node {
	visible := VisibleNodes(tree)
	if len(visible) == 0 {
		return nil
	}
	for i, v := range visible {
		if v.Node.ID == id {
			if i+1 < len(visible) {
				return visible[i+1].Node
			}
			return nil
		}
	}
	return visible[0].Node
}

// PrevVisible returns the visible node before id. An empty id or an id that
// is not visible yields the last visible node.
func PrevVisible(tree model.Tree, id string) *model.Node {
	visible := VisibleNodes(tree)
	if len(visible) == 0 {
		return nil
	}
	for i, v := range visible {
		if v.Node.ID == id {
			if i > 0 {
				return visible[i-1].Node
			}
			return nil
		}
	}
	return visible[len(visible)-1].Node
}

// Descendants returns the ids of all nodes below n
func Descendants(n *model.Node) []string {
	var ids []string
	Walk(n.Children, func(d *model.Node, _ int) bool {
		ids = append(ids, d.ID)
		return true
	})
	return ids
}
