// Package locator answers structural queries over an outline tree. Nothing
// here modifies the tree. All traversals use an explicit stack so that deep
// trees cannot exhaust the goroutine stack.
package locator

import "github.com/pstuifzand/tuo-notes/internal/model"

// Location describes where a node lives in the tree
type Location struct {
	Node *model.Node
	// Parent is nil for root nodes
	Parent *model.Node
	// Siblings is the sequence that holds Node: the parent's children or the
	// root sequence
	Siblings []*model.Node
	Index    int
	// Path holds the index of each node from the root sequence down to Node
	Path []int
}

// frame is a position inside one sibling sequence during a depth-first walk
type frame struct {
	seq []*model.Node
	i   int
}

// find walks the tree in pre-order and returns the stack of frames leading
// to the node with the given id. The last frame points at the node.
func find(tree model.Tree, id string) []frame {
	if id == "" {
		return nil
	}
	stack := []frame{{seq: tree}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i >= len(top.seq) {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				stack[len(stack)-1].i++
			}
			continue
		}
		n := top.seq[top.i]
		if n.ID == id {
			return stack
		}
		if len(n.Children) > 0 {
			stack = append(stack, frame{seq: n.Children})
			continue
		}
		top.i++
	}
	return nil
}

// Locate finds a node together with its parent, sibling sequence and index
func Locate(tree model.Tree, id string) (Location, bool) {
	stack := find(tree, id)
	if stack == nil {
		return Location{}, false
	}
	last := stack[len(stack)-1]
	loc := Location{
		Node:     last.seq[last.i],
		Siblings: last.seq,
		Index:    last.i,
		Path:     make([]int, len(stack)),
	}
	for i, f := range stack {
		loc.Path[i] = f.i
	}
	if len(stack) > 1 {
		up := stack[len(stack)-2]
		loc.Parent = up.seq[up.i]
	}
	return loc, true
}

// FindNodeByID returns the first node with the given id in pre-order
func FindNodeByID(tree model.Tree, id string) *model.Node {
	stack := find(tree, id)
	if stack == nil {
		return nil
	}
	last := stack[len(stack)-1]
	return last.seq[last.i]
}

// FindParentNode returns the node whose children hold id. It returns nil
// for root nodes and unknown ids.
func FindParentNode(tree model.Tree, id string) *model.Node {
	loc, ok := Locate(tree, id)
	if !ok {
		return nil
	}
	return loc.Parent
}

// FindSiblings returns the sequence that holds id: its parent's children,
// or the root sequence when id has no parent
func FindSiblings(tree model.Tree, id string) []*model.Node {
	if parent := FindParentNode(tree, id); parent != nil {
		return parent.Children
	}
	return tree
}

// FindPreviousNode returns the sibling just before id, or nil at the start
func FindPreviousNode(tree model.Tree, id string) *model.Node {
	loc, ok := Locate(tree, id)
	if !ok || loc.Index == 0 {
		return nil
	}
	return loc.Siblings[loc.Index-1]
}

// FindNextNode returns the sibling just after id, or nil at the end
func FindNextNode(tree model.Tree, id string) *model.Node {
	loc, ok := Locate(tree, id)
	if !ok || loc.Index == len(loc.Siblings)-1 {
		return nil
	}
	return loc.Siblings[loc.Index+1]
}

// FindNodePath returns the nodes from the root down to id, or nil when id is
// not in the tree
func FindNodePath(tree model.Tree, id string) []*model.Node {
	stack := find(tree, id)
	if stack == nil {
		return nil
	}
	path := make([]*model.Node, len(stack))
	for i, f := range stack {
		path[i] = f.seq[f.i]
	}
	return path
}

