// Package model contains the outline node tree and the state that the tree
// engine operates on
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// ErrInvalidTree is returned when a tree violates its structural invariants
var ErrInvalidTree = errors.New("invalid outline tree")

// Node is a single node in the outline tree.
//
// Nodes reachable from a committed tree are never modified. Changing a node
// means copying it and every ancestor up to the root.
type Node struct {
	ID        string              `json:"id"`
	Content   richtext.Doc        `json:"content"`
	Children  []*Node             `json:"children"`
	Selection *richtext.Selection `json:"selection,omitempty"`
	Expanded  *bool               `json:"expanded,omitempty"`
	ParentID  string              `json:"parentId,omitempty"`
	CreatedAt *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt *time.Time          `json:"updatedAt,omitempty"`
}

// Tree is the ordered root sequence of an outline
type Tree []*Node

// NewID returns a fresh node id
func NewID() string {
	return uuid.NewString()
}

// NewNode creates an expanded node without children
func NewNode(id string, content richtext.Doc) *Node {
	expanded := true
	return &Node{
		ID:       id,
		Content:  content,
		Children: []*Node{},
		Expanded: &expanded,
	}
}

// IsExpanded reports whether the children of the node are shown. Nodes
// without an explicit flag are expanded.
func (n *Node) IsExpanded() bool {
	return n.Expanded == nil || *n.Expanded
}

// SetExpanded stores an explicit expanded flag
func (n *Node) SetExpanded(expanded bool) {
	n.Expanded = &expanded
}

// Clone returns a shallow copy of the node. The children slice is shared
// with n and must be replaced, not appended to, before the copy
// is modified.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// HasChildren reports whether the node has children
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Text returns the plain text of the node content
func (n *Node) Text() string {
	return n.Content.PlainText()
}

// Count returns the number of nodes in the tree
func (t Tree) Count() int {
	count := 0
	stack := append([]*Node(nil), t...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}

// Validate checks that node ids are unique, that every parentId that is set
// matches the actual nesting and that all content is valid
func (t Tree) Validate() error {
	type frame struct {
		node     *Node
		parentID string
	}

	seen := make(map[string]bool)
	stack := make([]frame, 0, len(t))
	for i := len(t) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: t[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		if n == nil {
			return fmt.Errorf("%w: nil node under %q", ErrInvalidTree, f.parentID)
		}
		if n.ID == "" {
			return fmt.Errorf("%w: node without id under %q", ErrInvalidTree, f.parentID)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidTree, n.ID)
		}
		seen[n.ID] = true
		if n.ParentID != "" && n.ParentID != f.parentID {
			return fmt.Errorf("%w: node %q has parentId %q but lives under %q", ErrInvalidTree, n.ID, n.ParentID, f.parentID)
		}
		if err := n.Content.Validate(); err != nil {
			return fmt.Errorf("node %q: %w", n.ID, err)
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: n.Children[i], parentID: n.ID})
		}
	}
	return nil
}

// RestoreParentIDs sets the parentId of every node from the nesting. It
// modifies the nodes in place and is meant for freshly decoded trees that
// are not shared yet.
func RestoreParentIDs(t Tree) {
	stack := append([]*Node(nil), t...)
	for _, n := range t {
		if n != nil {
			n.ParentID = ""
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if n.Children == nil {
			n.Children = []*Node{}
		}
		for _, child := range n.Children {
			if child != nil {
				child.ParentID = n.ID
			}
			stack = append(stack, child)
		}
	}
}

// InitialTree returns the tree of a new outline: one empty paragraph
func InitialTree() Tree {
	return Tree{NewNode(NewID(), richtext.NewParagraph(""))}
}
