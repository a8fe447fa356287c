package model

// State is the tree engine's single source of truth: the canonical tree and
// the focused node with the cursor offset inside it. One State is shared by
// the tree store, the history log and the editor bridge of one outline.
type State struct {
	Tree        Tree
	FocusID     string
	FocusOffset int
}

// NewState creates a state for tree without focus
func NewState(tree Tree) *State {
	return &State{Tree: tree}
}

// Snapshot is an immutable copy of the state at one point in time. The tree
// is shared by reference, which is safe because committed trees are never
// modified.
type Snapshot struct {
	Tree        Tree
	FocusID     string
	FocusOffset int
}

// Snapshot captures the current state
func (s *State) Snapshot() Snapshot {
	return Snapshot{Tree: s.Tree, FocusID: s.FocusID, FocusOffset: s.FocusOffset}
}

// Restore replaces the state with a snapshot
func (s *State) Restore(snap Snapshot) {
	s.Tree = snap.Tree
	s.FocusID = snap.FocusID
	s.FocusOffset = snap.FocusOffset
}
