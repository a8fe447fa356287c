package outline

import (
	"time"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/history"
	"github.com/pstuifzand/tuo-notes/internal/locator"
	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// Store owns the canonical tree and focus of one outline. Structural
// operations commit the new tree and push a history entry in the same call.
// Lookup misses are no-ops.
type Store struct {
	state    *model.State
	log      *history.Log
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	onChange func()
	debug    bool
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock replaces the time source for node timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the generator of node ids
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithChangeHook sets a function called after every change of the state
func WithChangeHook(fn func()) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// WithDebug makes the store dump the tree to the debug log after every
// change
func WithDebug(debug bool) Option {
	return func(s *Store) {
		s.debug = debug
	}
}

// New creates a store over state that records structural changes in log
func New(state *model.State, log *history.Log, opts ...Option) *Store {
	s := &Store{
		state:  state,
		log:    log,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  model.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the shared state
func (s *Store) State() *model.State {
	return s.state
}

// Tree returns the current tree
func (s *Store) Tree() model.Tree {
	return s.state.Tree
}

// FocusID returns the id of the focused node, or "" without focus
func (s *Store) FocusID() string {
	return s.state.FocusID
}

// FocusOffset returns the cursor offset inside the focused node
func (s *Store) FocusOffset() int {
	return s.state.FocusOffset
}

// Focused returns the focused node, or nil
func (s *Store) Focused() *model.Node {
	return locator.FindNodeByID(s.state.Tree, s.state.FocusID)
}

// Log returns the history log
func (s *Store) Log() *history.Log {
	return s.log
}

func (s *Store) changed(op string) {
	if s.debug {
		s.logger.Debug("tree changed",
			zap.String("op", op),
			zap.String("focus", s.state.FocusID),
			zap.Int("offset", s.state.FocusOffset),
			zap.String("tree", spew.Sdump(s.state.Tree)))
	}
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Store) commit(op string, tree model.Tree) {
	s.state.Tree = tree
	s.log.Push()
	s.logger.Debug("structural change", zap.String("op", op), zap.Int("history", s.log.Len()))
	s.changed(op)
}

func (s *Store) stamp() *time.Time {
	t := s.now()
	return &t
}

func (s *Store) newNode(content richtext.Doc) *model.Node {
	n := model.NewNode(s.newID(), content)
	n.CreatedAt = s.stamp()
	n.UpdatedAt = n.CreatedAt
	return n
}

// Reset loads a document and starts a new history with it as the first
// entry. An empty document gets the initial tree.
func (s *Store) Reset(doc *model.Document) {
	tree := doc.Tree
	if len(tree) == 0 {
		tree = model.InitialTree()
	}
	s.state.Tree = tree
	s.state.FocusID = doc.FocusID
	s.state.FocusOffset = doc.FocusOffset
	if s.Focused() == nil {
		s.state.FocusID = tree[0].ID
		s.state.FocusOffset = 0
	}
	s.log.Reset()
	s.log.Push()
	s.changed("reset")
}

// SetTree replaces the tree wholesale
func (s *Store) SetTree(tree model.Tree) {
	s.state.Tree = tree
	s.changed("set-tree")
}

// SetFocusID sets the focused node
func (s *Store) SetFocusID(id string) {
	s.state.FocusID = id
}

// SetFocusOffset sets the cursor offset inside the focused node
func (s *Store) SetFocusOffset(offset int) {
	s.state.FocusOffset = offset
}

// UpdateNodeByID replaces the content of a node. It does not record
// history.
func (s *Store) UpdateNodeByID(id string, content richtext.Doc) bool {
	tree, ok := UpdateNode(s.state.Tree, id, func(n *model.Node) {
		n.Content = content
		n.UpdatedAt = s.stamp()
	})
	if !ok {
		return false
	}
	s.state.Tree = tree
	s.changed("update")
	return true
}

// AddNodeAfter inserts n as the next sibling of the anchor node. It does
// not record history.
func (s *Store) AddNodeAfter(anchorID string, n *model.Node) bool {
	tree, ok := InsertAfter(s.state.Tree, anchorID, n)
	if !ok {
		return false
	}
	s.state.Tree = tree
	s.changed("add-after")
	return true
}

// DeleteNode removes a node and its subtree and clears the focus, even
// when another node was focused
func (s *Store) DeleteNode(id string) bool {
	tree, ok := RemoveNode(s.state.Tree, id)
	if !ok {
		return false
	}
	s.state.FocusID = ""
	s.commit("delete", tree)
	return true
}

// ToggleExpandNode flips the expanded flag of a node. When collapsing hides
// the focused node, the focus moves to the collapsed node.
func (s *Store) ToggleExpandNode(id string) bool {
	tree, ok := ToggleExpanded(s.state.Tree, id)
	if !ok {
		return false
	}
	if n := locator.FindNodeByID(tree, id); n != nil && !n.IsExpanded() {
		for _, d := range locator.Descendants(n) {
			if d == s.state.FocusID {
				s.state.FocusID = id
				s.state.FocusOffset = 0
				break
			}
		}
	}
	s.commit("toggle", tree)
	return true
}

// RevealNode expands the collapsed ancestors of a node and focuses it
func (s *Store) RevealNode(id string) bool {
	if locator.FindNodeByID(s.state.Tree, id) == nil {
		return false
	}
	s.state.FocusID = id
	s.state.FocusOffset = 0
	if tree, changed := ExpandAncestors(s.state.Tree, id); changed {
		s.commit("reveal", tree)
	} else {
		s.changed("focus")
	}
	return true
}

// SplitNode cuts the node at the collapsed selection sel inside doc, the
// live content of the node. The node keeps the text before the cursor and
// its children; a new sibling after it gets the rest and the focus, with
// the cursor at its start. A range selection is a no-op.
func (s *Store) SplitNode(id string, doc richtext.Doc, sel richtext.Selection) bool {
	tree, sibling, ok := Split(s.state.Tree, id, doc, sel, s.newNode)
	if !ok {
		return false
	}
	s.state.FocusOffset = 0
	s.state.FocusID = sibling.ID
	s.commit("split", tree)
	return true
}

// IndentNode makes the node the last child of its previous sibling. The
// focus stays on the node. The first node of a sequence is a no-op.
func (s *Store) IndentNode(id string, sel *richtext.Selection) bool {
	tree, ok := Indent(s.state.Tree, id, sel)
	if !ok {
		return false
	}
	s.state.FocusID = id
	s.commit("indent", tree)
	return true
}

// OutdentNode moves the node out of its parent to right after it. Root
// nodes are a no-op.
func (s *Store) OutdentNode(id string, sel *richtext.Selection) bool {
	tree, ok := Outdent(s.state.Tree, id, sel)
	if !ok {
		return false
	}
	s.state.FocusID = id
	s.commit("outdent", tree)
	return true
}

// MoveNodeUp swaps the node with its previous sibling
func (s *Store) MoveNodeUp(id string) bool {
	return s.move(id, -1)
}

// MoveNodeDown swaps the node with its next sibling
func (s *Store) MoveNodeDown(id string) bool {
	return s.move(id, 1)
}

func (s *Store) move(id string, delta int) bool {
	tree, ok := Move(s.state.Tree, id, delta)
	if !ok {
		return false
	}
	s.commit("move", tree)
	return true
}

// InsertNodeBelow inserts an empty node after the given node and focuses it
func (s *Store) InsertNodeBelow(id string) bool {
	return s.insert("insert-below", func(n *model.Node) (model.Tree, bool) {
		return InsertAfter(s.state.Tree, id, n)
	})
}

// InsertNodeAbove inserts an empty node before the given node and focuses
// it
func (s *Store) InsertNodeAbove(id string) bool {
	return s.insert("insert-above", func(n *model.Node) (model.Tree, bool) {
		return InsertBefore(s.state.Tree, id, n)
	})
}

// InsertChildNode inserts an empty node as the first child of the given
// node and focuses it
func (s *Store) InsertChildNode(id string) bool {
	return s.insert("insert-child", func(n *model.Node) (model.Tree, bool) {
		return InsertFirstChild(s.state.Tree, id, n)
	})
}

func (s *Store) insert(op string, fn func(n *model.Node) (model.Tree, bool)) bool {
	n := s.newNode(richtext.NewParagraph(""))
	tree, ok := fn(n)
	if !ok {
		return false
	}
	s.state.FocusID = n.ID
	s.state.FocusOffset = 0
	s.commit(op, tree)
	return true
}

// AppendRootNode adds a node holding content at the end of the root
// sequence without moving the focus
func (s *Store) AppendRootNode(content richtext.Doc) *model.Node {
	n := s.newNode(content)
	tree := insertAt(s.state.Tree, len(s.state.Tree), n)
	s.commit("append", tree)
	return n
}

// ImportNodes inserts imported subtrees after the anchor node, or at the end
// of the root sequence when anchorID is empty, and focuses the first one.
// Subtrees whose ids clash with the tree are rejected.
func (s *Store) ImportNodes(anchorID string, nodes []*model.Node) bool {
	if len(nodes) == 0 {
		return false
	}
	combined := append(append(model.Tree(nil), s.state.Tree...), nodes...)
	if err := combined.Validate(); err != nil {
		s.logger.Warn("rejecting imported nodes", zap.Error(err))
		return false
	}
	tree, ok := InsertSubtrees(s.state.Tree, anchorID, nodes)
	if !ok {
		return false
	}
	s.state.FocusID = nodes[0].ID
	s.state.FocusOffset = 0
	s.commit("import", tree)
	return true
}

// FocusNext focuses the next visible node. Without focus the first visible
// node is focused. It returns false at the end.
func (s *Store) FocusNext() bool {
	return s.focus(locator.NextVisible(s.state.Tree, s.state.FocusID))
}

// FocusPrev focuses the previous visible node. Without focus the last
// visible node is focused.
func (s *Store) FocusPrev() bool {
	return s.focus(locator.PrevVisible(s.state.Tree, s.state.FocusID))
}

func (s *Store) focus(n *model.Node) bool {
	if n == nil {
		return false
	}
	s.state.FocusID = n.ID
	s.state.FocusOffset = 0
	s.changed("focus")
	return true
}

// ApplyTransaction writes the content and selection of an editor
// transaction into the focused node, moves the focus offset to the anchor
// and coalesces the change into the current history entry
func (s *Store) ApplyTransaction(doc richtext.Doc, sel richtext.Selection) bool {
	tree, ok := UpdateNode(s.state.Tree, s.state.FocusID, func(n *model.Node) {
		if !richtext.Equal(n.Content, doc) {
			n.UpdatedAt = s.stamp()
		}
		n.Content = doc
		n.Selection = &sel
	})
	if !ok {
		s.logger.Debug("transaction without focused node", zap.String("focus", s.state.FocusID))
		return false
	}
	s.state.Tree = tree
	s.state.FocusOffset = sel.Anchor
	s.log.Coalesce()
	s.changed("transaction")
	return true
}

// Undo restores the previous history entry
func (s *Store) Undo() bool {
	if !s.log.Undo() {
		return false
	}
	s.changed("undo")
	return true
}

// Redo restores the next history entry
func (s *Store) Redo() bool {
	if !s.log.Redo() {
		return false
	}
	s.changed("redo")
	return true
}
