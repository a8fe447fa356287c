package richtext

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// DefaultUndoGroupDelay is the time window in which consecutive document
// changes are undone together
const DefaultUndoGroupDelay = 500 * time.Millisecond

const maxUndoDepth = 100

// Surface is a render target for a live editor. At most one editor owns a
// surface at a time.
type Surface struct {
	name  string
	owner *Editor
}

// NewSurface creates a named render target
func NewSurface(name string) *Surface {
	return &Surface{name: name}
}

// Name returns the surface name
func (s *Surface) Name() string {
	return s.name
}

// Busy reports whether an editor is mounted on the surface
func (s *Surface) Busy() bool {
	return s.owner != nil
}

// Editor is a live editing engine bound to one document. It applies
// transactions, keeps a short local undo stack for in-document edits and
// reports every transaction to its handler.
type Editor struct {
	state      EditorState
	surface    *Surface
	keymaps    []map[string]Command
	onTx       func(Doc, Selection)
	done       []EditorState
	undone     []EditorState
	groupDelay time.Duration
	lastChange time.Time
	now        func() time.Time
	destroyed  bool
	logger     *zap.Logger
}

// Option configures an Editor
type Option func(*Editor)

// WithKeymap adds a keymap. Keymaps are consulted in the order they were
// added, before the base keymap.
func WithKeymap(km Keymap) Option {
	return func(e *Editor) {
		e.keymaps = append(e.keymaps, normalizeKeymap(km))
	}
}

// WithTransactionHandler sets the callback invoked after every transaction
func WithTransactionHandler(fn func(Doc, Selection)) Option {
	return func(e *Editor) {
		e.onTx = fn
	}
}

// WithUndoGroupDelay sets the window for grouping edits into one undo step
func WithUndoGroupDelay(d time.Duration) Option {
	return func(e *Editor) {
		e.groupDelay = d
	}
}

// WithClock replaces the time source used for undo grouping
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// NewEditor mounts a new editor for doc on the surface. It fails with
// ErrSurfaceBusy while another editor still owns the surface.
func NewEditor(surface *Surface, doc Doc, opts ...Option) (*Editor, error) {
	if surface.owner != nil {
		return nil, fmt.Errorf("mount on %q: %w", surface.name, ErrSurfaceBusy)
	}

	e := &Editor{
		state:      NewState(doc),
		surface:    surface,
		groupDelay: DefaultUndoGroupDelay,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.keymaps = append(e.keymaps, normalizeKeymap(BaseKeymap()))

	surface.owner = e
	return e, nil
}

// State returns the current state
func (e *Editor) State() EditorState {
	return e.state
}

// Destroy releases the surface. A destroyed editor ignores keys and
// transactions.
func (e *Editor) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	if e.surface != nil && e.surface.owner == e {
		e.surface.owner = nil
	}
	e.done = nil
	e.undone = nil
}

// Dispatch applies a transaction and reports the new document and selection
// to the transaction handler
func (e *Editor) Dispatch(tr *Transaction) {
	if e.destroyed {
		e.logger.Warn("transaction dispatched to destroyed editor", zap.String("surface", e.surface.name))
		return
	}
	if tr.DocChanged() && tr.addToHistory {
		e.record(tr.before)
	}
	e.state = e.state.Apply(tr)
	if e.onTx != nil {
		e.onTx(e.state.Doc, e.state.Selection)
	}
}

func (e *Editor) record(before EditorState) {
	now := e.now()
	if len(e.done) == 0 || e.lastChange.IsZero() || now.Sub(e.lastChange) >= e.groupDelay {
		e.done = append(e.done, before)
		if len(e.done) > maxUndoDepth {
			e.done = e.done[len(e.done)-maxUndoDepth:]
		}
	}
	e.lastChange = now
	e.undone = nil
}

// Undo reverts the most recent group of local edits. It returns false when
// the local undo stack is empty.
func (e *Editor) Undo() bool {
	if e.destroyed || len(e.done) == 0 {
		return false
	}
	prev := e.done[len(e.done)-1]
	e.done = e.done[:len(e.done)-1]
	e.undone = append(e.undone, e.state)
	e.restore(prev)
	return true
}

// Redo reapplies the most recently undone local edit group
func (e *Editor) Redo() bool {
	if e.destroyed || len(e.undone) == 0 {
		return false
	}
	next := e.undone[len(e.undone)-1]
	e.undone = e.undone[:len(e.undone)-1]
	e.done = append(e.done, e.state)
	e.restore(next)
	return true
}

func (e *Editor) restore(s EditorState) {
	e.lastChange = time.Time{}
	tr := e.state.Tr().ReplaceDoc(s.Doc).SetSelection(s.Selection).SetAddToHistory(false)
	e.Dispatch(tr)
}

// SetSelection moves the selection without touching the local undo stack
func (e *Editor) SetSelection(sel Selection) {
	e.Dispatch(e.state.Tr().SetSelection(sel))
}

// HandleKey runs the keymaps for a key event and falls back to text input
// for plain runes. It returns true when the key was handled.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.destroyed {
		return false
	}

	name := KeyName(ev)
	for _, km := range e.keymaps {
		if cmd, ok := km[name]; ok && cmd(e) {
			return true
		}
	}

	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		return InsertText(string(ev.Rune()))(e)
	}
	return false
}
