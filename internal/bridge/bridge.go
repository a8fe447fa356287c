// Package bridge connects the live rich-text editor to the tree store. It
// owns the single editor instance, feeds its transactions into the store,
// runs structural operations for bound keys and rebuilds the editor
// whenever the focus moves.
package bridge

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/outline"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

// ErrNoFocus is returned by actions that need a focused node when there is
// none
var ErrNoFocus = errors.New("no focused node")

// Bridge keeps exactly one live editor bound to the focused node
type Bridge struct {
	store     *outline.Store
	surface   *richtext.Surface
	scheduler Scheduler
	logger    *zap.Logger

	editor     *richtext.Editor
	mountedID  string
	target     string
	generation int
	offset     *int

	editorOpts   []richtext.Option
	keymap       richtext.Keymap
	detached     richtext.Keymap
	onMount      func(*richtext.Editor)
	onFullScreen func()
}

// Option configures a Bridge
type Option func(*Bridge)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithEditorOptions adds options for every editor the bridge builds
func WithEditorOptions(opts ...richtext.Option) Option {
	return func(b *Bridge) {
		b.editorOpts = append(b.editorOpts, opts...)
	}
}

// WithMountHook sets a function called after a new editor is mounted
func WithMountHook(fn func(*richtext.Editor)) Option {
	return func(b *Bridge) {
		b.onMount = fn
	}
}

// WithFullScreenHandler sets the handler of ActionToggleFullScreen
func WithFullScreenHandler(fn func()) Option {
	return func(b *Bridge) {
		b.onFullScreen = fn
	}
}

// New creates a bridge for store that mounts editors on surface. Editor
// construction is deferred through scheduler so that the previous editor
// has released the surface first.
func New(store *outline.Store, surface *richtext.Surface, scheduler Scheduler, opts ...Option) *Bridge {
	b := &Bridge{
		store:     store,
		surface:   surface,
		scheduler: scheduler,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.keymap = b.editorKeymap()
	b.detached = b.detachedKeymap()
	return b
}

// Editor returns the live editor, or nil while none is mounted
func (b *Bridge) Editor() *richtext.Editor {
	return b.editor
}

// MountedID returns the id of the node the live editor is bound to
func (b *Bridge) MountedID() string {
	return b.mountedID
}

// Sync rebuilds the editor when the focus moved to another node since the
// last rebuild
func (b *Bridge) Sync() {
	if b.store.FocusID() != b.target {
		b.Refresh()
	}
}

// Refresh tears down the live editor now and schedules a new one for the
// focused node
func (b *Bridge) Refresh() {
	if b.editor != nil {
		b.editor.Destroy()
		b.editor = nil
	}
	b.mountedID = ""
	b.target = b.store.FocusID()
	b.generation++
	gen := b.generation
	b.scheduler.Defer(func() {
		b.mount(gen)
	})
}

// Focus moves the focus to a node. The cursor comes from the node's stored
// selection.
func (b *Bridge) Focus(id string) {
	b.store.SetFocusID(id)
	b.offset = nil
	b.Refresh()
}

// FocusAt moves the focus to a node with the cursor at offset, for example
// the position of a pointer click
func (b *Bridge) FocusAt(id string, offset int) {
	b.store.SetFocusID(id)
	b.store.SetFocusOffset(offset)
	b.offset = &offset
	b.Refresh()
}

// Close destroys the live editor
func (b *Bridge) Close() {
	b.generation++
	if b.editor != nil {
		b.editor.Destroy()
		b.editor = nil
	}
	b.mountedID = ""
}

func (b *Bridge) mount(gen int) {
	if gen != b.generation {
		return
	}
	offset := b.offset
	b.offset = nil

	node := b.store.Focused()
	if node == nil {
		b.logger.Debug("no focused node to mount", zap.String("focus", b.store.FocusID()))
		return
	}

	opts := append([]richtext.Option{}, b.editorOpts...)
	opts = append(opts,
		richtext.WithLogger(b.logger),
		richtext.WithKeymap(b.keymap),
		richtext.WithTransactionHandler(b.onTransaction),
	)
	ed, err := richtext.NewEditor(b.surface, node.Content, opts...)
	if err != nil {
		b.logger.Error("mount editor", zap.String("node", node.ID), zap.Error(err))
		return
	}
	b.editor = ed
	b.mountedID = node.ID

	var sel richtext.Selection
	switch {
	case offset != nil:
		sel = richtext.Cursor(*offset)
	case node.Selection != nil:
		sel = *node.Selection
	default:
		sel = richtext.Cursor(b.store.FocusOffset())
	}
	ed.SetSelection(sel)

	if b.onMount != nil {
		b.onMount(ed)
	}
}

func (b *Bridge) onTransaction(doc richtext.Doc, sel richtext.Selection) {
	if b.store.FocusID() != b.mountedID {
		b.logger.Warn("transaction for unfocused node",
			zap.String("mounted", b.mountedID),
			zap.String("focus", b.store.FocusID()))
		return
	}
	b.store.ApplyTransaction(doc, sel)
}

// HandleKey passes a key to the live editor. Without an editor only
// navigation and undo keys are handled.
func (b *Bridge) HandleKey(ev *tcell.EventKey) bool {
	if b.editor != nil {
		return b.editor.HandleKey(ev)
	}
	if cmd, ok := b.detached[richtext.KeyName(ev)]; ok {
		return cmd(nil)
	}
	return false
}

// Undo drains the live editor's local undo stack first and steps back in
// the structural history only when it is empty
func (b *Bridge) Undo() bool {
	if b.editor != nil && b.editor.Undo() {
		return true
	}
	if b.store.Undo() {
		b.Refresh()
		return true
	}
	return false
}

// Redo reapplies local edits of the live editor first, then structural
// history entries
func (b *Bridge) Redo() bool {
	if b.editor != nil && b.editor.Redo() {
		return true
	}
	if b.store.Redo() {
		b.Refresh()
		return true
	}
	return false
}

// structural runs a store operation and rebuilds the editor when it changed
// the tree
func (b *Bridge) structural(ok bool) bool {
	if ok {
		b.offset = nil
		b.Refresh()
	}
	return ok
}

// editorState returns the live content and selection of the focused node
func (b *Bridge) editorState() (richtext.Doc, richtext.Selection, bool) {
	if b.editor != nil {
		s := b.editor.State()
		return s.Doc, s.Selection, true
	}
	node := b.store.Focused()
	if node == nil {
		return richtext.Doc{}, richtext.Selection{}, false
	}
	return node.Content, richtext.Cursor(b.store.FocusOffset()), true
}

// Split splits the focused node at the cursor
func (b *Bridge) Split() bool {
	doc, sel, ok := b.editorState()
	if !ok {
		return false
	}
	return b.structural(b.store.SplitNode(b.store.FocusID(), doc, sel))
}

// Indent indents the focused node, keeping the cursor position
func (b *Bridge) Indent() bool {
	_, sel, ok := b.editorState()
	if !ok {
		return false
	}
	return b.structural(b.store.IndentNode(b.store.FocusID(), &sel))
}

// Outdent outdents the focused node, keeping the cursor position
func (b *Bridge) Outdent() bool {
	_, sel, ok := b.editorState()
	if !ok {
		return false
	}
	return b.structural(b.store.OutdentNode(b.store.FocusID(), &sel))
}

func (b *Bridge) editorKeymap() richtext.Keymap {
	handled := func(fn func() bool) richtext.Command {
		return func(*richtext.Editor) bool {
			fn()
			return true
		}
	}
	focused := func(fn func(id string) bool) func() bool {
		return func() bool {
			return b.structural(fn(b.store.FocusID()))
		}
	}
	nav := func(fn func() bool) func() bool {
		return func() bool {
			return b.structural(fn())
		}
	}
	return richtext.Keymap{
		"Enter":         handled(b.Split),
		"Tab":           handled(b.Indent),
		"Shift-Tab":     handled(b.Outdent),
		"Mod-z":         handled(b.Undo),
		"Mod-y":         handled(b.Redo),
		"Mod-Shift-z":   handled(b.Redo),
		"ArrowUp":       handled(nav(b.store.FocusPrev)),
		"ArrowDown":     handled(nav(b.store.FocusNext)),
		"Mod-ArrowUp":   handled(nav(b.store.FocusPrev)),
		"Mod-ArrowDown": handled(nav(b.store.FocusNext)),
		"Alt-ArrowUp":   handled(focused(b.store.MoveNodeUp)),
		"Alt-ArrowDown": handled(focused(b.store.MoveNodeDown)),
		"Mod-t":         handled(focused(b.store.ToggleExpandNode)),
		"Mod-x":         handled(focused(b.store.DeleteNode)),

		// Ctrl-I arrives as Tab in a terminal
		"Mod-b": richtext.ToggleMark(richtext.Strong()),
		"Alt-i": richtext.ToggleMark(richtext.Em()),
		"Alt-u": richtext.ToggleMark(richtext.Underline()),
		"Alt-s": richtext.ToggleMark(richtext.Strike()),
		"Alt-c": richtext.ToggleMark(richtext.Code()),
	}
}

func (b *Bridge) detachedKeymap() richtext.Keymap {
	cmd := func(fn func() bool) richtext.Command {
		return func(*richtext.Editor) bool {
			fn()
			return true
		}
	}
	next := func() bool { return b.structural(b.store.FocusNext()) }
	prev := func() bool { return b.structural(b.store.FocusPrev()) }
	km := richtext.Keymap{
		"ArrowDown":     cmd(next),
		"Mod-ArrowDown": cmd(next),
		"ArrowUp":       cmd(prev),
		"Mod-ArrowUp":   cmd(prev),
		"Mod-z":         cmd(b.Undo),
		"Mod-y":         cmd(b.Redo),
		"Mod-Shift-z":   cmd(b.Redo),
	}
	out := make(richtext.Keymap, len(km))
	for name, c := range km {
		out[richtext.NormalizeKeyName(name)] = c
	}
	return out
}
