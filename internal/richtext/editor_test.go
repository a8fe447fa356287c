package richtext

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEditor(t *testing.T, doc Doc, opts ...Option) (*Editor, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	e, err := NewEditor(NewSurface("test"), doc, opts...)
	require.NoError(t, err)
	return e, clock
}

func typeText(e *Editor, text string) {
	for _, r := range text {
		e.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func key(k tcell.Key, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, mod)
}

func TestTypingReportsTransactions(t *testing.T) {
	var docs []string
	var last Selection
	e, _ := newTestEditor(t, NewParagraph(""), WithTransactionHandler(func(doc Doc, sel Selection) {
		docs = append(docs, doc.PlainText())
		last = sel
	}))

	typeText(e, "Hi")

	assert.Equal(t, []string{"H", "Hi"}, docs)
	assert.Equal(t, Cursor(2), last)
	assert.Equal(t, "Hi", e.State().Doc.PlainText())
}

func TestSurfaceOwnership(t *testing.T) {
	surface := NewSurface("node")
	first, err := NewEditor(surface, NewParagraph("a"))
	require.NoError(t, err)
	assert.True(t, surface.Busy())
	assert.Same(t, first, surface.owner)

	_, err = NewEditor(surface, NewParagraph("b"))
	require.ErrorIs(t, err, ErrSurfaceBusy)

	first.Destroy()
	assert.False(t, surface.Busy())
	assert.True(t, first.destroyed)

	second, err := NewEditor(surface, NewParagraph("b"))
	require.NoError(t, err)
	assert.Same(t, second, surface.owner)

	// destroying a stale editor does not release the new owner
	first.Destroy()
	assert.Same(t, second, surface.owner)
}

func TestDestroyedEditorIgnoresInput(t *testing.T) {
	calls := 0
	e, _ := newTestEditor(t, NewParagraph("x"), WithTransactionHandler(func(Doc, Selection) { calls++ }))
	e.Destroy()

	assert.False(t, e.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	e.Dispatch(e.State().Tr().InsertText("y", 0, 0))
	assert.Equal(t, 0, calls)
	assert.Equal(t, "x", e.State().Doc.PlainText())
}

func TestLocalUndoGroupsByTime(t *testing.T) {
	e, clock := newTestEditor(t, NewParagraph(""))

	typeText(e, "ab")
	clock.Advance(time.Second)
	typeText(e, "c")
	assert.Len(t, e.done, 2)

	require.True(t, e.Undo())
	assert.Equal(t, "ab", e.State().Doc.PlainText())
	require.True(t, e.Undo())
	assert.Equal(t, "", e.State().Doc.PlainText())
	assert.False(t, e.Undo())

	require.True(t, e.Redo())
	assert.Equal(t, "ab", e.State().Doc.PlainText())
	assert.Len(t, e.done, 1)
	assert.Len(t, e.undone, 1)

	// a new edit clears the redo stack
	typeText(e, "x")
	assert.Empty(t, e.undone)
	assert.False(t, e.Redo())
}

func TestSelectionChangesAreNotUndoable(t *testing.T) {
	e, _ := newTestEditor(t, NewParagraph("hello"))
	e.SetSelection(Cursor(3))
	e.HandleKey(key(tcell.KeyLeft, tcell.ModNone))

	assert.Equal(t, Cursor(2), e.State().Selection)
	assert.Empty(t, e.done)
}

func TestKeymapPriority(t *testing.T) {
	enter := 0
	e, _ := newTestEditor(t, NewParagraph("ab"),
		WithKeymap(Keymap{
			"Enter":     func(*Editor) bool { enter++; return true },
			"Backspace": func(*Editor) bool { return false },
		}),
	)
	e.SetSelection(Cursor(2))

	assert.True(t, e.HandleKey(key(tcell.KeyEnter, tcell.ModNone)))
	assert.Equal(t, 1, enter)
	assert.Equal(t, "ab", e.State().Doc.PlainText())

	// a command returning false falls through to the base keymap
	assert.True(t, e.HandleKey(key(tcell.KeyBackspace2, tcell.ModNone)))
	assert.Equal(t, "a", e.State().Doc.PlainText())
}

func TestDeleteCommands(t *testing.T) {
	e, _ := newTestEditor(t, NewParagraph("hello"))

	assert.False(t, DeleteBackward(e), "nothing before the start")

	e.SetSelection(Range(1, 3))
	require.True(t, DeleteForward(e))
	assert.Equal(t, "hlo", e.State().Doc.PlainText())
	assert.Equal(t, Cursor(1), e.State().Selection)

	require.True(t, DeleteToEnd(e))
	assert.Equal(t, "h", e.State().Doc.PlainText())
	assert.False(t, DeleteForward(e))

	require.True(t, DeleteToStart(e))
	assert.Equal(t, "", e.State().Doc.PlainText())
}

func TestShiftArrowExtendsSelection(t *testing.T) {
	e, _ := newTestEditor(t, NewParagraph("hello"))
	e.SetSelection(Cursor(1))

	e.HandleKey(key(tcell.KeyRight, tcell.ModShift))
	e.HandleKey(key(tcell.KeyRight, tcell.ModShift))
	assert.Equal(t, Range(1, 3), e.State().Selection)

	e.HandleKey(key(tcell.KeyLeft, tcell.ModNone))
	assert.Equal(t, Cursor(1), e.State().Selection)

	e.HandleKey(key(tcell.KeyEnd, tcell.ModNone))
	assert.Equal(t, Cursor(5), e.State().Selection)
}

func TestToggleMarkOnRange(t *testing.T) {
	e, _ := newTestEditor(t, NewParagraph("Hello"))
	e.SetSelection(Range(0, 5))

	require.True(t, ToggleMark(Strong())(e))
	assert.True(t, e.State().Doc.RangeHasMark(0, 5, MarkStrong))

	require.True(t, ToggleMark(Strong())(e))
	assert.False(t, e.State().Doc.RangeHasMark(0, 5, MarkStrong))
}

func TestToggleMarkOnCursorAffectsNextInput(t *testing.T) {
	e, _ := newTestEditor(t, NewParagraph("ab"))
	e.SetSelection(Cursor(2))

	require.True(t, ToggleMark(Em())(e))
	typeText(e, "c")

	doc := e.State().Doc
	require.Len(t, doc.Content, 2)
	assert.Equal(t, "c", doc.Content[1].Text)
	assert.True(t, HasMark(doc.Content[1].Marks, MarkEm))

	// typing continues the marks of the text before the cursor
	typeText(e, "d")
	assert.Equal(t, "cd", e.State().Doc.Content[1].Text)
}

func TestInsertTextDoesNotExtendLinks(t *testing.T) {
	e, _ := newTestEditor(t, Doc{Type: BlockParagraph, Content: []Inline{Text("go", Link("https://go.dev"), Strong())}})
	e.SetSelection(Cursor(2))
	typeText(e, "!")

	doc := e.State().Doc
	require.Len(t, doc.Content, 2)
	assert.Equal(t, []Mark{Strong()}, doc.Content[1].Marks)
}

func TestSetMarkNeedsSelection(t *testing.T) {
	e, _ := newTestEditor(t, NewParagraph("site"))
	assert.False(t, SetMark(Link("https://example.com"))(e))

	e.SetSelection(Range(0, 4))
	require.True(t, SetMark(Link("https://example.com"))(e))
	assert.True(t, e.State().Doc.RangeHasMark(0, 4, MarkLink))
}

func TestHardBreakAndBlockType(t *testing.T) {
	e, _ := newTestEditor(t, NewParagraph("ab"))
	e.SetSelection(Cursor(1))

	require.True(t, e.HandleKey(key(tcell.KeyEnter, tcell.ModShift)))
	assert.Equal(t, "a\nb", e.State().Doc.PlainText())
	assert.Equal(t, Cursor(2), e.State().Selection)

	require.True(t, SetBlockType(BlockHeading, &BlockAttrs{Level: 1})(e))
	assert.Equal(t, BlockHeading, e.State().Doc.Type)
	assert.False(t, SetBlockType(BlockHeading, &BlockAttrs{Level: 1})(e))
}
