package richtext

import "unicode/utf8"

// BaseKeymap returns the default editing bindings
func BaseKeymap() Keymap {
	return Keymap{
		"Backspace":        DeleteBackward,
		"Delete":           DeleteForward,
		"ArrowLeft":        MoveLeft(false),
		"Shift-ArrowLeft":  MoveLeft(true),
		"ArrowRight":       MoveRight(false),
		"Shift-ArrowRight": MoveRight(true),
		"Home":             MoveToStart(false),
		"Shift-Home":       MoveToStart(true),
		"End":              MoveToEnd(false),
		"Shift-End":        MoveToEnd(true),
		"Mod-a":            MoveToStart(false),
		"Mod-e":            MoveToEnd(false),
		"Mod-u":            DeleteToStart,
		"Mod-k":            DeleteToEnd,
		"Shift-Enter":      InsertInline(HardBreak()),
	}
}

// InsertText replaces the selection with text. The text takes the stored
// marks, or the marks of the text before the cursor except links.
func InsertText(text string) Command {
	return func(e *Editor) bool {
		s := e.state
		from, to := s.Selection.From(), s.Selection.To()
		marks := s.StoredMarks
		if marks == nil {
			marks = removeFromMarkSet(s.Doc.MarksAt(from), MarkLink)
		}
		tr := s.Tr().InsertText(text, from, to, marks...)
		tr.SetSelection(Cursor(from + utf8.RuneCountInString(text)))
		e.Dispatch(tr)
		return true
	}
}

// InsertInline replaces the selection with a single inline node
func InsertInline(in Inline) Command {
	return func(e *Editor) bool {
		s := e.state
		from, to := s.Selection.From(), s.Selection.To()
		tr := s.Tr().Replace(from, to, in)
		tr.SetSelection(Cursor(from + in.size()))
		e.Dispatch(tr)
		return true
	}
}

// DeleteBackward deletes the selection or the position before the cursor
func DeleteBackward(e *Editor) bool {
	s := e.state
	sel := s.Selection
	switch {
	case !sel.Empty():
		e.Dispatch(s.Tr().Delete(sel.From(), sel.To()).SetSelection(Cursor(sel.From())))
	case sel.Head > 0:
		e.Dispatch(s.Tr().Delete(sel.Head-1, sel.Head).SetSelection(Cursor(sel.Head - 1)))
	default:
		return false
	}
	return true
}

// DeleteForward deletes the selection or the position after the cursor
func DeleteForward(e *Editor) bool {
	s := e.state
	sel := s.Selection
	switch {
	case !sel.Empty():
		e.Dispatch(s.Tr().Delete(sel.From(), sel.To()).SetSelection(Cursor(sel.From())))
	case sel.Head < s.Doc.Size():
		e.Dispatch(s.Tr().Delete(sel.Head, sel.Head+1).SetSelection(Cursor(sel.Head)))
	default:
		return false
	}
	return true
}

// DeleteToStart deletes from the start of the document to the cursor
func DeleteToStart(e *Editor) bool {
	s := e.state
	to := s.Selection.To()
	if to == 0 {
		return false
	}
	e.Dispatch(s.Tr().Delete(0, to).SetSelection(Cursor(0)))
	return true
}

// DeleteToEnd deletes from the cursor to the end of the document
func DeleteToEnd(e *Editor) bool {
	s := e.state
	from := s.Selection.From()
	if from == s.Doc.Size() {
		return false
	}
	e.Dispatch(s.Tr().Delete(from, s.Doc.Size()).SetSelection(Cursor(from)))
	return true
}

func moveTo(e *Editor, pos int, extend bool) bool {
	s := e.state
	sel := Cursor(pos)
	if extend {
		sel = Range(s.Selection.Anchor, pos)
	}
	e.Dispatch(s.Tr().SetSelection(sel))
	return true
}

// MoveLeft moves the head one position left, collapsing or extending the
// selection
func MoveLeft(extend bool) Command {
	return func(e *Editor) bool {
		sel := e.state.Selection
		if !extend && !sel.Empty() {
			return moveTo(e, sel.From(), false)
		}
		if sel.Head == 0 {
			return false
		}
		return moveTo(e, sel.Head-1, extend)
	}
}

// MoveRight moves the head one position right
func MoveRight(extend bool) Command {
	return func(e *Editor) bool {
		sel := e.state.Selection
		if !extend && !sel.Empty() {
			return moveTo(e, sel.To(), false)
		}
		if sel.Head >= e.state.Doc.Size() {
			return false
		}
		return moveTo(e, sel.Head+1, extend)
	}
}

// MoveToStart moves the head to the start of the document
func MoveToStart(extend bool) Command {
	return func(e *Editor) bool {
		return moveTo(e, 0, extend)
	}
}

// MoveToEnd moves the head to the end of the document
func MoveToEnd(extend bool) Command {
	return func(e *Editor) bool {
		return moveTo(e, e.state.Doc.Size(), extend)
	}
}

// SelectAll selects the whole document
func SelectAll(e *Editor) bool {
	e.Dispatch(e.state.Tr().SetSelection(Range(0, e.state.Doc.Size())))
	return true
}

// ToggleMark removes a mark of m's type from the selection when any of the
// selection carries it, and adds m otherwise. On a collapsed selection the
// stored marks for the next input are toggled instead.
func ToggleMark(m Mark) Command {
	return func(e *Editor) bool {
		s := e.state
		sel := s.Selection
		if sel.Empty() {
			stored := s.StoredMarks
			if stored == nil {
				stored = removeFromMarkSet(s.Doc.MarksAt(sel.From()), MarkLink)
			}
			if HasMark(stored, m.Type) {
				stored = removeFromMarkSet(stored, m.Type)
			} else {
				stored = addToMarkSet(stored, m)
			}
			if stored == nil {
				stored = []Mark{}
			}
			e.Dispatch(s.Tr().SetStoredMarks(stored))
			return true
		}
		tr := s.Tr()
		if s.Doc.RangeHasMark(sel.From(), sel.To(), m.Type) {
			tr.RemoveMark(sel.From(), sel.To(), m.Type)
		} else {
			tr.AddMark(sel.From(), sel.To(), m)
		}
		e.Dispatch(tr)
		return true
	}
}

// SetMark adds m to the selection, replacing marks of the same type. It
// does nothing on a collapsed selection.
func SetMark(m Mark) Command {
	return func(e *Editor) bool {
		s := e.state
		if s.Selection.Empty() {
			return false
		}
		e.Dispatch(s.Tr().AddMark(s.Selection.From(), s.Selection.To(), m))
		return true
	}
}

// SetBlockType changes the block type of the document
func SetBlockType(t BlockType, attrs *BlockAttrs) Command {
	return func(e *Editor) bool {
		s := e.state
		if s.Doc.Type == t && (attrs == nil) == (s.Doc.Attrs == nil) && (attrs == nil || *attrs == *s.Doc.Attrs) {
			return false
		}
		e.Dispatch(s.Tr().SetBlockType(t, attrs))
		return true
	}
}
