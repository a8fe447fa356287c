package richtext

// EditorState is an immutable document plus selection
type EditorState struct {
	Doc         Doc
	Selection   Selection
	StoredMarks []Mark
}

// NewState creates a state with the cursor at the start of doc
func NewState(doc Doc) EditorState {
	return EditorState{Doc: doc, Selection: Cursor(0)}
}

// Tr starts a transaction on the state
func (s EditorState) Tr() *Transaction {
	return &Transaction{
		before:       s,
		doc:          s.Doc,
		sel:          s.Selection,
		storedMarks:  s.StoredMarks,
		addToHistory: true,
	}
}

// Apply returns the state produced by a transaction
func (s EditorState) Apply(tr *Transaction) EditorState {
	return EditorState{
		Doc:         tr.doc,
		Selection:   tr.sel.Clamp(tr.doc.Size()),
		StoredMarks: tr.storedMarks,
	}
}

// Transaction describes a change to an EditorState. Steps are applied in the
// order they are added; the selection is mapped through document changes
// unless it is set explicitly afterwards.
type Transaction struct {
	before       EditorState
	doc          Doc
	sel          Selection
	storedMarks  []Mark
	docChanged   bool
	selSet       bool
	addToHistory bool
}

// Replace replaces from..to with inline content
func (tr *Transaction) Replace(from, to int, content ...Inline) *Transaction {
	size := tr.doc.Size()
	from = clamp(from, 0, size)
	to = clamp(to, from, size)
	n := 0
	for _, in := range content {
		n += in.size()
	}
	tr.doc = tr.doc.Replace(from, to, content...)
	tr.sel = Range(mapReplace(tr.sel.Anchor, from, to, n), mapReplace(tr.sel.Head, from, to, n))
	tr.docChanged = true
	tr.storedMarks = nil
	return tr
}

// InsertText inserts text with the given marks, replacing from..to
func (tr *Transaction) InsertText(text string, from, to int, marks ...Mark) *Transaction {
	if text == "" {
		return tr.Delete(from, to)
	}
	return tr.Replace(from, to, Text(text, marks...))
}

// Delete removes from..to
func (tr *Transaction) Delete(from, to int) *Transaction {
	if from == to {
		return tr
	}
	return tr.Replace(from, to)
}

// AddMark adds a mark to from..to
func (tr *Transaction) AddMark(from, to int, m Mark) *Transaction {
	if from == to {
		return tr
	}
	tr.doc = tr.doc.AddMark(from, to, m)
	tr.docChanged = true
	return tr
}

// RemoveMark removes marks of type t from from..to
func (tr *Transaction) RemoveMark(from, to int, t MarkType) *Transaction {
	if from == to {
		return tr
	}
	tr.doc = tr.doc.RemoveMark(from, to, t)
	tr.docChanged = true
	return tr
}

// SetBlockType changes the block wrapping the content
func (tr *Transaction) SetBlockType(t BlockType, attrs *BlockAttrs) *Transaction {
	tr.doc = tr.doc.WithBlockType(t, attrs)
	tr.docChanged = true
	return tr
}

// ReplaceDoc swaps the whole document
func (tr *Transaction) ReplaceDoc(doc Doc) *Transaction {
	tr.doc = doc
	tr.docChanged = true
	tr.sel = tr.sel.Clamp(doc.Size())
	return tr
}

// SetSelection sets the selection
func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	tr.sel = sel.Clamp(tr.doc.Size())
	tr.selSet = true
	tr.storedMarks = nil
	return tr
}

// SetStoredMarks sets the marks applied to the next inserted text
func (tr *Transaction) SetStoredMarks(marks []Mark) *Transaction {
	tr.storedMarks = marks
	return tr
}

// SetAddToHistory controls whether the engine's local undo stack records
// this transaction
func (tr *Transaction) SetAddToHistory(add bool) *Transaction {
	tr.addToHistory = add
	return tr
}

// Doc returns the document after the transaction
func (tr *Transaction) Doc() Doc { return tr.doc }

// Selection returns the selection after the transaction
func (tr *Transaction) Selection() Selection { return tr.sel }

// DocChanged reports whether any step changed the document
func (tr *Transaction) DocChanged() bool { return tr.docChanged }

// Before returns the state the transaction started from
func (tr *Transaction) Before() EditorState { return tr.before }
