package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tuo-notes/internal/locator"
	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

const (
	bulletLeaf      = '•'
	bulletExpanded  = '▾'
	bulletCollapsed = '▸'
	hardBreakGlyph  = '↵'
	indentWidth     = 2
)

// EmptyPlaceholder is shown when the outline has no nodes
const EmptyPlaceholder = "Empty outline. Type :action insert-below to start."

// Rect is a screen area
type Rect struct {
	X, Y, W, H int
}

// Live is the state of the live editor drawn in place of the focused node
type Live struct {
	NodeID string
	State  richtext.EditorState
}

// row records where a node was drawn, for pointer hit tests
type row struct {
	y    int
	id   string
	cols []int // screen column where each position starts, plus the end
}

// TreeView renders the outline one node per row and keeps the focused node
// in view
type TreeView struct {
	screen  *Screen
	top     int
	rows    []row
	matches map[string]bool
}

// NewTreeView creates a tree renderer drawing on screen
func NewTreeView(screen *Screen) *TreeView {
	return &TreeView{screen: screen}
}

// SetMatches highlights the bullets of the given nodes. nil clears the
// highlight.
func (tv *TreeView) SetMatches(ids []string) {
	if len(ids) == 0 {
		tv.matches = nil
		return
	}
	tv.matches = make(map[string]bool, len(ids))
	for _, id := range ids {
		tv.matches[id] = true
	}
}

// Render draws the visible nodes of tree in area. When live is set, the
// node it names is drawn from the editor state with its selection and
// cursor.
func (tv *TreeView) Render(tree model.Tree, focusID string, live *Live, area Rect) {
	tv.rows = tv.rows[:0]
	if area.H <= 0 || area.W <= 0 {
		return
	}
	for y := area.Y; y < area.Y+area.H; y++ {
		tv.screen.FillLine(area.X, y, tcell.StyleDefault)
	}

	visible := locator.VisibleNodes(tree)
	if len(visible) == 0 {
		tv.screen.DrawStringLimited(area.X, area.Y, EmptyPlaceholder, area.W, tv.screen.PlaceholderStyle())
		return
	}
	tv.scrollTo(visible, focusID, area.H)

	for i := tv.top; i < len(visible) && i-tv.top < area.H; i++ {
		v := visible[i]
		y := area.Y + i - tv.top
		x := area.X + v.Depth*indentWidth
		focused := v.Node.ID == focusID

		bullet := bulletLeaf
		if v.Node.HasChildren() {
			bullet = bulletExpanded
			if !v.Node.IsExpanded() {
				bullet = bulletCollapsed
			}
		}
		tv.screen.SetCell(x, y, bullet, tv.screen.BulletStyle(focused, bullet == bulletCollapsed, tv.matches[v.Node.ID]))
		x += indentWidth

		doc := v.Node.Content
		var sel *richtext.Selection
		if live != nil && live.NodeID == v.Node.ID {
			doc = live.State.Doc
			s := live.State.Selection.Clamp(doc.Size())
			sel = &s
		}
		cols := tv.drawDoc(doc, sel, x, y, area.X+area.W)
		tv.rows = append(tv.rows, row{y: y, id: v.Node.ID, cols: cols})
	}
}

// scrollTo moves the viewport so the focused node is visible
func (tv *TreeView) scrollTo(visible []locator.VisibleNode, focusID string, height int) {
	idx := -1
	for i, v := range visible {
		if v.Node.ID == focusID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		if idx < tv.top {
			tv.top = idx
		} else if idx >= tv.top+height {
			tv.top = idx - height + 1
		}
	}
	if tv.top > len(visible)-1 {
		tv.top = max(len(visible)-1, 0)
	}
}

// drawDoc draws inline content starting at x and returns the column of
// every position. Drawing stops at limit; positions past it get the limit
// column.
func (tv *TreeView) drawDoc(doc richtext.Doc, sel *richtext.Selection, x, y, limit int) []int {
	th := tv.screen.Theme
	base := th.BlockStyle(doc)
	cols := make([]int, 0, doc.Size()+1)
	pos := 0

	// cell draws the glyphs of one position
	cell := func(glyphs string, style tcell.Style) {
		if sel != nil {
			if !sel.Empty() && pos >= sel.From() && pos < sel.To() {
				style = tv.screen.SelectionStyle(style)
			} else if sel.Empty() && pos == sel.Head {
				style = tv.screen.CursorStyle(style)
			}
		}
		cols = append(cols, min(x, limit))
		for _, r := range glyphs {
			if x+RuneWidth(r) <= limit {
				tv.screen.SetCell(x, y, r, style)
			}
			x += RuneWidth(r)
		}
		pos++
	}

	for _, in := range doc.Content {
		switch in.Type {
		case richtext.InlineText:
			style := th.MarkStyle(base, in.Marks)
			for _, r := range in.Text {
				cell(string(r), style)
			}
		case richtext.InlineHardBreak:
			cell(string(hardBreakGlyph), tv.screen.PlaceholderStyle())
		case richtext.InlineImage:
			cell(imageLabel(in), tv.screen.PlaceholderStyle())
		}
	}

	cols = append(cols, min(x, limit))
	if sel != nil && sel.Empty() && sel.Head == pos && x < limit {
		tv.screen.SetCell(x, y, ' ', tv.screen.CursorStyle(base))
	}
	return cols
}

func imageLabel(in richtext.Inline) string {
	if alt := in.Attrs["alt"]; alt != "" {
		return "[image: " + alt + "]"
	}
	return "[image]"
}

// HitTest maps a screen position to the node drawn there and the text
// position under the pointer. Clicks left of the text map to position 0
// and clicks past the end to the end of the text.
func (tv *TreeView) HitTest(x, y int) (id string, offset int, ok bool) {
	for _, r := range tv.rows {
		if r.y == y {
			return r.id, OffsetAtColumn(r.cols, x), true
		}
	}
	return "", 0, false
}

// Top returns the index of the first visible node in the viewport
func (tv *TreeView) Top() int {
	return tv.top
}
