package bridge

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/richtext"
)

type handler func(b *Bridge, arg string) error

// handlers has an entry for every Action
var handlers = [actionCount]handler{
	ActionBold:             markHandler(richtext.Strong()),
	ActionItalic:           markHandler(richtext.Em()),
	ActionUnderline:        markHandler(richtext.Underline()),
	ActionStrike:           markHandler(richtext.Strike()),
	ActionCode:             markHandler(richtext.Code()),
	ActionLink:             (*Bridge).setLink,
	ActionColor:            (*Bridge).setColor,
	ActionInsertImage:      (*Bridge).insertImage,
	ActionInsertLink:       (*Bridge).insertLink,
	ActionParagraph:        (*Bridge).setParagraph,
	ActionHeading:          (*Bridge).setHeading,
	ActionSplit:            focusedHandler((*Bridge).Split),
	ActionIndent:           focusedHandler((*Bridge).Indent),
	ActionOutdent:          focusedHandler((*Bridge).Outdent),
	ActionDelete:           nodeHandler(func(b *Bridge, id string) bool { return b.store.DeleteNode(id) }),
	ActionToggleExpand:     nodeHandler(func(b *Bridge, id string) bool { return b.store.ToggleExpandNode(id) }),
	ActionMoveUp:           nodeHandler(func(b *Bridge, id string) bool { return b.store.MoveNodeUp(id) }),
	ActionMoveDown:         nodeHandler(func(b *Bridge, id string) bool { return b.store.MoveNodeDown(id) }),
	ActionInsertBelow:      nodeHandler(func(b *Bridge, id string) bool { return b.store.InsertNodeBelow(id) }),
	ActionInsertAbove:      nodeHandler(func(b *Bridge, id string) bool { return b.store.InsertNodeAbove(id) }),
	ActionInsertChild:      nodeHandler(func(b *Bridge, id string) bool { return b.store.InsertChildNode(id) }),
	ActionUndo:             commandHandler((*Bridge).Undo),
	ActionRedo:             commandHandler((*Bridge).Redo),
	ActionFocusNextNode:    commandHandler(func(b *Bridge) bool { return b.structural(b.store.FocusNext()) }),
	ActionFocusPrevNode:    commandHandler(func(b *Bridge) bool { return b.structural(b.store.FocusPrev()) }),
	ActionToggleFullScreen: (*Bridge).toggleFullScreen,
}

// Dispatch runs an action. arg carries the action's parameter: the href of
// a link, a color, an image source or a heading level. Actions that cannot
// apply, such as an undo with empty history, are no-ops.
func (b *Bridge) Dispatch(action Action, arg string) error {
	if !action.Valid() || handlers[action] == nil {
		b.logger.Warn("rejected action", zap.Int("action", int(action)))
		return fmt.Errorf("%w: %v", ErrUnknownAction, action)
	}
	b.logger.Debug("dispatch action", zap.Stringer("action", action), zap.String("arg", arg))
	return handlers[action](b, arg)
}

// DispatchName parses and runs an action
func (b *Bridge) DispatchName(name, arg string) error {
	action, err := ParseAction(name)
	if err != nil {
		b.logger.Warn("rejected action", zap.String("name", name))
		return err
	}
	return b.Dispatch(action, arg)
}

func markHandler(m richtext.Mark) handler {
	return func(b *Bridge, _ string) error {
		return b.run(richtext.ToggleMark(m))
	}
}

func focusedHandler(fn func(b *Bridge) bool) handler {
	return func(b *Bridge, _ string) error {
		if b.store.Focused() == nil {
			return ErrNoFocus
		}
		fn(b)
		return nil
	}
}

func nodeHandler(fn func(b *Bridge, id string) bool) handler {
	return func(b *Bridge, _ string) error {
		if b.store.Focused() == nil {
			return ErrNoFocus
		}
		b.structural(fn(b, b.store.FocusID()))
		return nil
	}
}

func commandHandler(fn func(b *Bridge) bool) handler {
	return func(b *Bridge, _ string) error {
		fn(b)
		return nil
	}
}

// run applies an editor command to the live editor
func (b *Bridge) run(cmd richtext.Command) error {
	if b.editor == nil {
		return ErrNoFocus
	}
	cmd(b.editor)
	return nil
}

func (b *Bridge) setLink(href string) error {
	if href == "" {
		return errors.New("link needs an href")
	}
	return b.run(richtext.SetMark(richtext.Link(href)))
}

func (b *Bridge) setColor(color string) error {
	c, err := colorful.Hex(color)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", color, err)
	}
	if b.editor == nil {
		return ErrNoFocus
	}
	if b.editor.State().Selection.Empty() {
		b.logger.Warn("color needs a selection", zap.String("color", color))
		return nil
	}
	return b.run(richtext.SetMark(richtext.Color(c.Hex())))
}

func (b *Bridge) insertImage(src string) error {
	if src == "" {
		return errors.New("image needs a source")
	}
	return b.run(richtext.InsertInline(richtext.Image(src, "")))
}

func (b *Bridge) insertLink(href string) error {
	if href == "" {
		return errors.New("link needs an href")
	}
	return b.run(func(e *richtext.Editor) bool {
		s := e.State()
		from, to := s.Selection.From(), s.Selection.To()
		text := href
		if from != to {
			text = s.Doc.Cut(from, to).PlainText()
		}
		tr := s.Tr().InsertText(text, from, to, richtext.Link(href))
		tr.SetSelection(richtext.Cursor(from + richtext.NewParagraph(text).Size()))
		e.Dispatch(tr)
		return true
	})
}

func (b *Bridge) setParagraph(string) error {
	return b.run(richtext.SetBlockType(richtext.BlockParagraph, nil))
}

func (b *Bridge) setHeading(arg string) error {
	level := 1
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > 6 {
			return fmt.Errorf("invalid heading level %q", arg)
		}
		level = n
	}
	return b.run(richtext.SetBlockType(richtext.BlockHeading, &richtext.BlockAttrs{Level: level}))
}

func (b *Bridge) toggleFullScreen(string) error {
	if b.onFullScreen != nil {
		b.onFullScreen()
	}
	return nil
}
