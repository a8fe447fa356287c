package bridge

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned for action names and values outside the
// Action enumeration
var ErrUnknownAction = errors.New("unknown action")

// Action is a formatting, structural or command action that can be
// dispatched to the bridge
type Action int

const (
	ActionBold Action = iota
	ActionItalic
	ActionUnderline
	ActionStrike
	ActionCode
	ActionLink
	ActionColor
	ActionInsertImage
	ActionInsertLink
	ActionParagraph
	ActionHeading
	ActionSplit
	ActionIndent
	ActionOutdent
	ActionDelete
	ActionToggleExpand
	ActionMoveUp
	ActionMoveDown
	ActionInsertBelow
	ActionInsertAbove
	ActionInsertChild
	ActionUndo
	ActionRedo
	ActionFocusNextNode
	ActionFocusPrevNode
	ActionToggleFullScreen

	actionCount
)

var actionNames = [actionCount]string{
	ActionBold:             "bold",
	ActionItalic:           "italic",
	ActionUnderline:        "underline",
	ActionStrike:           "strike",
	ActionCode:             "code",
	ActionLink:             "link",
	ActionColor:            "color",
	ActionInsertImage:      "insert-image",
	ActionInsertLink:       "insert-link",
	ActionParagraph:        "paragraph",
	ActionHeading:          "heading",
	ActionSplit:            "split",
	ActionIndent:           "indent",
	ActionOutdent:          "outdent",
	ActionDelete:           "delete",
	ActionToggleExpand:     "toggle",
	ActionMoveUp:           "move-up",
	ActionMoveDown:         "move-down",
	ActionInsertBelow:      "insert-below",
	ActionInsertAbove:      "insert-above",
	ActionInsertChild:      "insert-child",
	ActionUndo:             "undo",
	ActionRedo:             "redo",
	ActionFocusNextNode:    "focus-next",
	ActionFocusPrevNode:    "focus-prev",
	ActionToggleFullScreen: "fullscreen",
}

// String returns the action name
func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Valid reports whether a is one of the defined actions
func (a Action) Valid() bool {
	return a >= 0 && a < actionCount
}

// Actions returns every defined action
func Actions() []Action {
	out := make([]Action, actionCount)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// ParseAction looks up an action by name
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
