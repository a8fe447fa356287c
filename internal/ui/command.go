package ui

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// CommandLine manages `:command` input
type CommandLine struct {
	active  bool
	input   []rune
	cursor  int
	history *InputHistory
}

// NewCommandLine creates a command line recalling entries from h
func NewCommandLine(h *InputHistory) *CommandLine {
	if h == nil {
		h = NewInputHistory(50)
	}
	return &CommandLine{history: h}
}

// Start enters command mode with optional prefilled input
func (c *CommandLine) Start(prefill string) {
	c.active = true
	c.input = []rune(prefill)
	c.cursor = len(c.input)
	c.history.Reset()
}

// Stop exits command mode
func (c *CommandLine) Stop() {
	c.active = false
}

// IsActive returns whether command mode is active
func (c *CommandLine) IsActive() bool {
	return c.active
}

// Input returns the current input
func (c *CommandLine) Input() string {
	return string(c.input)
}

// HandleKey processes a key press. done is true when the command line
// closed; command is the submitted input, empty when cancelled.
func (c *CommandLine) HandleKey(ev *tcell.EventKey) (command string, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.Stop()
		return "", true
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(string(c.input))
		_ = c.history.Add(cmd)
		c.Stop()
		return cmd, true
	case tcell.KeyUp:
		if prev, ok := c.history.Previous(string(c.input)); ok {
			c.set(prev)
		}
	case tcell.KeyDown:
		if next, ok := c.history.Next(); ok {
			c.set(next)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.input) == 0 {
			c.Stop()
			return "", true
		}
		if c.cursor > 0 {
			c.input = append(c.input[:c.cursor-1], c.input[c.cursor:]...)
			c.cursor--
		}
	case tcell.KeyDelete:
		if c.cursor < len(c.input) {
			c.input = append(c.input[:c.cursor], c.input[c.cursor+1:]...)
		}
	case tcell.KeyLeft:
		c.cursor = max(c.cursor-1, 0)
	case tcell.KeyRight:
		c.cursor = min(c.cursor+1, len(c.input))
	case tcell.KeyHome, tcell.KeyCtrlA:
		c.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		c.cursor = len(c.input)
	case tcell.KeyCtrlW:
		c.deleteWordBackwards()
	case tcell.KeyCtrlU:
		c.input = append([]rune(nil), c.input[c.cursor:]...)
		c.cursor = 0
	case tcell.KeyCtrlK:
		c.input = c.input[:c.cursor]
	case tcell.KeyRune:
		c.input = append(c.input[:c.cursor], append([]rune{ev.Rune()}, c.input[c.cursor:]...)...)
		c.cursor++
	}
	return "", false
}

func (c *CommandLine) set(s string) {
	c.input = []rune(s)
	c.cursor = len(c.input)
}

func (c *CommandLine) deleteWordBackwards() {
	pos := c.cursor
	for pos > 0 && unicode.IsSpace(c.input[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(c.input[pos-1]) {
		pos--
	}
	c.input = append(c.input[:pos], c.input[c.cursor:]...)
	c.cursor = pos
}

// Render renders the command line on row y
func (c *CommandLine) Render(screen *Screen, y int) {
	if !c.active {
		return
	}
	textStyle := screen.CommandTextStyle()
	x := screen.DrawString(0, y, ":", screen.CommandPromptStyle())
	for i, r := range c.input {
		style := textStyle
		if i == c.cursor {
			style = screen.CursorStyle(textStyle)
		}
		x += screen.SetCell(x, y, r, style)
	}
	if c.cursor >= len(c.input) {
		x += screen.SetCell(x, y, ' ', screen.CursorStyle(textStyle))
	}
	screen.FillLine(x, y, textStyle)
}
