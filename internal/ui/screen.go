package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tuo-notes/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	Theme       *theme.Theme
}

// NewScreen creates and initializes a terminal screen with a theme
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom wraps an existing tcell screen, for example a simulation
// screen in tests
func NewScreenFrom(s tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}
	return &Screen{tcellScreen: s, Theme: t}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Suspend releases terminal control temporarily
func (s *Screen) Suspend() error {
	return s.tcellScreen.Suspend()
}

// Resume restores terminal control after suspension
func (s *Screen) Resume() error {
	return s.tcellScreen.Resume()
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position and returns the number of
// columns the rune occupies
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) int {
	w, h := s.tcellScreen.Size()
	if x >= 0 && x < w && y >= 0 && y < h {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
	return RuneWidth(r)
}

// DrawString draws a string at the given position and returns its width
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	start := x
	for _, r := range text {
		x += s.SetCell(x, y, r, style)
	}
	return x - start
}

// DrawStringLimited draws a string, truncating it to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, TruncateToWidth(text, maxWidth), style)
}

// FillLine clears a row from x to the right edge
func (s *Screen) FillLine(x, y int, style tcell.Style) {
	w, _ := s.tcellScreen.Size()
	for ; x < w; x++ {
		s.tcellScreen.SetContent(x, y, ' ', nil, style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// PostEvent queues an event for the event loop
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.tcellScreen.PostEvent(ev)
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	return s.tcellScreen.Size()
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse()
}

// Theme-aware styles

// TreeTextStyle returns the style for unfocused node text
func (s *Screen) TreeTextStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.TreeText)
}

// BulletStyle returns the style of a node's bullet
func (s *Screen) BulletStyle(focused, collapsed, matched bool) tcell.Style {
	c := s.Theme.Colors.TreeBullet
	switch {
	case matched:
		c = s.Theme.Colors.SearchMatch
	case collapsed:
		c = s.Theme.Colors.TreeCollapsedArrow
	case focused:
		c = s.Theme.Colors.TreeFocused
	}
	style := theme.ColorToStyle(c)
	if focused {
		style = style.Bold(true)
	}
	return style
}

// SelectionStyle marks a style as selected text
func (s *Screen) SelectionStyle(base tcell.Style) tcell.Style {
	return base.Background(s.Theme.Colors.SelectionBg)
}

// CursorStyle returns the style of the editor cursor cell
func (s *Screen) CursorStyle(base tcell.Style) tcell.Style {
	if s.Theme.Colors.EditorCursor == tcell.ColorDefault {
		return base.Reverse(true)
	}
	return base.Background(s.Theme.Colors.EditorCursor)
}

// PlaceholderStyle returns the style for placeholder text
func (s *Screen) PlaceholderStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.PlaceholderFg).Dim(true)
}

// CommandPromptStyle returns the style for command prompt
func (s *Screen) CommandPromptStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.CommandPrompt)
}

// CommandTextStyle returns the style for command text
func (s *Screen) CommandTextStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.CommandText)
}

// StatusModeStyle returns the style for mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusMode).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusMessage)
}

// StatusModifiedStyle returns the style for modified indicator
func (s *Screen) StatusModifiedStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusModified)
}

// HeaderStyle returns the style for header title
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.HeaderTitle).Bold(true)
}
