package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Tree view colors
	TreeText           tcell.Color
	TreeFocused        tcell.Color
	TreeBullet         tcell.Color
	TreeCollapsedArrow tcell.Color
	TreeHeading        tcell.Color

	// Rich text colors
	MarkCode      tcell.Color
	MarkLink      tcell.Color
	SelectionBg   tcell.Color
	EditorCursor  tcell.Color
	SearchMatch   tcell.Color
	PlaceholderFg tcell.Color

	// Command line colors
	CommandPrompt tcell.Color
	CommandText   tcell.Color

	// Status line colors
	StatusMode     tcell.Color
	StatusMessage  tcell.Color
	StatusModified tcell.Color

	// Header colors
	HeaderTitle tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			TreeText:           tcell.ColorDefault,
			TreeFocused:        tcell.ColorDefault,
			TreeBullet:         tcell.ColorDefault,
			TreeCollapsedArrow: tcell.ColorDefault,
			TreeHeading:        tcell.ColorDefault,
			MarkCode:           tcell.ColorDefault,
			MarkLink:           tcell.ColorDefault,
			SelectionBg:        tcell.ColorGray,
			EditorCursor:       tcell.ColorDefault,
			SearchMatch:        tcell.ColorDefault,
			PlaceholderFg:      tcell.ColorGray,
			CommandPrompt:      tcell.ColorDefault,
			CommandText:        tcell.ColorDefault,
			StatusMode:         tcell.ColorDefault,
			StatusMessage:      tcell.ColorDefault,
			StatusModified:     tcell.ColorDefault,
			HeaderTitle:        tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			TreeText:           HexToColor("#c0caf5"), // Light gray-blue
			TreeFocused:        HexToColor("#7aa2f7"), // Blue
			TreeBullet:         HexToColor("#7dcfff"), // Cyan
			TreeCollapsedArrow: HexToColor("#7dcfff"),
			TreeHeading:        HexToColor("#bb9af7"), // Magenta
			MarkCode:           HexToColor("#9ece6a"), // Green
			MarkLink:           HexToColor("#7dcfff"),
			SelectionBg:        HexToColor("#33467c"),
			EditorCursor:       HexToColor("#7aa2f7"),
			SearchMatch:        HexToColor("#e0af68"), // Yellow
			PlaceholderFg:      HexToColor("#565f89"), // Comment gray
			CommandPrompt:      HexToColor("#bb9af7"),
			CommandText:        HexToColor("#c0caf5"),
			StatusMode:         HexToColor("#bb9af7"),
			StatusMessage:      HexToColor("#9ece6a"),
			StatusModified:     HexToColor("#f7768e"), // Red
			HeaderTitle:        HexToColor("#bb9af7"),
		},
	}
}
