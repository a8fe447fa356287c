package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration. Colors are keyed
// by the snake_case color name, e.g. tree_text or mark_link.
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
}

func colorFields(c *Colors) map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"tree_text":            &c.TreeText,
		"tree_focused":         &c.TreeFocused,
		"tree_bullet":          &c.TreeBullet,
		"tree_collapsed_arrow": &c.TreeCollapsedArrow,
		"tree_heading":         &c.TreeHeading,
		"mark_code":            &c.MarkCode,
		"mark_link":            &c.MarkLink,
		"selection_bg":         &c.SelectionBg,
		"editor_cursor":        &c.EditorCursor,
		"search_match":         &c.SearchMatch,
		"placeholder":          &c.PlaceholderFg,
		"command_prompt":       &c.CommandPrompt,
		"command_text":         &c.CommandText,
		"status_mode":          &c.StatusMode,
		"status_message":       &c.StatusMessage,
		"status_modified":      &c.StatusModified,
		"header_title":         &c.HeaderTitle,
	}
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "tuo-notes", "themes"),
		filepath.Join(home, ".local", "share", "tuo-notes", "themes"),
	}
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"
	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	return configToTheme(config)
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}
	return LoadThemeFromFile(filePath)
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo
// Night for missing colors. Unknown color names are an error.
func configToTheme(config ThemeConfig) (*Theme, error) {
	t := TokyoNight()
	fields := colorFields(&t.Colors)
	for name, value := range config.Colors {
		field, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("unknown theme color %q", name)
		}
		*field = ParseColorString(value)
	}
	if config.Name != "" {
		t.Name = config.Name
	}
	return t, nil
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}
	return theme
}
