package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color
	Highlight     lipgloss.Color // active table in the tree

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableRowEven     lipgloss.Color
	TableRowOdd      lipgloss.Color
	TableRowSelected lipgloss.Color
	Null             lipgloss.Color
	Number           lipgloss.Color

	// Tree colors
	RootIcon  lipgloss.Color
	GroupIcon lipgloss.Color
	TableIcon lipgloss.Color
	Metadata  lipgloss.Color
}

var themes = map[string]func() Theme{
	"default":          DefaultTheme,
	"catppuccin-mocha": CatppuccinMochaTheme,
	"catppuccin":       CatppuccinMochaTheme,
}

// GetTheme returns a theme by name, the default theme for unknown names
func GetTheme(name string) Theme {
	if fn, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn()
	}
	return DefaultTheme()
}

// Names returns the known theme names
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
