package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// Theme holds every visual style of the front end.
type Theme struct {
	// Board roles, indexed by core.Color.
	Cells map[core.Color]lipgloss.Style

	// Menus and tables
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	Border          lipgloss.Style
	Empty           lipgloss.Style
	Help            lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Cells: map[core.Color]lipgloss.Style{
			core.ColorDefault: lipgloss.NewStyle(),
			core.ColorWall:    fg("240"),
			core.ColorEmpty:   fg("238"),
			core.ColorPipe:    fg("252"),
			core.ColorWater:   fg("39").Bold(true),
			core.ColorSource:  fg("51").Bold(true),
			core.ColorSink:    fg("208").Bold(true),
			core.ColorCursor:  fg("226").Bold(true),
			core.ColorTitle:   fg("51").Bold(true),
			core.ColorMuted:   fg("245"),
			core.ColorWin:     fg("46").Bold(true),
			core.ColorLose:    fg("196").Bold(true),
			core.ColorWarn:    fg("214"),
		},

		MenuTitle:       fg("51").Bold(true),
		MenuItemNormal:  fg("252"),
		MenuItemActive:  fg("226").Bold(true),
		MenuDescription: fg("245"),
		Border:          fg("240"),
		Empty:           fg("241").Italic(true).Padding(2, 4),
		Help:            fg("241"),
	}
}

// NeonTheme returns a high-contrast theme.
func NeonTheme() Theme {
	theme := DefaultTheme()
	theme.Cells[core.ColorPipe] = fg("171")
	theme.Cells[core.ColorWater] = fg("87").Bold(true)
	theme.Cells[core.ColorSource] = fg("118").Bold(true)
	theme.Cells[core.ColorSink] = fg("199").Bold(true)
	theme.MenuTitle = fg("199").Bold(true)
	return theme
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	for c := range theme.Cells {
		theme.Cells[c] = lipgloss.NewStyle()
	}
	theme.Cells[core.ColorWater] = lipgloss.NewStyle().Bold(true)
	theme.Cells[core.ColorCursor] = lipgloss.NewStyle().Reverse(true)
	theme.Cells[core.ColorWall] = fg("245")
	theme.Cells[core.ColorMuted] = fg("245")
	theme.MenuTitle = lipgloss.NewStyle().Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Bold(true)
	return theme
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"neon":    NeonTheme,
	"mono":    MonochromeTheme,
}

// ThemeNames returns the theme names in alphabetical order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the named theme. An empty name is the default.
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	build, ok := themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("tui: unknown theme %q (want one of %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return build(), nil
}

// Style returns the style of a board color role.
func (t Theme) Style(c core.Color) lipgloss.Style {
	if s, ok := t.Cells[c]; ok {
		return s
	}
	return t.Cells[core.ColorDefault]
}
