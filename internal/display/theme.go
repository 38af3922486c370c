package display

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTheme is returned for theme names with no palette
var ErrUnknownTheme = errors.New("unknown theme")

type ThemeName string

const (
	ThemeClassic ThemeName = "classic"
	ThemeBrown   ThemeName = "brown"
	ThemeGreen   ThemeName = "green"
	ThemeGray    ThemeName = "gray"
	ThemeOff     ThemeName = "off"
)

// Theme holds SGR parameters for one palette. An empty Theme.Light disables escape
// codes and the renderer falls back to FEN letters.
type Theme struct {
	Name    ThemeName
	Light   string // background of light squares
	Dark    string // background of dark squares
	WhiteFg string
	BlackFg string

	// hex fills used by the image renderers
	LightFill string
	DarkFill  string
}

var themes = map[ThemeName]Theme{
	ThemeClassic: {
		Name:      ThemeClassic,
		Light:     "47",
		Dark:      "100",
		WhiteFg:   "97",
		BlackFg:   "30",
		LightFill: "#c0c0c0",
		DarkFill:  "#808080",
	},
	ThemeBrown: {
		Name:      ThemeBrown,
		Light:     "48;5;230", // Beige
		Dark:      "48;5;94",  // Brown
		WhiteFg:   "97",
		BlackFg:   "30",
		LightFill: "#f0d9b5",
		DarkFill:  "#b58863",
	},
	ThemeGreen: {
		Name:      ThemeGreen,
		Light:     "48;5;157", // Light green
		Dark:      "48;5;22",  // Dark green
		WhiteFg:   "97",
		BlackFg:   "30",
		LightFill: "#eeeed2",
		DarkFill:  "#769656",
	},
	ThemeGray: {
		Name:      ThemeGray,
		Light:     "48;5;251", // Light gray
		Dark:      "48;5;240", // Dark gray
		WhiteFg:   "97",
		BlackFg:   "30",
		LightFill: "#c6c6c6",
		DarkFill:  "#585858",
	},
	ThemeOff: {
		Name:      ThemeOff,
		LightFill: "#ffffff",
		DarkFill:  "#d0d0d0",
	},
}

// DefaultTheme is the palette used when none is requested
func DefaultTheme() Theme {
	return themes[ThemeClassic]
}

// LookupTheme resolves a theme by name; the empty name selects the default
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	t, ok := themes[ThemeName(strings.ToLower(name))]
	if !ok {
		return Theme{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, name, strings.Join(ThemeNames(), ", "))
	}
	return t, nil
}

// ThemeNames lists the available theme names in sorted order
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}

// Plain reports whether the theme emits no escape codes
func (t Theme) Plain() bool {
	return t.Light == ""
}
