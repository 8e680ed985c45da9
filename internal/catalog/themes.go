package catalog

import "github.com/gridboard/gridboard/internal/model"

// DefaultThemeID is the theme applied when no preference is stored or the
// stored id is unknown.
const DefaultThemeID = "light"

var lightTheme = model.Theme{
	ID:   "light",
	Name: "Light",
	Colors: model.ThemeColors{
		Primary:       "#007AFF",
		Secondary:     "#5856D6",
		Background:    "#FFFFFF",
		Surface:       "#F2F2F7",
		Text:          "#000000",
		TextSecondary: "#6C6C70",
		Border:        "#C6C6C8",
		Error:         "#FF3B30",
		Success:       "#34C759",
		Warning:       "#FF9500",
	},
}

var darkTheme = model.Theme{
	ID:   "dark",
	Name: "Dark",
	Colors: model.ThemeColors{
		Primary:       "#0A84FF",
		Secondary:     "#5E5CE6",
		Background:    "#000000",
		Surface:       "#1C1C1E",
		Text:          "#FFFFFF",
		TextSecondary: "#8E8E93",
		Border:        "#38383A",
		Error:         "#FF453A",
		Success:       "#30D158",
		Warning:       "#FF9F0A",
	},
}

var blueTheme = model.Theme{
	ID:   "blue",
	Name: "Ocean Blue",
	Colors: model.ThemeColors{
		Primary:       "#1E40AF",
		Secondary:     "#3B82F6",
		Background:    "#F8FAFC",
		Surface:       "#E2E8F0",
		Text:          "#1E293B",
		TextSecondary: "#64748B",
		Border:        "#CBD5E1",
		Error:         "#EF4444",
		Success:       "#10B981",
		Warning:       "#F59E0B",
	},
}

var themes = []model.Theme{lightTheme, darkTheme, blueTheme}

// Themes returns all available themes in display order.
func Themes() []model.Theme {
	out := make([]model.Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeByID resolves a theme id, falling back to the light theme for
// unknown ids.
func ThemeByID(id string) model.Theme {
	for _, theme := range themes {
		if theme.ID == id {
			return theme
		}
	}
	return lightTheme
}

// IsKnownTheme reports whether the id matches a catalog theme.
func IsKnownTheme(id string) bool {
	for _, theme := range themes {
		if theme.ID == id {
			return true
		}
	}
	return false
}
