package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme the TUI's title bar cycles through.
type Theme struct {
	Name    string
	Primary lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk  = Theme{Name: "cyberpunk", Primary: lipgloss.Color("#ff00ff")}
	ThemeRetroGreen = Theme{Name: "retro", Primary: lipgloss.Color("#00ff00")}
	ThemeMinimal    = Theme{Name: "minimal", Primary: lipgloss.Color("#ffffff")}
	ThemeOcean      = Theme{Name: "ocean", Primary: lipgloss.Color("#0077be")}
	ThemeSunset     = Theme{Name: "sunset", Primary: lipgloss.Color("#ff6b6b")}

	// Default theme
	CurrentTheme = ThemeCyberpunk

	// All available themes
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
