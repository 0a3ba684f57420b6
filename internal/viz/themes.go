package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the header gradient and the particle speed ramp. Slow and
// Fast are the ends of the ramp.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Slow      lipgloss.Color
	Fast      lipgloss.Color
}

var (
	// deep blue at rest, foam when fast
	ThemeOcean     = Theme{"ocean", "#0077be", "#00a8cc", "#0044aa", "#e0ffff"}
	ThemeCyberpunk = Theme{"cyberpunk", "#ff00ff", "#00ffff", "#00ffff", "#ff00ff"}
	ThemeRetro     = Theme{"retro", "#00ff00", "#00cc00", "#005500", "#ccffcc"}
	ThemeMinimal   = Theme{"minimal", "#ffffff", "#cccccc", "#888888", "#ffffff"}
	ThemeEmber     = Theme{"ember", "#ff6b6b", "#feca57", "#5f27cd", "#feca57"}

	CurrentTheme = ThemeOcean

	Themes = []Theme{ThemeOcean, ThemeCyberpunk, ThemeRetro, ThemeMinimal, ThemeEmber}
)

// GetTheme looks a theme up by name and falls back to ocean.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func SetTheme(name string) { CurrentTheme = GetTheme(name) }

// NextTheme cycles CurrentTheme through Themes.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeOcean
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
