// Package theme defines color themes for the summit TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Highlighted surface (active tab, selected row)
	SurfaceBright lipgloss.Color // Extra bright surface for emphasis
	Border        lipgloss.Color // Subtle borders
	BorderBright  lipgloss.Color // Prominent borders (cards, focus)
	BorderAccent  lipgloss.Color // Accent-colored borders for focus states
	TextDim       lipgloss.Color // Lowest contrast text (hints, disabled)
	TextMuted     lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary   lipgloss.Color // Primary content text
	Accent        lipgloss.Color // Primary accent (links, active states)
	AccentBright  lipgloss.Color
	AccentDim     lipgloss.Color
	Green         lipgloss.Color
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Yellow        lipgloss.Color

	// Mountain scenery
	Snow   lipgloss.Color // peaks above the treeline
	Rock   lipgloss.Color // bare slopes
	Forest lipgloss.Color // lower slopes
	Hiker  lipgloss.Color
}

// Active is the currently selected theme.
var Active = Alpine

// Alpine is the default theme: cold slate with a glacier-blue accent.
var Alpine = Theme{
	Name:          "alpine",
	Background:    lipgloss.Color("#10161D"),
	Surface:       lipgloss.Color("#18212B"),
	SurfaceHover:  lipgloss.Color("#223040"),
	SurfaceBright: lipgloss.Color("#2C3D50"),
	Border:        lipgloss.Color("#3B4A5A"),
	BorderBright:  lipgloss.Color("#56697D"),
	BorderAccent:  lipgloss.Color("#5FB3D9"),
	TextDim:       lipgloss.Color("#5C6B7A"),
	TextMuted:     lipgloss.Color("#8A99A8"),
	TextPrimary:   lipgloss.Color("#F2F5F7"),
	Accent:        lipgloss.Color("#5FB3D9"),
	AccentBright:  lipgloss.Color("#8FD0EE"),
	AccentDim:     lipgloss.Color("#1D3442"),
	Green:         lipgloss.Color("#7FB069"),
	GreenBright:   lipgloss.Color("#A2D08A"),
	Orange:        lipgloss.Color("#E0883A"),
	Red:           lipgloss.Color("#D9534F"),
	Yellow:        lipgloss.Color("#E3C565"),
	Snow:          lipgloss.Color("#FFFFFF"),
	Rock:          lipgloss.Color("#8C8577"),
	Forest:        lipgloss.Color("#3E7C4F"),
	Hiker:         lipgloss.Color("#E0883A"),
}

// Glacier is a pale, high-contrast ice palette.
var Glacier = Theme{
	Name:          "glacier",
	Background:    lipgloss.Color("#0B1A24"),
	Surface:       lipgloss.Color("#112633"),
	SurfaceHover:  lipgloss.Color("#1A3547"),
	SurfaceBright: lipgloss.Color("#24465C"),
	Border:        lipgloss.Color("#2F5670"),
	BorderBright:  lipgloss.Color("#4D7A96"),
	BorderAccent:  lipgloss.Color("#9EE6F5"),
	TextDim:       lipgloss.Color("#4D7A96"),
	TextMuted:     lipgloss.Color("#93B7CC"),
	TextPrimary:   lipgloss.Color("#EAF8FF"),
	Accent:        lipgloss.Color("#9EE6F5"),
	AccentBright:  lipgloss.Color("#C9F4FC"),
	AccentDim:     lipgloss.Color("#163B48"),
	Green:         lipgloss.Color("#6FD6A8"),
	GreenBright:   lipgloss.Color("#9AF0C6"),
	Orange:        lipgloss.Color("#F5A962"),
	Red:           lipgloss.Color("#F07178"),
	Yellow:        lipgloss.Color("#F2DC8B"),
	Snow:          lipgloss.Color("#F4FCFF"),
	Rock:          lipgloss.Color("#7E97A6"),
	Forest:        lipgloss.Color("#3A8C7A"),
	Hiker:         lipgloss.Color("#F5A962"),
}

// Sunset is a warm evening palette of ember and dusk purple.
var Sunset = Theme{
	Name:          "sunset",
	Background:    lipgloss.Color("#1B1320"),
	Surface:       lipgloss.Color("#261A2C"),
	SurfaceHover:  lipgloss.Color("#35243C"),
	SurfaceBright: lipgloss.Color("#45304E"),
	Border:        lipgloss.Color("#56405F"),
	BorderBright:  lipgloss.Color("#765C80"),
	BorderAccent:  lipgloss.Color("#FF9E64"),
	TextDim:       lipgloss.Color("#6E5A76"),
	TextMuted:     lipgloss.Color("#B39DBB"),
	TextPrimary:   lipgloss.Color("#FBEFF5"),
	Accent:        lipgloss.Color("#FF9E64"),
	AccentBright:  lipgloss.Color("#FFC197"),
	AccentDim:     lipgloss.Color("#4A2A25"),
	Green:         lipgloss.Color("#9ECE6A"),
	GreenBright:   lipgloss.Color("#B9E87A"),
	Orange:        lipgloss.Color("#F7768E"),
	Red:           lipgloss.Color("#E0465E"),
	Yellow:        lipgloss.Color("#F6C177"),
	Snow:          lipgloss.Color("#FFE3D3"),
	Rock:          lipgloss.Color("#9C7A8F"),
	Forest:        lipgloss.Color("#5E6B3A"),
	Hiker:         lipgloss.Color("#F6C177"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderBright:  lipgloss.Color("7"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	AccentDim:     lipgloss.Color("0"),
	Green:         lipgloss.Color("2"),
	GreenBright:   lipgloss.Color("10"),
	Orange:        lipgloss.Color("3"),
	Red:           lipgloss.Color("1"),
	Yellow:        lipgloss.Color("11"),
	Snow:          lipgloss.Color("15"),
	Rock:          lipgloss.Color("7"),
	Forest:        lipgloss.Color("2"),
	Hiker:         lipgloss.Color("3"),
}

// All available themes.
var All = []Theme{Alpine, Glacier, Sunset, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// ByName returns a theme by its name, defaulting to Alpine.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Alpine
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
