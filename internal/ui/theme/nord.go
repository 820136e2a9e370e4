package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/slowly/internal/model"
)

// Nord theme - Arctic, north-bluish color palette
// https://www.nordtheme.com/
var Nord = Theme{
	Name: "nord",

	// Polar Night
	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	// Frost
	Primary:   lipgloss.Color("#88C0D0"),
	Secondary: lipgloss.Color("#81A1C1"),
	Info:      lipgloss.Color("#5E81AC"),

	// Aurora
	Success: lipgloss.Color("#A3BE8C"),
	Warning: lipgloss.Color("#EBCB8B"),
	Error:   lipgloss.Color("#BF616A"),

	EnergyHigh: lipgloss.Color("#D08770"),
	EnergyLow:  lipgloss.Color("#A3BE8C"),

	Tags: map[model.Color]lipgloss.Color{
		model.ColorStone:   lipgloss.Color("#D8DEE9"),
		model.ColorRose:    lipgloss.Color("#BF616A"),
		model.ColorBlue:    lipgloss.Color("#5E81AC"),
		model.ColorEmerald: lipgloss.Color("#A3BE8C"),
		model.ColorAmber:   lipgloss.Color("#EBCB8B"),
		model.ColorPurple:  lipgloss.Color("#B48EAD"),
		model.ColorOrange:  lipgloss.Color("#D08770"),
		model.ColorCyan:    lipgloss.Color("#88C0D0"),
	},
}
