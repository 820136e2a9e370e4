package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/slowly/internal/model"
)

// Catppuccin theme, Mocha flavour
// https://catppuccin.com/
var Catppuccin = Theme{
	Name: "catppuccin",

	Background: lipgloss.Color("#1E1E2E"),
	Foreground: lipgloss.Color("#CDD6F4"),
	Subtle:     lipgloss.Color("#6C7086"),
	Highlight:  lipgloss.Color("#313244"),
	Border:     lipgloss.Color("#45475A"),

	Primary:   lipgloss.Color("#89B4FA"),
	Secondary: lipgloss.Color("#CBA6F7"),
	Info:      lipgloss.Color("#74C7EC"),

	Success: lipgloss.Color("#A6E3A1"),
	Warning: lipgloss.Color("#F9E2AF"),
	Error:   lipgloss.Color("#F38BA8"),

	EnergyHigh: lipgloss.Color("#FAB387"),
	EnergyLow:  lipgloss.Color("#A6E3A1"),

	Tags: map[model.Color]lipgloss.Color{
		model.ColorStone:   lipgloss.Color("#BAC2DE"),
		model.ColorRose:    lipgloss.Color("#F38BA8"),
		model.ColorBlue:    lipgloss.Color("#89B4FA"),
		model.ColorEmerald: lipgloss.Color("#A6E3A1"),
		model.ColorAmber:   lipgloss.Color("#F9E2AF"),
		model.ColorPurple:  lipgloss.Color("#CBA6F7"),
		model.ColorOrange:  lipgloss.Color("#FAB387"),
		model.ColorCyan:    lipgloss.Color("#94E2D5"),
	},
}
