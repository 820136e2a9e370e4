package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/slowly/internal/model"
)

// Gruvbox theme - retro groove
// https://github.com/morhetz/gruvbox
var Gruvbox = Theme{
	Name: "gruvbox",

	Background: lipgloss.Color("#282828"),
	Foreground: lipgloss.Color("#EBDBB2"),
	Subtle:     lipgloss.Color("#928374"),
	Highlight:  lipgloss.Color("#3C3836"),
	Border:     lipgloss.Color("#504945"),

	Primary:   lipgloss.Color("#83A598"),
	Secondary: lipgloss.Color("#8EC07C"),
	Info:      lipgloss.Color("#83A598"),

	Success: lipgloss.Color("#B8BB26"),
	Warning: lipgloss.Color("#FABD2F"),
	Error:   lipgloss.Color("#FB4934"),

	EnergyHigh: lipgloss.Color("#FE8019"),
	EnergyLow:  lipgloss.Color("#B8BB26"),

	Tags: map[model.Color]lipgloss.Color{
		model.ColorStone:   lipgloss.Color("#A89984"),
		model.ColorRose:    lipgloss.Color("#FB4934"),
		model.ColorBlue:    lipgloss.Color("#458588"),
		model.ColorEmerald: lipgloss.Color("#98971A"),
		model.ColorAmber:   lipgloss.Color("#FABD2F"),
		model.ColorPurple:  lipgloss.Color("#D3869B"),
		model.ColorOrange:  lipgloss.Color("#FE8019"),
		model.ColorCyan:    lipgloss.Color("#8EC07C"),
	},
}
