package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/slowly/internal/model"
)

// Dracula theme
// https://draculatheme.com/
var Dracula = Theme{
	Name: "dracula",

	Background: lipgloss.Color("#282A36"),
	Foreground: lipgloss.Color("#F8F8F2"),
	Subtle:     lipgloss.Color("#6272A4"),
	Highlight:  lipgloss.Color("#44475A"),
	Border:     lipgloss.Color("#6272A4"),

	Primary:   lipgloss.Color("#BD93F9"),
	Secondary: lipgloss.Color("#8BE9FD"),
	Info:      lipgloss.Color("#8BE9FD"),

	Success: lipgloss.Color("#50FA7B"),
	Warning: lipgloss.Color("#F1FA8C"),
	Error:   lipgloss.Color("#FF5555"),

	EnergyHigh: lipgloss.Color("#FFB86C"),
	EnergyLow:  lipgloss.Color("#50FA7B"),

	Tags: map[model.Color]lipgloss.Color{
		model.ColorStone:   lipgloss.Color("#F8F8F2"),
		model.ColorRose:    lipgloss.Color("#FF79C6"),
		model.ColorBlue:    lipgloss.Color("#6272A4"),
		model.ColorEmerald: lipgloss.Color("#50FA7B"),
		model.ColorAmber:   lipgloss.Color("#F1FA8C"),
		model.ColorPurple:  lipgloss.Color("#BD93F9"),
		model.ColorOrange:  lipgloss.Color("#FFB86C"),
		model.ColorCyan:    lipgloss.Color("#8BE9FD"),
	},
}
