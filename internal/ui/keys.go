package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. View specific keys are handled by
// the views themselves and listed in the footer.
type KeyMap struct {
	// Views
	DashboardView key.Binding
	HistoryView   key.Binding
	SettingsView  key.Binding
	NextView      key.Binding

	// Power User
	Help       key.Binding
	ThemeCycle key.Binding
	QuoteMode  key.Binding

	// General
	Quit key.Binding
	Back key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		DashboardView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "today"),
		),
		HistoryView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "history"),
		),
		SettingsView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "settings"),
		),
		NextView: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "next view"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		QuoteMode: key.NewBinding(
			key.WithKeys("Q"),
			key.WithHelp("Q", "quote mode"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.DashboardView, k.HistoryView, k.SettingsView, k.NextView},
		{k.ThemeCycle, k.QuoteMode},
		{k.Help, k.Quit},
	}
}
