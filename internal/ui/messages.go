package ui

import (
	"github.com/dori/slowly/internal/store"
)

// View represents the current active view
type View int

const (
	ViewDashboard View = iota
	ViewHistory
	ViewSettings
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Today"
	case ViewHistory:
		return "History"
	case ViewSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// overlay is the form drawn over the current view
type overlay int

const (
	overlayNone overlay = iota
	overlayComplete
	overlayEdit
)

// SnapshotMsg is sent when a collection changed in the store
type SnapshotMsg struct {
	Collection store.Collection
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}

// clearCelebrationMsg fades the celebration line
type clearCelebrationMsg struct {
	seq int
}
