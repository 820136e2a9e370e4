package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/ui/theme"
)

// energyMark renders the energy level as a single colored glyph
func energyMark(e model.Energy) string {
	t := theme.Current.Theme
	switch e {
	case model.EnergyHigh:
		return lipgloss.NewStyle().Foreground(t.EnergyHigh).Render("▲")
	case model.EnergyLow:
		return lipgloss.NewStyle().Foreground(t.EnergyLow).Render("▽")
	}
	return " "
}

// taskMeta renders estimate, deadline and subtask progress
func taskMeta(t model.Task, now time.Time) string {
	styles := theme.Current.Styles
	var parts []string
	if est := t.TotalEstimate(); est > 0 {
		parts = append(parts, styles.Label.Render(model.FormatMinutes(est)))
	}
	if t.Deadline != nil {
		due := "due " + t.Deadline.In(now.Location()).Format("Jan 2")
		if t.IsOverdue(now) {
			parts = append(parts, styles.Error.Render(due))
		} else {
			parts = append(parts, styles.DueDate.Render(due))
		}
	}
	if t.IsContainer() {
		done := len(t.Subtasks) - len(t.OpenSubtasks())
		parts = append(parts, styles.Label.Render(progress(done, len(t.Subtasks))))
	}
	return strings.Join(parts, styles.Label.Render(" · "))
}

func progress(done, total int) string {
	return strings.Repeat("●", done) + strings.Repeat("○", total-done)
}

// truncate shortens s to width cells
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// clampScroll keeps cursor within [offset, offset+visible)
func clampScroll(cursor, offset, visible, total int) int {
	if visible < 1 {
		visible = 1
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	maxOffset := total - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
