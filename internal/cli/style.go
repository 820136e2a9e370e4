package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/fatih/color"
)

// Sprint color functions for building styled strings
var (
	Bold      = color.New(color.Bold).SprintFunc()
	Dim       = color.New(color.Faint).SprintFunc()
	Italic    = color.New(color.Italic).SprintFunc()
	Green     = color.New(color.FgGreen).SprintFunc()
	Red       = color.New(color.FgRed).SprintFunc()
	Yellow    = color.New(color.FgYellow).SprintFunc()
	BoldGreen = color.New(color.Bold, color.FgGreen).SprintFunc()
)

// tagColors maps palette tokens onto terminal colors
var tagColors = map[model.Color]func(a ...interface{}) string{
	model.ColorStone:   color.New(color.Bold, color.FgWhite).SprintFunc(),
	model.ColorRose:    color.New(color.Bold, color.FgHiRed).SprintFunc(),
	model.ColorBlue:    color.New(color.Bold, color.FgBlue).SprintFunc(),
	model.ColorEmerald: color.New(color.Bold, color.FgGreen).SprintFunc(),
	model.ColorAmber:   color.New(color.Bold, color.FgYellow).SprintFunc(),
	model.ColorPurple:  color.New(color.Bold, color.FgMagenta).SprintFunc(),
	model.ColorOrange:  color.New(color.Bold, color.FgHiYellow).SprintFunc(),
	model.ColorCyan:    color.New(color.Bold, color.FgCyan).SprintFunc(),
}

// TagLabel renders a tag heading in its color
func TagLabel(name string, c model.Color) string {
	fn, ok := tagColors[c]
	if !ok {
		return Bold(name)
	}
	return fn(name)
}

// ShortID trims an id for display
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// EnergyIcon marks high and low energy work
func EnergyIcon(e model.Energy) string {
	switch e {
	case model.EnergyHigh:
		return Red("▲")
	case model.EnergyLow:
		return Green("▽")
	}
	return " "
}

// TaskLine renders one dashboard row
func TaskLine(t model.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", Dim(ShortID(t.ID)), EnergyIcon(t.Energy), t.Title)

	var meta []string
	if est := t.TotalEstimate(); est > 0 {
		meta = append(meta, model.FormatMinutes(est))
	}
	if t.Deadline != nil {
		due := "due " + t.Deadline.Format("Jan 2")
		if t.IsOverdue(now) {
			due = Red(due)
		}
		meta = append(meta, due)
	}
	if t.IsContainer() {
		open := len(t.OpenSubtasks())
		meta = append(meta, fmt.Sprintf("%d/%d left", open, len(t.Subtasks)))
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "  %s", Dim(strings.Join(meta, " · ")))
	}
	return b.String()
}
