package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/ui/theme"
	derive "github.com/dori/slowly/internal/views"
)

type historyRowKind int

const (
	historyDay historyRowKind = iota
	historySingle
	historyGroup
	historySubtask
)

type historyRow struct {
	kind    historyRowKind
	day     derive.Day
	task    model.Task
	subtask model.Subtask
}

// selectable rows open a correction
func (r historyRow) selectable() bool {
	return r.kind == historySingle || r.kind == historySubtask
}

// HistoryView lists finished work grouped by day, newest first
type HistoryView struct {
	app    *app.App
	width  int
	height int

	rows         []historyRow
	cursor       int
	scrollOffset int
}

// NewHistoryView creates a new history view
func NewHistoryView(a *app.App) HistoryView {
	return HistoryView{app: a}.Refresh()
}

// Init initializes the history view
func (v HistoryView) Init() tea.Cmd {
	return nil
}

// IsInputMode returns true when the view is capturing text input
func (v HistoryView) IsInputMode() bool {
	return false
}

// SetSize updates the view dimensions
func (v HistoryView) SetSize(width, height int) HistoryView {
	v.width = width
	v.height = height
	return v
}

// Refresh rebuilds the timeline from the mirrored data
func (v HistoryView) Refresh() HistoryView {
	v.rows = nil
	for _, d := range v.app.History() {
		v.rows = append(v.rows, historyRow{kind: historyDay, day: d})
		for _, r := range d.Records {
			if r.Kind == derive.RecordSingle {
				v.rows = append(v.rows, historyRow{kind: historySingle, task: r.Task})
				continue
			}
			v.rows = append(v.rows, historyRow{kind: historyGroup, task: r.Task})
			for _, s := range r.Subtasks {
				v.rows = append(v.rows, historyRow{kind: historySubtask, task: r.Task, subtask: s})
			}
		}
	}

	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.cursor = v.nearestSelectable(v.cursor, 1)
	return v
}

// nearestSelectable walks from i in direction dir to a selectable row
func (v HistoryView) nearestSelectable(i, dir int) int {
	for j := i; j >= 0 && j < len(v.rows); j += dir {
		if v.rows[j].selectable() {
			return j
		}
	}
	return i
}

// Update handles messages for the history view
func (v HistoryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			next := v.nearestSelectable(v.cursor-1, -1)
			if v.rows[next].selectable() {
				v.cursor = next
			}
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			next := v.nearestSelectable(v.cursor+1, 1)
			if v.rows[next].selectable() {
				v.cursor = next
			}
		}
	case "g":
		v.cursor = v.nearestSelectable(0, 1)
	case "G":
		v.cursor = v.nearestSelectable(len(v.rows)-1, -1)

	case "enter", "e":
		if v.cursor < len(v.rows) {
			row := v.rows[v.cursor]
			switch row.kind {
			case historySingle:
				return v, request(CompleteRequest{Kind: completion.KindMain, TaskID: row.task.ID, Correction: true})
			case historySubtask:
				return v, request(CompleteRequest{Kind: completion.KindSub, TaskID: row.task.ID, SubtaskID: row.subtask.ID, Correction: true})
			}
		}
	}

	v.scrollOffset = clampScroll(v.cursor, v.scrollOffset, v.height, len(v.rows))
	return v, nil
}

// View renders the history timeline
func (v HistoryView) View() string {
	styles := theme.Current.Styles
	if len(v.rows) == 0 {
		return styles.Label.Render("  No history yet. Finished work will gather here.")
	}

	var b strings.Builder
	end := v.scrollOffset + v.height
	if end > len(v.rows) || v.height <= 0 {
		end = len(v.rows)
	}
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderRow(v.rows[i], i == v.cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v HistoryView) renderRow(r historyRow, focused bool) string {
	styles := theme.Current.Styles
	loc := v.app.Location

	switch r.kind {
	case historyDay:
		heading := r.day.Date
		if d, err := time.ParseInLocation(model.DateLayout, r.day.Date, loc); err == nil {
			heading = d.Format("Monday, Jan 2")
		}
		summary := fmt.Sprintf("%d done", r.day.Completed())
		if m := r.day.ActualMinutes(); m > 0 {
			summary += " · " + model.FormatMinutes(m)
		}
		return styles.Section.Render(heading) + "  " + styles.Label.Render(summary)

	case historyGroup:
		return "  " + styles.Subtitle.Render(r.task.Title)
	}

	retro := r.task.Retrospective
	title := r.task.Title
	indent := "  "
	if r.kind == historySubtask {
		retro = r.subtask.Retrospective
		title = r.subtask.Title
		indent = "    "
	}

	style := styles.TaskNormal
	if focused {
		style = styles.TaskFocused
	}
	line := indent + "✓ " + style.Render(title)

	var meta []string
	if retro.CompletedAt != nil {
		meta = append(meta, retro.CompletedAt.In(loc).Format("15:04"))
	}
	if m := retro.ActualMinutes(); m > 0 {
		meta = append(meta, model.FormatMinutes(m))
	}
	if len(meta) > 0 {
		line += "  " + styles.Label.Render(strings.Join(meta, " · "))
	}
	if retro.Reflection != "" {
		line += "\n" + indent + "    " + styles.Subtitle.Render(truncate(retro.Reflection, v.width-len(indent)-6))
	}
	return line
}
