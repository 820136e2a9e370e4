package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/ui/theme"
	derive "github.com/dori/slowly/internal/views"
)

// InboxKey is the collapse key of the inbox section
const InboxKey = "inbox"

// DashboardMode represents the current input mode of the dashboard
type DashboardMode int

const (
	DashboardModeNormal DashboardMode = iota
	DashboardModeAdd
	DashboardModeConfirmDelete
)

type rowKind int

const (
	rowSection rowKind = iota
	rowTask
	rowSubtask
)

// dashRow is one selectable line of the dashboard
type dashRow struct {
	kind    rowKind
	section string // collapse key
	title   string
	color   model.Color
	count   int
	task    model.Task
	subtask model.Subtask
}

// DashboardView shows the quote, the inbox and one section per tag
type DashboardView struct {
	ctx    context.Context
	app    *app.App
	width  int
	height int

	rows         []dashRow
	cursor       int
	scrollOffset int

	// Collapsed sections keyed by tag id, other or inbox
	collapsed map[string]bool
	// Containers whose subtasks are shown
	expanded map[string]bool

	mode     DashboardMode
	input    textinput.Model
	deleteID string
}

// NewDashboardView creates a new dashboard view
func NewDashboardView(ctx context.Context, a *app.App) DashboardView {
	ti := textinput.New()
	ti.Placeholder = "Title @tag ~45m !high due:friday ; step ; step"
	ti.CharLimit = 256

	v := DashboardView{
		ctx:       ctx,
		app:       a,
		collapsed: make(map[string]bool),
		expanded:  make(map[string]bool),
		input:     ti,
	}
	return v.Refresh()
}

// Init initializes the dashboard view
func (v DashboardView) Init() tea.Cmd {
	return nil
}

// IsInputMode returns true when the view is capturing text input
func (v DashboardView) IsInputMode() bool {
	return v.mode != DashboardModeNormal
}

// SetSize updates the view dimensions
func (v DashboardView) SetSize(width, height int) DashboardView {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// Collapsed reports whether a section is collapsed
func (v DashboardView) Collapsed(key string) bool {
	return v.collapsed[key]
}

// Refresh rebuilds the rows from the mirrored data, keeping the cursor on
// the same task when it still exists
func (v DashboardView) Refresh() DashboardView {
	var keep string
	if cur, ok := v.current(); ok {
		keep = cur.section + "/" + cur.task.ID + "/" + cur.subtask.ID
	}

	d := v.app.Dashboard()
	v.rows = nil
	if len(d.Inbox) > 0 {
		v.addSection(InboxKey, "Inbox", "", d.Inbox)
	}
	for _, b := range d.Buckets {
		v.addSection(b.Key, b.Title(), b.Tag.Color, b.Tasks)
	}

	v.cursor = 0
	for i, r := range v.rows {
		if r.section+"/"+r.task.ID+"/"+r.subtask.ID == keep {
			v.cursor = i
			break
		}
	}
	return v
}

func (v *DashboardView) addSection(key, title string, color model.Color, tasks []model.Task) {
	v.rows = append(v.rows, dashRow{kind: rowSection, section: key, title: title, color: color, count: len(tasks)})
	if v.collapsed[key] {
		return
	}
	for _, t := range tasks {
		v.rows = append(v.rows, dashRow{kind: rowTask, section: key, task: t})
		if !t.IsContainer() || !v.expanded[t.ID] {
			continue
		}
		for _, s := range t.Subtasks {
			v.rows = append(v.rows, dashRow{kind: rowSubtask, section: key, task: t, subtask: s})
		}
	}
}

func (v DashboardView) current() (dashRow, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return dashRow{}, false
	}
	return v.rows[v.cursor], true
}

// Update handles messages for the dashboard view
func (v DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.mode == DashboardModeAdd {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	switch v.mode {
	case DashboardModeAdd:
		return v.handleAddKey(keyMsg)
	case DashboardModeConfirmDelete:
		return v.handleConfirmKey(keyMsg)
	}
	return v.handleNormalKey(keyMsg)
}

func (v DashboardView) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case "g":
		v.cursor = 0
	case "G":
		v.cursor = len(v.rows) - 1

	case "a":
		v.mode = DashboardModeAdd
		v.input.SetValue("")
		v.input.Focus()
		return v, textinput.Blink

	case "n":
		return v, request(EditRequest{})

	case "enter", " ":
		row, ok := v.current()
		if !ok {
			return v, nil
		}
		switch {
		case row.kind == rowSection:
			v.collapsed[row.section] = !v.collapsed[row.section]
		case row.kind == rowTask && row.task.IsContainer():
			v.expanded[row.task.ID] = !v.expanded[row.task.ID]
		default:
			return v, v.complete(row)
		}
		return v.Refresh(), nil

	case "z":
		// Collapse everything, or open everything when all is collapsed
		all := true
		for _, r := range v.rows {
			if r.kind == rowSection && !v.collapsed[r.section] {
				all = false
			}
		}
		for _, r := range v.rows {
			if r.kind == rowSection {
				v.collapsed[r.section] = !all
			}
		}
		return v.Refresh(), nil

	case "x", "tab":
		if row, ok := v.current(); ok && row.kind != rowSection {
			return v, v.complete(row)
		}

	case "e":
		if row, ok := v.current(); ok && row.kind != rowSection {
			return v, request(EditRequest{TaskID: row.task.ID})
		}

	case "d":
		if row, ok := v.current(); ok && row.kind != rowSection {
			v.mode = DashboardModeConfirmDelete
			v.deleteID = row.task.ID
		}
	}

	v.scrollOffset = clampScroll(v.cursor, v.scrollOffset, v.visibleRows(), len(v.rows))
	return v, nil
}

// complete opens the completion form for the task or subtask on row
func (v DashboardView) complete(row dashRow) tea.Cmd {
	if row.kind == rowSubtask {
		if row.subtask.IsCompleted {
			return request(CompleteRequest{Kind: completion.KindSub, TaskID: row.task.ID, SubtaskID: row.subtask.ID, Correction: true})
		}
		return request(CompleteRequest{Kind: completion.KindSub, TaskID: row.task.ID, SubtaskID: row.subtask.ID})
	}
	if row.task.IsContainer() {
		return request(StatusMsg{Message: "Open it with enter and finish the steps one at a time"})
	}
	return request(CompleteRequest{Kind: completion.KindMain, TaskID: row.task.ID})
}

func (v DashboardView) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = DashboardModeNormal
		v.input.Blur()
		return v, nil
	case "enter":
		text := strings.TrimSpace(v.input.Value())
		v.mode = DashboardModeNormal
		v.input.Blur()
		if text == "" {
			return v, nil
		}
		return v, v.quickAdd(text)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v DashboardView) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := v.deleteID
	v.mode = DashboardModeNormal
	v.deleteID = ""
	switch msg.String() {
	case "y", "Y":
		return v, v.deleteTask(id)
	}
	return v, nil
}

func (v DashboardView) quickAdd(text string) tea.Cmd {
	a, ctx := v.app, v.ctx
	return func() tea.Msg {
		if _, err := a.QuickAdd(ctx, text); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: "Added"}
	}
}

func (v DashboardView) deleteTask(id string) tea.Cmd {
	a, ctx := v.app, v.ctx
	return func() tea.Msg {
		t, _ := a.Mirror.Task(id)
		cancelled, err := a.DeleteTask(ctx, id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return TaskDeletedMsg{Title: t.Title, Cancelled: cancelled}
	}
}

func (v DashboardView) visibleRows() int {
	// quote, blank line, input line
	n := v.height - 4
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the dashboard
func (v DashboardView) View() string {
	styles := theme.Current.Styles
	var b strings.Builder

	b.WriteString(styles.Quote.Render(truncate(v.app.Quotes.Current().Text, v.width-2)))
	b.WriteString("\n\n")

	switch v.mode {
	case DashboardModeAdd:
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n")
	case DashboardModeConfirmDelete:
		t, _ := v.app.Mirror.Task(v.deleteID)
		b.WriteString(styles.Error.Render(fmt.Sprintf("Delete %q? y/n", t.Title)))
		b.WriteString("\n")
	}

	if len(v.rows) == 0 {
		b.WriteString(styles.Label.Render("  Nothing here. Press a to add something, gently."))
		return b.String()
	}

	now := v.app.Now().In(v.app.Location)
	end := v.scrollOffset + v.visibleRows()
	if end > len(v.rows) {
		end = len(v.rows)
	}
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderRow(v.rows[i], i == v.cursor, now))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v DashboardView) renderRow(r dashRow, focused bool, now time.Time) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	switch r.kind {
	case rowSection:
		arrow := "▾"
		if v.collapsed[r.section] {
			arrow = "▸"
		}
		style := styles.Section
		if r.section != InboxKey && r.section != derive.OtherBucket {
			style = styles.TagStyle(t, r.color)
		}
		line := fmt.Sprintf("%s %s %s", arrow, style.Render(r.title), styles.Label.Render(fmt.Sprintf("(%d)", r.count)))
		if focused {
			return lipgloss.NewStyle().Background(t.Highlight).Render(line)
		}
		return line

	case rowSubtask:
		mark := "○"
		style := styles.TaskNormal
		if r.subtask.IsCompleted {
			mark = "●"
			style = styles.TaskDone
		}
		if focused {
			style = styles.TaskFocused
		}
		line := fmt.Sprintf("      %s %s", mark, r.subtask.Title)
		if r.subtask.Time != nil {
			line += "  " + styles.Label.Render(model.FormatMinutes(*r.subtask.Time))
		}
		return style.Render(truncate(line, v.width-2))
	}

	style := styles.TaskNormal
	if r.task.IsOverdue(now) {
		style = styles.TaskOverdue
	}
	if focused {
		style = styles.TaskFocused
	}
	title := r.task.Title
	if r.task.IsContainer() {
		arrow := "▸"
		if v.expanded[r.task.ID] {
			arrow = "▾"
		}
		title = arrow + " " + title
	}
	line := fmt.Sprintf("  %s %s", energyMark(r.task.Energy), style.Render(title))
	if meta := taskMeta(r.task, now); meta != "" {
		line += "  " + meta
	}
	return line
}

// request wraps a message as a command
func request(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
