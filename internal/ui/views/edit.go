package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/editor"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/quickadd"
	"github.com/dori/slowly/internal/ui/theme"
)

const (
	editTitle = iota
	editTag
	editEstimate
	editEnergy
	editDeadline
	editNote
	editSubtasks
	editFieldCount
)

var energies = []model.Energy{"", model.EnergyHigh, model.EnergyLow}

// EditForm edits one task and its ordered subtasks
type EditForm struct {
	ctx    context.Context
	app    *app.App
	width  int
	height int

	draft *editor.Draft
	tags  []model.Tag
	// tagIndex is 0 for the inbox, i+1 for tags[i], -1 for a tag that no
	// longer exists
	tagIndex    int
	energyIndex int

	focus    int
	title    textinput.Model
	estimate textinput.Model
	deadline textinput.Model
	note     textarea.Model

	subCursor  int
	subEditing bool
	subEditID  string // empty when adding
	subInput   textinput.Model

	err  string
	done bool
}

// NewEditForm opens the editor for taskID, or for a new task when taskID
// is empty
func NewEditForm(ctx context.Context, a *app.App, taskID string) (EditForm, bool) {
	d := editor.New()
	if taskID != "" {
		var ok bool
		if d, ok = a.BeginEdit(taskID); !ok {
			return EditForm{}, false
		}
	} else {
		d.IsTemp = true
	}

	f := EditForm{ctx: ctx, app: a, draft: d, tags: a.Mirror.EffectiveTags()}

	f.tagIndex = -1
	if d.IsTemp {
		f.tagIndex = 0
	}
	for i, t := range f.tags {
		if !d.IsTemp && t.ID == d.TagID {
			f.tagIndex = i + 1
		}
	}
	for i, e := range energies {
		if e == d.Energy {
			f.energyIndex = i
		}
	}

	f.title = newInput("What is it?", d.Title)
	f.estimate = newInput("45m", "")
	if d.EstTime != nil {
		f.estimate.SetValue(model.FormatMinutes(*d.EstTime))
	}
	f.deadline = newInput("friday, 2026-03-14", "")
	if d.Deadline != nil {
		f.deadline.SetValue(d.Deadline.In(a.Location).Format(model.DateLayout))
	}
	f.note = textarea.New()
	f.note.Placeholder = "Anything worth remembering"
	f.note.ShowLineNumbers = false
	f.note.SetHeight(3)
	f.note.SetValue(d.Note)
	f.subInput = newInput("Step title ~30m !low", "")

	return f.setFocus(editTitle), true
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.SetValue(value)
	return ti
}

// Init initializes the form
func (f EditForm) Init() tea.Cmd {
	return textinput.Blink
}

// TaskID returns the id of the task being edited, empty for a new task
func (f EditForm) TaskID() string {
	return f.draft.TaskID
}

// Done reports whether the form was saved or cancelled
func (f EditForm) Done() bool {
	return f.done
}

// SetSize updates the form dimensions
func (f EditForm) SetSize(width, height int) EditForm {
	f.width = width
	f.height = height
	inner := width - 10
	if inner > 70 {
		inner = 70
	}
	f.title.Width = inner
	f.estimate.Width = inner
	f.deadline.Width = inner
	f.subInput.Width = inner
	f.note.SetWidth(inner)
	return f
}

func (f EditForm) setFocus(i int) EditForm {
	f.focus = i
	f.title.Blur()
	f.estimate.Blur()
	f.deadline.Blur()
	f.note.Blur()
	switch i {
	case editTitle:
		f.title.Focus()
	case editEstimate:
		f.estimate.Focus()
	case editDeadline:
		f.deadline.Focus()
	case editNote:
		f.note.Focus()
	}
	return f
}

// Update handles messages for the form
func (f EditForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateFocused(msg)
	}

	if f.subEditing {
		return f.handleSubInput(keyMsg)
	}

	switch keyMsg.String() {
	case "esc":
		f.app.EndEdit()
		f.done = true
		return f, nil
	case "ctrl+s":
		return f.save()
	case "tab":
		return f.setFocus((f.focus + 1) % editFieldCount), nil
	case "shift+tab":
		return f.setFocus((f.focus + editFieldCount - 1) % editFieldCount), nil
	}

	switch f.focus {
	case editTag:
		switch keyMsg.String() {
		case "left", "h":
			f.tagIndex = (f.tagIndex + len(f.tags)) % (len(f.tags) + 1)
		case "right", "l", " ":
			f.tagIndex = (f.tagIndex + 1) % (len(f.tags) + 1)
		}
		return f, nil
	case editEnergy:
		switch keyMsg.String() {
		case "left", "h":
			f.energyIndex = (f.energyIndex + len(energies) - 1) % len(energies)
		case "right", "l", " ":
			f.energyIndex = (f.energyIndex + 1) % len(energies)
		}
		return f, nil
	case editSubtasks:
		return f.handleSubtaskKey(keyMsg)
	case editNote:
		return f.updateFocused(msg)
	}

	if keyMsg.String() == "enter" {
		return f.save()
	}
	return f.updateFocused(msg)
}

func (f EditForm) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case editTitle:
		f.title, cmd = f.title.Update(msg)
	case editEstimate:
		f.estimate, cmd = f.estimate.Update(msg)
	case editDeadline:
		f.deadline, cmd = f.deadline.Update(msg)
	case editNote:
		f.note, cmd = f.note.Update(msg)
	default:
		if f.subEditing {
			f.subInput, cmd = f.subInput.Update(msg)
		}
	}
	return f, cmd
}

func (f EditForm) handleSubtaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(f.draft.Subtasks)
	switch msg.String() {
	case "up", "k":
		if f.subCursor > 0 {
			f.subCursor--
		}
	case "down", "j":
		if f.subCursor < n-1 {
			f.subCursor++
		}
	case "a":
		f.subEditing = true
		f.subEditID = ""
		f.subInput.SetValue("")
		f.subInput.Focus()
		return f, textinput.Blink
	case "e", "enter":
		if n == 0 {
			return f, nil
		}
		s := f.draft.Subtasks[f.subCursor]
		f.subEditing = true
		f.subEditID = s.ID
		f.subInput.SetValue(s.Title)
		f.subInput.Focus()
		return f, textinput.Blink
	case "d":
		if n == 0 {
			return f, nil
		}
		f.err = errText(f.draft.RemoveSubtask(f.draft.Subtasks[f.subCursor].ID))
		if f.subCursor >= len(f.draft.Subtasks) && f.subCursor > 0 {
			f.subCursor--
		}
	case "K", "shift+up":
		if f.subCursor > 0 {
			f.err = errText(f.draft.MoveSubtask(f.subCursor, f.subCursor-1))
			f.subCursor--
		}
	case "J", "shift+down":
		if f.subCursor < n-1 {
			f.err = errText(f.draft.MoveSubtask(f.subCursor, f.subCursor+1))
			f.subCursor++
		}
	}
	return f, nil
}

func (f EditForm) handleSubInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		f.subEditing = false
		f.subInput.Blur()
		return f, nil
	case "enter":
		text := strings.TrimSpace(f.subInput.Value())
		f.subEditing = false
		f.subInput.Blur()
		if text == "" {
			return f, nil
		}

		p := quickadd.Parse(text, f.app.Now().In(f.app.Location))
		s := model.Subtask{ID: f.subEditID, Title: p.Title, Time: p.EstTime, Energy: p.Energy, Deadline: p.Deadline}
		if f.subEditID == "" {
			f.draft.AddSubtask(s)
			f.subCursor = len(f.draft.Subtasks) - 1
			return f, nil
		}
		// A plain rename keeps the step's other attributes
		if i, ok := f.subtaskIndex(f.subEditID); ok {
			old := f.draft.Subtasks[i]
			if s.Time == nil {
				s.Time = old.Time
			}
			if s.Energy == "" {
				s.Energy = old.Energy
			}
			if s.Deadline == nil {
				s.Deadline = old.Deadline
			}
			s.Note = old.Note
		}
		f.err = errText(f.draft.UpdateSubtask(s))
		return f, nil
	}

	var cmd tea.Cmd
	f.subInput, cmd = f.subInput.Update(msg)
	return f, cmd
}

func (f EditForm) subtaskIndex(id string) (int, bool) {
	for i, s := range f.draft.Subtasks {
		if s.ID == id {
			return i, true
		}
	}
	return 0, false
}

// apply copies the field values onto the draft
func (f *EditForm) apply() error {
	d := f.draft
	d.Title = f.title.Value()
	d.Note = f.note.Value()
	d.Energy = energies[f.energyIndex]

	switch {
	case f.tagIndex == 0:
		d.IsTemp, d.TagID = true, ""
	case f.tagIndex > 0:
		d.IsTemp, d.TagID = false, f.tags[f.tagIndex-1].ID
	default:
		d.IsTemp = false
	}

	d.EstTime = nil
	if raw := strings.TrimSpace(f.estimate.Value()); raw != "" {
		m := quickadd.ParseMinutes(raw)
		if m <= 0 {
			return fmt.Errorf("%w: %q", model.ErrBadDuration, raw)
		}
		d.EstTime = &m
	}

	d.Deadline = nil
	if raw := strings.TrimSpace(f.deadline.Value()); raw != "" {
		due := quickadd.ParseDate(raw, f.app.Now().In(f.app.Location))
		if due == nil {
			return fmt.Errorf("could not read %q as a date", raw)
		}
		d.Deadline = due
	}
	return nil
}

func (f EditForm) save() (tea.Model, tea.Cmd) {
	if err := f.apply(); err != nil {
		f.err = err.Error()
		return f, nil
	}
	if err := f.draft.Validate(f.app.Mirror.EffectiveTags()); err != nil {
		f.err = err.Error()
		return f, nil
	}

	f.done = true
	a, ctx, d := f.app, f.ctx, f.draft
	return f, func() tea.Msg {
		if _, err := a.SaveTask(ctx, d); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: "Saved " + strings.TrimSpace(d.Title)}
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// View renders the form
func (f EditForm) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	var b strings.Builder

	heading := "New task"
	if !f.draft.IsNew() {
		heading = "Edit task"
	}
	b.WriteString(styles.PanelTitle.Render(heading))
	b.WriteString("\n\n")

	box := func(i int, view string) string {
		if f.focus == i {
			return styles.InputFocused.Render(view)
		}
		return styles.Input.Render(view)
	}
	label := func(text string) {
		b.WriteString(styles.Label.Render(text))
		b.WriteString("\n")
	}

	label("Title")
	b.WriteString(box(editTitle, f.title.View()) + "\n")

	label("Tag  ←/→")
	tag := "inbox"
	switch {
	case f.tagIndex > 0:
		tg := f.tags[f.tagIndex-1]
		tag = styles.TagStyle(t, tg.Color).Render(tg.DisplayName())
	case f.tagIndex < 0:
		tag = styles.Error.Render("removed tag, pick another")
	}
	b.WriteString(box(editTag, tag) + "\n")

	if len(f.draft.Subtasks) == 0 {
		label("Estimate")
		b.WriteString(box(editEstimate, f.estimate.View()) + "\n")
	} else {
		label("Estimate")
		b.WriteString(box(editEstimate, styles.Label.Render("set on each step")) + "\n")
	}

	label("Energy  ←/→")
	energy := "unset"
	if e := energies[f.energyIndex]; e != "" {
		energy = energyMark(e) + " " + string(e)
	}
	b.WriteString(box(editEnergy, energy) + "\n")

	label("Deadline")
	b.WriteString(box(editDeadline, f.deadline.View()) + "\n")

	label("Note")
	b.WriteString(box(editNote, f.note.View()) + "\n")

	label("Steps  a add · e rename · d remove · J/K reorder")
	var steps strings.Builder
	if len(f.draft.Subtasks) == 0 {
		steps.WriteString(styles.Label.Render("no steps"))
	}
	for i, s := range f.draft.Subtasks {
		mark := "○"
		if s.IsCompleted {
			mark = "●"
		}
		line := fmt.Sprintf("%d. %s %s", i+1, mark, s.Title)
		if s.Time != nil {
			line += "  " + styles.Label.Render(model.FormatMinutes(*s.Time))
		}
		if f.focus == editSubtasks && i == f.subCursor {
			line = styles.TaskFocused.Render(line)
		}
		steps.WriteString(line)
		if i < len(f.draft.Subtasks)-1 {
			steps.WriteString("\n")
		}
	}
	if f.subEditing {
		steps.WriteString("\n" + f.subInput.View())
	}
	b.WriteString(box(editSubtasks, steps.String()) + "\n")

	if f.err != "" {
		b.WriteString(styles.Error.Render(f.err) + "\n")
	}
	b.WriteString(styles.HelpDesc.Render("tab next field · ctrl+s save · esc cancel"))

	return styles.Panel.Render(b.String())
}
