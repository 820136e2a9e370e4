package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/quickadd"
	"github.com/dori/slowly/internal/ui/theme"
)

const (
	fieldCompletedAt = iota
	fieldActualTime
	fieldReflection
	completeFieldCount
)

// completedAtLayout is how the completion time is typed and shown
const completedAtLayout = "2006-01-02 15:04"

// CompleteForm collects the retrospective for the engine's open draft
type CompleteForm struct {
	ctx    context.Context
	app    *app.App
	width  int
	height int

	draft   completion.Draft
	heading string

	focus      int
	completed  textinput.Model
	actual     textinput.Model
	reflection textarea.Model
	err        string
	done       bool
}

// NewCompleteForm opens a form over the engine's current draft
func NewCompleteForm(ctx context.Context, a *app.App) (CompleteForm, bool) {
	d, ok := a.Engine.Current()
	if !ok {
		return CompleteForm{}, false
	}

	f := CompleteForm{ctx: ctx, app: a, draft: d}
	f.heading = f.title()

	f.completed = textinput.New()
	f.completed.Placeholder = "now"
	f.completed.CharLimit = 32
	if d.CompletedAt != nil {
		f.completed.SetValue(d.CompletedAt.In(a.Location).Format(completedAtLayout))
	}

	f.actual = textinput.New()
	f.actual.Placeholder = "how long it took, like 40m or 1h30m"
	f.actual.CharLimit = 16
	if m := d.ActualMinutes(); m > 0 {
		f.actual.SetValue(model.FormatMinutes(m))
	}

	f.reflection = textarea.New()
	f.reflection.Placeholder = "How did it go?"
	f.reflection.ShowLineNumbers = false
	f.reflection.CharLimit = 2000
	f.reflection.SetHeight(4)
	f.reflection.SetValue(d.Reflection)

	f.focus = fieldActualTime
	f.actual.Focus()
	return f, true
}

func (f CompleteForm) title() string {
	t, _ := f.app.Mirror.Task(f.draft.TaskID)
	name := t.Title
	if f.draft.Kind == completion.KindSub {
		if i, ok := t.SubtaskIndex(f.draft.SubtaskID); ok {
			name = t.Subtasks[i].Title + " · " + t.Title
		}
	}
	if f.draft.Correction {
		return "Correct: " + name
	}
	return "Complete: " + name
}

// Init initializes the form
func (f CompleteForm) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the form dimensions
func (f CompleteForm) SetSize(width, height int) CompleteForm {
	f.width = width
	f.height = height
	inner := width - 10
	if inner > 70 {
		inner = 70
	}
	f.completed.Width = inner
	f.actual.Width = inner
	f.reflection.SetWidth(inner)
	return f
}

// Done reports whether the form was confirmed or cancelled
func (f CompleteForm) Done() bool {
	return f.done
}

// Draft returns the draft the form was opened for
func (f CompleteForm) Draft() completion.Draft {
	return f.draft
}

// Update handles messages for the form
func (f CompleteForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.app.Engine.Discard()
			f.done = true
			return f, nil
		case "tab", "down":
			if keyMsg.String() == "tab" || f.focus != fieldReflection {
				return f.setFocus((f.focus + 1) % completeFieldCount), nil
			}
		case "shift+tab", "up":
			if keyMsg.String() == "shift+tab" || f.focus != fieldReflection {
				return f.setFocus((f.focus + completeFieldCount - 1) % completeFieldCount), nil
			}
		case "ctrl+s":
			return f.submit()
		case "enter":
			if f.focus != fieldReflection {
				return f.submit()
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldCompletedAt:
		f.completed, cmd = f.completed.Update(msg)
	case fieldActualTime:
		f.actual, cmd = f.actual.Update(msg)
	case fieldReflection:
		f.reflection, cmd = f.reflection.Update(msg)
	}
	return f, cmd
}

func (f CompleteForm) setFocus(i int) CompleteForm {
	f.focus = i
	f.completed.Blur()
	f.actual.Blur()
	f.reflection.Blur()
	switch i {
	case fieldCompletedAt:
		f.completed.Focus()
	case fieldActualTime:
		f.actual.Focus()
	case fieldReflection:
		f.reflection.Focus()
	}
	return f
}

// submit pushes the typed values into the engine and confirms
func (f CompleteForm) submit() (tea.Model, tea.Cmd) {
	now := f.app.Now().In(f.app.Location)

	minutes := 0
	if raw := strings.TrimSpace(f.actual.Value()); raw != "" {
		minutes = quickadd.ParseMinutes(raw)
		if minutes <= 0 {
			f.err = fmt.Sprintf("could not read %q as a duration", raw)
			return f.setFocus(fieldActualTime), nil
		}
	}

	var at time.Time
	if raw := strings.TrimSpace(f.completed.Value()); raw != "" {
		parsed, err := parseCompletedAt(raw, now)
		if err != nil {
			f.err = err.Error()
			return f.setFocus(fieldCompletedAt), nil
		}
		at = parsed
	}

	f.app.Engine.SetActualTime(minutes)
	f.app.Engine.SetReflection(strings.TrimSpace(f.reflection.Value()))
	if !at.IsZero() {
		f.app.Engine.SetCompletedAt(at)
	}

	f.done = true
	a, ctx, correction := f.app, f.ctx, f.draft.Correction
	return f, func() tea.Msg {
		ev, err := a.ConfirmCompletion(ctx)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return CompletedMsg{Event: ev, Correction: correction}
	}
}

// parseCompletedAt reads "2006-01-02 15:04", a bare date or a word like
// yesterday. Dates without a clock keep the current time of day.
func parseCompletedAt(raw string, now time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(completedAtLayout, raw, now.Location()); err == nil {
		return t, nil
	}
	day := quickadd.ParseDate(raw, now)
	if day == nil {
		return time.Time{}, fmt.Errorf("could not read %q as a date", raw)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), 0, 0, now.Location()), nil
}

// View renders the form
func (f CompleteForm) View() string {
	styles := theme.Current.Styles
	var b strings.Builder

	b.WriteString(styles.PanelTitle.Render(f.heading))
	b.WriteString("\n\n")

	field := func(i int, label, view string) {
		b.WriteString(styles.Label.Render(label))
		b.WriteString("\n")
		if f.focus == i {
			b.WriteString(styles.InputFocused.Render(view))
		} else {
			b.WriteString(styles.Input.Render(view))
		}
		b.WriteString("\n")
	}
	field(fieldCompletedAt, "Finished at", f.completed.View())
	field(fieldActualTime, "Time it took", f.actual.View())
	field(fieldReflection, "Reflection", f.reflection.View())

	if f.err != "" {
		b.WriteString(styles.Error.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpDesc.Render("tab next field · enter or ctrl+s save · esc cancel"))

	return styles.Panel.Render(b.String())
}
