package app

import (
	"context"
	"errors"
	"time"

	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/editor"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/quickadd"
	"github.com/dori/slowly/internal/store"
	"github.com/dori/slowly/internal/views"
)

// Dashboard returns the current dashboard partition
func (a *App) Dashboard() views.Dashboard {
	return views.BuildDashboard(a.Mirror.Tasks(), a.Mirror.Tags())
}

// History returns the completion timeline in the configured zone
func (a *App) History() []views.Day {
	return views.BuildHistory(a.Mirror.Tasks(), a.Location, a.now())
}

// Overdue returns pending leaf tasks past their deadline
func (a *App) Overdue() []model.Task {
	var out []model.Task
	now := a.now().In(a.Location)
	for _, t := range a.Mirror.Tasks() {
		if t.IsOverdue(now) {
			out = append(out, t)
		}
	}
	return out
}

// QuickAdd parses a quick add line and creates the task
func (a *App) QuickAdd(ctx context.Context, text string) (string, error) {
	d, err := quickadd.Parse(text, a.now().In(a.Location)).Draft(a.Mirror.EffectiveTags())
	if err != nil {
		return "", err
	}
	return a.SaveTask(ctx, d)
}

// BeginEdit opens an edit draft for an existing task. Only one edit draft is
// tracked; opening another replaces it.
func (a *App) BeginEdit(taskID string) (*editor.Draft, bool) {
	t, ok := a.Mirror.Task(taskID)
	if !ok {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.editing != "" && a.editing != taskID {
		a.Log.Info("edit draft replaced", "old_task", a.editing, "new_task", taskID)
	}
	a.editing = taskID
	return editor.FromTask(t), true
}

// EndEdit forgets the open edit draft
func (a *App) EndEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.editing = ""
}

// Editing returns the task id of the open edit draft
func (a *App) Editing() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.editing, a.editing != ""
}

// SaveTask validates a draft and creates or updates the task. It returns the
// task id.
func (a *App) SaveTask(ctx context.Context, d *editor.Draft) (string, error) {
	if err := d.Validate(a.Mirror.EffectiveTags()); err != nil {
		return "", err
	}

	if d.IsNew() {
		rec := d.Record(nil, a.now())
		// The store stamps creation time so ordering stays stable
		rec.CreatedAt = time.Time{}
		id, err := a.Store.CreateTask(ctx, rec)
		if err != nil {
			return "", a.persistErr("create task", err)
		}
		a.Log.Debug("task created", "task", id, "container", rec.IsContainer())
		return id, nil
	}

	existing, ok := a.Mirror.Task(d.TaskID)
	if !ok {
		return "", a.persistErr("update task", store.ErrNotFound)
	}
	rec := d.Record(&existing, a.now())
	if err := a.Store.UpdateTask(ctx, rec.ID, store.ContentPatch(rec)); err != nil {
		return "", a.persistErr("update task", err)
	}

	a.mu.Lock()
	if a.editing == rec.ID {
		a.editing = ""
	}
	a.mu.Unlock()
	return rec.ID, nil
}

// DeleteTask removes a task. Any completion or edit draft targeting it is
// cancelled first. The returned flag reports whether a draft was cancelled.
func (a *App) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	cancelled := a.Engine.TaskDeleted(taskID)

	a.mu.Lock()
	if a.editing == taskID {
		a.editing = ""
		cancelled = true
	}
	a.mu.Unlock()

	if err := a.Store.DeleteTask(ctx, taskID); err != nil {
		return cancelled, a.persistErr("delete task", err)
	}
	return cancelled, nil
}

// ConfirmCompletion persists the engine's open draft and celebrates when it
// lands. A nil event with a nil error means the draft no longer applied.
func (a *App) ConfirmCompletion(ctx context.Context) (*completion.Event, error) {
	ev, err := a.Engine.Confirm(ctx)
	if errors.Is(err, completion.ErrNoDraft) {
		return nil, err
	}
	if err != nil {
		return nil, a.persistErr("complete", err)
	}
	if ev != nil {
		a.celebrate(ev)
	}
	return ev, nil
}

// CompleteNow completes a task (subtaskID empty) or a subtask in one step.
// It bypasses the draft slot, so a draft open in a shell is left alone.
func (a *App) CompleteNow(ctx context.Context, taskID, subtaskID string, actualMinutes int, reflection string) (*completion.Event, error) {
	kind := completion.KindMain
	if subtaskID != "" {
		kind = completion.KindSub
	}
	r := model.Retrospective{ActualTime: model.Minutes(actualMinutes), Reflection: reflection}
	ev, err := a.Engine.Complete(ctx, kind, taskID, subtaskID, r)
	if err != nil {
		return nil, a.persistErr("complete", err)
	}
	if ev == nil {
		return nil, ErrNotCompletable
	}
	a.celebrate(ev)
	return ev, nil
}

func (a *App) celebrate(ev *completion.Event) {
	parent := ""
	if ev.ParentCompleted {
		parent = ev.ParentTitle
	}
	if err := a.Notifier.SendCompletion(ev.Title, parent, ev.ActualMinutes()); err != nil {
		a.Log.Debug("notification failed", "err", err)
	}
}
