// Package completion drives tasks and subtasks from pending to completed and
// lets already completed work have its retrospective corrected.
//
// The engine has a single draft slot. Begin and BeginCorrection fill it,
// Confirm and Discard empty it. Opening a draft while another is open
// replaces the old one.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
)

// Kind says whether a draft targets a task or one of its subtasks
type Kind string

const (
	KindMain Kind = "main"
	KindSub  Kind = "sub"
)

// ErrNoDraft is returned by Confirm when the slot is empty
var ErrNoDraft = errors.New("no completion draft open")

// TaskSource returns the latest known copy of a task
type TaskSource interface {
	Task(id string) (model.Task, bool)
}

// Draft is the retrospective being filled in
type Draft struct {
	Kind       Kind
	TaskID     string
	SubtaskID  string
	Correction bool
	model.Retrospective
}

// Event describes a completion that was persisted
type Event struct {
	Kind      Kind
	TaskID    string
	SubtaskID string
	Title     string
	// ParentTitle is set for subtask completions
	ParentTitle string
	// ParentCompleted is true when a subtask completion finished its parent
	ParentCompleted bool
	model.Retrospective
}

// Engine owns the draft slot
type Engine struct {
	mu    sync.Mutex
	draft *Draft

	// commitMu serializes the check and write of every commit
	commitMu sync.Mutex

	tasks TaskSource
	store store.TaskWriter
	log   *slog.Logger
	now   func() time.Time
}

// New creates an engine reading tasks from src and writing through w
func New(src TaskSource, w store.TaskWriter, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{tasks: src, store: w, log: log, now: time.Now}
}

// SetClock replaces the clock used to seed drafts
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// Begin opens a completion draft. It refuses, returning false, when the task
// is unknown, the task is already completed (main), the task is a container
// (main), or the subtask is unknown or already complete (sub).
func (e *Engine) Begin(kind Kind, taskID, subtaskID string) bool {
	t, ok := e.tasks.Task(taskID)
	if !ok || !canComplete(t, kind, subtaskID) {
		e.log.Debug("completion refused", "kind", kind, "task", taskID, "subtask", subtaskID)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	e.open(&Draft{
		Kind:          kind,
		TaskID:        taskID,
		SubtaskID:     subtaskIDFor(kind, subtaskID),
		Retrospective: model.Retrospective{CompletedAt: &now},
	})
	return true
}

// BeginCorrection opens a draft on completed work, seeded from its current
// retrospective. Confirming it never touches status.
func (e *Engine) BeginCorrection(kind Kind, taskID, subtaskID string) bool {
	t, ok := e.tasks.Task(taskID)
	if !ok {
		return false
	}
	r, ok := completedRetrospective(t, kind, subtaskID)
	if !ok {
		e.log.Debug("correction refused", "kind", kind, "task", taskID, "subtask", subtaskID)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if r.CompletedAt == nil {
		now := e.now()
		r.CompletedAt = &now
	}
	e.open(&Draft{
		Kind:          kind,
		TaskID:        taskID,
		SubtaskID:     subtaskIDFor(kind, subtaskID),
		Correction:    true,
		Retrospective: r,
	})
	return true
}

func (e *Engine) open(d *Draft) {
	if e.draft != nil {
		e.log.Info("draft replaced", "old_task", e.draft.TaskID, "new_task", d.TaskID)
	}
	e.draft = d
}

// Current returns a copy of the open draft
func (e *Engine) Current() (Draft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return Draft{}, false
	}
	return *e.draft, true
}

// SetCompletedAt changes the draft's completion time
func (e *Engine) SetCompletedAt(at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft != nil {
		e.draft.CompletedAt = &at
	}
}

// SetActualTime changes the draft's time spent. Zero or less clears it.
func (e *Engine) SetActualTime(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft != nil {
		e.draft.ActualTime = model.Minutes(minutes)
	}
}

// SetReflection changes the draft's reflection text
func (e *Engine) SetReflection(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft != nil {
		e.draft.Reflection = text
	}
}

// Discard abandons the open draft
func (e *Engine) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
}

// TaskDeleted drops the open draft if it targets taskID.
// Returns true when a draft was dropped.
func (e *Engine) TaskDeleted(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil || e.draft.TaskID != taskID {
		return false
	}
	e.draft = nil
	return true
}

// Confirm persists the open draft and empties the slot. It returns a nil
// event without error when the task vanished or the draft no longer applies.
// Correction drafts never produce an event.
func (e *Engine) Confirm(ctx context.Context) (*Event, error) {
	e.mu.Lock()
	d := e.draft
	e.draft = nil
	e.mu.Unlock()

	if d == nil {
		return nil, ErrNoDraft
	}
	return e.commit(ctx, d)
}

// Complete finishes a task or subtask in one step with the given
// retrospective. It never touches the draft slot, so an open draft stays
// open. A zero CompletedAt means now. Like Confirm, it returns a nil event
// without error when the target is gone or already complete.
func (e *Engine) Complete(ctx context.Context, kind Kind, taskID, subtaskID string, r model.Retrospective) (*Event, error) {
	if r.CompletedAt == nil {
		e.mu.Lock()
		now := e.now()
		e.mu.Unlock()
		r.CompletedAt = &now
	}
	return e.commit(ctx, &Draft{
		Kind:          kind,
		TaskID:        taskID,
		SubtaskID:     subtaskIDFor(kind, subtaskID),
		Retrospective: r,
	})
}

func (e *Engine) commit(ctx context.Context, d *Draft) (*Event, error) {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	t, ok := e.tasks.Task(d.TaskID)
	if !ok {
		e.log.Info("draft target gone", "task", d.TaskID)
		return nil, nil
	}

	if d.Correction {
		return nil, e.confirmCorrection(ctx, t, d)
	}

	if !canComplete(t, d.Kind, d.SubtaskID) {
		e.log.Info("draft no longer applies", "task", d.TaskID, "subtask", d.SubtaskID)
		return nil, nil
	}

	switch d.Kind {
	case KindSub:
		return e.confirmSub(ctx, t, d)
	default:
		return e.confirmMain(ctx, t, d)
	}
}

func (e *Engine) confirmMain(ctx context.Context, t model.Task, d *Draft) (*Event, error) {
	t.MarkCompleted(d.Retrospective)

	p := store.RetrospectivePatch(t.Retrospective)
	p.Status = &t.Status
	if err := e.store.UpdateTask(ctx, t.ID, p); err != nil {
		e.log.Error("complete task failed", "task", t.ID, "err", err)
		return nil, fmt.Errorf("complete %q: %w", t.Title, err)
	}

	e.log.Debug("task completed", "task", t.ID)
	return &Event{
		Kind:          KindMain,
		TaskID:        t.ID,
		Title:         t.Title,
		Retrospective: d.Retrospective,
	}, nil
}

func (e *Engine) confirmSub(ctx context.Context, t model.Task, d *Draft) (*Event, error) {
	idx, _ := t.SubtaskIndex(d.SubtaskID)
	sub := t.Subtasks[idx]
	sub.IsCompleted = true
	sub.Retrospective = d.Retrospective
	t.Subtasks[idx] = sub

	finished := t.Rollup(d.CompletedAtOr(e.now()))

	p := store.TaskPatch{Subtasks: &t.Subtasks, Status: &t.Status}
	if finished {
		p.CompletedAt = t.CompletedAt
	}
	if err := e.store.UpdateTask(ctx, t.ID, p); err != nil {
		e.log.Error("complete subtask failed", "task", t.ID, "subtask", sub.ID, "err", err)
		return nil, fmt.Errorf("complete %q: %w", sub.Title, err)
	}

	e.log.Debug("subtask completed", "task", t.ID, "subtask", sub.ID, "parent_completed", finished)
	return &Event{
		Kind:            KindSub,
		TaskID:          t.ID,
		SubtaskID:       sub.ID,
		Title:           sub.Title,
		ParentTitle:     t.Title,
		ParentCompleted: finished,
		Retrospective:   d.Retrospective,
	}, nil
}

func (e *Engine) confirmCorrection(ctx context.Context, t model.Task, d *Draft) error {
	if _, ok := completedRetrospective(t, d.Kind, d.SubtaskID); !ok {
		e.log.Info("correction no longer applies", "task", d.TaskID, "subtask", d.SubtaskID)
		return nil
	}

	var p store.TaskPatch
	if d.Kind == KindSub {
		idx, _ := t.SubtaskIndex(d.SubtaskID)
		t.Subtasks[idx].Retrospective = d.Retrospective
		p.Subtasks = &t.Subtasks
	} else {
		p = store.RetrospectivePatch(d.Retrospective)
	}

	if err := e.store.UpdateTask(ctx, t.ID, p); err != nil {
		e.log.Error("correction failed", "task", t.ID, "err", err)
		return fmt.Errorf("correct %q: %w", t.Title, err)
	}
	return nil
}

// canComplete holds the Begin preconditions
func canComplete(t model.Task, kind Kind, subtaskID string) bool {
	switch kind {
	case KindMain:
		return !t.IsCompleted() && t.IsLeaf()
	case KindSub:
		idx, ok := t.SubtaskIndex(subtaskID)
		return ok && !t.Subtasks[idx].IsCompleted
	}
	return false
}

func completedRetrospective(t model.Task, kind Kind, subtaskID string) (model.Retrospective, bool) {
	switch kind {
	case KindMain:
		if t.IsCompleted() {
			return t.Retrospective, true
		}
	case KindSub:
		idx, ok := t.SubtaskIndex(subtaskID)
		if ok && t.Subtasks[idx].IsCompleted {
			return t.Subtasks[idx].Retrospective, true
		}
	}
	return model.Retrospective{}, false
}

func subtaskIDFor(kind Kind, id string) string {
	if kind == KindSub {
		return id
	}
	return ""
}
