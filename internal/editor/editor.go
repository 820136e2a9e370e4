// Package editor holds the in-progress edit of a single task, including
// subtask add, remove and reorder, and turns it into the record to save.
package editor

import (
	"strings"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/google/uuid"
)

// Draft is a task being created or edited
type Draft struct {
	TaskID   string // empty for a new task
	Title    string
	IsTemp   bool
	TagID    string
	EstTime  *int
	Energy   model.Energy
	Deadline *time.Time
	Note     string
	Subtasks []model.Subtask
}

// New starts a draft for a new task
func New() *Draft {
	return &Draft{}
}

// FromTask starts a draft editing an existing task
func FromTask(t model.Task) *Draft {
	c := t.Clone()
	return &Draft{
		TaskID:   c.ID,
		Title:    c.Title,
		IsTemp:   c.IsTemp,
		TagID:    c.TagID,
		EstTime:  c.EstTime,
		Energy:   c.Energy,
		Deadline: c.Deadline,
		Note:     c.Note,
		Subtasks: c.Subtasks,
	}
}

// IsNew returns true when the draft will create a task
func (d *Draft) IsNew() bool {
	return d.TaskID == ""
}

// NewSubtaskID returns a short id unique within a task
func NewSubtaskID() string {
	return uuid.New().String()[:8]
}

// AddSubtask appends a subtask and returns it
func (d *Draft) AddSubtask(s model.Subtask) model.Subtask {
	if s.ID == "" {
		s.ID = NewSubtaskID()
	}
	s.Title = strings.TrimSpace(s.Title)
	s.IsCompleted = false
	s.Retrospective = model.Retrospective{}
	d.Subtasks = append(d.Subtasks, s)
	return s
}

// UpdateSubtask replaces the editable fields of the subtask with s.ID.
// Completion state is kept.
func (d *Draft) UpdateSubtask(s model.Subtask) error {
	for i, existing := range d.Subtasks {
		if existing.ID != s.ID {
			continue
		}
		s.Title = strings.TrimSpace(s.Title)
		s.IsCompleted = existing.IsCompleted
		s.Retrospective = existing.Retrospective
		d.Subtasks[i] = s
		return nil
	}
	return model.ErrInvalidIndex
}

// RemoveSubtask drops the subtask with id
func (d *Draft) RemoveSubtask(id string) error {
	for i, s := range d.Subtasks {
		if s.ID == id {
			d.Subtasks = append(d.Subtasks[:i], d.Subtasks[i+1:]...)
			return nil
		}
	}
	return model.ErrInvalidIndex
}

// MoveSubtask moves the subtask at from so it ends up at to
func (d *Draft) MoveSubtask(from, to int) error {
	n := len(d.Subtasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return model.ErrInvalidIndex
	}
	if from == to {
		return nil
	}

	s := d.Subtasks[from]
	d.Subtasks = append(d.Subtasks[:from], d.Subtasks[from+1:]...)
	d.Subtasks = append(d.Subtasks[:to], append([]model.Subtask{s}, d.Subtasks[to:]...)...)
	return nil
}

// Validate checks the draft against the effective tag set
func (d *Draft) Validate(tags []model.Tag) error {
	t := d.task()
	t.Normalize()
	return model.ValidateTask(t, tags)
}

// Record builds the task to persist. existing is the stored task when
// editing, nil when creating. Container attributes are cleared, CreatedAt is
// kept on edit, a leaf keeps its status and retrospective, and a container's
// status is derived again from its subtasks.
func (d *Draft) Record(existing *model.Task, now time.Time) model.Task {
	t := d.task()

	if existing != nil {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		t.Status = existing.Status
		t.Retrospective = existing.Retrospective
	} else {
		t.CreatedAt = now
		t.Status = model.StatusPending
	}

	t.Normalize()
	t.Rollup(now)
	return t
}

func (d *Draft) task() model.Task {
	subtasks := make([]model.Subtask, len(d.Subtasks))
	copy(subtasks, d.Subtasks)
	return model.Task{
		ID:       d.TaskID,
		Title:    strings.TrimSpace(d.Title),
		IsTemp:   d.IsTemp,
		TagID:    d.TagID,
		EstTime:  d.EstTime,
		Energy:   d.Energy,
		Deadline: d.Deadline,
		Note:     strings.TrimSpace(d.Note),
		Subtasks: subtasks,
	}
}
