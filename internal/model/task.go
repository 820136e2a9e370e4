package model

import (
	"time"
)

// Status represents the current state of a task
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Energy describes how much focus a piece of work needs
type Energy string

const (
	EnergyHigh Energy = "high"
	EnergyLow  Energy = "low"
)

// Valid reports whether e is a known energy level. The empty value is valid
// and means "not set".
func (e Energy) Valid() bool {
	return e == "" || e == EnergyHigh || e == EnergyLow
}

// Task represents a captured commitment. A task with subtasks is a container:
// its effort attributes live on the subtasks and its status is derived from
// them by Rollup.
type Task struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	IsTemp    bool       `json:"isTemp" yaml:"isTemp"`
	TagID     string     `json:"tagId,omitempty" yaml:"tagId,omitempty"`
	Status    Status     `json:"status" yaml:"status"`
	EstTime   *int       `json:"estTime,omitempty" yaml:"estTime,omitempty"` // Minutes
	Energy    Energy     `json:"energy,omitempty" yaml:"energy,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Note      string     `json:"note,omitempty" yaml:"note,omitempty"`
	Subtasks  []Subtask  `json:"subtasks" yaml:"subtasks"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`

	Retrospective `yaml:",inline"`
}

// Subtask is one ordered step of a container task
type Subtask struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Time        *int       `json:"time,omitempty" yaml:"time,omitempty"` // Minutes
	Energy      Energy     `json:"energy,omitempty" yaml:"energy,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Note        string     `json:"note,omitempty" yaml:"note,omitempty"`
	IsCompleted bool       `json:"isCompleted" yaml:"isCompleted"`

	Retrospective `yaml:",inline"`
}

// IsContainer returns true if the task is decomposed into subtasks
func (t *Task) IsContainer() bool {
	return len(t.Subtasks) > 0
}

// IsLeaf returns true if the task has no subtasks
func (t *Task) IsLeaf() bool {
	return len(t.Subtasks) == 0
}

// IsCompleted returns true if the task status is completed
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasOpenSubtasks returns true if at least one subtask is not complete
func (t *Task) HasOpenSubtasks() bool {
	for _, s := range t.Subtasks {
		if !s.IsCompleted {
			return true
		}
	}
	return false
}

// OpenSubtasks returns the subtasks still waiting to be done, in order
func (t *Task) OpenSubtasks() []Subtask {
	var open []Subtask
	for _, s := range t.Subtasks {
		if !s.IsCompleted {
			open = append(open, s)
		}
	}
	return open
}

// SubtaskIndex returns the position of the subtask with the given id
func (t *Task) SubtaskIndex(id string) (int, bool) {
	for i, s := range t.Subtasks {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Normalize enforces the shape invariants before a task is saved: containers
// carry no effort attributes and inbox tasks carry no tag.
func (t *Task) Normalize() {
	if t.IsContainer() {
		t.EstTime = nil
		t.Energy = ""
		t.Deadline = nil
		t.Note = ""
	}
	if t.IsTemp {
		t.TagID = ""
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
}

// MarkCompleted completes a leaf task with the given retrospective.
// Status is written only here and in Rollup.
func (t *Task) MarkCompleted(r Retrospective) {
	t.Status = StatusCompleted
	t.Retrospective = r
}

// Rollup derives a container's status from its subtasks. When the container
// transitions to completed, CompletedAt is set to at. An existing CompletedAt
// is never cleared. Returns true when the task newly became completed.
func (t *Task) Rollup(at time.Time) bool {
	if t.IsLeaf() {
		return false
	}

	if t.HasOpenSubtasks() {
		t.Status = StatusPending
		return false
	}

	if t.Status == StatusCompleted {
		return false
	}

	t.Status = StatusCompleted
	completedAt := at
	t.CompletedAt = &completedAt
	return true
}

// TotalEstimate returns the estimated minutes for the task: its own estimate
// for a leaf, or the sum of subtask times for a container.
func (t *Task) TotalEstimate() int {
	if t.IsLeaf() {
		if t.EstTime == nil {
			return 0
		}
		return *t.EstTime
	}

	total := 0
	for _, s := range t.Subtasks {
		if s.Time != nil {
			total += *s.Time
		}
	}
	return total
}

// IsOverdue returns true if a pending leaf task is past its deadline day
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.IsCompleted() || t.IsContainer() {
		return false
	}
	return DateKey(now, now.Location()) > DateKey(*t.Deadline, now.Location())
}

// Clone returns a copy of the task that shares no mutable state
func (t Task) Clone() Task {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	return c
}
