package store

import (
	"time"

	"github.com/dori/slowly/internal/model"
)

// TaskPatch is a partial task record. Nil fields are left untouched; a
// pointer to a zero value clears the field.
type TaskPatch struct {
	Title       *string
	IsTemp      *bool
	TagID       *string
	Status      *model.Status
	EstTime     *int
	Energy      *model.Energy
	Deadline    *time.Time
	Note        *string
	Subtasks    *[]model.Subtask
	CompletedAt *time.Time
	ActualTime  *int
	Reflection  *string
}

// ContentPatch returns a patch that overwrites every user-editable field of a
// task with the values in t. CreatedAt is never part of a patch.
func ContentPatch(t model.Task) TaskPatch {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []model.Subtask{}
	}
	p := TaskPatch{
		Title:       &t.Title,
		IsTemp:      &t.IsTemp,
		TagID:       &t.TagID,
		Status:      &t.Status,
		EstTime:     zeroIfNil(t.EstTime),
		Energy:      &t.Energy,
		Deadline:    zeroTimeIfNil(t.Deadline),
		Note:        &t.Note,
		Subtasks:    &subtasks,
		CompletedAt: zeroTimeIfNil(t.CompletedAt),
		ActualTime:  zeroIfNil(t.ActualTime),
		Reflection:  &t.Reflection,
	}
	return p
}

// RetrospectivePatch returns a patch that writes only the retrospective fields
func RetrospectivePatch(r model.Retrospective) TaskPatch {
	return TaskPatch{
		CompletedAt: zeroTimeIfNil(r.CompletedAt),
		ActualTime:  zeroIfNil(r.ActualTime),
		Reflection:  &r.Reflection,
	}
}

// IsEmpty returns true if the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

// Apply writes the patch onto t
func (p TaskPatch) Apply(t *model.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.IsTemp != nil {
		t.IsTemp = *p.IsTemp
	}
	if p.TagID != nil {
		t.TagID = *p.TagID
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.EstTime != nil {
		t.EstTime = model.Minutes(*p.EstTime)
	}
	if p.Energy != nil {
		t.Energy = *p.Energy
	}
	if p.Deadline != nil {
		t.Deadline = timePtr(*p.Deadline)
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.Subtasks != nil {
		t.Subtasks = make([]model.Subtask, len(*p.Subtasks))
		copy(t.Subtasks, *p.Subtasks)
	}
	if p.CompletedAt != nil {
		t.CompletedAt = timePtr(*p.CompletedAt)
	}
	if p.ActualTime != nil {
		t.ActualTime = model.Minutes(*p.ActualTime)
	}
	if p.Reflection != nil {
		t.Reflection = *p.Reflection
	}
}

// TagPatch is a partial tag record
type TagPatch struct {
	Name  *string
	Color *model.Color
}

// Apply writes the patch onto t
func (p TagPatch) Apply(t *model.Tag) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
}

func zeroIfNil(v *int) *int {
	if v == nil {
		zero := 0
		return &zero
	}
	c := *v
	return &c
}

func zeroTimeIfNil(v *time.Time) *time.Time {
	if v == nil {
		return &time.Time{}
	}
	c := *v
	return &c
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
