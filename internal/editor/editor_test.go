package editor

import (
	"testing"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func titles(d *Draft) []string {
	var out []string
	for _, s := range d.Subtasks {
		out = append(out, s.Title)
	}
	return out
}

func TestMoveSubtask(t *testing.T) {
	d := New()
	for _, title := range []string{"a", "b", "c", "d"} {
		d.AddSubtask(model.Subtask{Title: title})
	}

	require.NoError(t, d.MoveSubtask(0, 2))
	assert.Equal(t, []string{"b", "c", "a", "d"}, titles(d))

	require.NoError(t, d.MoveSubtask(3, 0))
	assert.Equal(t, []string{"d", "b", "c", "a"}, titles(d))

	require.NoError(t, d.MoveSubtask(1, 1))
	assert.Equal(t, []string{"d", "b", "c", "a"}, titles(d))

	assert.ErrorIs(t, d.MoveSubtask(0, 4), model.ErrInvalidIndex)
	assert.ErrorIs(t, d.MoveSubtask(-1, 0), model.ErrInvalidIndex)
}

func TestSubtaskEditing(t *testing.T) {
	d := New()
	a := d.AddSubtask(model.Subtask{Title: " Pack "})
	b := d.AddSubtask(model.Subtask{Title: "Clean"})
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Pack", a.Title)

	d.Subtasks[0].IsCompleted = true
	require.NoError(t, d.UpdateSubtask(model.Subtask{ID: a.ID, Title: "Pack boxes", Time: model.Minutes(30)}))
	assert.Equal(t, "Pack boxes", d.Subtasks[0].Title)
	assert.True(t, d.Subtasks[0].IsCompleted, "completion survives an edit")

	require.NoError(t, d.RemoveSubtask(b.ID))
	assert.Len(t, d.Subtasks, 1)
	assert.ErrorIs(t, d.RemoveSubtask(b.ID), model.ErrInvalidIndex)
	assert.ErrorIs(t, d.UpdateSubtask(model.Subtask{ID: "nope", Title: "x"}), model.ErrInvalidIndex)
}

func TestValidate(t *testing.T) {
	tags := model.DefaultTags()

	d := New()
	assert.ErrorIs(t, d.Validate(tags), model.ErrEmptyTitle)

	d.Title = "Read"
	assert.ErrorIs(t, d.Validate(tags), model.ErrTagRequired)

	d.TagID = "missing"
	assert.ErrorIs(t, d.Validate(tags), model.ErrUnknownTag)

	d.TagID = "default-school"
	assert.NoError(t, d.Validate(tags))

	d.IsTemp = true
	d.TagID = ""
	assert.NoError(t, d.Validate(tags))

	d.AddSubtask(model.Subtask{Title: "  "})
	assert.ErrorIs(t, d.Validate(tags), model.ErrEmptyTitle)
}

func TestRecordNewContainerNullsAttributes(t *testing.T) {
	deadline := now.Add(48 * time.Hour)
	d := New()
	d.Title = "Essay"
	d.TagID = "default-school"
	d.EstTime = model.Minutes(60)
	d.Energy = model.EnergyHigh
	d.Deadline = &deadline
	d.Note = "intro first"
	d.AddSubtask(model.Subtask{Title: "Outline"})

	rec := d.Record(nil, now)
	assert.Nil(t, rec.EstTime)
	assert.Empty(t, rec.Energy)
	assert.Nil(t, rec.Deadline)
	assert.Empty(t, rec.Note)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.True(t, now.Equal(rec.CreatedAt))
}

func TestRecordTempClearsTag(t *testing.T) {
	d := New()
	d.Title = "Someday"
	d.IsTemp = true
	d.TagID = "default-life"

	rec := d.Record(nil, now)
	assert.Empty(t, rec.TagID)
}

func TestRecordEditPreservesLeafState(t *testing.T) {
	created := now.Add(-72 * time.Hour)
	done := now.Add(-time.Hour)
	existing := model.Task{
		ID: "t1", Title: "Gym", TagID: "default-life", Status: model.StatusCompleted,
		CreatedAt: created,
	}
	existing.CompletedAt = &done
	existing.Reflection = "good"

	d := FromTask(existing)
	d.Title = "Gym session"
	rec := d.Record(&existing, now)

	assert.Equal(t, "t1", rec.ID)
	assert.Equal(t, "Gym session", rec.Title)
	assert.True(t, created.Equal(rec.CreatedAt))
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.Equal(t, "good", rec.Reflection)
}

func TestRecordEditReopensContainer(t *testing.T) {
	done := now.Add(-time.Hour)
	existing := model.Task{
		ID: "t1", Title: "Trip", TagID: "default-life", Status: model.StatusCompleted,
		Subtasks: []model.Subtask{{ID: "a", Title: "Book", IsCompleted: true}},
	}
	existing.CompletedAt = &done

	d := FromTask(existing)
	d.AddSubtask(model.Subtask{Title: "Pack"})
	rec := d.Record(&existing, now)

	assert.Equal(t, model.StatusPending, rec.Status)
	require.NotNil(t, rec.CompletedAt)
	assert.True(t, done.Equal(*rec.CompletedAt), "completedAt is never cleared")
}

func TestRecordCompletesContainerWhenOpenSubtaskRemoved(t *testing.T) {
	existing := model.Task{
		ID: "t1", Title: "Trip", TagID: "default-life", Status: model.StatusPending,
		Subtasks: []model.Subtask{
			{ID: "a", Title: "Book", IsCompleted: true},
			{ID: "b", Title: "Pack"},
		},
	}

	d := FromTask(existing)
	require.NoError(t, d.RemoveSubtask("b"))
	rec := d.Record(&existing, now)

	assert.Equal(t, model.StatusCompleted, rec.Status)
	require.NotNil(t, rec.CompletedAt)
	assert.True(t, now.Equal(*rec.CompletedAt))
}

func TestFromTaskDoesNotAlias(t *testing.T) {
	existing := model.Task{ID: "t1", Title: "x", Subtasks: []model.Subtask{{ID: "a", Title: "A"}}}
	d := FromTask(existing)
	d.Subtasks[0].Title = "changed"
	assert.Equal(t, "A", existing.Subtasks[0].Title)
}
