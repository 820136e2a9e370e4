package completion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadSource reads tasks straight from the store so tests see writes at once
type loadSource struct {
	s *store.MemoryStore
}

func (l loadSource) Task(id string) (model.Task, bool) {
	snap, err := l.s.Load(context.Background(), store.CollectionTasks)
	if err != nil {
		return model.Task{}, false
	}
	for _, t := range snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

var clock = time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Engine, *store.MemoryStore, loadSource) {
	t.Helper()
	s := store.NewMemoryStore(nil)
	src := loadSource{s}
	e := New(src, s, nil)
	e.SetClock(func() time.Time { return clock })
	return e, s, src
}

func createTask(t *testing.T, s *store.MemoryStore, task model.Task) string {
	t.Helper()
	task.Normalize()
	id, err := s.CreateTask(context.Background(), task)
	require.NoError(t, err)
	return id
}

func TestCompleteLeaf(t *testing.T) {
	e, s, src := setup(t)
	ctx := context.Background()
	id := createTask(t, s, model.Task{Title: "Draft report", TagID: "work", EstTime: model.Minutes(60), Energy: model.EnergyHigh})

	require.True(t, e.Begin(KindMain, id, ""))
	d, ok := e.Current()
	require.True(t, ok)
	assert.True(t, clock.Equal(*d.CompletedAt), "draft seeded with now")
	assert.Nil(t, d.ActualTime)
	assert.Empty(t, d.Reflection)

	e.SetActualTime(75)
	e.SetReflection("took longer")

	ev, err := e.Confirm(ctx)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, KindMain, ev.Kind)
	assert.Equal(t, "Draft report", ev.Title)

	got, _ := src.Task(id)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, 75, *got.ActualTime)
	assert.Equal(t, "took longer", got.Reflection)
	assert.True(t, clock.Equal(*got.CompletedAt))

	_, open := e.Current()
	assert.False(t, open)
}

func TestBeginRefusals(t *testing.T) {
	e, s, _ := setup(t)
	done := createTask(t, s, model.Task{Title: "done", IsTemp: true, Status: model.StatusCompleted})
	container := createTask(t, s, model.Task{Title: "box", TagID: "work", Subtasks: []model.Subtask{
		{ID: "a", Title: "A", IsCompleted: true},
		{ID: "b", Title: "B"},
	}})

	assert.False(t, e.Begin(KindMain, done, ""), "already completed")
	assert.False(t, e.Begin(KindMain, container, ""), "status of a container is derived")
	assert.False(t, e.Begin(KindSub, container, "a"), "subtask already complete")
	assert.False(t, e.Begin(KindSub, container, "zzz"), "unknown subtask")
	assert.False(t, e.Begin(KindMain, "missing", ""), "unknown task")

	_, open := e.Current()
	assert.False(t, open)

	assert.True(t, e.Begin(KindSub, container, "b"))
}

func TestSubtaskRollup(t *testing.T) {
	e, s, src := setup(t)
	ctx := context.Background()
	id := createTask(t, s, model.Task{Title: "Essay", TagID: "school", Subtasks: []model.Subtask{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
	}})

	require.True(t, e.Begin(KindSub, id, "a"))
	ev, err := e.Confirm(ctx)
	require.NoError(t, err)
	assert.False(t, ev.ParentCompleted)

	got, _ := src.Task(id)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.True(t, got.Subtasks[0].IsCompleted)
	assert.False(t, got.Subtasks[1].IsCompleted)

	later := clock.Add(2 * time.Hour)
	require.True(t, e.Begin(KindSub, id, "b"))
	e.SetCompletedAt(later)
	ev, err = e.Confirm(ctx)
	require.NoError(t, err)
	assert.True(t, ev.ParentCompleted)
	assert.Equal(t, "Essay", ev.ParentTitle)

	got, _ = src.Task(id)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, later.Equal(*got.CompletedAt), "parent takes the last subtask's completion time")

	// Re-confirming on a fully complete set is refused
	assert.False(t, e.Begin(KindSub, id, "b"))
}

func TestSubtaskKeepsExistingParentCompletedAt(t *testing.T) {
	e, s, src := setup(t)
	earlier := clock.Add(-48 * time.Hour)
	task := model.Task{Title: "Trip", TagID: "life", Subtasks: []model.Subtask{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
	}}
	task.CompletedAt = &earlier
	id := createTask(t, s, task)

	require.True(t, e.Begin(KindSub, id, "a"))
	_, err := e.Confirm(context.Background())
	require.NoError(t, err)

	got, _ := src.Task(id)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, earlier.Equal(*got.CompletedAt))
}

func TestConfirmFailureDiscardsDraft(t *testing.T) {
	e, s, src := setup(t)
	id := createTask(t, s, model.Task{Title: "Call bank", IsTemp: true})
	boom := errors.New("offline")

	require.True(t, e.Begin(KindMain, id, ""))
	s.FailWrites(boom)

	ev, err := e.Confirm(context.Background())
	assert.Nil(t, ev)
	assert.ErrorIs(t, err, boom)

	_, open := e.Current()
	assert.False(t, open)

	s.FailWrites(nil)
	got, _ := src.Task(id)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestConfirmWhenTaskGone(t *testing.T) {
	e, s, _ := setup(t)
	id := createTask(t, s, model.Task{Title: "Ephemeral", IsTemp: true})

	require.True(t, e.Begin(KindMain, id, ""))
	require.NoError(t, s.DeleteTask(context.Background(), id))

	ev, err := e.Confirm(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, ev)
}

func TestConfirmEmptySlot(t *testing.T) {
	e, _, _ := setup(t)
	_, err := e.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestSecondDraftReplacesFirst(t *testing.T) {
	e, s, _ := setup(t)
	first := createTask(t, s, model.Task{Title: "one", IsTemp: true})
	second := createTask(t, s, model.Task{Title: "two", IsTemp: true})

	require.True(t, e.Begin(KindMain, first, ""))
	e.SetReflection("first notes")
	require.True(t, e.Begin(KindMain, second, ""))

	d, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, second, d.TaskID)
	assert.Empty(t, d.Reflection, "drafts never merge")
}

func TestTaskDeletedCancelsDraft(t *testing.T) {
	e, s, _ := setup(t)
	id := createTask(t, s, model.Task{Title: "one", IsTemp: true})

	require.True(t, e.Begin(KindMain, id, ""))
	assert.False(t, e.TaskDeleted("other"))
	assert.True(t, e.TaskDeleted(id))

	_, open := e.Current()
	assert.False(t, open)
}

func TestDiscard(t *testing.T) {
	e, s, src := setup(t)
	id := createTask(t, s, model.Task{Title: "one", IsTemp: true})

	require.True(t, e.Begin(KindMain, id, ""))
	e.Discard()
	_, err := e.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNoDraft)

	got, _ := src.Task(id)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestCorrectionLeavesStatusAlone(t *testing.T) {
	e, s, src := setup(t)
	ctx := context.Background()
	done := clock.Add(-time.Hour)
	id := createTask(t, s, model.Task{Title: "Box", TagID: "work", Subtasks: []model.Subtask{
		{ID: "a", Title: "A", IsCompleted: true, Retrospective: model.Retrospective{CompletedAt: &done, Reflection: "ok"}},
		{ID: "b", Title: "B"},
	}})

	assert.False(t, e.BeginCorrection(KindSub, id, "b"), "only completed work can be corrected")
	require.True(t, e.BeginCorrection(KindSub, id, "a"))

	d, _ := e.Current()
	assert.Equal(t, "ok", d.Reflection, "seeded from the stored retrospective")

	e.SetReflection("actually fine")
	e.SetActualTime(20)
	ev, err := e.Confirm(ctx)
	require.NoError(t, err)
	assert.Nil(t, ev)

	got, _ := src.Task(id)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "actually fine", got.Subtasks[0].Reflection)
	assert.Equal(t, 20, *got.Subtasks[0].ActualTime)
	assert.True(t, done.Equal(*got.Subtasks[0].CompletedAt))
	assert.False(t, got.Subtasks[1].IsCompleted)
}

func TestCorrectMainTask(t *testing.T) {
	e, s, src := setup(t)
	done := clock.Add(-24 * time.Hour)
	task := model.Task{Title: "Gym", TagID: "life", Status: model.StatusCompleted}
	task.CompletedAt = &done
	id := createTask(t, s, task)

	require.True(t, e.BeginCorrection(KindMain, id, ""))
	moved := done.Add(-24 * time.Hour)
	e.SetCompletedAt(moved)
	_, err := e.Confirm(context.Background())
	require.NoError(t, err)

	got, _ := src.Task(id)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.True(t, moved.Equal(*got.CompletedAt))
}

func TestCompleteLeavesOpenDraftAlone(t *testing.T) {
	e, s, src := setup(t)
	ctx := context.Background()
	open := createTask(t, s, model.Task{Title: "Open in the shell", TagID: "work"})
	other := createTask(t, s, model.Task{Title: "Done from the api", TagID: "work"})

	require.True(t, e.Begin(KindMain, open, ""))
	e.SetReflection("typed in the form")

	ev, err := e.Complete(ctx, KindMain, other, "", model.Retrospective{ActualTime: model.Minutes(20), Reflection: "quick"})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "Done from the api", ev.Title)

	got, _ := src.Task(other)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, "quick", got.Reflection)
	assert.True(t, clock.Equal(*got.CompletedAt), "zero completion time means now")

	d, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, open, d.TaskID)
	assert.Equal(t, "typed in the form", d.Reflection)
}

func TestCompleteRefusedIsNoop(t *testing.T) {
	e, s, _ := setup(t)
	ctx := context.Background()
	id := createTask(t, s, model.Task{Title: "Plan", TagID: "work", Subtasks: []model.Subtask{{ID: "a", Title: "A"}}})

	ev, err := e.Complete(ctx, KindMain, id, "", model.Retrospective{})
	require.NoError(t, err)
	assert.Nil(t, ev, "containers complete through their subtasks")

	ev, err = e.Complete(ctx, KindMain, "missing", "", model.Retrospective{})
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestCompleteConcurrent(t *testing.T) {
	e, s, src := setup(t)
	ctx := context.Background()

	const n = 64
	ids := make([]string, n)
	for i := range ids {
		ids[i] = createTask(t, s, model.Task{Title: fmt.Sprintf("Task %d", i), TagID: "work"})
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	events := make([]*Event, n)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			events[i], errs[i] = e.Complete(ctx, KindMain, ids[i], "", model.Retrospective{
				ActualTime: model.Minutes(i + 1),
				Reflection: fmt.Sprintf("note %d", i),
			})
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		require.NoError(t, errs[i], "task %d", i)
		require.NotNil(t, events[i], "task %d", i)
		assert.Equal(t, id, events[i].TaskID)

		got, _ := src.Task(id)
		assert.Equal(t, model.StatusCompleted, got.Status, "task %d", i)
		assert.Equal(t, fmt.Sprintf("note %d", i), got.Reflection)
		assert.Equal(t, i+1, got.ActualMinutes())
	}
}
