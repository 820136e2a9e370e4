package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestMemoryStoreSubscribeDeliversCurrentSet(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := s.CreateTask(ctx, model.Task{Title: "first", IsTemp: true, Status: model.StatusPending})
	require.NoError(t, err)

	ch, err := s.Subscribe(ctx, CollectionTasks)
	require.NoError(t, err)

	snap := nextSnapshot(t, ch)
	assert.Equal(t, CollectionTasks, snap.Collection)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "first", snap.Tasks[0].Title)
}

func TestMemoryStoreTasksNewestFirst(t *testing.T) {
	s := NewMemoryStore(nil)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.CreateTask(ctx, model.Task{Title: title, IsTemp: true})
		require.NoError(t, err)
	}

	snap, err := s.Load(ctx, CollectionTasks)
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 3)
	assert.Equal(t, "three", snap.Tasks[0].Title)
	assert.Equal(t, "one", snap.Tasks[2].Title)
}

func TestMemoryStoreTagsOldestFirst(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	_, err := s.CreateTag(ctx, model.Tag{Name: "Work"})
	require.NoError(t, err)
	_, err = s.CreateTag(ctx, model.Tag{Name: "Home"})
	require.NoError(t, err)

	snap, err := s.Load(ctx, CollectionTags)
	require.NoError(t, err)
	require.Len(t, snap.Tags, 2)
	assert.Equal(t, "Work", snap.Tags[0].Name)
	assert.Equal(t, "Home", snap.Tags[1].Name)
}

func TestMemoryStoreUpdatePublishes(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := s.CreateTask(ctx, model.Task{Title: "draft", IsTemp: true})
	require.NoError(t, err)

	ch, err := s.Subscribe(ctx, CollectionTasks)
	require.NoError(t, err)
	nextSnapshot(t, ch)

	title := "final"
	require.NoError(t, s.UpdateTask(ctx, id, TaskPatch{Title: &title}))

	snap := nextSnapshot(t, ch)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "final", snap.Tasks[0].Title)
}

func TestMemoryStoreLatestSnapshotWins(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Subscribe(ctx, CollectionQuotes)
	require.NoError(t, err)

	// Never read the initial snapshot; only the newest one should be queued
	for _, text := range []string{"a", "b", "c"} {
		_, err := s.CreateQuote(ctx, model.Quote{Text: text})
		require.NoError(t, err)
	}

	snap := nextSnapshot(t, ch)
	assert.Len(t, snap.Quotes, 3)
}

func TestMemoryStoreFailWrites(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()
	boom := errors.New("offline")

	s.FailWrites(boom)
	_, err := s.CreateTask(ctx, model.Task{Title: "x", IsTemp: true})
	assert.ErrorIs(t, err, boom)

	s.FailWrites(nil)
	_, err = s.CreateTask(ctx, model.Task{Title: "x", IsTemp: true})
	assert.NoError(t, err)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	assert.ErrorIs(t, s.DeleteTask(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, s.UpdateQuote(ctx, "missing", "x"), ErrNotFound)
	assert.ErrorIs(t, s.DeleteTag(ctx, "missing"), ErrNotFound)
}

func TestSubscriptionClosesWithContext(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.Subscribe(ctx, CollectionTags)
	require.NoError(t, err)
	nextSnapshot(t, ch)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestCloseReleasesSubscriptions(t *testing.T) {
	s := NewMemoryStore(nil)

	var chans []<-chan Snapshot
	for _, c := range Collections {
		ch, err := s.Subscribe(context.Background(), c)
		require.NoError(t, err)
		nextSnapshot(t, ch)
		chans = append(chans, ch)
	}

	require.NoError(t, s.Close())
	for _, ch := range chans {
		_, ok := <-ch
		assert.False(t, ok)
	}

	exited := make(chan struct{})
	go func() {
		s.broker.wait()
		close(exited)
	}()
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription watchers still running after Close")
	}

	_, err := s.Subscribe(context.Background(), CollectionTasks)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubscribeUnknownCollection(t *testing.T) {
	s := NewMemoryStore(nil)
	_, err := s.Subscribe(context.Background(), Collection("notes"))
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestTaskPatchClearsWithZeroValues(t *testing.T) {
	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	task := model.Task{EstTime: model.Minutes(30), Deadline: &due, Note: "n"}

	zero := 0
	empty := ""
	TaskPatch{EstTime: &zero, Deadline: &time.Time{}, Note: &empty}.Apply(&task)

	assert.Nil(t, task.EstTime)
	assert.Nil(t, task.Deadline)
	assert.Empty(t, task.Note)
	assert.True(t, TaskPatch{}.IsEmpty())
}
