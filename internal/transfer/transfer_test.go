package transfer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firestoreDump = `{
  "tags": {
    "t-school": {"name": "School", "color": "bg-emerald-200", "createdAt": {"_seconds": 1767225600, "_nanoseconds": 0}}
  },
  "tasks": [
    {
      "id": "x1", "title": "Essay", "isTemp": false, "tagId": "t-school", "status": "pending",
      "estTime": 90, "note": "should be dropped",
      "createdAt": {"seconds": 1767312000, "nanoseconds": 500000000},
      "subtasks": [
        {"id": "a", "title": "Outline", "isCompleted": true, "completedAt": 1767398400000, "actualTime": "30"},
        {"id": "b", "title": "Draft", "isCompleted": false}
      ]
    },
    {"id": "x2", "title": "Buy milk", "isTemp": true, "status": "pending", "createdAt": "2026-01-03T08:00:00Z"},
    {"id": "x3", "title": "", "isTemp": true}
  ],
  "quotes": ["Breathe.", {"text": "Slow is fine.", "createdAt": "2026-01-01"}]
}`

func TestDecodeDocumentStoreDump(t *testing.T) {
	b, err := Decode([]byte(firestoreDump))
	require.NoError(t, err)

	require.Len(t, b.Tags, 1)
	assert.Equal(t, "t-school", b.Tags[0].ID, "object keys become ids")
	assert.Equal(t, model.ColorEmerald, b.Tags[0].Color)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), b.Tags[0].CreatedAt.UTC())

	require.Len(t, b.Tasks, 3)
	essay := b.Tasks[0]
	assert.Equal(t, time.Unix(1767312000, 500000000).UTC(), essay.CreatedAt.UTC())
	require.Len(t, essay.Subtasks, 2)
	require.NotNil(t, essay.Subtasks[0].CompletedAt)
	assert.Equal(t, time.UnixMilli(1767398400000).UTC(), essay.Subtasks[0].CompletedAt.UTC())
	assert.Equal(t, 30, *essay.Subtasks[0].ActualTime)

	require.Len(t, b.Quotes, 2)
	assert.Equal(t, "Breathe.", b.Quotes[0].Text)
}

func TestImportRemapsTags(t *testing.T) {
	b, err := Decode([]byte(firestoreDump))
	require.NoError(t, err)

	s := store.NewMemoryStore(nil)
	ctx := context.Background()
	sum, err := Import(ctx, s, b, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Tasks: 2, Tags: 1, Quotes: 2, Skipped: 1}, sum)

	tags, _ := s.Load(ctx, store.CollectionTags)
	require.Len(t, tags.Tags, 1)
	newTagID := tags.Tags[0].ID
	assert.NotEqual(t, "t-school", newTagID)

	tasks, _ := s.Load(ctx, store.CollectionTasks)
	var essay model.Task
	for _, task := range tasks.Tasks {
		if task.Title == "Essay" {
			essay = task
		}
	}
	assert.Equal(t, newTagID, essay.TagID)
	assert.Nil(t, essay.EstTime, "container attributes are cleared")
	assert.Empty(t, essay.Note)
	assert.Equal(t, model.StatusPending, essay.Status)
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			ctx := context.Background()
			src := store.NewMemoryStore(nil)
			tagID, err := src.CreateTag(ctx, model.Tag{Name: "Work", Color: model.ColorBlue})
			require.NoError(t, err)
			done := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
			task := model.Task{Title: "Ship", TagID: tagID, Status: model.StatusCompleted, EstTime: model.Minutes(45)}
			task.CompletedAt = &done
			task.ActualTime = model.Minutes(50)
			_, err = src.CreateTask(ctx, task)
			require.NoError(t, err)
			_, err = src.CreateQuote(ctx, model.Quote{Text: "Keep going."})
			require.NoError(t, err)

			b, err := Collect(ctx, src, done)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, b, f))
			if f == FormatJSON {
				assert.Contains(t, buf.String(), `"subtasks": []`)
				assert.NotContains(t, buf.String(), `"subtasks": null`)
			}

			decoded, err := Decode(buf.Bytes())
			require.NoError(t, err)

			dst := store.NewMemoryStore(nil)
			sum, err := Import(ctx, dst, decoded, nil)
			require.NoError(t, err)
			assert.Equal(t, Summary{Tasks: 1, Tags: 1, Quotes: 1}, sum)

			tasks, _ := dst.Load(ctx, store.CollectionTasks)
			require.Len(t, tasks.Tasks, 1)
			got := tasks.Tasks[0]
			assert.Equal(t, "Ship", got.Title)
			assert.Equal(t, model.StatusCompleted, got.Status)
			assert.True(t, got.IsLeaf())
			require.NotNil(t, got.EstTime)
			assert.Equal(t, 45, *got.EstTime)
			require.NotNil(t, got.ActualTime)
			assert.Equal(t, 50, *got.ActualTime)
			require.NotNil(t, got.CompletedAt)
			assert.True(t, done.Equal(*got.CompletedAt))
		})
	}
}

func TestImportNullSubtasksStaysLeaf(t *testing.T) {
	b, err := Decode([]byte(`{"tasks":[{"id":"a","title":"Ship","isTemp":true,
		"status":"completed","estTime":45,"note":"by friday",
		"completedAt":"2026-02-02T10:00:00Z","subtasks":null}]}`))
	require.NoError(t, err)

	s := store.NewMemoryStore(nil)
	ctx := context.Background()
	sum, err := Import(ctx, s, b, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Tasks)

	tasks, _ := s.Load(ctx, store.CollectionTasks)
	require.Len(t, tasks.Tasks, 1)
	got := tasks.Tasks[0]
	assert.True(t, got.IsLeaf())
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.EstTime)
	assert.Equal(t, 45, *got.EstTime)
	assert.Equal(t, "by friday", got.Note)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("- just\n- a list\n"))
	assert.Error(t, err)
}
