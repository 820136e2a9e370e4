package views

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Timezone = "UTC"
	cfg.Notifications = false

	a, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Memory:     true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	a.SetClock(func() time.Time { return clock })
	require.NoError(t, a.Sync(context.Background()))
	return a
}

func resync(t *testing.T, a *app.App) {
	t.Helper()
	require.NoError(t, a.Sync(context.Background()))
}

func add(t *testing.T, a *app.App, text string) string {
	t.Helper()
	id, err := a.QuickAdd(context.Background(), text)
	require.NoError(t, err)
	resync(t, a)
	return id
}

func keys(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m tea.Model, ks ...string) (tea.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range ks {
		m, cmd = m.Update(keys(k))
	}
	return m, cmd
}

func typeText(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestDashboardSectionsCollapse(t *testing.T) {
	a := newTestApp(t)
	add(t, a, "Call the bank")
	add(t, a, "Essay draft @school ~2h")

	v := NewDashboardView(context.Background(), a).SetSize(80, 30)
	require.Len(t, v.rows, 4)
	assert.Equal(t, InboxKey, v.rows[0].section)
	assert.Equal(t, rowSection, v.rows[2].kind)
	assert.Equal(t, "default-school", v.rows[2].section)

	m, _ := press(t, v, "enter")
	v = m.(DashboardView)
	assert.True(t, v.Collapsed(InboxKey))
	require.Len(t, v.rows, 3)

	m, _ = press(t, v, "z")
	v = m.(DashboardView)
	assert.True(t, v.Collapsed("default-school"))
	assert.Len(t, v.rows, 2)

	m, _ = press(t, v, "z")
	v = m.(DashboardView)
	assert.False(t, v.Collapsed(InboxKey))
	assert.Len(t, v.rows, 4)
}

func TestDashboardCompleteSubtaskRequest(t *testing.T) {
	a := newTestApp(t)
	id := add(t, a, "Move flat @life ; pack books ; book van")

	v := NewDashboardView(context.Background(), a).SetSize(80, 30)
	m, _ := press(t, v, "j", "enter")
	v = m.(DashboardView)
	require.Len(t, v.rows, 4)

	// Containers are finished step by step
	_, cmd := press(t, v, "x")
	require.NotNil(t, cmd)
	assert.IsType(t, StatusMsg{}, cmd())

	_, cmd = press(t, v, "j", "x")
	require.NotNil(t, cmd)
	req, ok := cmd().(CompleteRequest)
	require.True(t, ok)
	assert.Equal(t, completion.KindSub, req.Kind)
	assert.Equal(t, id, req.TaskID)
	assert.NotEmpty(t, req.SubtaskID)
	assert.False(t, req.Correction)
}

func TestDashboardQuickAdd(t *testing.T) {
	a := newTestApp(t)
	v := NewDashboardView(context.Background(), a).SetSize(80, 30)

	m, _ := press(t, v, "a")
	assert.True(t, m.(DashboardView).IsInputMode())
	m = typeText(t, m, "Tea with Sam @life")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, StatusMsg{Message: "Added"}, cmd())

	resync(t, a)
	v = m.(DashboardView).Refresh()
	require.Len(t, v.rows, 2)
	assert.Equal(t, "Tea with Sam", v.rows[1].task.Title)
	assert.Contains(t, v.View(), "Tea with Sam")
}

func TestDashboardDeleteConfirm(t *testing.T) {
	a := newTestApp(t)
	add(t, a, "Old errand @life")

	v := NewDashboardView(context.Background(), a).SetSize(80, 30)
	m, _ := press(t, v, "j", "d")
	assert.True(t, m.(DashboardView).IsInputMode())

	m, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	assert.False(t, m.(DashboardView).IsInputMode())

	_, cmd = press(t, m, "d", "y")
	require.NotNil(t, cmd)
	msg, ok := cmd().(TaskDeletedMsg)
	require.True(t, ok)
	assert.Equal(t, "Old errand", msg.Title)

	resync(t, a)
	assert.True(t, a.Dashboard().IsEmpty())
}

func TestDashboardEmptyState(t *testing.T) {
	a := newTestApp(t)
	v := NewDashboardView(context.Background(), a).SetSize(80, 30)
	assert.Contains(t, v.View(), "Nothing here")
}

func TestHistoryCorrectionRequest(t *testing.T) {
	a := newTestApp(t)
	id := add(t, a, "Water plants @life")
	_, err := a.CompleteNow(context.Background(), id, "", 10, "")
	require.NoError(t, err)
	resync(t, a)

	v := NewHistoryView(a).SetSize(80, 20)
	require.Len(t, v.rows, 2)
	assert.Equal(t, 1, v.cursor)

	_, cmd := press(t, v, "enter")
	require.NotNil(t, cmd)
	req := cmd().(CompleteRequest)
	assert.True(t, req.Correction)
	assert.Equal(t, completion.KindMain, req.Kind)
	assert.Contains(t, v.View(), "Water plants")
}

func TestHistoryEmpty(t *testing.T) {
	a := newTestApp(t)
	v := NewHistoryView(a)
	assert.Contains(t, v.View(), "No history yet")
}

func TestCompleteFormConfirms(t *testing.T) {
	a := newTestApp(t)
	id := add(t, a, "Read chapter 3 @school")
	require.True(t, a.Engine.Begin(completion.KindMain, id, ""))

	f, ok := NewCompleteForm(context.Background(), a)
	require.True(t, ok)
	m := typeText(t, f.SetSize(80, 30), "40m")
	m, cmd := press(t, m, "enter")
	assert.True(t, m.(CompleteForm).Done())
	require.NotNil(t, cmd)

	msg, ok := cmd().(CompletedMsg)
	require.True(t, ok)
	require.NotNil(t, msg.Event)
	assert.Equal(t, "Read chapter 3", msg.Event.Title)
	assert.Equal(t, 40, msg.Event.ActualMinutes())
}

func TestCompleteFormRejectsBadDuration(t *testing.T) {
	a := newTestApp(t)
	id := add(t, a, "Stretch @life")
	require.True(t, a.Engine.Begin(completion.KindMain, id, ""))

	f, _ := NewCompleteForm(context.Background(), a)
	m := typeText(t, f, "soon")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.False(t, m.(CompleteForm).Done())
	assert.Contains(t, m.(CompleteForm).View(), "could not read")

	m, _ = press(t, m, "esc")
	assert.True(t, m.(CompleteForm).Done())
	_, open := a.Engine.Current()
	assert.False(t, open)
}

func TestEditFormReordersSubtasks(t *testing.T) {
	a := newTestApp(t)
	id := add(t, a, "Trip @life ; book train ; pack")

	f, ok := NewEditForm(context.Background(), a, id)
	require.True(t, ok)
	var m tea.Model = f.SetSize(80, 40)
	for i := 0; i < editSubtasks; i++ {
		m, _ = press(t, m, "tab")
	}
	m, _ = press(t, m, "J")
	m, cmd := press(t, m, "ctrl+s")
	assert.True(t, m.(EditForm).Done())
	require.NotNil(t, cmd)
	assert.IsType(t, StatusMsg{}, cmd())

	resync(t, a)
	task, ok := a.Mirror.Task(id)
	require.True(t, ok)
	require.Len(t, task.Subtasks, 2)
	assert.Equal(t, "pack", task.Subtasks[0].Title)
	assert.Equal(t, "book train", task.Subtasks[1].Title)
}

func TestEditFormValidation(t *testing.T) {
	a := newTestApp(t)
	f, ok := NewEditForm(context.Background(), a, "")
	require.True(t, ok)

	m, cmd := press(t, f, "ctrl+s")
	assert.Nil(t, cmd)
	assert.False(t, m.(EditForm).Done())
	assert.Contains(t, m.(EditForm).View(), "title is required")
}

func TestSettingsAddTagAndPreviewQuote(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	_, err := a.AddQuote(ctx, "One thing at a time")
	require.NoError(t, err)
	resync(t, a)

	v := NewSettingsView(ctx, a).SetSize(80, 30)
	m, _ := press(t, v, "a")
	m = typeText(t, m, "Garden")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	resync(t, a)
	_, found := a.FindTag("Garden")
	assert.True(t, found)

	m, _ = press(t, m, "tab", "e")
	m = typeText(t, m, "!")
	assert.Equal(t, "One thing at a time!", a.Quotes.Current().Text)

	_, _ = press(t, m, "esc")
	assert.Equal(t, "One thing at a time", a.Quotes.Current().Text)
}
