package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/config"
	"github.com/dori/slowly/internal/store"
	"github.com/dori/slowly/internal/ui/theme"
	"github.com/dori/slowly/internal/ui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (RootModel, *app.App) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Timezone = "UTC"
	cfg.Notifications = false

	a, err := app.New(app.Options{Config: cfg, Memory: true})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	require.NoError(t, a.Sync(context.Background()))

	m := NewRootModel(context.Background(), a)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(RootModel), a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResizeBeforeAndDuringOverlay(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Timezone = "UTC"
	cfg.Notifications = false
	a, err := app.New(app.Options{Config: cfg, Memory: true})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	require.NoError(t, a.Sync(context.Background()))

	m := NewRootModel(context.Background(), a)
	require.NotPanics(t, func() {
		next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		m = next.(RootModel)
	})
	assert.NotEmpty(t, m.View())

	id, err := a.QuickAdd(context.Background(), "Water plants @life")
	require.NoError(t, err)
	require.NoError(t, a.Sync(context.Background()))

	next, _ := m.Update(views.EditRequest{TaskID: id})
	m = next.(RootModel)
	require.Equal(t, overlayEdit, m.overlay)
	require.NotPanics(t, func() {
		next, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	})
	assert.Equal(t, overlayEdit, next.(RootModel).overlay)
}

func TestSwitchViews(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, ViewDashboard, m.CurrentView())

	next, _ := m.Update(runes("2"))
	m = next.(RootModel)
	assert.Equal(t, ViewHistory, m.CurrentView())
	assert.Contains(t, m.View(), "No history yet")

	next, _ = m.Update(runes("3"))
	m = next.(RootModel)
	assert.Equal(t, ViewSettings, m.CurrentView())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, ViewDashboard, next.(RootModel).CurrentView())
}

func TestQuitOnlyOutsideInput(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	// While quick adding, q is just a letter
	next, _ := m.Update(runes("a"))
	next, _ = next.Update(runes("q"))
	assert.True(t, next.(RootModel).inputMode())
}

func TestCompletionFlowCelebrates(t *testing.T) {
	m, a := newTestModel(t)
	id, err := a.QuickAdd(context.Background(), "Post letter @life")
	require.NoError(t, err)
	require.NoError(t, a.Sync(context.Background()))
	m = m.refresh(store.CollectionTasks)

	next, _ := m.Update(views.CompleteRequest{Kind: completion.KindMain, TaskID: id})
	m = next.(RootModel)
	assert.Equal(t, overlayComplete, m.overlay)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(RootModel)
	assert.Equal(t, overlayNone, m.overlay)
	require.NotNil(t, cmd)

	next, cmd = m.Update(cmd())
	m = next.(RootModel)
	assert.Contains(t, m.celebration, "Post letter")
	require.NotNil(t, cmd)

	next, _ = m.Update(clearCelebrationMsg{seq: m.celebSeq})
	assert.Empty(t, next.(RootModel).celebration)
}

func TestCompleteRequestRefused(t *testing.T) {
	m, a := newTestModel(t)
	id, err := a.QuickAdd(context.Background(), "Plan week @life ; list ; sort")
	require.NoError(t, err)
	require.NoError(t, a.Sync(context.Background()))

	next, _ := m.Update(views.CompleteRequest{Kind: completion.KindMain, TaskID: id})
	m = next.(RootModel)
	assert.Equal(t, overlayNone, m.overlay)
	assert.NotEmpty(t, m.statusMsg)
}

func TestPersistErrorShown(t *testing.T) {
	m, _ := newTestModel(t)
	err := errors.Join(app.ErrPersist, errors.New("disk full"))

	next, _ := m.Update(views.ErrorMsg{Err: err})
	assert.Contains(t, next.(RootModel).errorMsg, "Couldn't save")
}

func TestEditClosesWhenTaskDeletedElsewhere(t *testing.T) {
	m, a := newTestModel(t)
	ctx := context.Background()
	id, err := a.QuickAdd(ctx, "Fix bike @weekend")
	require.NoError(t, err)
	require.NoError(t, a.Sync(ctx))

	next, _ := m.Update(views.EditRequest{TaskID: id})
	m = next.(RootModel)
	require.Equal(t, overlayEdit, m.overlay)

	require.NoError(t, a.Store.DeleteTask(ctx, id))
	require.NoError(t, a.Sync(ctx))
	next, _ = m.Update(SnapshotMsg{Collection: store.CollectionTasks})
	m = next.(RootModel)
	assert.Equal(t, overlayNone, m.overlay)
	_, editing := a.Editing()
	assert.False(t, editing)
}

func TestThemeCycle(t *testing.T) {
	m, _ := newTestModel(t)
	before := theme.Current.Theme.Name
	t.Cleanup(func() {
		if th, ok := theme.ByName(before); ok {
			theme.SetTheme(th)
		}
	})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	require.NotNil(t, cmd)
	msg := cmd().(ThemeChangedMsg)
	assert.NotEqual(t, before, msg.ThemeName)
	assert.Equal(t, msg.ThemeName, theme.Current.Theme.Name)
}
