// Package ui is the terminal interface: the dashboard, the history timeline
// and settings, with the completion and edit forms drawn over them.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/dori/slowly/internal/ui/theme"
	"github.com/dori/slowly/internal/ui/views"
)

// celebrationTime is how long a completion flourish stays on screen
const celebrationTime = 4 * time.Second

// RootModel is the main application model that manages views
type RootModel struct {
	ctx    context.Context
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView   View
	dashboardView views.DashboardView
	historyView   views.HistoryView
	settingsView  views.SettingsView
	helpVisible   bool

	overlay      overlay
	completeForm views.CompleteForm
	editForm     views.EditForm

	// Status message
	statusMsg   string
	errorMsg    string
	celebration string
	celebSeq    int
}

// NewRootModel creates a new root model
func NewRootModel(ctx context.Context, a *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	return RootModel{
		ctx:           ctx,
		app:           a,
		keys:          DefaultKeyMap(),
		help:          h,
		currentView:   ViewDashboard,
		dashboardView: views.NewDashboardView(ctx, a),
		historyView:   views.NewHistoryView(a),
		settingsView:  views.NewSettingsView(ctx, a),
	}
}

// Run opens the terminal UI and follows the store until the user quits
func Run(ctx context.Context, a *app.App) error {
	if t, ok := theme.ByName(a.Config.Theme); ok {
		theme.SetTheme(t)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewRootModel(ctx, a), tea.WithAltScreen())
	a.Start(ctx, func(c store.Collection) {
		p.Send(SnapshotMsg{Collection: c})
	})

	_, err := p.Run()
	return err
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.dashboardView.Init()
}

// CurrentView returns the active view
func (m RootModel) CurrentView() View {
	return m.currentView
}

// inputMode reports whether keystrokes belong to a text field
func (m RootModel) inputMode() bool {
	if m.overlay != overlayNone {
		return true
	}
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.IsInputMode()
	case ViewHistory:
		return m.historyView.IsInputMode()
	case ViewSettings:
		return m.settingsView.IsInputMode()
	}
	return false
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// header (2 lines) and footer (3 lines)
		contentHeight := m.height - 5
		m.dashboardView = m.dashboardView.SetSize(m.width, contentHeight)
		m.historyView = m.historyView.SetSize(m.width, contentHeight)
		m.settingsView = m.settingsView.SetSize(m.width, contentHeight)
		// Forms only exist while their overlay is open
		switch m.overlay {
		case overlayComplete:
			m.completeForm = m.completeForm.SetSize(m.width, contentHeight)
		case overlayEdit:
			m.editForm = m.editForm.SetSize(m.width, contentHeight)
		}
		return m, nil

	case SnapshotMsg:
		return m.refresh(msg.Collection), nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.inputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.ThemeCycle):
			next := theme.Next()
			theme.SetTheme(next)
			return m, func() tea.Msg { return ThemeChangedMsg{ThemeName: next.Name} }
		}

		if isInputMode {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil
		case key.Matches(msg, m.keys.Back) && m.helpVisible:
			m.helpVisible = false
			return m, nil
		case key.Matches(msg, m.keys.DashboardView):
			return m.switchView(ViewDashboard), nil
		case key.Matches(msg, m.keys.HistoryView):
			return m.switchView(ViewHistory), nil
		case key.Matches(msg, m.keys.SettingsView):
			return m.switchView(ViewSettings), nil
		case key.Matches(msg, m.keys.NextView):
			return m.switchView((m.currentView + 1) % 3), nil
		case key.Matches(msg, m.keys.QuoteMode):
			a := m.app
			return m, func() tea.Msg {
				mode, err := a.ToggleQuoteMode()
				if err != nil {
					return views.ErrorMsg{Err: err}
				}
				return views.StatusMsg{Message: fmt.Sprintf("Quotes: %s", mode)}
			}
		}

	case views.ErrorMsg:
		m.errorMsg = describeErr(msg.Err)
		return m, nil

	case views.StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil

	case views.CompleteRequest:
		return m.openComplete(msg)

	case views.EditRequest:
		return m.openEdit(msg.TaskID)

	case views.CompletedMsg:
		return m.celebrate(msg)

	case views.TaskDeletedMsg:
		m.statusMsg = fmt.Sprintf("Deleted %s", msg.Title)
		if msg.Cancelled {
			m.overlay = overlayNone
		}
		return m, nil

	case clearCelebrationMsg:
		if msg.seq == m.celebSeq {
			m.celebration = ""
		}
		return m, nil
	}

	return m.delegate(msg)
}

// delegate passes msg to the open form or the current view
func (m RootModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.overlay {
	case overlayComplete:
		var next tea.Model
		next, cmd = m.completeForm.Update(msg)
		m.completeForm = next.(views.CompleteForm)
		if m.completeForm.Done() {
			m.overlay = overlayNone
		}
		return m, cmd
	case overlayEdit:
		var next tea.Model
		next, cmd = m.editForm.Update(msg)
		m.editForm = next.(views.EditForm)
		if m.editForm.Done() {
			m.overlay = overlayNone
		}
		return m, cmd
	}

	switch m.currentView {
	case ViewDashboard:
		var next tea.Model
		next, cmd = m.dashboardView.Update(msg)
		m.dashboardView = next.(views.DashboardView)
	case ViewHistory:
		var next tea.Model
		next, cmd = m.historyView.Update(msg)
		m.historyView = next.(views.HistoryView)
	case ViewSettings:
		var next tea.Model
		next, cmd = m.settingsView.Update(msg)
		m.settingsView = next.(views.SettingsView)
	}
	return m, cmd
}

// refresh rebuilds whatever depends on the changed collection
func (m RootModel) refresh(c store.Collection) RootModel {
	switch c {
	case store.CollectionTasks, store.CollectionTags:
		m.dashboardView = m.dashboardView.Refresh()
		m.historyView = m.historyView.Refresh()
		m.settingsView = m.settingsView.Refresh()
	case store.CollectionQuotes:
		m.settingsView = m.settingsView.Refresh()
	}

	// The form's task may have been deleted by another shell
	if m.overlay == overlayComplete {
		if _, ok := m.app.Engine.Current(); !ok {
			m.overlay = overlayNone
		}
	}
	if m.overlay == overlayEdit && m.editForm.TaskID() != "" {
		if _, ok := m.app.Mirror.Task(m.editForm.TaskID()); !ok {
			m.app.EndEdit()
			m.overlay = overlayNone
			m.statusMsg = "The task you were editing was deleted"
		}
	}
	return m
}

func (m RootModel) switchView(v View) RootModel {
	if v == ViewDashboard && m.currentView != ViewDashboard {
		m.app.RefreshQuote()
	}
	m.currentView = v
	m.helpVisible = false
	return m
}

func (m RootModel) openComplete(req views.CompleteRequest) (tea.Model, tea.Cmd) {
	var ok bool
	if req.Correction {
		ok = m.app.Engine.BeginCorrection(req.Kind, req.TaskID, req.SubtaskID)
	} else {
		ok = m.app.Engine.Begin(req.Kind, req.TaskID, req.SubtaskID)
	}
	if !ok {
		m.statusMsg = "That can't be completed right now"
		return m, nil
	}

	form, ok := views.NewCompleteForm(m.ctx, m.app)
	if !ok {
		return m, nil
	}
	m.completeForm = form.SetSize(m.width, m.height-5)
	m.overlay = overlayComplete
	return m, m.completeForm.Init()
}

func (m RootModel) openEdit(taskID string) (tea.Model, tea.Cmd) {
	form, ok := views.NewEditForm(m.ctx, m.app, taskID)
	if !ok {
		m.statusMsg = "That task is gone"
		return m, nil
	}
	m.editForm = form.SetSize(m.width, m.height-5)
	m.overlay = overlayEdit
	return m, m.editForm.Init()
}

// celebrate shows a gentle flourish for a finished task and fades it out
func (m RootModel) celebrate(msg views.CompletedMsg) (tea.Model, tea.Cmd) {
	if msg.Correction {
		m.statusMsg = "Updated"
		return m, nil
	}
	if msg.Event == nil {
		m.statusMsg = "That was already taken care of"
		return m, nil
	}

	ev := msg.Event
	text := "✿ Done, gently: " + ev.Title
	if mins := ev.ActualMinutes(); mins > 0 {
		text += " (" + model.FormatMinutes(mins) + ")"
	}
	if ev.Kind == completion.KindSub && ev.ParentCompleted {
		text = "✿ All of " + ev.ParentTitle + " is done"
	}

	m.celebSeq++
	m.celebration = text
	seq := m.celebSeq
	return m, tea.Tick(celebrationTime, func(time.Time) tea.Msg {
		return clearCelebrationMsg{seq: seq}
	})
}

// describeErr shortens errors for the status line
func describeErr(err error) string {
	if errors.Is(err, app.ErrPersist) {
		return "Couldn't save: " + err.Error()
	}
	return err.Error()
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader(), "")

	contentHeight := m.height - 5
	var content string
	switch {
	case m.helpVisible:
		content = m.renderHelp()
	case m.overlay == overlayComplete:
		content = m.completeForm.View()
	case m.overlay == overlayEdit:
		content = m.editForm.View()
	default:
		switch m.currentView {
		case ViewDashboard:
			content = m.dashboardView.View()
		case ViewHistory:
			content = m.historyView.View()
		case ViewSettings:
			content = m.settingsView.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("slowly")

	tab := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)
	active := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Padding(0, 1)

	tabs := []string{title}
	for i, v := range []View{ViewDashboard, ViewHistory, ViewSettings} {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.currentView {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, tab.Render(label))
		}
	}
	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, tabs...)

	pending := m.openCount()
	rightSide := tab.Render(fmt.Sprintf("%d open · %s", pending, t.Name))

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}
	return leftSide + strings.Repeat(" ", gap) + rightSide
}

func (m RootModel) openCount() int {
	return m.app.Dashboard().Count()
}

// renderFooter renders the status line and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	switch {
	case m.errorMsg != "":
		statusLine = styles.Error.Render(m.errorMsg)
	case m.celebration != "":
		statusLine = styles.Celebration.Render(m.celebration)
	case m.statusMsg != "":
		statusLine = styles.Status.Render(m.statusMsg)
	}

	var line1, line2 string
	switch {
	case m.overlay != overlayNone:
		line1 = key("tab", "next field") + sep + key("ctrl+s", "save") + sep + key("esc", "cancel")
	case m.inputMode():
		line1 = key("enter", "confirm") + sep + key("esc", "cancel")
	case m.currentView == ViewDashboard:
		line1 = key("a", "quick add") + sep +
			key("n", "new") + sep +
			key("x", "complete") + sep +
			key("e", "edit") + sep +
			key("d", "delete")
		line2 = key("enter", "open/fold") + sep +
			key("z", "fold all") + sep +
			key("1-3", "views") + sep +
			key("?", "help")
	case m.currentView == ViewHistory:
		line1 = key("j/k", "navigate") + sep + key("enter", "correct")
		line2 = key("1-3", "views") + sep + key("?", "help")
	case m.currentView == ViewSettings:
		line1 = key("tab", "tags/quotes") + sep +
			key("a", "add") + sep +
			key("r/e", "rename/edit") + sep +
			key("c", "color") + sep +
			key("d", "delete")
		line2 = key("s", "pin quote") + sep +
			key("m", "quote mode") + sep +
			key("1-3", "views") + sep +
			key("?", "help")
	}

	return strings.Join([]string{statusLine, line1, line2}, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(t.Foreground).Bold(true).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("slowly"))
	b.WriteString("\n\n")

	section := func(name string, keys [][]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kv := range keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	section("Today", [][]string{
		{"a", "Quick add: Title @tag ~45m !high due:friday ; step ; step"},
		{"n", "New task in the editor"},
		{"x / tab", "Complete the task or step under the cursor"},
		{"enter", "Fold a section, open a task's steps"},
		{"e", "Edit"},
		{"d", "Delete"},
		{"z", "Fold or unfold every section"},
	})
	section("History", [][]string{
		{"enter", "Correct time, date or reflection"},
	})
	section("Settings", [][]string{
		{"tab", "Switch between tags and quotes"},
		{"a", "Add"},
		{"r / e", "Rename a tag, edit a quote"},
		{"c", "Next color for a tag"},
		{"s", "Always show this quote"},
		{"m", "Random or fixed quote"},
	})
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}
