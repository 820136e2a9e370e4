package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/quote"
	"github.com/dori/slowly/internal/ui/theme"
)

// SettingsSection is the list the cursor is in
type SettingsSection int

const (
	SectionTags SettingsSection = iota
	SectionQuotes
)

// SettingsMode represents the current input mode of the settings view
type SettingsMode int

const (
	SettingsModeNormal SettingsMode = iota
	SettingsModeAddTag
	SettingsModeRenameTag
	SettingsModeAddQuote
	SettingsModeEditQuote
	SettingsModeConfirmDelete
)

// SettingsView manages tags and quotes
type SettingsView struct {
	ctx    context.Context
	app    *app.App
	width  int
	height int

	section   SettingsSection
	tagCursor int
	qCursor   int

	mode     SettingsMode
	input    textinput.Model
	targetID string
}

// NewSettingsView creates a new settings view
func NewSettingsView(ctx context.Context, a *app.App) SettingsView {
	ti := textinput.New()
	ti.CharLimit = 280
	return SettingsView{ctx: ctx, app: a, input: ti}
}

// Init initializes the settings view
func (v SettingsView) Init() tea.Cmd {
	return nil
}

// IsInputMode returns true when the view is capturing text input
func (v SettingsView) IsInputMode() bool {
	return v.mode != SettingsModeNormal
}

// SetSize updates the view dimensions
func (v SettingsView) SetSize(width, height int) SettingsView {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// Refresh clamps the cursors after the lists changed
func (v SettingsView) Refresh() SettingsView {
	v.tagCursor = clampIndex(v.tagCursor, len(v.tags()))
	v.qCursor = clampIndex(v.qCursor, len(v.quotes()))
	return v
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// tags are the stored tags. Defaults are shown but not editable.
func (v SettingsView) tags() []model.Tag {
	return v.app.Mirror.Tags()
}

func (v SettingsView) quotes() []model.Quote {
	return v.app.Quotes.Quotes()
}

// Update handles messages for the settings view
func (v SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.mode != SettingsModeNormal {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	switch v.mode {
	case SettingsModeNormal:
		return v.handleNormalKey(keyMsg)
	case SettingsModeConfirmDelete:
		return v.handleConfirmKey(keyMsg)
	}
	return v.handleInputKey(keyMsg)
}

func (v SettingsView) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		v.section = (v.section + 1) % 2
		return v, nil
	case "up", "k":
		if v.section == SectionTags && v.tagCursor > 0 {
			v.tagCursor--
		} else if v.section == SectionQuotes && v.qCursor > 0 {
			v.qCursor--
		}
		return v, nil
	case "down", "j":
		if v.section == SectionTags && v.tagCursor < len(v.tags())-1 {
			v.tagCursor++
		} else if v.section == SectionQuotes && v.qCursor < len(v.quotes())-1 {
			v.qCursor++
		}
		return v, nil
	case "m":
		a := v.app
		return v, func() tea.Msg {
			mode, err := a.ToggleQuoteMode()
			if err != nil {
				return ErrorMsg{Err: err}
			}
			return StatusMsg{Message: fmt.Sprintf("Quotes: %s", mode)}
		}
	case "a":
		if v.section == SectionTags {
			return v.startInput(SettingsModeAddTag, "", "Tag name")
		}
		return v.startInput(SettingsModeAddQuote, "", "Something kind to read")
	}

	if v.section == SectionTags {
		return v.handleTagKey(msg)
	}
	return v.handleQuoteKey(msg)
}

func (v SettingsView) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := v.tags()
	if len(tags) == 0 {
		return v, nil
	}
	tag := tags[v.tagCursor]
	a, ctx := v.app, v.ctx

	switch msg.String() {
	case "r", "enter":
		v.targetID = tag.ID
		return v.startInput(SettingsModeRenameTag, tag.Name, "Tag name")
	case "c":
		next := nextPaletteColor(tag.Color)
		return v, func() tea.Msg {
			if err := a.RecolorTag(ctx, tag.ID, next); err != nil {
				return ErrorMsg{Err: err}
			}
			return nil
		}
	case "d":
		v.mode = SettingsModeConfirmDelete
		v.targetID = tag.ID
	}
	return v, nil
}

func nextPaletteColor(c model.Color) model.Color {
	for i, p := range model.Palette {
		if p == c {
			return model.Palette[(i+1)%len(model.Palette)]
		}
	}
	return model.Palette[0]
}

func (v SettingsView) handleQuoteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	quotes := v.quotes()
	if len(quotes) == 0 {
		return v, nil
	}
	q := quotes[v.qCursor]
	stored := len(v.app.Mirror.Quotes()) > 0

	switch msg.String() {
	case "enter", "s":
		a, index := v.app, v.qCursor
		return v, func() tea.Msg {
			if err := a.SelectQuote(index); err != nil {
				return ErrorMsg{Err: err}
			}
			return StatusMsg{Message: "Quote pinned"}
		}
	case "e":
		if !stored {
			return v, request(StatusMsg{Message: "Add a quote of your own first"})
		}
		v.targetID = q.ID
		v.app.Quotes.BeginEdit(q.ID, q.Text)
		return v.startInput(SettingsModeEditQuote, q.Text, "")
	case "d":
		if !stored {
			return v, request(StatusMsg{Message: "Default quotes stay until you add your own"})
		}
		v.mode = SettingsModeConfirmDelete
		v.targetID = q.ID
	}
	return v, nil
}

func (v SettingsView) startInput(mode SettingsMode, value, placeholder string) (tea.Model, tea.Cmd) {
	v.mode = mode
	v.input.SetValue(value)
	v.input.Placeholder = placeholder
	v.input.CursorEnd()
	v.input.Focus()
	return v, textinput.Blink
}

func (v SettingsView) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.mode == SettingsModeEditQuote {
			v.app.Quotes.EndEdit()
		}
		v.mode = SettingsModeNormal
		v.input.Blur()
		return v, nil
	case "enter":
		mode, id, text := v.mode, v.targetID, strings.TrimSpace(v.input.Value())
		v.mode = SettingsModeNormal
		v.input.Blur()
		return v, v.commit(mode, id, text)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.mode == SettingsModeEditQuote {
		// Live preview on the dashboard line
		v.app.Quotes.SetEditText(v.input.Value())
	}
	return v, cmd
}

func (v SettingsView) commit(mode SettingsMode, id, text string) tea.Cmd {
	a, ctx := v.app, v.ctx
	return func() tea.Msg {
		var err error
		switch mode {
		case SettingsModeAddTag:
			_, err = a.CreateTag(ctx, text, "")
		case SettingsModeRenameTag:
			err = a.RenameTag(ctx, id, text)
		case SettingsModeAddQuote:
			_, err = a.AddQuote(ctx, text)
		case SettingsModeEditQuote:
			err = a.EditQuote(ctx, id, text)
			if err != nil {
				a.Quotes.EndEdit()
			}
		}
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

func (v SettingsView) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, section := v.targetID, v.section
	v.mode = SettingsModeNormal
	v.targetID = ""
	if msg.String() != "y" && msg.String() != "Y" {
		return v, nil
	}

	a, ctx := v.app, v.ctx
	return v, func() tea.Msg {
		var err error
		if section == SectionTags {
			err = a.DeleteTag(ctx, id)
		} else {
			err = a.DeleteQuote(ctx, id)
		}
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: "Deleted"}
	}
}

// View renders the settings view
func (v SettingsView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	var b strings.Builder

	heading := func(s SettingsSection, text string) {
		style := styles.Label
		if v.section == s {
			style = styles.Section
		}
		b.WriteString(style.Render(text))
		b.WriteString("\n")
	}

	heading(SectionTags, "Tags")
	tags := v.tags()
	if len(tags) == 0 {
		b.WriteString(styles.Label.Render("  Using the default tags. Press a to make your own."))
		b.WriteString("\n")
		for _, tg := range model.DefaultTags() {
			b.WriteString("  " + styles.TagStyle(t, tg.Color).Render(tg.DisplayName()) + "\n")
		}
	}
	for i, tg := range tags {
		line := styles.TagStyle(t, tg.Color).Render(tg.DisplayName()) + "  " + styles.Label.Render(string(tg.Color))
		b.WriteString(v.cursorLine(v.section == SectionTags && i == v.tagCursor, line))
	}
	b.WriteString("\n")

	mode := v.app.Quotes.Mode()
	heading(SectionQuotes, fmt.Sprintf("Quotes (%s)", mode))
	if len(v.app.Mirror.Quotes()) == 0 {
		b.WriteString(styles.Label.Render("  Showing the default quotes. Press a to add your own."))
		b.WriteString("\n")
	}
	for i, q := range v.quotes() {
		pin := "  "
		if mode == quote.ModeFixed && i == v.app.Quotes.Index() {
			pin = "★ "
		}
		line := pin + truncate(q.Text, v.width-8)
		b.WriteString(v.cursorLine(v.section == SectionQuotes && i == v.qCursor, line))
	}

	switch v.mode {
	case SettingsModeNormal:
	case SettingsModeConfirmDelete:
		b.WriteString("\n" + styles.Error.Render("Delete it? y/n"))
	default:
		b.WriteString("\n" + styles.InputFocused.Render(v.input.View()))
	}
	return b.String()
}

func (v SettingsView) cursorLine(focused bool, line string) string {
	if focused {
		return theme.Current.Styles.TaskFocused.Render("› "+line) + "\n"
	}
	return theme.Current.Styles.TaskNormal.Render("  "+line) + "\n"
}
