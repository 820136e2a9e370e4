package app

import (
	"context"
	"strings"

	"github.com/dori/slowly/internal/config"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/quote"
)

// AddQuote stores a new quote
func (a *App) AddQuote(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := model.ValidateQuoteText(text); err != nil {
		return "", err
	}
	id, err := a.Store.CreateQuote(ctx, model.Quote{Text: text})
	if err != nil {
		return "", a.persistErr("add quote", err)
	}
	return id, nil
}

// EditQuote replaces a quote's text and ends any preview of it
func (a *App) EditQuote(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if err := model.ValidateQuoteText(text); err != nil {
		return err
	}
	defer a.Quotes.EndEdit()
	return a.persistErr("edit quote", a.Store.UpdateQuote(ctx, id, text))
}

// DeleteQuote removes a quote and keeps the fixed selection pointing at the
// same quote where possible
func (a *App) DeleteQuote(ctx context.Context, id string) error {
	index := -1
	for i, q := range a.Mirror.Quotes() {
		if q.ID == id {
			index = i
			break
		}
	}

	if err := a.Store.DeleteQuote(ctx, id); err != nil {
		return a.persistErr("delete quote", err)
	}

	if index >= 0 {
		a.Quotes.QuoteDeleted(index)
		return a.saveQuoteSettings()
	}
	return nil
}

// SelectQuote pins the quote at index of the effective list
func (a *App) SelectQuote(index int) error {
	if err := a.Quotes.Select(index); err != nil {
		return err
	}
	return a.saveQuoteSettings()
}

// SetQuoteMode switches between random and fixed
func (a *App) SetQuoteMode(mode quote.Mode) error {
	a.Quotes.SetMode(mode)
	return a.saveQuoteSettings()
}

// ToggleQuoteMode flips between random and fixed and returns the new mode
func (a *App) ToggleQuoteMode() (quote.Mode, error) {
	mode := quote.ModeFixed
	if a.Quotes.Mode() == quote.ModeFixed {
		mode = quote.ModeRandom
	}
	return mode, a.SetQuoteMode(mode)
}

// RefreshQuote redraws the quote, as when returning to the dashboard
func (a *App) RefreshQuote() model.Quote {
	a.Quotes.Recompute(a.Mirror.Quotes())
	return a.Quotes.Current()
}

func (a *App) saveQuoteSettings() error {
	a.Config.Quote.Mode = string(a.Quotes.Mode())
	a.Config.Quote.FixedIndex = a.Quotes.FixedIndex()
	if a.configPath == "" {
		return nil
	}
	if err := config.Save(a.configPath, a.Config); err != nil {
		a.Log.Warn("quote settings not saved", "err", err)
		return err
	}
	return nil
}
