package model

import (
	"time"
)

// Quote is a motivational line shown above the dashboard
type Quote struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// DefaultQuotes returns the built-in quotes used while none are saved.
// They are never written to the store.
func DefaultQuotes() []Quote {
	return []Quote{
		{ID: "default-quote-1", Text: "We swallow too much meaning. Living only asks us to breathe."},
		{ID: "default-quote-2", Text: "Maybe nothing got done today, but being a little gentler than yesterday is real progress."},
		{ID: "default-quote-3", Text: "Let yourself go slowly. Let yourself not manage it, for now."},
	}
}

// EffectiveQuotes returns stored when it has any quotes, otherwise the defaults
func EffectiveQuotes(stored []Quote) []Quote {
	if len(stored) > 0 {
		return stored
	}
	return DefaultQuotes()
}
