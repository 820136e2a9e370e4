// Package mirror holds the in-memory copy of everything the store streams.
// Each snapshot replaces its collection wholesale; nothing in here is ever
// edited in place.
package mirror

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
)

// Mirror is the read-only domain model
type Mirror struct {
	mu     sync.RWMutex
	tasks  []model.Task
	tags   []model.Tag
	quotes []model.Quote
	loaded map[store.Collection]bool
}

// New creates an empty mirror
func New() *Mirror {
	return &Mirror{loaded: make(map[store.Collection]bool)}
}

// Apply replaces the collection carried by snap
func (m *Mirror) Apply(snap store.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch snap.Collection {
	case store.CollectionTasks:
		m.tasks = snap.Tasks
	case store.CollectionTags:
		m.tags = snap.Tags
	case store.CollectionQuotes:
		m.quotes = snap.Quotes
	default:
		return
	}
	m.loaded[snap.Collection] = true
}

// Ready returns true once every collection has delivered a snapshot
func (m *Mirror) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range store.Collections {
		if !m.loaded[c] {
			return false
		}
	}
	return true
}

// Tasks returns a copy of the current task set, newest first
func (m *Mirror) Tasks() []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns the current copy of one task
func (m *Mirror) Task(id string) (model.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// Tags returns the stored tags
func (m *Mirror) Tags() []model.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Tag(nil), m.tags...)
}

// EffectiveTags returns the stored tags or the built-in defaults
func (m *Mirror) EffectiveTags() []model.Tag {
	return model.EffectiveTags(m.Tags())
}

// Quotes returns the stored quotes
func (m *Mirror) Quotes() []model.Quote {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Quote(nil), m.quotes...)
}

// EffectiveQuotes returns the stored quotes or the built-in defaults
func (m *Mirror) EffectiveQuotes() []model.Quote {
	return model.EffectiveQuotes(m.Quotes())
}

// Run subscribes to every collection and applies snapshots until ctx is done
// or the store closes. onChange, if set, is called after each apply with the
// collection that changed.
func (m *Mirror) Run(ctx context.Context, s store.Subscriber, log *slog.Logger, onChange func(store.Collection)) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var wg sync.WaitGroup
	for _, c := range store.Collections {
		ch, err := s.Subscribe(ctx, c)
		if err != nil {
			return err
		}

		wg.Add(1)
		go func(c store.Collection, ch <-chan store.Snapshot) {
			defer wg.Done()
			for snap := range ch {
				m.Apply(snap)
				log.Debug("mirror updated", "collection", c)
				if onChange != nil {
					onChange(c)
				}
			}
		}(c, ch)
	}

	wg.Wait()
	return ctx.Err()
}
