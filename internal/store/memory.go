package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. It backs tests and the --memory flag.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  map[string]model.Task
	tags   map[string]model.Tag
	quotes map[string]model.Quote
	now    func() time.Time
	seq    int64

	failErr error
	broker  *Broker
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore(log *slog.Logger) *MemoryStore {
	s := &MemoryStore{
		tasks:  make(map[string]model.Task),
		tags:   make(map[string]model.Tag),
		quotes: make(map[string]model.Quote),
		now:    time.Now,
	}
	s.broker = NewBroker(s.Load, log)
	return s
}

// SetClock replaces the clock used for CreatedAt
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailWrites makes every following write return err until called with nil
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Subscribe implements Subscriber
func (s *MemoryStore) Subscribe(ctx context.Context, c Collection) (<-chan Snapshot, error) {
	return s.broker.Subscribe(ctx, c)
}

// Load implements Loader
func (s *MemoryStore) Load(ctx context.Context, c Collection) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Collection: c}
	switch c {
	case CollectionTasks:
		snap.Tasks = make([]model.Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			snap.Tasks = append(snap.Tasks, t.Clone())
		}
		sort.SliceStable(snap.Tasks, func(i, j int) bool {
			return snap.Tasks[i].CreatedAt.After(snap.Tasks[j].CreatedAt)
		})
	case CollectionTags:
		snap.Tags = make([]model.Tag, 0, len(s.tags))
		for _, t := range s.tags {
			snap.Tags = append(snap.Tags, t)
		}
		sort.SliceStable(snap.Tags, func(i, j int) bool {
			return snap.Tags[i].CreatedAt.Before(snap.Tags[j].CreatedAt)
		})
	case CollectionQuotes:
		snap.Quotes = make([]model.Quote, 0, len(s.quotes))
		for _, q := range s.quotes {
			snap.Quotes = append(snap.Quotes, q)
		}
		sort.SliceStable(snap.Quotes, func(i, j int) bool {
			return snap.Quotes[i].CreatedAt.Before(snap.Quotes[j].CreatedAt)
		})
	default:
		return Snapshot{}, ErrUnknownCollection
	}
	return snap, nil
}

// stamp returns a strictly increasing creation time so ordering stays stable
// even when the clock does not move between writes.
func (s *MemoryStore) stamp() time.Time {
	s.seq++
	return s.now().Add(time.Duration(s.seq) * time.Microsecond)
}

// CreateTask implements TaskWriter
func (s *MemoryStore) CreateTask(ctx context.Context, t model.Task) (string, error) {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return "", s.failErr
	}
	t = t.Clone()
	t.ID = uuid.New().String()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.stamp()
	}
	s.tasks[t.ID] = t
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionTasks)
	return t.ID, nil
}

// UpdateTask implements TaskWriter
func (s *MemoryStore) UpdateTask(ctx context.Context, id string, p TaskPatch) error {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return s.failErr
	}
	t, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	t = t.Clone()
	p.Apply(&t)
	s.tasks[id] = t
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionTasks)
	return nil
}

// DeleteTask implements TaskWriter
func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return s.failErr
	}
	if _, ok := s.tasks[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.tasks, id)
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionTasks)
	return nil
}

// CreateTag implements TagWriter
func (s *MemoryStore) CreateTag(ctx context.Context, t model.Tag) (string, error) {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return "", s.failErr
	}
	t.ID = uuid.New().String()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.stamp()
	}
	s.tags[t.ID] = t
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionTags)
	return t.ID, nil
}

// UpdateTag implements TagWriter
func (s *MemoryStore) UpdateTag(ctx context.Context, id string, p TagPatch) error {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return s.failErr
	}
	t, ok := s.tags[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	p.Apply(&t)
	s.tags[id] = t
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionTags)
	return nil
}

// DeleteTag implements TagWriter
func (s *MemoryStore) DeleteTag(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return s.failErr
	}
	if _, ok := s.tags[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.tags, id)
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionTags)
	return nil
}

// CreateQuote implements QuoteWriter
func (s *MemoryStore) CreateQuote(ctx context.Context, q model.Quote) (string, error) {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return "", s.failErr
	}
	q.ID = uuid.New().String()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.stamp()
	}
	s.quotes[q.ID] = q
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionQuotes)
	return q.ID, nil
}

// UpdateQuote implements QuoteWriter
func (s *MemoryStore) UpdateQuote(ctx context.Context, id, text string) error {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return s.failErr
	}
	q, ok := s.quotes[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	q.Text = text
	s.quotes[id] = q
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionQuotes)
	return nil
}

// DeleteQuote implements QuoteWriter
func (s *MemoryStore) DeleteQuote(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.failErr != nil {
		s.mu.Unlock()
		return s.failErr
	}
	if _, ok := s.quotes[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.quotes, id)
	s.mu.Unlock()

	s.broker.Publish(ctx, CollectionQuotes)
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	s.broker.Close()
	return nil
}
