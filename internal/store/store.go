// Package store defines the persistence contract the rest of slowly is
// written against: full-snapshot subscriptions per collection plus
// whole-or-nothing create, update and delete calls.
package store

import (
	"context"
	"errors"

	"github.com/dori/slowly/internal/model"
)

// Collection names a stream of records
type Collection string

const (
	CollectionTasks  Collection = "tasks"  // newest first
	CollectionTags   Collection = "tags"   // oldest first
	CollectionQuotes Collection = "quotes" // oldest first
)

// Collections lists every collection a mirror needs to follow
var Collections = []Collection{CollectionTasks, CollectionTags, CollectionQuotes}

var (
	ErrNotFound          = errors.New("record not found")
	ErrClosed            = errors.New("store closed")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Snapshot is the complete current record set of one collection
type Snapshot struct {
	Collection Collection
	Tasks      []model.Task
	Tags       []model.Tag
	Quotes     []model.Quote
}

// Subscriber streams snapshots. The current set is delivered immediately and
// again after every change. Slow readers only ever see the latest snapshot.
// The channel is closed when ctx is done or the store closes.
type Subscriber interface {
	Subscribe(ctx context.Context, c Collection) (<-chan Snapshot, error)
}

// Loader reads a collection once
type Loader interface {
	Load(ctx context.Context, c Collection) (Snapshot, error)
}

// TaskWriter mutates tasks
type TaskWriter interface {
	CreateTask(ctx context.Context, t model.Task) (string, error)
	UpdateTask(ctx context.Context, id string, p TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
}

// TagWriter mutates tags
type TagWriter interface {
	CreateTag(ctx context.Context, t model.Tag) (string, error)
	UpdateTag(ctx context.Context, id string, p TagPatch) error
	DeleteTag(ctx context.Context, id string) error
}

// QuoteWriter mutates quotes
type QuoteWriter interface {
	CreateQuote(ctx context.Context, q model.Quote) (string, error)
	UpdateQuote(ctx context.Context, id, text string) error
	DeleteQuote(ctx context.Context, id string) error
}

// Store is the full adapter contract
type Store interface {
	Subscriber
	Loader
	TaskWriter
	TagWriter
	QuoteWriter
	Close() error
}
