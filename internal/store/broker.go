package store

import (
	"context"
	"log/slog"
	"sync"
)

// LoadFunc reads one collection
type LoadFunc func(ctx context.Context, c Collection) (Snapshot, error)

// Broker fans snapshots out to subscribers. Each subscriber has a one slot
// buffer; a newer snapshot replaces one that has not been read yet.
type Broker struct {
	mu     sync.Mutex
	load   LoadFunc
	log    *slog.Logger
	subs   map[Collection]map[*subscription]struct{}
	closed bool
	done   chan struct{}

	// watchers counts the goroutines waiting to drop a subscription
	watchers sync.WaitGroup
}

type subscription struct {
	ch chan Snapshot
}

// NewBroker creates a broker that reads snapshots with load
func NewBroker(load LoadFunc, log *slog.Logger) *Broker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Broker{
		load: load,
		log:  log,
		subs: make(map[Collection]map[*subscription]struct{}),
		done: make(chan struct{}),
	}
}

// Subscribe registers a subscriber and delivers the current snapshot
func (b *Broker) Subscribe(ctx context.Context, c Collection) (<-chan Snapshot, error) {
	if !validCollection(c) {
		return nil, ErrUnknownCollection
	}

	snap, err := b.load(ctx, c)
	if err != nil {
		return nil, err
	}

	sub := &subscription{ch: make(chan Snapshot, 1)}
	sub.ch <- snap

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	if b.subs[c] == nil {
		b.subs[c] = make(map[*subscription]struct{})
	}
	b.subs[c][sub] = struct{}{}
	b.watchers.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.watchers.Done()
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[c][sub]; ok {
			delete(b.subs[c], sub)
			close(sub.ch)
		}
	}()

	return sub.ch, nil
}

// Publish reloads a collection and pushes it to every subscriber of it
func (b *Broker) Publish(ctx context.Context, c Collection) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || len(b.subs[c]) == 0 {
		return
	}

	snap, err := b.load(ctx, c)
	if err != nil {
		b.log.Warn("snapshot reload failed", "collection", c, "err", err)
		return
	}

	for sub := range b.subs[c] {
		// Drop a stale unread snapshot so the send below never blocks
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snap:
		default:
		}
	}
	b.log.Debug("snapshot published", "collection", c, "subscribers", len(b.subs[c]))
}

// PublishAll pushes every collection
func (b *Broker) PublishAll(ctx context.Context) {
	for _, c := range Collections {
		b.Publish(ctx, c)
	}
}

// Close closes every subscription channel
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for c, subs := range b.subs {
		for sub := range subs {
			close(sub.ch)
		}
		delete(b.subs, c)
	}
}

// wait blocks until every subscription watcher has exited
func (b *Broker) wait() {
	b.watchers.Wait()
}

func validCollection(c Collection) bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}
