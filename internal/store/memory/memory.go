package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

// Store keeps records in process memory. Writes are serialized by a single
// lock, so the last writer wins.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Record
	bus         notify.Bus
	newID       func() string
}

// New returns an empty store. When bus is nil the store signals its own
// subscribers through a private hub.
func New(bus notify.Bus) *Store {
	if bus == nil {
		bus = notify.NewHub()
	}
	return &Store{
		collections: make(map[string]map[string]store.Record),
		bus:         bus,
		newID:       func() string { return ulid.Make().String() },
	}
}

func (s *Store) Subscribe(ctx context.Context, q store.Query) (store.Feed, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	trigger, cancel, err := s.bus.Subscribe(ctx, q.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	load := func(context.Context) (store.Snapshot, error) {
		return s.window(q), nil
	}
	return store.NewTriggeredFeed(ctx, load, trigger, cancel), nil
}

func (s *Store) Create(ctx context.Context, collection string, rec store.Record) (string, error) {
	if collection == "" {
		return "", store.ErrInvalidPath
	}

	id := s.newID()

	s.mu.Lock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]store.Record)
	}
	s.collections[collection][id] = rec.Clone()
	s.mu.Unlock()

	s.changed(ctx, collection)
	return id, nil
}

func (s *Store) Update(ctx context.Context, path string, fields store.Record) error {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rec, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	merged := rec.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	s.collections[collection][id] = merged
	s.mu.Unlock()

	s.changed(ctx, collection)
	return nil
}

// Delete removes the record. Removing a record that does not exist succeeds.
func (s *Store) Delete(ctx context.Context, path string) error {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	_, existed := s.collections[collection][id]
	delete(s.collections[collection], id)
	s.mu.Unlock()

	if existed {
		s.changed(ctx, collection)
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// Get returns a copy of one record.
func (s *Store) Get(_ context.Context, path string) (store.Record, error) {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) window(q store.Query) store.Snapshot {
	s.mu.RLock()
	entries := make([]store.Entry, 0, len(s.collections[q.Collection]))
	for id, rec := range s.collections[q.Collection] {
		entries = append(entries, store.Entry{ID: id, Fields: rec.Clone()})
	}
	s.mu.RUnlock()

	return store.Window(entries, q.OrderBy, q.Limit)
}

// changed signals subscribers. The write has already happened, so a failed
// publish is only logged.
func (s *Store) changed(ctx context.Context, collection string) {
	if err := s.bus.Publish(ctx, collection); err != nil {
		observability.GetLogger(ctx).Warn("memory: failed to publish change",
			zap.String("collection", collection), zap.Error(err))
	}
}
