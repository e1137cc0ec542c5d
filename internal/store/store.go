package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("store: record not found")
	ErrInvalidPath  = errors.New("store: invalid path")
	ErrInvalidQuery = errors.New("store: invalid query")
	ErrFeedClosed   = errors.New("store: feed closed")
)

// Record is the field map of a stored record.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Entry is one record of a snapshot together with its id.
type Entry struct {
	ID     string
	Fields Record
}

// Snapshot is the full ordered result of a query at one point in time.
type Snapshot []Entry

// Query selects the last Limit records of Collection ordered ascending by OrderBy.
type Query struct {
	Collection string
	OrderBy    string
	Limit      int
}

func (q Query) Validate() error {
	if q.Collection == "" || q.OrderBy == "" || q.Limit <= 0 {
		return ErrInvalidQuery
	}
	return nil
}

// Event carries either a fresh snapshot or a subscription error.
type Event struct {
	Snapshot Snapshot
	Err      error
}

// Feed is a standing subscription. Events are delivered in the order they
// were produced. Close releases the subscription and may be called more than once.
type Feed interface {
	Events() <-chan Event
	Close() error
}

// Store is the remote real-time record store.
type Store interface {
	Subscribe(ctx context.Context, q Query) (Feed, error)
	Get(ctx context.Context, path string) (Record, error)
	Create(ctx context.Context, collection string, rec Record) (string, error)
	Update(ctx context.Context, path string, fields Record) error
	Delete(ctx context.Context, path string) error
	Ping(ctx context.Context) error
}
