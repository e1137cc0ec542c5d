package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

// Store keeps records as JSONB rows of the records table.
type Store struct {
	DB  *sql.DB
	Bus notify.Bus
}

func New(db *sql.DB, bus notify.Bus) *Store {
	return &Store{DB: db, Bus: bus}
}

func (s *Store) Subscribe(ctx context.Context, q store.Query) (store.Feed, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	trigger, cancel, err := s.Bus.Subscribe(ctx, q.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	load := func(ctx context.Context) (store.Snapshot, error) {
		return s.window(ctx, q)
	}
	return store.NewTriggeredFeed(ctx, load, trigger, cancel), nil
}

func (s *Store) Create(ctx context.Context, collection string, rec store.Record) (string, error) {
	if collection == "" {
		return "", store.ErrInvalidPath
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	id := ulid.Make().String()
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO records (collection, id, data)
		VALUES ($1, $2, $3)
	`, collection, id, data)
	if err != nil {
		return "", fmt.Errorf("failed to insert record: %w", err)
	}

	s.changed(ctx, collection)
	return id, nil
}

func (s *Store) Update(ctx context.Context, path string, fields store.Record) error {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return err
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	res, err := s.DB.ExecContext(ctx, `
		UPDATE records
		SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, data)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.changed(ctx, collection)
	return nil
}

func (s *Store) Get(ctx context.Context, path string) (store.Record, error) {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `
		SELECT data FROM records
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var rec store.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM records
		WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		s.changed(ctx, collection)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// window reads the newest Limit rows and returns them oldest first. Rows
// without a numeric order value sort before everything else.
func (s *Store) window(ctx context.Context, q store.Query) (store.Snapshot, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, data FROM (
			SELECT id, data, (data->>$2)::numeric AS ord
			FROM records
			WHERE collection = $1
			ORDER BY ord DESC NULLS LAST, id DESC
			LIMIT $3
		) w
		ORDER BY ord ASC NULLS FIRST, id ASC
	`, q.Collection, q.OrderBy, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query window: %w", err)
	}
	defer rows.Close()

	snap := store.Snapshot{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var rec store.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			observability.GetLogger(ctx).Warn("postgres: skipping undecodable record",
				zap.String("id", id), zap.Error(err))
			continue
		}
		snap = append(snap, store.Entry{ID: id, Fields: rec})
	}
	return snap, rows.Err()
}

func (s *Store) changed(ctx context.Context, collection string) {
	if err := s.Bus.Publish(ctx, collection); err != nil {
		observability.GetLogger(ctx).Warn("postgres: failed to publish change",
			zap.String("collection", collection), zap.Error(err))
	}
}
