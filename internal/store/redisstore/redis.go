package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

const maxUpdateRetries = 3

var ErrUnsupportedOrder = errors.New("redisstore: query order field is not indexed")

// Store keeps each record as a JSON value under "<collection>:rec:<id>" and
// indexes ids in the sorted set "<collection>:by:<orderField>", scored by the
// order field. Equal scores fall back to member order, which for ULIDs is
// creation order.
type Store struct {
	client     *redis.Client
	bus        notify.Bus
	orderField string
}

func New(client *redis.Client, bus notify.Bus, orderField string) *Store {
	return &Store{client: client, bus: bus, orderField: orderField}
}

func recordKey(collection, id string) string {
	return fmt.Sprintf("%s:rec:%s", collection, id)
}

func (s *Store) indexKey(collection string) string {
	return fmt.Sprintf("%s:by:%s", collection, s.orderField)
}

func (s *Store) Subscribe(ctx context.Context, q store.Query) (store.Feed, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if q.OrderBy != s.orderField {
		return nil, ErrUnsupportedOrder
	}

	trigger, cancel, err := s.bus.Subscribe(ctx, q.Collection)
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

	id := ulid.Make().String()
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, recordKey(collection, id), data, 0)
		p.ZAdd(ctx, s.indexKey(collection), redis.Z{Score: store.OrderValue(rec, s.orderField), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create record: %w", err)
	}

	s.changed(ctx, collection)
	return id, nil
}

func (s *Store) Update(ctx context.Context, path string, fields store.Record) error {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return err
	}
	key := recordKey(collection, id)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		var rec store.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("failed to decode record: %w", err)
		}
		for k, v := range fields {
			rec[k] = v
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, 0)
			if _, ok := fields[s.orderField]; ok {
				p.ZAdd(ctx, s.indexKey(collection), redis.Z{Score: store.OrderValue(rec, s.orderField), Member: id})
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err = s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update record: %w", err)
	}

	s.changed(ctx, collection)
	return nil
}

func (s *Store) Get(ctx context.Context, path string) (store.Record, error) {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, recordKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
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

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, recordKey(collection, id))
		p.ZRem(ctx, s.indexKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	s.changed(ctx, collection)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) window(ctx context.Context, q store.Query) (store.Snapshot, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(q.Collection), -int64(q.Limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if len(ids) == 0 {
		return store.Snapshot{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(q.Collection, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	snap := make(store.Snapshot, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// removed between the index read and the record read
			continue
		}
		var rec store.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			observability.GetLogger(ctx).Warn("redisstore: skipping undecodable record",
				zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		snap = append(snap, store.Entry{ID: ids[i], Fields: rec})
	}
	return snap, nil
}

// changed publishes a change signal. The write already succeeded, so a failed
// publish is logged rather than returned.
func (s *Store) changed(ctx context.Context, collection string) {
	if err := s.bus.Publish(ctx, collection); err != nil {
		observability.GetLogger(ctx).Warn("redisstore: failed to publish change",
			zap.String("collection", collection), zap.Error(err))
	}
}
