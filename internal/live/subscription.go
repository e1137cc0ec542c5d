package live

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

// Subscription keeps a standing query on the most recent messages and hands
// every snapshot to its consumer as a complete, already ordered list.
type Subscription struct {
	store store.Store
	query store.Query
}

func New(s store.Store, limit int) *Subscription {
	if limit <= 0 || limit > domain.WindowSize {
		limit = domain.WindowSize
	}
	return &Subscription{
		store: s,
		query: store.Query{
			Collection: domain.Collection,
			OrderBy:    domain.FieldTimestamp,
			Limit:      limit,
		},
	}
}

func (s *Subscription) Query() store.Query {
	return s.query
}

// Run blocks until ctx is done or the feed ends, calling publish with each
// decoded snapshot in arrival order. Errors reported by the feed are logged
// and skipped, leaving the consumer's last list in place. The feed is closed
// exactly once when Run returns.
func (s *Subscription) Run(ctx context.Context, publish func([]domain.Message)) error {
	log := observability.GetLogger(ctx).With(zap.String("collection", s.query.Collection))

	feed, err := s.store.Subscribe(ctx, s.query)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.query.Collection, err)
	}
	defer func() {
		if err := feed.Close(); err != nil {
			log.Warn("live: failed to close feed", zap.Error(err))
		}
	}()

	log.Debug("live: subscription started", zap.Int("limit", s.query.Limit))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-feed.Events():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return store.ErrFeedClosed
			}
			if ev.Err != nil {
				observability.SubscriptionErrorsTotal.WithLabelValues(s.query.Collection).Inc()
				log.Error("live: subscription error, keeping last snapshot", zap.Error(ev.Err))
				continue
			}
			observability.SnapshotsPushedTotal.WithLabelValues(s.query.Collection).Inc()
			publish(domain.DecodeSnapshot(ev.Snapshot))
		}
	}
}
