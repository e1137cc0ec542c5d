package application

import (
	"context"
	"fmt"

	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

// RecentMessages returns the current window of the most recent messages,
// oldest first. It takes the first snapshot of a short-lived subscription.
func (s *Service) RecentMessages(ctx context.Context, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > domain.WindowSize {
		limit = domain.WindowSize
	}

	feed, err := s.store.Subscribe(ctx, store.Query{
		Collection: domain.Collection,
		OrderBy:    domain.FieldTimestamp,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to messages: %w", err)
	}
	defer feed.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-feed.Events():
		if !ok {
			return nil, store.ErrFeedClosed
		}
		if ev.Err != nil {
			return nil, fmt.Errorf("failed to load messages: %w", ev.Err)
		}
		return domain.DecodeSnapshot(ev.Snapshot), nil
	}
}
