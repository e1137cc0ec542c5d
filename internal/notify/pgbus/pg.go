package pgbus

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

const (
	Channel    = "livechat_changes"
	pingEvery  = 90 * time.Second
	minBackoff = 10 * time.Second
	maxBackoff = time.Minute
)

// Bus relays change signals with Postgres NOTIFY; the payload is the collection name.
type Bus struct {
	db       *sql.DB
	listener *pq.Listener
	hub      *notify.Hub
}

func New(databaseURL string, db *sql.DB) (*Bus, error) {
	log := observability.GetLogger(context.Background())
	listener := pq.NewListener(databaseURL, minBackoff, maxBackoff, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("pgbus: listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	if err := listener.Listen(Channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}
	return &Bus{db: db, listener: listener, hub: notify.NewHub()}, nil
}

func (b *Bus) Publish(ctx context.Context, collection string) error {
	_, err := b.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, Channel, collection)
	return err
}

func (b *Bus) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	return b.hub.Subscribe(ctx, collection)
}

// Start relays notifications until ctx is done. A nil notification means the
// connection was re-established, so every subscriber is told to re-read.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		log := observability.GetLogger(ctx)
		log.Info("pgbus: listening", zap.String("channel", Channel))

		ticker := time.NewTicker(pingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("pgbus: listen loop stopping: context canceled")
				return
			case n, ok := <-b.listener.Notify:
				if !ok {
					log.Warn("pgbus: notify channel closed")
					return
				}
				observability.ChangeNotificationsTotal.WithLabelValues("postgres").Inc()
				if n == nil {
					b.hub.Broadcast()
					continue
				}
				b.hub.Publish(ctx, n.Extra)
			case <-ticker.C:
				if err := b.listener.Ping(); err != nil {
					log.Warn("pgbus: listener ping failed", zap.Error(err))
				}
			}
		}
	}()
}

func (b *Bus) Close() error {
	err := b.listener.Close()
	b.hub.Close()
	return err
}
