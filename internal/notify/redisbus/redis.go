package redisbus

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

const channelPrefix = "store:changes:"

// Bus relays change signals through Redis pub/sub so every instance sharing
// the store hears about every write.
type Bus struct {
	client     *redis.Client
	instanceID string
	hub        *notify.Hub

	// owned by the Start loop
	subscribed bool
}

func New(client *redis.Client, instanceID string) *Bus {
	return &Bus{client: client, instanceID: instanceID, hub: notify.NewHub()}
}

func channel(collection string) string {
	return channelPrefix + collection
}

func (b *Bus) Publish(ctx context.Context, collection string) error {
	log := observability.GetLogger(ctx)
	log.Debug("redisbus: publishing change", zap.String("collection", collection))
	return b.client.Publish(ctx, channel(collection), b.instanceID).Err()
}

func (b *Bus) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	return b.hub.Subscribe(ctx, collection)
}

// Start listens for changes of every collection until ctx is done.
func (b *Bus) Start(ctx context.Context) {
	pubsub := b.client.PSubscribe(ctx, channelPrefix+"*")

	go func() {
		log := observability.GetLogger(ctx)
		log.Info("redisbus: subscribed", zap.String("pattern", channelPrefix+"*"))
		defer pubsub.Close()

		ch := pubsub.ChannelWithSubscriptions()
		for {
			select {
			case <-ctx.Done():
				log.Info("redisbus: subscription loop stopping: context canceled")
				return
			case item, ok := <-ch:
				if !ok {
					log.Warn("redisbus: pubsub channel closed")
					return
				}
				b.handle(ctx, item)
			}
		}
	}()
}

// handle applies one item of the subscription stream. A pattern confirmation
// after the first one means the client reconnected and may have missed
// changes, so every collection is signalled.
func (b *Bus) handle(ctx context.Context, item interface{}) {
	switch m := item.(type) {
	case *redis.Subscription:
		if m.Kind != "psubscribe" {
			return
		}
		if b.subscribed {
			observability.GetLogger(ctx).Info("redisbus: resubscribed, refreshing all collections")
			observability.ChangeNotificationsTotal.WithLabelValues("redis").Inc()
			b.hub.Broadcast()
		}
		b.subscribed = true
	case *redis.Message:
		collection := strings.TrimPrefix(m.Channel, channelPrefix)
		observability.ChangeNotificationsTotal.WithLabelValues("redis").Inc()
		b.hub.Publish(ctx, collection)
	}
}

func (b *Bus) Close() error {
	return b.hub.Close()
}
