package kafkabus

import (
	"context"
	"errors"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

type kgoRecordCarrier struct {
	record *kgo.Record
}

func (c kgoRecordCarrier) Get(key string) string {
	for _, h := range c.record.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c kgoRecordCarrier) Set(key string, value string) {
	c.record.Headers = append(c.record.Headers, kgo.RecordHeader{Key: key, Value: []byte(value)})
}

func (c kgoRecordCarrier) Keys() []string {
	keys := make([]string, 0, len(c.record.Headers))
	for _, h := range c.record.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}

// Bus writes one record per change to a topic, keyed by collection. Each
// instance reads the topic from its end without a consumer group, so every
// instance sees every change made after it started.
type Bus struct {
	client *kgo.Client
	hub    *notify.Hub
}

func New(brokers []string, topic string) (*Bus, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}
	return &Bus{client: cl, hub: notify.NewHub()}, nil
}

func (b *Bus) Publish(ctx context.Context, collection string) error {
	rec := &kgo.Record{Key: []byte(collection), Value: []byte(collection)}
	otel.GetTextMapPropagator().Inject(ctx, kgoRecordCarrier{record: rec})
	return b.client.ProduceSync(ctx, rec).FirstErr()
}

func (b *Bus) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	return b.hub.Subscribe(ctx, collection)
}

// Start consumes change records until ctx is done.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		log := observability.GetLogger(ctx)
		log.Info("kafkabus: consumer started")
		for {
			select {
			case <-ctx.Done():
				log.Info("kafkabus: consumer loop stopping: context canceled")
				return
			default:
				fetches := b.client.PollFetches(ctx)
				if fetches.IsClientClosed() {
					return
				}
				if errs := fetches.Errors(); len(errs) > 0 {
					for _, ferr := range errs {
						if errors.Is(ferr.Err, context.Canceled) {
							return
						}
						log.Error("kafkabus: fetch error", zap.String("topic", ferr.Topic), zap.Int32("partition", ferr.Partition), zap.Error(ferr.Err))
					}
					continue
				}

				fetches.EachRecord(func(r *kgo.Record) {
					ctx := otel.GetTextMapPropagator().Extract(ctx, kgoRecordCarrier{record: r})
					observability.ChangeNotificationsTotal.WithLabelValues("kafka").Inc()
					b.hub.Publish(ctx, string(r.Key))
				})
			}
		}
	}()
}

func (b *Bus) Close() error {
	if b.client != nil {
		b.client.Close()
	}
	return b.hub.Close()
}
