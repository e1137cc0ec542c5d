package store

import (
	"context"
	"sync"
)

// Loader reads the current window of a query.
type Loader func(ctx context.Context) (Snapshot, error)

type triggeredFeed struct {
	events chan Event
	cancel context.CancelFunc
	stop   func()
	once   sync.Once
	done   chan struct{}
}

// NewTriggeredFeed returns a feed that loads the window once right away and
// again after every signal on trigger. Adapters whose native change model is
// not a snapshot push use it to turn change notifications into full snapshots.
// stop is called exactly once when the feed is closed.
func NewTriggeredFeed(ctx context.Context, load Loader, trigger <-chan struct{}, stop func()) Feed {
	ctx, cancel := context.WithCancel(ctx)
	f := &triggeredFeed{
		events: make(chan Event),
		cancel: cancel,
		stop:   stop,
		done:   make(chan struct{}),
	}
	go f.run(ctx, load, trigger)
	return f
}

func (f *triggeredFeed) Events() <-chan Event {
	return f.events
}

func (f *triggeredFeed) Close() error {
	f.once.Do(func() {
		f.cancel()
		if f.stop != nil {
			f.stop()
		}
	})
	<-f.done
	return nil
}

func (f *triggeredFeed) run(ctx context.Context, load Loader, trigger <-chan struct{}) {
	defer close(f.done)
	defer close(f.events)

	f.emit(ctx, load)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-trigger:
			if !ok {
				f.send(ctx, Event{Err: ErrFeedClosed})
				return
			}
			f.emit(ctx, load)
		}
	}
}

func (f *triggeredFeed) emit(ctx context.Context, load Loader) {
	snap, err := load(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		f.send(ctx, Event{Err: err})
		return
	}
	if snap == nil {
		snap = Snapshot{}
	}
	f.send(ctx, Event{Snapshot: snap})
}

func (f *triggeredFeed) send(ctx context.Context, ev Event) {
	select {
	case f.events <- ev:
	case <-ctx.Done():
	}
}
