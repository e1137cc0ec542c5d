package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

// MockStore is a mock for the store.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Subscribe(ctx context.Context, q store.Query) (store.Feed, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Feed), args.Error(1)
}
func (m *MockStore) Get(ctx context.Context, path string) (store.Record, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Record), args.Error(1)
}
func (m *MockStore) Create(ctx context.Context, collection string, rec store.Record) (string, error) {
	args := m.Called(ctx, collection, rec)
	return args.String(0), args.Error(1)
}
func (m *MockStore) Update(ctx context.Context, path string, fields store.Record) error {
	return m.Called(ctx, path, fields).Error(0)
}
func (m *MockStore) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}
func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// stubFeed replays a fixed list of events.
type stubFeed struct {
	events chan store.Event
	closed int
}

func newStubFeed(evs ...store.Event) *stubFeed {
	f := &stubFeed{events: make(chan store.Event, len(evs))}
	for _, ev := range evs {
		f.events <- ev
	}
	return f
}

func (f *stubFeed) Events() <-chan store.Event { return f.events }
func (f *stubFeed) Close() error {
	f.closed++
	return nil
}

// ownedBy is what Get returns for a message written by uid.
func ownedBy(uid string) store.Record {
	return store.Record{"text": "hi", "userId": uid}
}

var fixedNow = time.UnixMilli(1700000000000)

func newTestService(s store.Store) *Service {
	svc := New(s, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}
