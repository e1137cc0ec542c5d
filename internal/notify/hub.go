package notify

import (
	"context"
	"sync"
)

type subscriber struct {
	ch   chan struct{}
	once sync.Once
}

func (s *subscriber) signal() {
	select {
	case s.ch <- struct{}{}:
	default:
		// a signal is already pending
	}
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Hub fans change signals out to in-process subscribers. It is a Bus on its
// own and the local delivery side of every remote bus.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

func (h *Hub) Publish(_ context.Context, collection string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	for s := range h.subs[collection] {
		s.signal()
	}
	return nil
}

// Broadcast signals every subscriber of every collection. Remote buses call it
// after reconnecting, when changes may have been missed.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, subs := range h.subs {
		for s := range subs {
			s.signal()
		}
	}
}

func (h *Hub) Subscribe(_ context.Context, collection string) (<-chan struct{}, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, nil, ErrClosed
	}

	s := &subscriber{ch: make(chan struct{}, 1)}
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[*subscriber]struct{})
	}
	h.subs[collection][s] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subs[collection]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(h.subs, collection)
			}
		}
		h.mu.Unlock()
		s.close()
	}
	return s.ch, cancel, nil
}

// Subscribers returns how many subscriptions are open for collection.
func (h *Hub) Subscribers(collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[collection])
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for _, subs := range h.subs {
		for s := range subs {
			s.close()
		}
	}
	h.subs = make(map[string]map[*subscriber]struct{})
	return nil
}
