package auth

import (
	"context"
	"sync"
)

// Holder owns the current user of one connection and is the CurrentUser
// handed to its view. Changes is meant for a single observer.
type Holder struct {
	mu      sync.RWMutex
	user    *User
	changes chan struct{}
}

func NewHolder(u *User) *Holder {
	h := &Holder{changes: make(chan struct{}, 1)}
	if u != nil {
		copied := *u
		h.user = &copied
	}
	return h
}

func (h *Holder) Current() (User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return User{}, false
	}
	return *h.user, true
}

func (h *Holder) Changes() <-chan struct{} {
	return h.changes
}

func (h *Holder) Set(u User) {
	h.mu.Lock()
	h.user = &u
	h.mu.Unlock()
	h.notify()
}

func (h *Holder) Clear() {
	h.mu.Lock()
	was := h.user != nil
	h.user = nil
	h.mu.Unlock()
	if was {
		h.notify()
	}
}

// SignOut resets the holder to "no user".
func (h *Holder) SignOut(context.Context) error {
	h.Clear()
	return nil
}

func (h *Holder) notify() {
	select {
	case h.changes <- struct{}{}:
	default:
	}
}
