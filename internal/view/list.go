package view

import "github.com/SARVESHVARADKAR123/livechat/internal/domain"

// MessageList holds the latest snapshot. It is only ever replaced wholesale.
type MessageList struct {
	items  []domain.Message
	loaded bool
	limit  int
}

func NewMessageList(limit int) *MessageList {
	if limit <= 0 || limit > domain.WindowSize {
		limit = domain.WindowSize
	}
	return &MessageList{limit: limit}
}

// Replace swaps in a new snapshot as given. Longer snapshots are cut to the
// most recent entries; order is never changed.
func (l *MessageList) Replace(msgs []domain.Message) {
	if len(msgs) > l.limit {
		msgs = msgs[len(msgs)-l.limit:]
	}
	items := make([]domain.Message, len(msgs))
	copy(items, msgs)
	l.items = items
	l.loaded = true
}

func (l *MessageList) Find(id string) (domain.Message, bool) {
	for _, m := range l.items {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Message{}, false
}

func (l *MessageList) Items() []domain.Message {
	out := make([]domain.Message, len(l.items))
	copy(out, l.items)
	return out
}

func (l *MessageList) Len() int {
	return len(l.items)
}

// Loaded reports whether a snapshot has arrived yet.
func (l *MessageList) Loaded() bool {
	return l.loaded
}
