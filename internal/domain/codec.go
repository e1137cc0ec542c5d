package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/SARVESHVARADKAR123/livechat/internal/store"
)

// Record field names.
const (
	FieldText      = "text"
	FieldUserID    = "userId"
	FieldUserName  = "userName"
	FieldUserPhoto = "userPhoto"
	FieldTimestamp = "timestamp"
	FieldEdited    = "edited"
	FieldEditedAt  = "editedAt"
)

// NewRecord builds the record written when a message is sent. Edit markers
// are left out on purpose so a fresh message carries neither of them.
func NewRecord(text string, author Author, now time.Time) store.Record {
	return store.Record{
		FieldText:      text,
		FieldUserID:    author.ID,
		FieldUserName:  author.Name(),
		FieldUserPhoto: author.PhotoURL,
		FieldTimestamp: now.UnixMilli(),
	}
}

// EditFields is the partial update applied when a message is edited.
func EditFields(text string, now time.Time) store.Record {
	return store.Record{
		FieldText:     text,
		FieldEdited:   true,
		FieldEditedAt: now.UnixMilli(),
	}
}

// Decode maps a store entry to a Message. Missing or mistyped fields become
// zero values.
func Decode(e store.Entry) Message {
	f := e.Fields
	return Message{
		ID:             e.ID,
		Text:           asString(f[FieldText]),
		AuthorID:       asString(f[FieldUserID]),
		AuthorName:     asString(f[FieldUserName]),
		AuthorPhotoURL: asString(f[FieldUserPhoto]),
		Timestamp:      asInt64(f[FieldTimestamp]),
		Edited:         asBool(f[FieldEdited]),
		EditedAt:       asInt64(f[FieldEditedAt]),
	}
}

// DecodeSnapshot decodes every entry, keeping the store's order. The result is
// never nil.
func DecodeSnapshot(s store.Snapshot) []Message {
	out := make([]Message, 0, len(s))
	for _, e := range s {
		out = append(out, Decode(e))
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
	}
	return 0
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}
