package domain

import "strings"

const (
	// Collection is where chat messages live in the store.
	Collection = "messages"

	// WindowSize is how many of the most recent messages a view shows.
	WindowSize = 100

	// AnonymousName is shown for authors with neither a display name nor an email.
	AnonymousName = "Anonymous"
)

// Message Invariants:
// 1. Ordering: Timestamp is assigned once at creation and is the only sort key.
// 2. Identity: ID, AuthorID, AuthorName, AuthorPhotoURL and Timestamp never change after creation.
// 3. Edits: Edited and EditedAt are always set together.
type Message struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	AuthorID       string `json:"authorId"`
	AuthorName     string `json:"authorName"`
	AuthorPhotoURL string `json:"authorPhotoUrl,omitempty"`
	Timestamp      int64  `json:"timestamp"` // ms since epoch
	Edited         bool   `json:"edited,omitempty"`
	EditedAt       int64  `json:"editedAt,omitempty"`
}

// Author is the identity of whoever sends a message.
type Author struct {
	ID          string
	DisplayName string
	Email       string
	PhotoURL    string
}

// Name resolves the name stored on the message: the display name, else the
// local part of the email, else AnonymousName.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	if local, _, _ := strings.Cut(a.Email, "@"); local != "" {
		return local
	}
	return AnonymousName
}

// IsBlank reports whether text has no visible content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
