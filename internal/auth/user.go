package auth

import "github.com/SARVESHVARADKAR123/livechat/internal/domain"

// User is the signed-in identity supplied by the identity provider.
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

func (u User) Author() domain.Author {
	return domain.Author{
		ID:          u.UID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
	}
}

// CurrentUser is a read-only, externally owned view of who is signed in.
// Changes signals after the value changes; a burst of changes may arrive as a
// single signal.
type CurrentUser interface {
	Current() (User, bool)
	Changes() <-chan struct{}
}
