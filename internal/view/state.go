package view

import "github.com/SARVESHVARADKAR123/livechat/internal/domain"

// MessageView is a message as rendered for one viewer.
type MessageView struct {
	domain.Message
	Mine bool `json:"mine"`
}

// State is an immutable copy of everything a renderer shows.
type State struct {
	Loaded   bool          `json:"loaded"`
	Empty    bool          `json:"empty"`
	Messages []MessageView `json:"messages"`
	Compose  string        `json:"compose"`
	Sending  bool          `json:"sending"`
	Saving   bool          `json:"saving"`
	Edit     *Edit         `json:"edit,omitempty"`
	UserID   string        `json:"userId,omitempty"`
}
