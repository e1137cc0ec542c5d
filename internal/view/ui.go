package view

import (
	"context"

	"github.com/SARVESHVARADKAR123/livechat/internal/application"
)

// Routes understood by a Navigator.
const (
	RouteLanding = "landing"
	RouteChat    = "chat"
)

// User-facing texts.
const (
	AlertEmptyMessage  = "Message cannot be empty"
	AlertSendFailed    = "Failed to send message"
	AlertUpdateFailed  = "Failed to update message"
	AlertDeleteFailed  = "Failed to delete message"
	AlertSignOutFailed = "Failed to sign out"
	ConfirmDelete      = "Are you sure you want to delete this message?"
)

type Renderer interface {
	Render(State)
}

type Alerter interface {
	Alert(message string)
}

// Confirmer asks the user a yes/no question and blocks until they answer or
// ctx is done.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

type Navigator interface {
	Navigate(route string)
}

// UI is everything a view needs from its presentation.
type UI interface {
	Renderer
	Alerter
	Confirmer
	Navigator
}

// Actions performs message writes.
type Actions interface {
	SendMessage(ctx context.Context, cmd application.SendMessageCommand) (string, error)
	EditMessage(ctx context.Context, cmd application.EditMessageCommand) error
	DeleteMessage(ctx context.Context, cmd application.DeleteMessageCommand) error
}

// SignOuter ends the signed-in session.
type SignOuter interface {
	SignOut(ctx context.Context) error
}
