package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SARVESHVARADKAR123/livechat/internal/view"
)

// Server to client frame types.
const (
	FrameSnapshot = "snapshot"
	FrameAlert    = "alert"
	FrameConfirm  = "confirm"
	FrameNavigate = "navigate"
)

// Client to server intent types.
const (
	IntentCompose      = "compose"
	IntentSend         = "send"
	IntentStartEdit    = "start_edit"
	IntentDraft        = "draft"
	IntentSaveEdit     = "save_edit"
	IntentCancelEdit   = "cancel_edit"
	IntentDelete       = "delete"
	IntentConfirmReply = "confirm_reply"
	IntentSignOut      = "sign_out"
)

var ErrUnknownIntent = errors.New("unknown intent")

type Frame struct {
	Type    string      `json:"type"`
	State   *view.State `json:"state,omitempty"`
	Message string      `json:"message,omitempty"`
	ID      string      `json:"id,omitempty"`
	Route   string      `json:"route,omitempty"`
	Path    string      `json:"path,omitempty"`
}

type Intent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	ID   string `json:"id,omitempty"`
	OK   bool   `json:"ok,omitempty"`
}

// Intents is the part of a view a client can drive.
type Intents interface {
	Compose(text string)
	Send()
	StartEdit(id string)
	ChangeDraft(text string)
	SaveEdit()
	CancelEdit()
	Delete(id string)
	SignOut()
}

func decodeIntent(raw []byte) (Intent, error) {
	var in Intent
	if err := json.Unmarshal(raw, &in); err != nil {
		return Intent{}, fmt.Errorf("invalid intent: %w", err)
	}
	return in, nil
}

func dispatch(v Intents, ui *ViewUI, in Intent) error {
	switch in.Type {
	case IntentCompose:
		v.Compose(in.Text)
	case IntentSend:
		v.Send()
	case IntentStartEdit:
		v.StartEdit(in.ID)
	case IntentDraft:
		v.ChangeDraft(in.Text)
	case IntentSaveEdit:
		v.SaveEdit()
	case IntentCancelEdit:
		v.CancelEdit()
	case IntentDelete:
		v.Delete(in.ID)
	case IntentConfirmReply:
		ui.Resolve(in.ID, in.OK)
	case IntentSignOut:
		v.SignOut()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, in.Type)
	}
	return nil
}
