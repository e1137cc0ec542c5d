package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/SARVESHVARADKAR123/livechat/internal/view"
)

var routePaths = map[string]string{
	view.RouteLanding: "/",
	view.RouteChat:    "/chat",
}

// ViewUI presents a view over a session: renders and prompts become frames,
// and confirm replies from the client are matched to pending prompts.
type ViewUI struct {
	session *Session

	mu      sync.Mutex
	pending map[string]chan bool
}

func NewViewUI(s *Session) *ViewUI {
	return &ViewUI{session: s, pending: make(map[string]chan bool)}
}

func (u *ViewUI) Render(st view.State) {
	u.session.SendFrame(Frame{Type: FrameSnapshot, State: &st})
}

func (u *ViewUI) Alert(message string) {
	u.session.SendFrame(Frame{Type: FrameAlert, Message: message})
}

func (u *ViewUI) Navigate(route string) {
	u.session.SendFrame(Frame{Type: FrameNavigate, Route: route, Path: routePaths[route]})
}

// Confirm sends a prompt and waits for the matching reply. A closed session
// or a done ctx counts as "no".
func (u *ViewUI) Confirm(ctx context.Context, message string) (bool, error) {
	id := uuid.NewString()
	reply := make(chan bool, 1)

	u.mu.Lock()
	u.pending[id] = reply
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		delete(u.pending, id)
		u.mu.Unlock()
	}()

	if !u.session.SendFrame(Frame{Type: FrameConfirm, ID: id, Message: message}) {
		return false, nil
	}

	select {
	case ok := <-reply:
		return ok, nil
	case <-u.session.Done():
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Resolve delivers the client's answer to a pending prompt. Unknown ids are
// ignored.
func (u *ViewUI) Resolve(id string, ok bool) {
	u.mu.Lock()
	reply, found := u.pending[id]
	u.mu.Unlock()
	if !found {
		return
	}
	select {
	case reply <- ok:
	default:
	}
}
