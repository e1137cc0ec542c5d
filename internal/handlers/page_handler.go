package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/middleware"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/transport"
)

const (
	LandingPath = "/"
	ChatPath    = "/chat"
	ChatWSPath  = "/chat/ws"
)

// SessionSigner ends every live view a user has open.
type SessionSigner interface {
	SignOutUser(userID string) int
}

// PageHandler serves the landing and chat entry points and the sign-out call.
type PageHandler struct {
	sessions SessionSigner
}

func NewPageHandler(sessions SessionSigner) *PageHandler {
	return &PageHandler{sessions: sessions}
}

// Landing GET /
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); ok {
		http.Redirect(w, r, ChatPath, http.StatusFound)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"route":    "landing",
		"signedIn": false,
	})
}

// Chat GET /chat returns what a client needs to open the live view.
func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"route": "chat",
		"user":  user,
		"ws":    ChatWSPath,
	})
}

// Logout POST /api/session/logout
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if user, ok := middleware.UserFromContext(r.Context()); ok && h.sessions != nil {
		n := h.sessions.SignOutUser(user.UID)
		observability.GetLogger(r.Context()).Info("signed_out",
			zap.String("user_id", user.UID),
			zap.Int("views", n),
		)
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"redirect": LandingPath})
}
