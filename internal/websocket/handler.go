package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/middleware"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/view"
)

type Handler struct {
	upgrader     websocket.Upgrader
	registry     *Registry
	feed         view.Feed
	actions      view.Actions
	writeTimeout time.Duration
	windowLimit  int
}

// NewHandler builds the chat socket handler. Cross-site upgrades are only
// accepted from the origins listed in allowedOrigins.
func NewHandler(registry *Registry, feed view.Feed, actions view.Actions, writeTimeout time.Duration, windowLimit int, allowedOrigins []string) *Handler {
	return &Handler{
		upgrader:     websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
		registry:     registry,
		feed:         feed,
		actions:      actions,
		writeTimeout: writeTimeout,
		windowLimit:  windowLimit,
	}
}

// ServeHTTP upgrades the request and runs one chat view for the connection
// until either side goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	log := observability.GetLogger(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade error", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxFrameSize)

	holder := auth.NewHolder(&user)
	session := NewSession(uuid.NewString(), holder, conn)
	ui := NewViewUI(session)
	v := view.New(view.Deps{
		Feed:         h.feed,
		Actions:      h.actions,
		User:         holder,
		Auth:         holder,
		UI:           ui,
		WriteTimeout: h.writeTimeout,
		WindowLimit:  h.windowLimit,
		Log:          log.With(zap.String("session_id", session.ID), zap.String("user_id", user.UID)),
	})

	h.registry.Add(session)
	session.Start()
	log.Info("connected", zap.String("user_id", user.UID), zap.String("session_id", session.ID))
	observability.ActiveViews.Inc()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := v.Run(ctx); err != nil {
			log.Error("view stopped with error", zap.Error(err))
		}
		// the view ends on its own after sign out
		session.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go h.readLoop(session, v, ui, cancel)
}

func (h *Handler) readLoop(s *Session, v *view.View, ui *ViewUI, stopView context.CancelFunc) {
	log := observability.GetLogger(context.Background()).With(
		zap.String("user_id", s.UserID),
		zap.String("session_id", s.ID),
	)
	defer func() {
		stopView()
		<-v.Done()
		h.registry.Remove(s)
		s.Close()
		log.Info("disconnected")
		observability.ActiveViews.Dec()
	}()

	for {
		_, raw, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Error("read loop error", zap.Error(err))
			}
			return
		}

		in, err := decodeIntent(raw)
		if err == nil {
			err = dispatch(v, ui, in)
		}
		if err != nil {
			log.Warn("ignoring frame", zap.Error(err))
		}
	}
}
