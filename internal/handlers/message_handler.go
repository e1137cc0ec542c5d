package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/application"
	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/middleware"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/transport"
	"github.com/SARVESHVARADKAR123/livechat/internal/view"
)

// MessageService is the subset of the application service the REST surface needs.
type MessageService interface {
	RecentMessages(ctx context.Context, limit int) ([]domain.Message, error)
	SendMessage(ctx context.Context, cmd application.SendMessageCommand) (string, error)
	EditMessage(ctx context.Context, cmd application.EditMessageCommand) error
	DeleteMessage(ctx context.Context, cmd application.DeleteMessageCommand) error
}

// MessageHandler handles all /api/messages routes.
type MessageHandler struct {
	svc     MessageService
	timeout time.Duration
	limit   int
}

func NewMessageHandler(svc MessageService, timeout time.Duration, limit int) *MessageHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MessageHandler{svc: svc, timeout: timeout, limit: limit}
}

// ListMessages GET /api/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := h.limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			transport.WriteError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	msgs, err := h.svc.RecentMessages(ctx, limit)
	if err != nil {
		transport.WriteDomainError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"messages": msgs,
	})
}

// SendMessage POST /api/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	author := user.Author()
	id, err := h.svc.SendMessage(ctx, application.SendMessageCommand{
		Text:   req.Text,
		Author: &author,
	})
	if err != nil {
		transport.WriteDomainError(w, r, err)
		return
	}

	observability.GetLogger(r.Context()).Info("message_sent",
		zap.String("message_id", id),
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// EditMessage PATCH /api/messages/{id}
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.svc.EditMessage(ctx, application.EditMessageCommand{
		MessageID:   chi.URLParam(r, "id"),
		Text:        req.Text,
		RequesterID: user.UID,
	})
	if err != nil {
		transport.WriteDomainError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteMessage DELETE /api/messages/{id}?confirm=true
//
// The explicit confirm flag stands in for the interactive prompt a live view
// shows; without it nothing is deleted.
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		transport.WriteError(w, http.StatusPreconditionRequired, "confirmation_required", view.ConfirmDelete)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.svc.DeleteMessage(ctx, application.DeleteMessageCommand{
		MessageID:   chi.URLParam(r, "id"),
		RequesterID: user.UID,
	})
	if err != nil {
		transport.WriteDomainError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
