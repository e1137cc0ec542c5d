package transport

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

// MapError converts a domain error into an HTTP status, an error code and a
// client-facing message. Unknown errors never leak their text.
func MapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest, "empty_message", err.Error()

	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPath):
		return http.StatusBadRequest, "invalid_argument", err.Error()

	case errors.Is(err, domain.ErrMessageNotFound):
		return http.StatusNotFound, "not_found", err.Error()

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", err.Error()

	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "request timed out"

	default:
		return http.StatusInternalServerError, "internal_error", "an unexpected error occurred"
	}
}

// WriteDomainError maps err and writes it as a JSON error body.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := MapError(err)
	log := observability.GetLogger(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request_failed", zap.Error(err))
	} else {
		log.Warn("request_rejected", zap.String("code", code), zap.Error(err))
	}
	WriteError(w, status, code, message)
}
