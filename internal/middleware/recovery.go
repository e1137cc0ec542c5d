package middleware

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/transport"
)

// Recovery answers a panicking request with a 500 and logs the panic with
// its stack. http.ErrAbortHandler is re-raised so the server drops the
// connection as the handler asked.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer recoverRequest(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func recoverRequest(w http.ResponseWriter, r *http.Request) {
	v := recover()
	if v == nil {
		return
	}
	if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
		panic(v)
	}

	observability.GetLogger(r.Context()).Error("panic_recovered",
		zap.Any("panic", v),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Stack("stack"),
	)
	transport.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
