package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

const (
	TokenCookie     = "livechat_token"
	tokenQueryParam = "token"
)

// Authenticate resolves the session token, when present, into the request
// context. Requests without a valid token pass through anonymously; use
// RequireUser to guard routes.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" || tokens == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := tokens.Verify(tokenString)
			if err != nil {
				observability.GetLogger(r.Context()).Debug("token_rejected",
					zap.Error(err),
					zap.String("request_id", RequestIDFromContext(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(InjectUser(r.Context(), user)))
		})
	}
}

// extractToken looks at the Authorization header, then the session cookie,
// then the query string. Browsers cannot set headers on websocket upgrades.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	return r.URL.Query().Get(tokenQueryParam)
}
