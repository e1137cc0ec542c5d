package middleware

import (
	"net/http"

	"github.com/SARVESHVARADKAR123/livechat/internal/transport"
)

// RequireUser rejects anonymous requests. Page routes pass a redirect target
// and get a 302 there; API routes pass "" and get a 401 JSON error.
func RequireUser(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			if redirectTo != "" {
				http.Redirect(w, r, redirectTo, http.StatusFound)
				return
			}
			transport.WriteError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
		})
	}
}
