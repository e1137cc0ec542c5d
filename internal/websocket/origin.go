package websocket

import (
	"net/http"
	"net/url"
	"strings"
)

// originChecker accepts upgrades that carry no Origin header, come from the
// host serving the socket or come from one of the listed origins. A "*"
// entry is ignored since the socket authenticates with the session cookie.
func originChecker(allowed []string) func(r *http.Request) bool {
	named := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
		if o == "" || o == "*" {
			continue
		}
		named[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		_, ok := named[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}
