package middleware

import (
	"context"

	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
)

type ctxKey int

const (
	userKey ctxKey = iota
	requestIDKey
)

func InjectUser(ctx context.Context, u auth.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the viewer authenticated for this request, if any.
func UserFromContext(ctx context.Context) (auth.User, bool) {
	u, ok := ctx.Value(userKey).(auth.User)
	if !ok || u.UID == "" {
		return auth.User{}, false
	}
	return u, true
}

func InjectRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	v := ctx.Value(requestIDKey)
	if v == nil {
		return ""
	}
	return v.(string)
}
