package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/handlers"
	"github.com/SARVESHVARADKAR123/livechat/internal/middleware"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
)

type Deps struct {
	Pages    *handlers.PageHandler
	Messages *handlers.MessageHandler
	Live     http.Handler
	Tokens   *auth.Tokens
	Store    observability.Pinger

	ServiceName       string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(observability.MetricsMiddleware(d.ServiceName))
	r.Use(middleware.Recovery())
	r.Use(middleware.Authenticate(d.Tokens))

	r.Get("/health/live", observability.HealthLiveHandler)
	if d.Store != nil {
		r.Get("/health/ready", observability.HealthReadyHandler(d.Store))
	}

	r.Get(handlers.LandingPath, d.Pages.Landing)

	r.Group(func(p chi.Router) {
		p.Use(middleware.RequireUser(handlers.LandingPath))

		p.Get(handlers.ChatPath, d.Pages.Chat)
		if d.Live != nil {
			p.Handle(handlers.ChatWSPath, d.Live)
		}
	})

	allowed := origins(d.CORSOrigins)
	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowed,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
			AllowCredentials: !anyOrigin(allowed),
			MaxAge:           300,
		}))
		api.Use(middleware.RateLimit(d.RateLimitRequests, d.RateLimitWindow))
		api.Use(middleware.RequireUser(""))

		api.Post("/session/logout", d.Pages.Logout)

		mesPath := "/messages"
		api.Get(mesPath, d.Messages.ListMessages)
		api.Post(mesPath, d.Messages.SendMessage)
		api.Patch(mesPath+"/{id}", d.Messages.EditMessage)
		api.Delete(mesPath+"/{id}", d.Messages.DeleteMessage)
	})

	return otelhttp.NewHandler(r, d.ServiceName)
}

// anyOrigin reports whether the list admits every origin. Cookies are only
// shared with origins that were named explicitly.
func anyOrigin(list []string) bool {
	for _, o := range list {
		if o == "*" {
			return true
		}
	}
	return false
}

func origins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}
