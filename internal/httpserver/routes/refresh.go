package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/httpserver/handlers"
	"github.com/nstatus/nstatus/internal/httpserver/mw"
)

func init() {
	Register(Group{
		Name:    "refresh",
		Mount:   registerRefresh,
		Enabled: func(d deps.Deps) bool { return d.Refresher != nil },
		Middlewares: func(d deps.Deps) []Middleware {
			return append(restricted(d), mw.RateLimit(d.RefreshLimit, d.TrustProxy))
		},
	})
}

func registerRefresh(r chi.Router, d deps.Deps) {
	r.Post("/refresh", handlers.Refresh(d))
}
