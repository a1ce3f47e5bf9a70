package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/httpserver/handlers"
	"github.com/nstatus/nstatus/internal/httpserver/mw"
)

func init() { Register(Group{Name: "probes", Mount: registerProbes}) }

func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.With(restricted(d)...).Get("/readyz", handlers.Readyz(d))
}

// restricted gates a route on AllowedCIDRS.
func restricted(d deps.Deps) []Middleware {
	return []Middleware{mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)}
}
