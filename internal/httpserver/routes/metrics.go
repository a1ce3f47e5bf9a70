package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
)

func init() {
	Register(Group{
		Name:        "metrics",
		Mount:       registerMetrics,
		Enabled:     func(d deps.Deps) bool { return d.Metrics != nil },
		Middlewares: restricted,
	})
}

func registerMetrics(r chi.Router, d deps.Deps) {
	r.Handle("/metrics", d.Metrics)
}
