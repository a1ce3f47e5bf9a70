package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/httpserver/handlers"
)

func init() {
	Register(Group{
		Name:    "status",
		Mount:   registerStatus,
		Enabled: func(d deps.Deps) bool { return d.Status != nil },
	})
}

func registerStatus(r chi.Router, d deps.Deps) {
	r.Get("/status", handlers.Status(d))
}
