package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

// Group is a set of routes mounted together. Enabled, when set, decides from
// the deps whether the group is mounted at all.
type Group struct {
	Name        string
	Mount       Registrar
	Enabled     func(d deps.Deps) bool
	Middlewares func(d deps.Deps) []Middleware
}

var registry []Group

// Register adds a group. Groups are mounted in registration order.
func Register(g Group) {
	registry = append(registry, g)
}

// RegisterAll mounts every enabled group and returns their names.
// Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) []string {
	mounted := make([]string, 0, len(registry))
	for _, g := range registry {
		if g.Enabled != nil && !g.Enabled(d) {
			if d.Logger != nil {
				d.Logger.Debug("route group disabled", logger.String("group", g.Name))
			}
			continue
		}

		var router chi.Router = r
		if g.Middlewares != nil {
			if mws := g.Middlewares(d); len(mws) > 0 {
				router = r.With(mws...)
			}
		}
		g.Mount(router, d)
		mounted = append(mounted, g.Name)
	}
	return mounted
}
