package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz is ready once a first tick completed and, with StaleAfter set,
// while ticks keep coming.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		resp := readyzResponse{Ready: true}
		last := lastReport(d)
		switch {
		case last.TickedAt.IsZero():
			resp = readyzResponse{Ready: false, Reason: "no tick yet"}
		case d.StaleAfter > 0 && d.Now().Sub(last.TickedAt) > d.StaleAfter:
			resp = readyzResponse{Ready: false, Reason: "last tick is stale"}
		}

		if resp.Ready {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
