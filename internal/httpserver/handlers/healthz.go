package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/publisher"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	LastTick      string  `json:"last_tick,omitempty"`
	LastOutcome   string  `json:"last_outcome,omitempty"`
	Version       string  `json:"version,omitempty"`
	Commit        string  `json:"commit,omitempty"`
	BuildDate     string  `json:"build_date,omitempty"`
	GoVersion     string  `json:"go_version,omitempty"`
}

// Healthz answers as long as the process serves HTTP. It never fails on a
// bad tick; that is what /readyz is for.
func Healthz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			UptimeSeconds: d.Now().Sub(d.StartTime).Seconds(),
		}
		if last := lastReport(d); !last.TickedAt.IsZero() {
			resp.LastTick = last.TickedAt.UTC().Format(time.RFC3339)
			resp.LastOutcome = string(last.Outcome)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// lastReport is the zero Report when no publisher is wired.
func lastReport(d deps.Deps) publisher.Report {
	if d.Status == nil {
		return publisher.Report{}
	}
	return d.Status.Last()
}
