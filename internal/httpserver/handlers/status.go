package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nstatus/nstatus/internal/domain"
	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/publisher"
)

type componentStatus struct {
	OK        bool   `json:"ok"`
	LastTick  string `json:"last_tick,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Impact    string `json:"impact,omitempty"`
}

type statusResponse struct {
	Mode       string                     `json:"mode"`
	Snapshot   *domain.Snapshot           `json:"snapshot,omitempty"`
	Components map[string]componentStatus `json:"components"`
}

// Status reports the last snapshot and how each collaborator fared on the last tick.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		last := d.Status.Last()
		lastTick := "never"
		if !last.TickedAt.IsZero() {
			lastTick = last.TickedAt.UTC().Format(time.RFC3339)
		}

		components := map[string]componentStatus{
			"server": serverStatus(last, lastTick),
			"discord": {
				OK:        last.Outcome != publisher.OutcomeFailed,
				Outcome:   string(last.Outcome),
				MessageID: last.MessageID,
				LastTick:  lastTick,
			},
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(statusResponse{
			Mode:       determineMode(last),
			Snapshot:   last.Snapshot,
			Components: components,
		})
	}
}

func serverStatus(last publisher.Report, lastTick string) componentStatus {
	if last.Snapshot == nil {
		return componentStatus{OK: false, LastTick: lastTick, Impact: "not queried yet"}
	}
	if !last.Snapshot.Online {
		return componentStatus{OK: false, LastTick: lastTick, Impact: "offline presence shown"}
	}
	return componentStatus{OK: true, LastTick: lastTick}
}

func determineMode(last publisher.Report) string {
	switch {
	case last.Snapshot == nil:
		return "starting"
	case !last.Snapshot.Online:
		return "offline"
	case last.Outcome == publisher.OutcomeFailed:
		return "degraded" // server answers, message could not be published
	default:
		return "online"
	}
}
