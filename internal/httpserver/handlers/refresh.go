package handlers

import (
	"net/http"

	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/scheduler"
)

// Refresh queues an immediate tick. It does not wait for the result.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Refresher.Trigger(scheduler.Request{Source: "http"}) {
			d.Logger.Info("manual refresh triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Refresh queued\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
			return
		}

		d.Logger.Warn("refresh already pending",
			logger.String("remote_ip", r.RemoteAddr))
		w.WriteHeader(http.StatusTooManyRequests)
		if _, err := w.Write([]byte("⏳ Refresh already pending, please wait\n")); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
