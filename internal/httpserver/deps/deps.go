package deps

import (
	"net/http"
	"time"

	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/publisher"
	"github.com/nstatus/nstatus/internal/ratelimit"
	"github.com/nstatus/nstatus/internal/scheduler"
)

// StatusReader exposes the last tick. *publisher.Publisher satisfies it.
type StatusReader interface {
	Last() publisher.Report
}

// Refresher queues an on-demand tick. *scheduler.StatusTicker satisfies it.
type Refresher interface {
	Trigger(req scheduler.Request) bool
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedCIDRS []string         // IPs allowed to reach /refresh, /metrics and /readyz
	TrustProxy   bool             // true if running behind a trusted reverse proxy
	Status       StatusReader     // last tick report
	Refresher    Refresher        // manual refresh queue
	RefreshLimit ratelimit.Config // per client IP throttle on POST /refresh
	Metrics      http.Handler     // prometheus exposition, nil disables /metrics
	StaleAfter   time.Duration    // /readyz fails when the last tick is older than this, 0 disables
}

// Now returns TimeNow or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
