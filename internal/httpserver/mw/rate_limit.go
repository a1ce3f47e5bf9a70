package mw

import (
	"math"
	"net/http"
	"strconv"

	"github.com/nstatus/nstatus/internal/ratelimit"
	"github.com/nstatus/nstatus/internal/utils"
)

// RateLimit throttles per client IP. A zero cfg.Every is a passthrough.
func RateLimit(cfg ratelimit.Config, trustProxy bool) func(http.Handler) http.Handler {
	l := ratelimit.New(cfg)
	if !l.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	limitStr := strconv.Itoa(l.Burst())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := utils.ClientIP(r, trustProxy)

			ok, retry := l.Allow(key)
			if !ok {
				sec := int(math.Ceil(retry.Seconds()))
				if sec < 1 {
					sec = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(sec))
				w.Header().Set("X-RateLimit-Limit", limitStr)
				w.Header().Set("X-RateLimit-Remaining", "0")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			w.Header().Set("X-RateLimit-Limit", limitStr)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(l.Remaining(key)))
			next.ServeHTTP(w, r)
		})
	}
}
