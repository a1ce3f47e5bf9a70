// Package ratelimit hands out one token bucket per key (user id, client ip).
// Idle buckets expire from an otter cache instead of being swept by hand.
package ratelimit

import (
	"time"

	"github.com/maypok86/otter/v2"
	"golang.org/x/time/rate"
)

type Config struct {
	Every      time.Duration // one token refilled per Every; <= 0 disables limiting
	Burst      int           // bucket size, at least 1
	IdleTTL    time.Duration // bucket forgotten after this long without use
	MaxEntries int           // upper bound on tracked keys
}

// KeyedLimiter is safe for concurrent use.
type KeyedLimiter struct {
	buckets *otter.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func New(cfg Config) *KeyedLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10_000
	}

	limit := rate.Inf
	if cfg.Every > 0 {
		limit = rate.Every(cfg.Every)
		// a bucket must outlive its own refill or the limit resets early
		if full := cfg.Every * time.Duration(cfg.Burst); cfg.IdleTTL < full {
			cfg.IdleTTL = full
		}
	}

	return &KeyedLimiter{
		buckets: otter.Must(&otter.Options[string, *rate.Limiter]{
			MaximumSize:      cfg.MaxEntries,
			ExpiryCalculator: otter.ExpiryAccessing[string, *rate.Limiter](cfg.IdleTTL),
		}),
		limit: limit,
		burst: cfg.Burst,
		now:   time.Now,
	}
}

// Enabled reports whether any limiting happens at all.
func (l *KeyedLimiter) Enabled() bool { return l.limit != rate.Inf }

// Burst is the configured bucket size.
func (l *KeyedLimiter) Burst() int { return l.burst }

// Allow takes one token for key. When the bucket is empty it returns false and
// how long until the next token.
func (l *KeyedLimiter) Allow(key string) (bool, time.Duration) {
	if !l.Enabled() {
		return true, 0
	}

	now := l.now()
	lim := l.bucket(key)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Remaining is the number of whole tokens left for key.
func (l *KeyedLimiter) Remaining(key string) int {
	if !l.Enabled() {
		return l.burst
	}
	lim, ok := l.buckets.GetIfPresent(key)
	if !ok {
		return l.burst
	}
	n := int(lim.TokensAt(l.now()))
	if n < 0 {
		return 0
	}
	return n
}

func (l *KeyedLimiter) bucket(key string) *rate.Limiter {
	if lim, ok := l.buckets.GetIfPresent(key); ok {
		return lim
	}
	lim, _ := l.buckets.SetIfAbsent(key, rate.NewLimiter(l.limit, l.burst))
	return lim
}
