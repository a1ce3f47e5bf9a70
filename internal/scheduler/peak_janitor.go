package scheduler

import (
	"context"
	"time"

	"github.com/nstatus/nstatus/internal/logger"
)

// DefaultJanitorInterval is how often stale peak samples are evicted.
const DefaultJanitorInterval = 15 * time.Minute

// Expirer drops samples that fell out of the window. *peak.Tracker satisfies it.
type Expirer interface {
	Expire() int
}

// PeakJanitor evicts stale samples while no new ones are recorded,
// e.g. during a long outage.
type PeakJanitor struct {
	peaks    Expirer
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewPeakJanitor(peaks Expirer, log logger.Logger, interval time.Duration) *PeakJanitor {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &PeakJanitor{
		peaks:    peaks,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one collection immediately, then one per interval.
func (pj *PeakJanitor) Start(ctx context.Context) {
	pj.Collect()

	ticker := time.NewTicker(pj.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pj.Collect()
			case <-pj.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (pj *PeakJanitor) Stop() {
	close(pj.stopCh)
}

// Collect evicts stale samples and returns how many were dropped.
func (pj *PeakJanitor) Collect() int {
	removed := pj.peaks.Expire()
	if removed > 0 {
		pj.logger.Info("expired stale peak samples", logger.Int("removed", removed))
	} else {
		pj.logger.Debug("no stale peak samples")
	}
	return removed
}
