package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/peak"
)

func TestPeakJanitor_Collect(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tracker := peak.NewTracker(filepath.Join(t.TempDir(), "peak.json"), logger.NewNop(), peak.WithClock(clock))
	tracker.Record(20)
	now = now.Add(2 * time.Hour)
	tracker.Record(5)

	pj := NewPeakJanitor(tracker, logger.NewNop(), 0)
	if pj.interval != DefaultJanitorInterval {
		t.Errorf("expected default interval, got %s", pj.interval)
	}

	if removed := pj.Collect(); removed != 0 {
		t.Errorf("expected nothing to expire yet, got %d", removed)
	}

	// the 20-player sample leaves the window, the server stays offline
	now = now.Add(23 * time.Hour)
	if removed := pj.Collect(); removed != 1 {
		t.Errorf("expected 1 sample expired, got %d", removed)
	}
	if got := tracker.Peak(); got != 5 {
		t.Errorf("expected peak 5 after expiry, got %d", got)
	}
}
