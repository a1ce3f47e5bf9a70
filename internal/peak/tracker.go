// Package peak keeps the rolling 24 hour peak of concurrent players.
//
// Raw samples are stored rather than a running maximum: a running maximum
// cannot go down when the sample that produced it leaves the window.
package peak

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/utils"
)

// Horizon is how far back samples count toward the peak.
const Horizon = 24 * time.Hour

// Sample is one observation of the player count.
type Sample struct {
	Timestamp time.Time
	Players   int
}

// Window is the durable aggregate: samples in chronological order and their max.
type Window struct {
	Entries []Sample
	Peak24h int
}

// Tracker owns a Window and its backing file. It is safe for concurrent use,
// Record calls are serialized.
type Tracker struct {
	mu     sync.Mutex
	path   string
	window Window
	now    func() time.Time
	logger logger.Logger
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates an empty tracker persisted at path.
// Call Load to pick up a previous window.
func NewTracker(path string, log logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		path:   path,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record appends a sample taken now, evicts samples older than Horizon,
// persists the window and returns the new 24h peak.
//
// A persistence failure is logged and does not change the returned value.
func (t *Tracker) Record(players int) int {
	if players < 0 {
		players = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.window.Entries = append(t.window.Entries, Sample{Timestamp: now, Players: players})
	t.window.Entries = prune(t.window.Entries, now.Add(-Horizon))
	t.window.Peak24h = maxPlayers(t.window.Entries)

	if err := t.saveLocked(); err != nil {
		t.logger.Error("failed to persist peak window, keeping in-memory value",
			logger.String("path", t.path),
			logger.Error(err))
	}

	return t.window.Peak24h
}

// Expire evicts samples older than Horizon without recording a new one and
// returns how many were dropped. The file is rewritten only when something changed.
func (t *Tracker) Expire() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := len(t.window.Entries)
	t.window.Entries = prune(t.window.Entries, t.now().Add(-Horizon))
	removed := before - len(t.window.Entries)
	if removed == 0 {
		return 0
	}

	t.window.Peak24h = maxPlayers(t.window.Entries)
	if err := t.saveLocked(); err != nil {
		t.logger.Error("failed to persist peak window after expiry",
			logger.String("path", t.path),
			logger.Error(err))
	}
	return removed
}

// Peak returns the last computed 24h peak.
func (t *Tracker) Peak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window.Peak24h
}

// Window returns a copy of the current window.
func (t *Tracker) Window() Window {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make([]Sample, len(t.window.Entries))
	copy(entries, t.window.Entries)
	return Window{Entries: entries, Peak24h: t.window.Peak24h}
}

// Load replaces the window with the content of the backing file.
// A missing or malformed file yields an empty window; it never fails.
func (t *Tracker) Load() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.window = Window{}

	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.logger.Info("no peak data yet, starting with an empty window",
				logger.String("path", t.path))
			return
		}
		t.logger.Warn("failed to read peak data, starting with an empty window",
			logger.String("path", t.path),
			logger.Error(err))
		return
	}

	w, err := decode(data)
	if err != nil {
		t.logger.Warn("malformed peak data, starting with an empty window",
			logger.String("path", t.path),
			logger.Error(err))
		return
	}

	t.window = w
	t.logger.Info("peak data loaded",
		logger.Int("entries", len(w.Entries)),
		logger.Int("peak_24h", w.Peak24h))
}

// Save writes the window to the backing file.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

func (t *Tracker) saveLocked() error {
	data, err := encode(t.window)
	if err != nil {
		return fmt.Errorf("failed to marshal peak window: %w", err)
	}
	if err := utils.WriteFileAtomic(t.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write peak window: %w", err)
	}
	return nil
}

// prune drops entries older than cutoff. Entries with Timestamp == cutoff stay.
func prune(entries []Sample, cutoff time.Time) []Sample {
	kept := entries[:0]
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}

func maxPlayers(entries []Sample) int {
	peak := 0
	for _, e := range entries {
		if e.Players > peak {
			peak = e.Players
		}
	}
	return peak
}
