package peak

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstatus/nstatus/internal/logger"
)

// fakeClock is advanced by hand between Record calls.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time           { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(t *testing.T) (*Tracker, *fakeClock, string) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "peak-data.json")
	return NewTracker(path, logger.New("error", false), WithClock(clock.Now)), clock, path
}

func TestTracker_EmptyWindowIsZero(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	assert.Equal(t, 0, tr.Peak())
	assert.Empty(t, tr.Window().Entries)
}

func TestTracker_SlidingWindow(t *testing.T) {
	tr, clock, _ := newTestTracker(t)

	assert.Equal(t, 5, tr.Record(5)) // t=0
	clock.Advance(time.Hour)
	assert.Equal(t, 9, tr.Record(9)) // t=1h
	clock.Advance(24 * time.Hour)
	assert.Equal(t, 9, tr.Record(3), "t=0 evicted, t=1h still inside the window") // t=25h

	w := tr.Window()
	require.Len(t, w.Entries, 2)
	assert.Equal(t, 9, w.Entries[0].Players)
	assert.Equal(t, 3, w.Entries[1].Players)

	clock.Advance(time.Hour)
	assert.Equal(t, 3, tr.Record(1), "t=1h evicted at t=26h")
}

func TestTracker_LowerValueDoesNotLowerPeak(t *testing.T) {
	tr, clock, _ := newTestTracker(t)

	tr.Record(9)
	clock.Advance(time.Minute)
	assert.Equal(t, 9, tr.Record(2))
}

func TestTracker_ExpireWithoutRecording(t *testing.T) {
	tr, clock, path := newTestTracker(t)

	tr.Record(9)
	clock.Advance(time.Hour)
	tr.Record(4)

	assert.Equal(t, 0, tr.Expire(), "nothing is stale yet")

	clock.Advance(24*time.Hour - time.Minute)
	assert.Equal(t, 1, tr.Expire())
	assert.Equal(t, 4, tr.Peak())

	reloaded := NewTracker(path, logger.NewNop())
	reloaded.Load()
	assert.Equal(t, 4, reloaded.Peak())
	assert.Len(t, reloaded.Window().Entries, 1)
}

func TestTracker_BoundaryIsInclusive(t *testing.T) {
	tr, clock, _ := newTestTracker(t)

	tr.Record(7)
	clock.Advance(Horizon)
	assert.Equal(t, 7, tr.Record(1), "a sample exactly 24h old is kept")

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, tr.Record(1))
}

func TestTracker_MatchesBruteForce(t *testing.T) {
	tr, clock, _ := newTestTracker(t)

	type obs struct {
		at      time.Time
		players int
	}
	var history []obs
	steps := []struct {
		advance time.Duration
		players int
	}{
		{0, 4}, {3 * time.Hour, 12}, {6 * time.Hour, 8}, {10 * time.Hour, 2},
		{5 * time.Hour, 1}, {30 * time.Minute, 6}, {20 * time.Hour, 0}, {2 * time.Hour, 3},
	}

	for _, s := range steps {
		clock.Advance(s.advance)
		history = append(history, obs{at: clock.Now(), players: s.players})

		want := 0
		cutoff := clock.Now().Add(-Horizon)
		for _, h := range history {
			if !h.at.Before(cutoff) && h.players > want {
				want = h.players
			}
		}
		assert.Equal(t, want, tr.Record(s.players))
	}
}

func TestTracker_NegativeClampedToZero(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	assert.Equal(t, 0, tr.Record(-3))
}

func TestTracker_SaveLoadRoundTrip(t *testing.T) {
	tr, clock, path := newTestTracker(t)

	tr.Record(3)
	clock.Advance(time.Minute)
	tr.Record(11)
	clock.Advance(time.Minute)
	tr.Record(6)
	require.NoError(t, tr.Save())

	fresh := NewTracker(path, logger.New("error", false), WithClock(clock.Now))
	fresh.Load()

	got, want := fresh.Window(), tr.Window()
	require.Len(t, got.Entries, len(want.Entries))
	for i := range want.Entries {
		assert.True(t, want.Entries[i].Timestamp.Equal(got.Entries[i].Timestamp), "entry %d timestamp", i)
		assert.Equal(t, want.Entries[i].Players, got.Entries[i].Players, "entry %d players", i)
	}
	assert.Equal(t, 11, got.Peak24h)
}

func TestTracker_FileLayout(t *testing.T) {
	tr, clock, path := newTestTracker(t)
	tr.Record(4)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"entries":[{"timestamp":`+strconv.FormatInt(clock.Now().UnixMilli(), 10)+`,"players":4}],"peak24h":4}`,
		string(data))
}

func TestTracker_LoadResilience(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file", content: nil},
		{name: "not json", content: strPtr("{{{ definitely not json")},
		{name: "entries not an array", content: strPtr(`{"entries": 3, "peak24h": 10}`)},
		{name: "entries missing", content: strPtr(`{"peak24h": 10}`)},
		{name: "negative players", content: strPtr(`{"entries":[{"timestamp":1,"players":-1}],"peak24h":0}`)},
		{name: "empty file", content: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _, path := newTestTracker(t)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			assert.NotPanics(t, tr.Load)
			assert.Equal(t, 0, tr.Peak())
			assert.Empty(t, tr.Window().Entries)
		})
	}
}

func TestTracker_LoadRecomputesPeak(t *testing.T) {
	tr, _, path := newTestTracker(t)
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"entries":[{"timestamp":1000,"players":2},{"timestamp":2000,"players":5}],"peak24h":99}`), 0o644))

	tr.Load()
	assert.Equal(t, 5, tr.Peak())
}

func TestTracker_PersistFailureKeepsMemoryValue(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	dir := t.TempDir()
	// A directory where the file should be makes the rename fail.
	path := filepath.Join(dir, "peak-data.json")
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), nil, 0o644))

	tr := NewTracker(path, logger.New("error", false), WithClock(clock.Now))
	assert.Equal(t, 8, tr.Record(8))
	assert.Error(t, tr.Save())
	assert.Equal(t, 8, tr.Peak())
}

func strPtr(s string) *string { return &s }
