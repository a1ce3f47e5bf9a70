package peak

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// fileWindow is the on-disk layout:
// {"entries":[{"timestamp":<epoch-ms>,"players":<int>}],"peak24h":<int>}
type fileWindow struct {
	Entries []fileSample `json:"entries"`
	Peak24h int          `json:"peak24h"`
}

type fileSample struct {
	Timestamp int64 `json:"timestamp"`
	Players   int   `json:"players"`
}

func encode(w Window) ([]byte, error) {
	fw := fileWindow{
		Entries: make([]fileSample, 0, len(w.Entries)),
		Peak24h: w.Peak24h,
	}
	for _, e := range w.Entries {
		fw.Entries = append(fw.Entries, fileSample{
			Timestamp: e.Timestamp.UnixMilli(),
			Players:   e.Players,
		})
	}
	return json.MarshalIndent(fw, "", "  ")
}

func decode(data []byte) (Window, error) {
	var raw struct {
		Entries *[]fileSample `json:"entries"`
		Peak24h int           `json:"peak24h"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Window{}, fmt.Errorf("failed to parse peak data: %w", err)
	}
	if raw.Entries == nil {
		return Window{}, errors.New("peak data has no entries array")
	}

	w := Window{Entries: make([]Sample, 0, len(*raw.Entries))}
	for i, e := range *raw.Entries {
		if e.Players < 0 {
			return Window{}, fmt.Errorf("entry %d has negative player count %d", i, e.Players)
		}
		w.Entries = append(w.Entries, Sample{
			Timestamp: time.UnixMilli(e.Timestamp),
			Players:   e.Players,
		})
	}
	// The stored peak is derived data; trust the entries.
	w.Peak24h = maxPlayers(w.Entries)
	return w, nil
}
