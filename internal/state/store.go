// Package state persists the mutable runtime state: which message the bot owns.
// It is kept apart from the static settings file, which is never rewritten.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/utils"
)

// Target identifies the one message this bot owns.
// An empty MessageID means the next publish creates a new message.
type Target struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id,omitempty"`
}

// Store keeps the Target in memory and mirrors every change to a JSON file.
type Store struct {
	mu     sync.Mutex
	path   string
	target Target
	logger logger.Logger
}

// NewStore loads the target for channelID from path.
//
// A missing or corrupt file, or one written for another channel, yields a
// target with no message; seedMessageID is used in that case.
func NewStore(path, channelID, seedMessageID string, log logger.Logger) *Store {
	s := &Store{
		path:   path,
		target: Target{ChannelID: channelID, MessageID: seedMessageID},
		logger: log,
	}

	loaded, err := readTarget(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info("no runtime state yet",
			logger.String("path", path),
			logger.Bool("seeded", seedMessageID != ""))
	case err != nil:
		log.Warn("unreadable runtime state, starting without a message",
			logger.String("path", path),
			logger.Error(err))
	case loaded.ChannelID != channelID:
		log.Warn("runtime state belongs to another channel, discarding it",
			logger.String("stored_channel", loaded.ChannelID),
			logger.String("channel", channelID))
	default:
		s.target = loaded
		log.Info("runtime state loaded",
			logger.String("channel", loaded.ChannelID),
			logger.String("message_id", loaded.MessageID))
	}

	return s
}

// Target returns the current target.
func (s *Store) Target() Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// SetMessageID records the owned message and persists it.
// The in-memory value is updated even if the write fails.
func (s *Store) SetMessageID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target.MessageID = id
	return s.saveLocked()
}

// ClearMessageID forgets the owned message and persists the change.
func (s *Store) ClearMessageID() error {
	return s.SetMessageID("")
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.target, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runtime state: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write runtime state: %w", err)
	}
	return nil
}

func readTarget(path string) (Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Target{}, err
	}
	var t Target
	if err := json.Unmarshal(data, &t); err != nil {
		return Target{}, fmt.Errorf("failed to parse runtime state: %w", err)
	}
	return t, nil
}
