package domain

import "errors"

var (
	// ErrChannelNotFound means the configured channel does not exist or is
	// not visible to the bot. It usually points at a configuration mistake.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrMessageNotFound means the owned status message was deleted.
	// It is an expected condition, the target is reset and recreated.
	ErrMessageNotFound = errors.New("message not found")
)
