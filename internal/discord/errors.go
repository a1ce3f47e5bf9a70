package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/nstatus/nstatus/internal/domain"
)

// classify maps Discord REST failures onto the domain sentinels.
// A bare 404 without a known JSON code maps to fallback.
func classify(err error, fallback error) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}

	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %w", domain.ErrChannelNotFound, err)
		case discordgo.ErrCodeUnknownMessage:
			return fmt.Errorf("%w: %w", domain.ErrMessageNotFound, err)
		}
	}

	if fallback != nil && rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", fallback, err)
	}
	return err
}
