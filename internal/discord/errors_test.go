package discord

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/nstatus/nstatus/internal/domain"
)

func restError(status, code int) error {
	e := &discordgo.RESTError{Response: &http.Response{StatusCode: status}}
	if code != 0 {
		e.Message = &discordgo.APIErrorMessage{Code: code, Message: "x"}
	}
	return e
}

func TestClassify(t *testing.T) {
	other := errors.New("dial tcp: timeout")

	tests := []struct {
		name     string
		err      error
		fallback error
		want     error
	}{
		{"unknown channel", restError(404, discordgo.ErrCodeUnknownChannel), domain.ErrMessageNotFound, domain.ErrChannelNotFound},
		{"unknown message", restError(404, discordgo.ErrCodeUnknownMessage), domain.ErrChannelNotFound, domain.ErrMessageNotFound},
		{"bare 404 uses fallback", restError(404, 0), domain.ErrMessageNotFound, domain.ErrMessageNotFound},
		{"bare 404 send", restError(404, 0), domain.ErrChannelNotFound, domain.ErrChannelNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, tt.fallback)
			assert.ErrorIs(t, got, tt.want)

			var rest *discordgo.RESTError
			assert.ErrorAs(t, got, &rest, "original error stays reachable")
		})
	}

	t.Run("forbidden is passed through", func(t *testing.T) {
		err := restError(403, 50013)
		got := classify(err, domain.ErrMessageNotFound)
		assert.Equal(t, err, got)
		assert.NotErrorIs(t, got, domain.ErrMessageNotFound)
	})

	t.Run("non rest error", func(t *testing.T) {
		assert.Equal(t, other, classify(other, domain.ErrMessageNotFound))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classify(nil, domain.ErrMessageNotFound))
	})
}
