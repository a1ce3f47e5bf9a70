package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstatus/nstatus/internal/domain"
)

func TestToEmbed(t *testing.T) {
	p := &domain.Payload{
		Title:       "🟢 My server",
		Description: "hello",
		Color:       0x2b2d31,
		ImageURL:    "https://example.com/banner.png",
		Fields: []domain.Field{
			{Name: "Address", Value: "`1.2.3.4:27015`", Inline: true},
		},
		Footer:    &domain.Footer{Text: "footer", IconURL: "https://example.com/i.png"},
		Timestamp: time.Date(2026, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600)),
	}

	e := toEmbed(p)
	assert.Equal(t, "🟢 My server", e.Title)
	assert.Equal(t, 0x2b2d31, e.Color)
	assert.Equal(t, "2026-03-01T12:00:00Z", e.Timestamp)
	require.NotNil(t, e.Image)
	assert.Equal(t, "https://example.com/banner.png", e.Image.URL)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "footer", e.Footer.Text)
	require.Len(t, e.Fields, 1)
	assert.True(t, e.Fields[0].Inline)
}

func TestToEmbed_Optionals(t *testing.T) {
	e := toEmbed(&domain.Payload{Title: "x"})
	assert.Nil(t, e.Image)
	assert.Nil(t, e.Footer)
	assert.Empty(t, e.Timestamp)
}

func TestToComponents(t *testing.T) {
	assert.NotNil(t, toComponents(nil))
	assert.Empty(t, toComponents(nil))

	comps := toComponents([][]domain.Button{
		{{Label: "Join", URL: "steam://connect/1.2.3.4:27015"}, {Label: "Site", URL: "https://example.com"}},
		{{Label: "Rules", URL: "https://example.com/rules"}},
	})
	require.Len(t, comps, 2)

	row, ok := comps[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	btn, ok := row.Components[1].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, discordgo.LinkButton, btn.Style)
	assert.Equal(t, "Site", btn.Label)
	assert.Equal(t, "https://example.com", btn.URL)
}

func TestToStatusData(t *testing.T) {
	tests := []struct {
		in       domain.Presence
		status   string
		activity discordgo.ActivityType
	}{
		{domain.Presence{Text: "7/32", Activity: domain.ActivityWatching, Status: domain.StatusDND}, "dnd", discordgo.ActivityTypeWatching},
		{domain.Presence{Text: "off", Activity: domain.ActivityPlaying, Status: domain.StatusIdle}, "idle", discordgo.ActivityTypeGame},
		{domain.Presence{Text: "a", Activity: domain.ActivityListening, Status: domain.StatusOnline}, "online", discordgo.ActivityTypeListening},
		{domain.Presence{Text: "b", Activity: domain.ActivityCompeting, Status: domain.StatusInvisible}, "invisible", discordgo.ActivityTypeCompeting},
		{domain.Presence{Text: "c", Activity: domain.ActivityStreaming}, "dnd", discordgo.ActivityTypeStreaming},
	}

	for _, tt := range tests {
		t.Run(tt.in.Text, func(t *testing.T) {
			got := toStatusData(tt.in)
			assert.Equal(t, tt.status, got.Status)
			require.Len(t, got.Activities, 1)
			assert.Equal(t, tt.in.Text, got.Activities[0].Name)
			assert.Equal(t, tt.activity, got.Activities[0].Type)
		})
	}
}
