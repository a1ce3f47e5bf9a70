package render

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstatus/nstatus/internal/config"
	"github.com/nstatus/nstatus/internal/domain"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.Server.Host = "203.0.113.10"
	s.Discord.Token = "t"
	s.Discord.ChannelID = "1"
	s.Embed.Title = "My server"
	require.NoError(t, s.Validate())
	return s
}

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Online:        true,
		Address:       "203.0.113.10:27015",
		PlayersOnline: 7,
		MaxPlayers:    32,
		Ping:          41,
		Map:           "gm_construct",
		Gamemode:      "Sandbox",
		Peak24h:       12,
		HasPeak:       true,
		ObservedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func fieldNames(p *domain.Payload) []string {
	names := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		names = append(names, f.Name)
	}
	return names
}

func TestPayload_DefaultFlags(t *testing.T) {
	s := testSettings(t)
	p := Payload(testSnapshot(), s)

	assert.Equal(t, "🟢 My server", p.Title)
	assert.Equal(t, 0x2b2d31, p.Color)
	assert.Contains(t, p.Description, "`7/32`")
	assert.Equal(t, []string{"🌐 Address", "Status", "📡 Ping", "🗺️ Map", "📈 24h peak"}, fieldNames(p))
	assert.Equal(t, "`203.0.113.10:27015`", p.Fields[0].Value)
	assert.Equal(t, "`41ms`", p.Fields[2].Value)
	assert.Equal(t, "`12 player(s)`", p.Fields[4].Value)
	assert.Nil(t, p.Footer)
	assert.Empty(t, p.Buttons)
	assert.True(t, p.Timestamp.Equal(testSnapshot().ObservedAt))
}

func TestPayload_Flags(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *config.Settings)
		want   []string
	}{
		{
			name:   "everything off",
			mutate: func(s *config.Settings) { s.Features = config.FeatureSettings{} },
			want:   []string{"🌐 Address", "Status"},
		},
		{
			name: "gamemode only",
			mutate: func(s *config.Settings) {
				s.Features = config.FeatureSettings{ShowGamemode: true}
			},
			want: []string{"🌐 Address", "Status", "🎮 Gamemode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings(t)
			tt.mutate(s)
			assert.Equal(t, tt.want, fieldNames(Payload(testSnapshot(), s)))
		})
	}
}

func TestPayload_PeakHiddenWithoutValue(t *testing.T) {
	snap := testSnapshot()
	snap.HasPeak = false

	assert.NotContains(t, fieldNames(Payload(snap, testSettings(t))), "📈 24h peak")
}

func TestPayload_GamemodeAndMapFallbacks(t *testing.T) {
	s := testSettings(t)
	s.Features.ShowGamemode = true

	snap := testSnapshot()
	snap.Map = ""
	p := Payload(snap, s)
	assert.Equal(t, "`Sandbox`", valueOf(p, "🎮 Gamemode"), "server-reported gamemode when none configured")
	assert.Equal(t, "`Unknown`", valueOf(p, "🗺️ Map"))

	s.Embed.Gamemode = "DarkRP"
	assert.Equal(t, "`DarkRP`", valueOf(Payload(snap, s), "🎮 Gamemode"))
}

func TestPayload_FooterAndImage(t *testing.T) {
	s := testSettings(t)
	s.Embed.FooterText = "powered by nstatus"
	s.Embed.FooterIcon = "https://example.com/icon.png"
	s.Embed.Image = "https://example.com/banner.png"

	p := Payload(testSnapshot(), s)
	require.NotNil(t, p.Footer)
	assert.Equal(t, "powered by nstatus", p.Footer.Text)
	assert.Equal(t, "https://example.com/icon.png", p.Footer.IconURL)
	assert.Equal(t, "https://example.com/banner.png", p.ImageURL)
}

func TestPayload_Buttons(t *testing.T) {
	s := testSettings(t)
	s.Embed.Buttons = []config.ButtonConfig{
		{Label: "", URL: "https://skip.example.com"},
		{Label: "skip", URL: ""},
	}
	for i := 0; i < 7; i++ {
		s.Embed.Buttons = append(s.Embed.Buttons, config.ButtonConfig{
			Label: "b" + strconv.Itoa(i), URL: "https://example.com/" + strconv.Itoa(i),
		})
	}

	rows := Payload(testSnapshot(), s).Buttons
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 5)
	assert.Len(t, rows[1], 2)
	assert.Equal(t, "b0", rows[0][0].Label)
	assert.Equal(t, "b6", rows[1][1].Label)
}

func TestPayload_ButtonRowCap(t *testing.T) {
	var buttons []config.ButtonConfig
	for i := 0; i < 40; i++ {
		buttons = append(buttons, config.ButtonConfig{Label: "x", URL: "https://example.com"})
	}
	assert.Len(t, buttonRows(buttons), maxButtonRows)
}

func TestPayload_IsPure(t *testing.T) {
	s := testSettings(t)
	assert.Equal(t, Payload(testSnapshot(), s), Payload(testSnapshot(), s))
}

func TestPresence(t *testing.T) {
	s := testSettings(t)

	on := OnlinePresence(testSnapshot(), s)
	assert.Equal(t, "7/32 | Ping: 41ms", on.Text)
	assert.Equal(t, domain.ActivityWatching, on.Activity)
	assert.Equal(t, domain.StatusDND, on.Status)

	s.Features.ShowPing = false
	s.Presence.ActivityType = "playing"
	on = OnlinePresence(testSnapshot(), s)
	assert.Equal(t, "7/32", on.Text)
	assert.Equal(t, domain.ActivityPlaying, on.Activity)

	off := OfflinePresence(s)
	assert.Equal(t, "Server offline", off.Text)
	assert.Equal(t, domain.StatusIdle, off.Status)

	s.Presence.OfflineText = ""
	assert.Equal(t, "Server offline", OfflinePresence(s).Text)

	assert.Equal(t, "Watching the server...", StartingPresence(s).Text)
}

func valueOf(p *domain.Payload, name string) string {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}
