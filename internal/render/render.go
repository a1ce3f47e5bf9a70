// Package render turns a Snapshot and the static settings into the message
// payload and the bot presence. Everything here is a pure function.
package render

import (
	"fmt"
	"strings"

	"github.com/nstatus/nstatus/internal/config"
	"github.com/nstatus/nstatus/internal/domain"
)

const (
	emojiOnline   = "🟢"
	emojiPlayers  = "👥"
	emojiPing     = "📡"
	emojiAddress  = "🌐"
	emojiMap      = "🗺️"
	emojiGamemode = "🎮"
	emojiPeak     = "📈"

	// Discord allows 5 buttons per row and 5 rows per message.
	maxButtonsPerRow = 5
	maxButtonRows    = 5

	unknownMap = "Unknown"
)

// Payload builds the status message for a successful query.
func Payload(snap domain.Snapshot, s *config.Settings) *domain.Payload {
	p := &domain.Payload{
		Title:     fmt.Sprintf("%s %s", emojiOnline, s.Embed.Title),
		Color:     s.Embed.ColorValue(),
		ImageURL:  s.Embed.Image,
		Timestamp: snap.ObservedAt,
	}

	lines := make([]string, 0, 3)
	if s.Embed.Description != "" {
		lines = append(lines, s.Embed.Description, "")
	}
	lines = append(lines, fmt.Sprintf("%s **Players online:** `%d/%d`", emojiPlayers, snap.PlayersOnline, snap.MaxPlayers))
	p.Description = strings.Join(lines, "\n")

	p.Fields = append(p.Fields,
		domain.Field{Name: emojiAddress + " Address", Value: code(snap.Address), Inline: true},
		domain.Field{Name: "Status", Value: emojiOnline + " Online", Inline: true},
	)

	if s.Features.ShowPing {
		p.Fields = append(p.Fields, domain.Field{
			Name: emojiPing + " Ping", Value: code(fmt.Sprintf("%dms", snap.Ping)), Inline: true,
		})
	}
	if s.Features.ShowGamemode {
		p.Fields = append(p.Fields, domain.Field{
			Name: emojiGamemode + " Gamemode", Value: code(gamemode(snap, s)), Inline: true,
		})
	}
	if s.Features.ShowMap {
		p.Fields = append(p.Fields, domain.Field{
			Name: emojiMap + " Map", Value: code(orDefault(snap.Map, unknownMap)), Inline: true,
		})
	}
	if s.Features.ShowPeak24h && snap.HasPeak {
		p.Fields = append(p.Fields, domain.Field{
			Name: emojiPeak + " 24h peak", Value: code(fmt.Sprintf("%d player(s)", snap.Peak24h)), Inline: true,
		})
	}

	if s.Embed.FooterText != "" {
		p.Footer = &domain.Footer{Text: s.Embed.FooterText, IconURL: s.Embed.FooterIcon}
	}

	p.Buttons = buttonRows(s.Embed.Buttons)
	return p
}

// OnlinePresence is shown while the server answers.
func OnlinePresence(snap domain.Snapshot, s *config.Settings) domain.Presence {
	text := fmt.Sprintf("%d/%d", snap.PlayersOnline, snap.MaxPlayers)
	if s.Features.ShowPing {
		text = fmt.Sprintf("%s | Ping: %dms", text, snap.Ping)
	}
	activity, _ := config.ParseActivity(s.Presence.ActivityType)
	status, _ := config.ParseStatus(s.Presence.OnlineStatus)
	return domain.Presence{Text: text, Activity: activity, Status: status}
}

// OfflinePresence is shown when the query fails.
func OfflinePresence(s *config.Settings) domain.Presence {
	return domain.Presence{
		Text:     orDefault(s.Presence.OfflineText, "Server offline"),
		Activity: domain.ActivityWatching,
		Status:   domain.StatusIdle,
	}
}

// StartingPresence is shown between login and the first tick.
func StartingPresence(s *config.Settings) domain.Presence {
	return domain.Presence{
		Text:     orDefault(s.Presence.StartingText, "Watching the server..."),
		Activity: domain.ActivityWatching,
		Status:   domain.StatusOnline,
	}
}

func gamemode(snap domain.Snapshot, s *config.Settings) string {
	if s.Embed.Gamemode != "" {
		return s.Embed.Gamemode
	}
	return orDefault(snap.Gamemode, "Unknown")
}

func buttonRows(buttons []config.ButtonConfig) [][]domain.Button {
	var rows [][]domain.Button
	var row []domain.Button
	for _, b := range buttons {
		if b.Label == "" || b.URL == "" {
			continue
		}
		row = append(row, domain.Button{Label: b.Label, URL: b.URL})
		if len(row) == maxButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	if len(rows) > maxButtonRows {
		rows = rows[:maxButtonRows]
	}
	return rows
}

func code(s string) string { return "`" + s + "`" }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
