package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/nstatus/nstatus/internal/domain"
)

func toEmbed(p *domain.Payload) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		Color:       p.Color,
	}
	if !p.Timestamp.IsZero() {
		e.Timestamp = p.Timestamp.UTC().Format(time.RFC3339)
	}
	if p.ImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: p.ImageURL}
	}
	if p.Footer != nil {
		e.Footer = &discordgo.MessageEmbedFooter{Text: p.Footer.Text, IconURL: p.Footer.IconURL}
	}
	for _, f := range p.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return e
}

// toComponents returns an empty, non-nil slice when there are no buttons so an
// edit clears rows left over from an older configuration.
func toComponents(rows [][]domain.Button) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		ar := discordgo.ActionsRow{}
		for _, b := range row {
			ar.Components = append(ar.Components, discordgo.Button{
				Label: b.Label,
				Style: discordgo.LinkButton,
				URL:   b.URL,
			})
		}
		out = append(out, ar)
	}
	return out
}

func toStatusData(p domain.Presence) discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status: toStatus(p.Status),
		Activities: []*discordgo.Activity{{
			Name: p.Text,
			Type: toActivityType(p.Activity),
		}},
	}
}

func toActivityType(k domain.ActivityKind) discordgo.ActivityType {
	switch k {
	case domain.ActivityPlaying:
		return discordgo.ActivityTypeGame
	case domain.ActivityStreaming:
		return discordgo.ActivityTypeStreaming
	case domain.ActivityListening:
		return discordgo.ActivityTypeListening
	case domain.ActivityCompeting:
		return discordgo.ActivityTypeCompeting
	default:
		return discordgo.ActivityTypeWatching
	}
}

func toStatus(s domain.PresenceStatus) string {
	switch s {
	case domain.StatusOnline:
		return string(discordgo.StatusOnline)
	case domain.StatusIdle:
		return string(discordgo.StatusIdle)
	case domain.StatusInvisible:
		return string(discordgo.StatusInvisible)
	default:
		return string(discordgo.StatusDoNotDisturb)
	}
}
