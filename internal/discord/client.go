// Package discord is the chat adapter: it owns the gateway session, converts
// payloads to embeds and serves the refresh slash command.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/nstatus/nstatus/internal/domain"
	"github.com/nstatus/nstatus/internal/logger"
)

// Client implements publisher.Chat on top of a discordgo session.
type Client struct {
	session *discordgo.Session
	logger  logger.Logger
}

// New prepares a bot session. Nothing is sent until Open.
func New(token string, log logger.Logger) (*Client, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	c := &Client{session: s, logger: log}
	s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		log.Info("discord session ready",
			logger.String("user", r.User.Username),
			logger.Int("guilds", len(r.Guilds)))
	})
	return c, nil
}

// Open logs in and connects the gateway.
func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("discord login failed: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.session.Close()
}

// RegisterCommand installs h and (re)creates its command on every Ready.
// Call it before Open. An empty guildID registers the command globally.
func (c *Client) RegisterCommand(guildID string, h *CommandHandler) {
	c.session.AddHandler(h.Handle)
	c.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		cmd, err := s.ApplicationCommandCreate(r.User.ID, guildID, h.Definition())
		if err != nil {
			c.logger.Error("failed to register slash command",
				logger.String("command", h.name),
				logger.Error(err))
			return
		}
		c.logger.Info("slash command registered",
			logger.String("command", cmd.Name),
			logger.String("guild", guildID))
	})
}

func (c *Client) SendMessage(ctx context.Context, channelID string, p *domain.Payload) (string, error) {
	msg, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{toEmbed(p)},
		Components: toComponents(p.Buttons),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", classify(err, domain.ErrChannelNotFound)
	}
	return msg.ID, nil
}

func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (domain.MessageRef, error) {
	msg, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return domain.MessageRef{}, classify(err, domain.ErrMessageNotFound)
	}
	return domain.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (c *Client) EditMessage(ctx context.Context, ref domain.MessageRef, p *domain.Payload) error {
	embeds := []*discordgo.MessageEmbed{toEmbed(p)}
	components := toComponents(p.Buttons)
	content := ""

	_, err := c.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         ref.MessageID,
		Channel:    ref.ChannelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return classify(err, domain.ErrMessageNotFound)
}

// SetPresence goes over the gateway and fails when it is not connected.
func (c *Client) SetPresence(p domain.Presence) error {
	if err := c.session.UpdateStatusComplex(toStatusData(p)); err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}
	return nil
}
