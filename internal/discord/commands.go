package discord

import (
	"fmt"
	"math"

	"github.com/bwmarrin/discordgo"

	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/publisher"
	"github.com/nstatus/nstatus/internal/ratelimit"
	"github.com/nstatus/nstatus/internal/scheduler"
)

const (
	replyRefreshed = "✅ Status refreshed!"
	replyPending   = "⏳ A refresh is already pending, hang on."
	replySlowDown  = "⏳ Slow down, you can refresh again in %ds."
)

// Refresher queues an on-demand tick. *scheduler.StatusTicker satisfies it.
type Refresher interface {
	Trigger(req scheduler.Request) bool
}

// replier answers one interaction. All replies are ephemeral.
type replier interface {
	Reply(content string) error
	Defer() error
	Edit(content string) error
	Delete() error
}

// CommandHandler serves the refresh slash command.
type CommandHandler struct {
	name      string
	refresher Refresher
	limiter   *ratelimit.KeyedLimiter
	logger    logger.Logger
}

func NewCommandHandler(name string, r Refresher, limiter *ratelimit.KeyedLimiter, log logger.Logger) *CommandHandler {
	return &CommandHandler{name: name, refresher: r, limiter: limiter, logger: log}
}

// Definition is the command as registered with Discord.
func (h *CommandHandler) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        h.name,
		Description: "Refresh the server status message now",
	}
}

// Handle is installed with Session.AddHandler.
func (h *CommandHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name != h.name {
		return
	}
	h.serve(interactionUserID(i), &interactionReplier{session: s, interaction: i.Interaction})
}

func (h *CommandHandler) serve(userID string, r replier) {
	log := h.logger.With(logger.String("command", h.name), logger.String("user", userID))

	if ok, retry := h.limiter.Allow(userID); !ok {
		secs := int(math.Ceil(retry.Seconds()))
		if err := r.Reply(fmt.Sprintf(replySlowDown, secs)); err != nil {
			log.Warn("failed to answer rate limited command", logger.Error(err))
		}
		return
	}

	// Discord wants an answer within 3s; the tick may take longer.
	if err := r.Defer(); err != nil {
		log.Warn("failed to defer command reply", logger.Error(err))
		return
	}

	queued := h.refresher.Trigger(scheduler.Request{
		Source: "slash",
		Done: func(outcome publisher.Outcome, err error) {
			go h.finish(r, outcome, log)
		},
	})
	if !queued {
		if err := r.Edit(replyPending); err != nil {
			log.Warn("failed to answer command", logger.Error(err))
		}
	}
}

// finish acknowledges only a tick that edited the message. Anything else
// withdraws the pending reply without a confirmation.
func (h *CommandHandler) finish(r replier, outcome publisher.Outcome, log logger.Logger) {
	if outcome == publisher.OutcomeEdited {
		if err := r.Edit(replyRefreshed); err != nil {
			log.Warn("failed to acknowledge refresh", logger.Error(err))
		}
		return
	}

	log.Info("refresh not acknowledged", logger.String("outcome", string(outcome)))
	if err := r.Delete(); err != nil {
		log.Debug("failed to withdraw deferred reply", logger.Error(err))
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type interactionReplier struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func (ir *interactionReplier) Reply(content string) error {
	return ir.session.InteractionRespond(ir.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (ir *interactionReplier) Defer() error {
	return ir.session.InteractionRespond(ir.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (ir *interactionReplier) Edit(content string) error {
	_, err := ir.session.InteractionResponseEdit(ir.interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

func (ir *interactionReplier) Delete() error {
	return ir.session.InteractionResponseDelete(ir.interaction)
}
