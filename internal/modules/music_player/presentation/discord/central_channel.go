package discord

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

const (
	reactionAccepted = "✅"
	reactionRejected = "❌"

	// DefaultReplyTTL is how long a failed request and its reply stay in the central channel.
	DefaultReplyTTL = 4 * time.Second
	// DefaultAcceptedTTL is how long an accepted request stays in the central channel.
	DefaultAcceptedTTL = 3 * time.Second
)

// CentralChannelHandler turns messages posted in a guild's central channel into song requests.
type CentralChannelHandler struct {
	controller Controller
	spam       ports.SpamGuard
	actions    MessageActions
	now         func() time.Time
	replyTTL    time.Duration
	acceptedTTL time.Duration
}

// NewCentralChannelHandler creates a new CentralChannelHandler.
func NewCentralChannelHandler(
	controller Controller,
	spam ports.SpamGuard,
	actions MessageActions,
) *CentralChannelHandler {
	return &CentralChannelHandler{
		controller: controller,
		spam:       spam,
		actions:    actions,
		now:         time.Now,
		replyTTL:    DefaultReplyTTL,
		acceptedTTL: DefaultAcceptedTTL,
	}
}

// HandleMessageCreate handles a MessageCreate gateway event.
func (h *CentralChannelHandler) HandleMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	h.Handle(context.Background(), m.Message)
}

// Handle processes one message. Messages outside the central channel are ignored.
func (h *CentralChannelHandler) Handle(ctx context.Context, msg *discordgo.Message) {
	if msg == nil || msg.Author == nil || msg.Author.Bot {
		return
	}

	guildID, err := snowflake.Parse(msg.GuildID)
	if err != nil {
		return
	}
	channelID, err := snowflake.Parse(msg.ChannelID)
	if err != nil {
		return
	}
	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return
	}
	userID, err := snowflake.Parse(msg.Author.ID)
	if err != nil {
		return
	}

	config, err := h.controller.CentralConfig(ctx, guildID)
	if err != nil {
		slog.Error("failed to read guild configuration", "guild", guildID, "error", err)
		return
	}
	if !config.Central.IsCentralChannel(channelID) {
		return
	}

	if !h.spam.Allow(ports.SpamKey{GuildID: guildID, UserID: userID}, h.now()) {
		slog.Debug("dropping central channel message over the spam limit", "guild", guildID, "user", userID)
		h.delete(ctx, channelID, messageID)
		return
	}

	query := strings.TrimSpace(msg.Content)
	if !domain.IsSongQuery(query) {
		if config.Central.DeleteNonMusicMessages {
			h.delete(ctx, channelID, messageID)
		}
		return
	}

	_, err = h.controller.Play(ctx, usecases.PlayInput{
		GuildID:            guildID,
		UserID:             userID,
		TextChannelID:      channelID,
		Query:              query,
		FromCentralChannel: true,
	})
	if err != nil {
		logUsecaseError("central", err)
		h.react(ctx, channelID, messageID, reactionRejected)
		h.actions.DeleteAfter(channelID, messageID, h.replyTTL)
		if err := h.actions.ReplyTransient(
			ctx,
			channelID,
			messageID,
			usecases.UserMessage(err),
			h.replyTTL,
		); err != nil {
			slog.Debug("failed to reply in central channel", "guild", guildID, "error", err)
		}
		return
	}

	h.react(ctx, channelID, messageID, reactionAccepted)
	h.actions.DeleteAfter(channelID, messageID, h.acceptedTTL)
}

func (h *CentralChannelHandler) react(ctx context.Context, channelID, messageID snowflake.ID, emoji string) {
	if err := h.actions.React(ctx, channelID, messageID, emoji); err != nil {
		slog.Debug("failed to react in central channel", "channel", channelID, "error", err)
	}
}

func (h *CentralChannelHandler) delete(ctx context.Context, channelID, messageID snowflake.ID) {
	if err := h.actions.Delete(ctx, channelID, messageID); err != nil {
		slog.Debug("failed to delete central channel message", "channel", channelID, "error", err)
	}
}
