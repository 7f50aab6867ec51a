package discord

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// MessageActions acts on messages posted in the central channel.
type MessageActions interface {
	React(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	Delete(ctx context.Context, channelID, messageID snowflake.ID) error

	// DeleteAfter schedules deletion of a message once delay has passed.
	DeleteAfter(channelID, messageID snowflake.ID, delay time.Duration)

	// ReplyTransient replies to a message and deletes the reply after ttl.
	ReplyTransient(ctx context.Context, channelID, messageID snowflake.ID, content string, ttl time.Duration) error
}

// DiscordMessageActions implements MessageActions with a Discord session.
type DiscordMessageActions struct {
	session *discordgo.Session
}

// NewDiscordMessageActions creates a new DiscordMessageActions.
func NewDiscordMessageActions(session *discordgo.Session) *DiscordMessageActions {
	return &DiscordMessageActions{session: session}
}

var _ MessageActions = (*DiscordMessageActions)(nil)

// React adds a reaction to a message.
func (a *DiscordMessageActions) React(
	ctx context.Context,
	channelID, messageID snowflake.ID,
	emoji string,
) error {
	return a.session.MessageReactionAdd(
		channelID.String(),
		messageID.String(),
		emoji,
		discordgo.WithContext(ctx),
	)
}

// Delete deletes a message.
func (a *DiscordMessageActions) Delete(ctx context.Context, channelID, messageID snowflake.ID) error {
	return a.session.ChannelMessageDelete(
		channelID.String(),
		messageID.String(),
		discordgo.WithContext(ctx),
	)
}

// DeleteAfter deletes a message in the background after delay.
func (a *DiscordMessageActions) DeleteAfter(channelID, messageID snowflake.ID, delay time.Duration) {
	a.deleteAfter(channelID.String(), messageID.String(), delay)
}

func (a *DiscordMessageActions) deleteAfter(channelID, messageID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := a.session.ChannelMessageDelete(channelID, messageID); err != nil {
			slog.Debug("failed to delete central channel message", "channel", channelID, "error", err)
		}
	})
}

// ReplyTransient posts a reply and schedules its deletion.
func (a *DiscordMessageActions) ReplyTransient(
	ctx context.Context,
	channelID, messageID snowflake.ID,
	content string,
	ttl time.Duration,
) error {
	reply, err := a.session.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: messageID.String(),
			ChannelID: channelID.String(),
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}

	a.deleteAfter(reply.ChannelID, reply.ID, ttl)
	return nil
}
