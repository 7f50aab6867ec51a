package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunedeck/internal/bot"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
	colorInfo    = 0x9966FF
)

func respondSuccess(r bot.Responder, description string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: description,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{errorEmbed(message)},
		},
	})
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}
}

// respondUsecaseError shows err to the user as a denial or as the generic message.
// Errors not meant for users are logged.
func respondUsecaseError(r bot.Responder, command string, err error) error {
	logUsecaseError(command, err)
	return respondError(r, usecases.UserMessage(err))
}

func logUsecaseError(command string, err error) {
	if usecases.IsUserFacing(err) {
		slog.Debug("request refused", "command", command, "reason", err)
		return
	}
	slog.Error("failed to handle request", "command", command, "error", err)
}

func trackLink(track *usecases.Track) string {
	if track.URI != "" {
		return fmt.Sprintf("[%s](%s)", track.Title, track.URI)
	}
	return fmt.Sprintf("**%s**", track.Title)
}

// writeTrackLine writes a single track line to the string builder.
// Escapes period to prevent Discord markdown list formatting.
func writeTrackLine(sb *strings.Builder, displayIndex int, track *usecases.Track) {
	if track.URI != "" {
		fmt.Fprintf(
			sb,
			"%d\\. [%s](%s) - %s `%s`\n",
			displayIndex,
			track.Title,
			track.URI,
			track.Author,
			track.FormattedDuration(),
		)
	} else {
		fmt.Fprintf(
			sb,
			"%d\\. **%s** - %s `%s`\n",
			displayIndex,
			track.Title,
			track.Author,
			track.FormattedDuration(),
		)
	}
}

// queueEmbed renders one page of the queue.
func queueEmbed(output *usecases.QueueListOutput) *discordgo.MessageEmbed {
	var sb strings.Builder

	if output.CurrentTrack != nil {
		state := "▶️"
		if output.Paused {
			state = "⏸️"
		}
		fmt.Fprintf(&sb, "**Now Playing** %s\n%s - %s `%s`\n\n",
			state,
			trackLink(output.CurrentTrack),
			output.CurrentTrack.Author,
			output.CurrentTrack.FormattedDuration(),
		)
	}

	if len(output.Tracks) == 0 {
		sb.WriteString("*No upcoming tracks.*")
	} else {
		sb.WriteString("**Up Next**\n")
		for idx, track := range output.Tracks {
			writeTrackLine(&sb, output.StartPosition+idx, track)
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: sb.String(),
		Color:       colorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf(
				"Page %d/%d • %d tracks • %s • Loop: %s • Volume: %d%%",
				output.CurrentPage,
				output.TotalPages,
				output.TotalTracks,
				domain.FormatDuration(output.TotalDuration),
				output.LoopMode,
				output.Volume,
			),
		},
	}
}
