package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/bot"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
)

const maxChoiceLength = 100

// TrackSearcher searches tracks for autocomplete.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, input string, limit int) ([]*ports.TrackInfo, error)
}

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	controller Controller
	searcher   TrackSearcher
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(controller Controller, searcher TrackSearcher) *AutocompleteHandler {
	return &AutocompleteHandler{
		controller: controller,
		searcher:   searcher,
	}
}

// Handlers returns the autocomplete handlers keyed by command name.
func (h *AutocompleteHandler) Handlers() map[string]bot.AutocompleteHandler {
	return map[string]bot.AutocompleteHandler{
		"play":   h.HandlePlay,
		"move":   h.HandleQueuePosition,
		"remove": h.HandleQueuePosition,
		"jump":   h.HandleQueuePosition,
	}
}

// HandlePlay handles autocomplete for play command.
func (h *AutocompleteHandler) HandlePlay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondChoices(s, i, h.playChoices(context.Background(), i))
}

// HandleQueuePosition handles autocomplete for commands taking a queue position.
func (h *AutocompleteHandler) HandleQueuePosition(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondChoices(s, i, h.positionChoices(context.Background(), i))
}

func (h *AutocompleteHandler) playChoices(
	ctx context.Context,
	i *discordgo.InteractionCreate,
) []*discordgo.ApplicationCommandOptionChoice {
	query := focusedValue(i)

	// Don't search for very short queries
	if len([]rune(query)) < 2 {
		return nil
	}

	tracks, err := h.searcher.SearchTracks(ctx, query, usecases.DefaultSuggestionLimit)
	if err != nil {
		slog.Debug("failed to search tracks for autocomplete", "error", err)
		return nil
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(tracks))
	for _, track := range tracks {
		// Choice values are limited to 100 characters; longer URIs fall back to the typed query.
		value := track.URI
		if value == "" || len(value) > maxChoiceLength {
			value = query
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("🎵 %s - %s", track.Title, track.Author), maxChoiceLength),
			Value: value,
		})
	}
	return choices
}

func (h *AutocompleteHandler) positionChoices(
	ctx context.Context,
	i *discordgo.InteractionCreate,
) []*discordgo.ApplicationCommandOptionChoice {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		slog.Warn("failed to parse guild ID in autocomplete", "error", err, "guildID", i.GuildID)
		return nil
	}

	output, err := h.controller.ListQueue(ctx, usecases.QueueListInput{
		GuildID:  guildID,
		Page:     1,
		PageSize: usecases.DefaultSuggestionLimit,
	})
	if err != nil {
		return nil
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(output.Tracks))
	for idx, track := range output.Tracks {
		// Use 1-indexed positions to match queue list display
		position := output.StartPosition + idx
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("%d. %s - %s", position, track.Title, track.Author), maxChoiceLength),
			Value: position,
		})
	}
	return choices
}

func focusedValue(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			if value, ok := opt.Value.(string); ok {
				return value
			}
			return fmt.Sprint(opt.Value)
		}
	}
	return ""
}

func respondChoices(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	choices []*discordgo.ApplicationCommandOptionChoice,
) {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		slog.Debug("failed to respond to autocomplete", "error", err)
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
