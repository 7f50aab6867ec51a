package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunedeck/internal/bot"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
)

// ComponentHandlers handles the control panel buttons.
// The panel itself is refreshed by the projection, so a successful press only
// acknowledges the interaction.
type ComponentHandlers struct {
	controller Controller
}

// NewComponentHandlers creates new ComponentHandlers.
func NewComponentHandlers(controller Controller) *ComponentHandlers {
	return &ComponentHandlers{controller: controller}
}

// buttonOps maps transport buttons to their operation.
var buttonOps = map[string]func() usecases.TransportOp{
	ports.ControlPause:      usecases.PauseOp,
	ports.ControlResume:     usecases.ResumeOp,
	ports.ControlSkip:       usecases.SkipOp,
	ports.ControlStop:       usecases.StopOp,
	ports.ControlClear:      usecases.ClearQueueOp,
	ports.ControlLoop:       usecases.CycleLoopOp,
	ports.ControlShuffle:    usecases.ShuffleQueueOp,
	ports.ControlVolumeUp:   func() usecases.TransportOp { return usecases.AdjustVolumeOp(usecases.VolumeStep) },
	ports.ControlVolumeDown: func() usecases.TransportOp { return usecases.AdjustVolumeOp(-usecases.VolumeStep) },
}

// Handlers returns the handlers keyed by button custom ID.
func (h *ComponentHandlers) Handlers() map[string]bot.InteractionHandler {
	handlers := make(map[string]bot.InteractionHandler, len(buttonOps)+1)
	for customID, op := range buttonOps {
		handlers[customID] = func(
			s *discordgo.Session,
			i *discordgo.InteractionCreate,
			r bot.Responder,
		) error {
			return h.handleTransport(i, r, customID, op())
		}
	}
	handlers[ports.ControlQueue] = h.HandleQueue
	return handlers
}

func (h *ComponentHandlers) handleTransport(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	customID string,
	op usecases.TransportOp,
) error {
	ctx := context.Background()

	req, err := parseRequest(i)
	if err != nil {
		return respondError(r, err.Error())
	}

	if _, err := h.controller.Control(ctx, usecases.ControlInput{
		GuildID:    req.guildID,
		UserID:     req.userID,
		Op:         op,
		FromButton: true,
	}); err != nil {
		return respondUsecaseError(r, customID, err)
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// HandleQueue shows the first page of the queue to the presser only.
func (h *ComponentHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	req, err := parseRequest(i)
	if err != nil {
		return respondError(r, err.Error())
	}

	output, err := h.controller.ListQueue(ctx, usecases.QueueListInput{
		GuildID: req.guildID,
		Page:    1,
	})
	if err != nil {
		return respondUsecaseError(r, ports.ControlQueue, err)
	}

	return respondEmbed(r, queueEmbed(output), true)
}
