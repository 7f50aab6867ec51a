package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/bot"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// request holds the IDs every music interaction carries.
type request struct {
	guildID   snowflake.ID
	userID    snowflake.ID
	channelID snowflake.ID
}

func parseRequest(i *discordgo.InteractionCreate) (request, error) {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return request{}, errors.New("Invalid guild")
	}

	if i.Member == nil || i.Member.User == nil {
		return request{}, errors.New("Invalid user")
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return request{}, errors.New("Invalid user")
	}

	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return request{}, errors.New("Invalid channel")
	}

	return request{guildID: guildID, userID: userID, channelID: channelID}, nil
}

func commandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	result := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		result[opt.Name] = opt
	}
	return result
}

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	controller Controller
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(controller Controller) *CommandHandlers {
	return &CommandHandlers{controller: controller}
}

// Handlers returns the handlers keyed by command name.
func (h *CommandHandlers) Handlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":            h.HandleJoin,
		"leave":           h.HandleLeave,
		"play":            h.HandlePlay,
		"stop":            h.HandleStop,
		"pause":           h.HandlePause,
		"resume":          h.HandleResume,
		"skip":            h.HandleSkip,
		"seek":            h.HandleSeek,
		"volume":          h.HandleVolume,
		"loop":            h.HandleLoop,
		"queue":           h.HandleQueue,
		"nowplaying":      h.HandleNowPlaying,
		"move":            h.HandleMove,
		"remove":          h.HandleRemove,
		"jump":            h.HandleJump,
		"clear":           h.HandleClear,
		"shuffle":         h.HandleShuffle,
		"autoplay":        h.HandleAutoplay,
		"setup-central":   h.HandleSetupCentral,
		"disable-central": h.HandleDisableCentral,
	}
}

// HandleJoin handles the /join command.
func (h *CommandHandlers) HandleJoin(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	req, err := parseRequest(i)
	if err != nil {
		return respondError(r, err.Error())
	}

	output, err := h.controller.Join(ctx, usecases.JoinInput{
		GuildID:       req.guildID,
		UserID:        req.userID,
		TextChannelID: req.channelID,
	})
	if err != nil {
		return respondUsecaseError(r, "join", err)
	}

	return respondSuccess(r, fmt.Sprintf("Connected to <#%d>.", output.VoiceChannelID))
}

// HandleLeave handles the /leave command.
func (h *CommandHandlers) HandleLeave(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	req, err := parseRequest(i)
	if err != nil {
		return respondError(r, err.Error())
	}

	if err := h.controller.Leave(ctx, usecases.LeaveInput{
		GuildID: req.guildID,
		UserID:  req.userID,
	}); err != nil {
		return respondUsecaseError(r, "leave", err)
	}

	return respondSuccess(r, "Disconnected.")
}

// HandlePlay handles the /play command.
// Resolving a query may outlast the interaction deadline, so the response is deferred.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	req, err := parseRequest(i)
	if err != nil {
		return respondError(r, err.Error())
	}

	var query string
	if opt, ok := commandOptions(i)["query"]; ok {
		query = opt.StringValue()
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return err
	}

	output, err := h.controller.Play(ctx, usecases.PlayInput{
		GuildID:       req.guildID,
		UserID:        req.userID,
		TextChannelID: req.channelID,
		Query:         query,
	})
	if err != nil {
		logUsecaseError("play", err)
		return r.Edit(&discordgo.WebhookEdit{
			Embeds: &[]*discordgo.MessageEmbed{errorEmbed(usecases.UserMessage(err))},
		})
	}

	return r.Edit(&discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{
			{
				Description: describeEnqueued(output.EnqueueOutput),
				Color:       colorSuccess,
			},
		},
	})
}

func describeEnqueued(output *usecases.EnqueueOutput) string {
	if output.IsPlaylist {
		return fmt.Sprintf(
			"Added **%d tracks** from playlist **%s** to the queue.",
			len(output.Tracks),
			output.PlaylistName,
		)
	}

	track := output.Tracks[0]
	if output.Started != nil {
		return fmt.Sprintf("Now playing %s.", trackLink(track))
	}
	return fmt.Sprintf("Added %s to the queue at position **%d**.", trackLink(track), output.Position)
}

// control runs a transport operation and responds with describe's text.
func (h *CommandHandlers) control(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	command string,
	op usecases.TransportOp,
	describe func(*usecases.TransportOutput) string,
) error {
	ctx := context.Background()

	req, err := parseRequest(i)
	if err != nil {
		return respondError(r, err.Error())
	}

	output, err := h.controller.Control(ctx, usecases.ControlInput{
		GuildID: req.guildID,
		UserID:  req.userID,
		Op:      op,
	})
	if err != nil {
		return respondUsecaseError(r, command, err)
	}

	return respondSuccess(r, describe(output))
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.control(i, r, "stop", usecases.StopOp(), func(*usecases.TransportOutput) string {
		return "Stopped playback and cleared the queue."
	})
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.control(i, r, "pause", usecases.PauseOp(), func(*usecases.TransportOutput) string {
		return "Paused playback."
	})
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.control(i, r, "resume", usecases.ResumeOp(), func(*usecases.TransportOutput) string {
		return "Resumed playback."
	})
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.control(i, r, "skip", usecases.SkipOp(), func(out *usecases.TransportOutput) string {
		skipped := "Skipped."
		if out.Track != nil {
			skipped = fmt.Sprintf("Skipped %s.", trackLink(out.Track))
		}
		if out.Next == nil {
			return skipped + " The queue is empty."
		}
		return fmt.Sprintf("%s Now playing %s.", skipped, trackLink(out.Next))
	})
}

// HandleSeek handles the /seek command.
func (h *CommandHandlers) HandleSeek(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var raw string
	if opt, ok := commandOptions(i)["position"]; ok {
		raw = opt.StringValue()
	}

	offset, err := domain.ParseTimestamp(raw)
	if err != nil {
		return respondError(r, "Invalid timestamp. Use `mm:ss` or `hh:mm:ss`.")
	}

	return h.control(i, r, "seek", usecases.SeekOp(offset), func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Seeked to `%s` in %s.", domain.FormatDuration(offset), trackLink(out.Track))
	})
}

// HandleVolume handles the /volume command.
func (h *CommandHandlers) HandleVolume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var level int
	if opt, ok := commandOptions(i)["level"]; ok {
		level = int(opt.IntValue())
	}

	return h.control(i, r, "volume", usecases.SetVolumeOp(level), func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Volume set to **%d%%**.", out.Volume)
	})
}

// HandleLoop handles the /loop command.
// Without a mode option the loop mode cycles.
func (h *CommandHandlers) HandleLoop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	op := usecases.CycleLoopOp()
	if opt, ok := commandOptions(i)["mode"]; ok {
		op = usecases.SetLoopOp(domain.ParseLoopMode(opt.StringValue()))
	}

	return h.control(i, r, "loop", op, func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Loop mode: %s **%s**.", out.LoopMode.Emoji(), out.LoopMode)
	})
}

// HandleMove handles the /move command.
func (h *CommandHandlers) HandleMove(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := commandOptions(i)
	var from, to int
	if opt, ok := options["from"]; ok {
		from = int(opt.IntValue())
	}
	if opt, ok := options["to"]; ok {
		to = int(opt.IntValue())
	}

	return h.control(i, r, "move", usecases.MoveTrackOp(from, to), func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Moved %s to position **%d**.", trackLink(out.Track), to)
	})
}

// HandleRemove handles the /remove command.
func (h *CommandHandlers) HandleRemove(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var position int
	if opt, ok := commandOptions(i)["position"]; ok {
		position = int(opt.IntValue())
	}

	return h.control(i, r, "remove", usecases.RemoveTrackOp(position), func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Removed %s.", trackLink(out.Track))
	})
}

// HandleJump handles the /jump command.
func (h *CommandHandlers) HandleJump(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var position int
	if opt, ok := commandOptions(i)["position"]; ok {
		position = int(opt.IntValue())
	}

	return h.control(i, r, "jump", usecases.JumpToOp(position), func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Jumped to %s.", trackLink(out.Track))
	})
}

// HandleClear handles the /clear command.
func (h *CommandHandlers) HandleClear(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.control(i, r, "clear", usecases.ClearQueueOp(), func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Cleared **%d** tracks from the queue.", out.Count)
	})
}

// HandleShuffle handles the /shuffle command.
func (h *CommandHandlers) HandleShuffle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.control(i, r, "shuffle", usecases.ShuffleQueueOp(), func(out *usecases.TransportOutput) string {
		return fmt.Sprintf("Shuffled **%d** tracks.", out.Count)
	})
}

// HandleQueue handles the /queue command.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	page := 1
	if opt, ok := commandOptions(i)["page"]; ok {
		page = int(opt.IntValue())
	}

	output, err := h.controller.ListQueue(ctx, usecases.QueueListInput{
		GuildID: guildID,
		Page:    page,
	})
	if err != nil {
		return respondUsecaseError(r, "queue", err)
	}

	return respondEmbed(r, queueEmbed(output), false)
}

// HandleNowPlaying handles the /nowplaying command.
func (h *CommandHandlers) HandleNowPlaying(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	output, err := h.controller.NowPlaying(ctx, guildID)
	if err != nil {
		return respondUsecaseError(r, "nowplaying", err)
	}

	return respondEmbed(r, nowPlayingEmbed(output.Projection), false)
}

// HandleAutoplay handles the /autoplay command.
func (h *CommandHandlers) HandleAutoplay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var enabled bool
	if opt, ok := commandOptions(i)["enabled"]; ok {
		enabled = opt.BoolValue()
	}

	if err := h.controller.SetAutoplay(ctx, guildID, enabled); err != nil {
		return respondUsecaseError(r, "autoplay", err)
	}

	if enabled {
		return respondSuccess(r, "Autoplay enabled.")
	}
	return respondSuccess(r, "Autoplay disabled.")
}

// HandleSetupCentral handles the /setup-central command.
func (h *CommandHandlers) HandleSetupCentral(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	req, err := parseRequest(i)
	if err != nil {
		return respondError(r, err.Error())
	}

	input := usecases.SetupCentralInput{
		GuildID:   req.guildID,
		ChannelID: req.channelID,
	}

	options := commandOptions(i)
	if opt, ok := options["channel"]; ok {
		if input.ChannelID, err = snowflake.Parse(opt.ChannelValue(nil).ID); err != nil {
			return respondError(r, "Invalid channel")
		}
	}
	if opt, ok := options["voice_channel"]; ok {
		if input.VoiceChannelID, err = snowflake.Parse(opt.ChannelValue(nil).ID); err != nil {
			return respondError(r, "Invalid voice channel")
		}
	}
	if opt, ok := options["allowed_role"]; ok {
		roleID, err := snowflake.Parse(opt.RoleValue(nil, "").ID)
		if err != nil {
			return respondError(r, "Invalid role")
		}
		input.AllowedRoleIDs = []snowflake.ID{roleID}
	}
	if opt, ok := options["delete_non_music"]; ok {
		input.DeleteNonMusicMessages = opt.BoolValue()
	}

	if _, err := h.controller.SetupCentral(ctx, input); err != nil {
		return respondUsecaseError(r, "setup-central", err)
	}

	description := fmt.Sprintf("Music control panel created in <#%d>.", input.ChannelID)
	if input.VoiceChannelID != 0 {
		description += fmt.Sprintf(" Song requests play in <#%d>.", input.VoiceChannelID)
	}
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	}, true)
}

// HandleDisableCentral handles the /disable-central command.
func (h *CommandHandlers) HandleDisableCentral(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.controller.DisableCentral(ctx, guildID); err != nil {
		return respondUsecaseError(r, "disable-central", err)
	}

	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: "Music control panel disabled.",
		Color:       colorSuccess,
	}, true)
}

func nowPlayingEmbed(p *usecases.DisplayProjection) *discordgo.MessageEmbed {
	requester := "Autoplay"
	if p.RequesterID != 0 {
		requester = fmt.Sprintf("<@%d>", p.RequesterID)
	}

	progress := "LIVE"
	if !p.IsStream {
		progress = fmt.Sprintf("%s / %s", domain.FormatDuration(p.Position), p.FormattedDuration())
	}

	embed := &discordgo.MessageEmbed{
		Title:       p.Title,
		URL:         p.URI,
		Description: fmt.Sprintf("by **%s**", p.Author),
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Progress", Value: progress, Inline: true},
			{Name: "Requested by", Value: requester, Inline: true},
			{Name: "Volume", Value: fmt.Sprintf("%d%%", p.Volume), Inline: true},
			{Name: "Loop", Value: fmt.Sprintf("%s %s", p.LoopMode.Emoji(), p.LoopMode), Inline: true},
			{Name: "Up Next", Value: fmt.Sprintf("%d tracks", p.QueueLength), Inline: true},
		},
	}
	if p.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.ArtworkURL}
	}
	if p.Paused {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Paused"}
	}
	return embed
}
