package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID       snowflake.ID
	UserID        snowflake.ID
	TextChannelID snowflake.ID
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
}

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID            snowflake.ID
	UserID             snowflake.ID
	TextChannelID      snowflake.ID
	Query              string
	FromCentralChannel bool
}

// PlayOutput contains the result of the Play use case.
type PlayOutput struct {
	*EnqueueOutput
	TookOver bool
}

// ControlInput contains the input for the Control use case.
type ControlInput struct {
	GuildID    snowflake.ID
	UserID     snowflake.ID
	Op         TransportOp
	FromButton bool
}

// LeaveInput contains the input for the Leave use case.
type LeaveInput struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
}

// MusicController is the entry point for user requests. Every request runs on the
// guild's serializer and passes the session policy before touching the session.
type MusicController struct {
	serializer ports.GuildSerializer
	policy     *PolicyService
	sessions   *SessionService
	enqueue    *EnqueueService
	transport  *TransportService
	queue      *QueueService
	central    *CentralService
}

// NewMusicController creates a new MusicController.
func NewMusicController(
	serializer ports.GuildSerializer,
	policy *PolicyService,
	sessions *SessionService,
	enqueue *EnqueueService,
	transport *TransportService,
	queue *QueueService,
	central *CentralService,
) *MusicController {
	return &MusicController{
		serializer: serializer,
		policy:     policy,
		sessions:   sessions,
		enqueue:    enqueue,
		transport:  transport,
		queue:      queue,
		central:    central,
	}
}

// Join connects the bot to the requester's voice channel.
func (c *MusicController) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	var output *JoinOutput
	err := c.serializer.Do(ctx, input.GuildID, func(ctx context.Context) error {
		decision, err := c.policy.Authorize(ctx, EvaluateInput{
			GuildID: input.GuildID,
			UserID:  input.UserID,
			Action:  domain.ActionJoin,
		})
		if err != nil {
			return err
		}

		session, err := c.sessions.EnsureSession(ctx, EnsureSessionInput{
			GuildID:           input.GuildID,
			VoiceChannelID:    decision.VoiceChannelID,
			TextSinkChannelID: input.TextChannelID,
			DefaultVolume:     decision.Config.Settings.DefaultVolume,
		})
		if err != nil {
			return err
		}

		output = &JoinOutput{VoiceChannelID: session.VoiceChannelID()}
		return nil
	})
	return output, err
}

// Play connects if needed and enqueues the query.
// A Takeover decision replaces the current session before enqueuing.
func (c *MusicController) Play(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	var output *PlayOutput
	err := c.serializer.Do(ctx, input.GuildID, func(ctx context.Context) error {
		decision, err := c.policy.Authorize(ctx, EvaluateInput{
			GuildID:            input.GuildID,
			UserID:             input.UserID,
			Action:             domain.ActionEnqueue,
			FromCentralChannel: input.FromCentralChannel,
		})
		if err != nil {
			return err
		}

		sessionInput := EnsureSessionInput{
			GuildID:           input.GuildID,
			VoiceChannelID:    decision.VoiceChannelID,
			TextSinkChannelID: input.TextChannelID,
			DefaultVolume:     decision.Config.Settings.DefaultVolume,
		}
		tookOver := decision.Decision.Outcome == domain.OutcomeTakeover
		if tookOver {
			_, err = c.sessions.Takeover(ctx, sessionInput)
		} else {
			_, err = c.sessions.EnsureSession(ctx, sessionInput)
		}
		if err != nil {
			return err
		}

		enqueued, err := c.enqueue.Enqueue(ctx, EnqueueInput{
			GuildID:     input.GuildID,
			RequesterID: input.UserID,
			Query:       input.Query,
		})
		if err != nil {
			return err
		}

		output = &PlayOutput{EnqueueOutput: enqueued, TookOver: tookOver}
		return nil
	})
	return output, err
}

// Control applies a transport operation requested by a command or a panel button.
func (c *MusicController) Control(ctx context.Context, input ControlInput) (*TransportOutput, error) {
	action := domain.ActionTransportControl
	if input.FromButton {
		action = domain.ActionVoiceButton
	}

	var output *TransportOutput
	err := c.serializer.Do(ctx, input.GuildID, func(ctx context.Context) error {
		if _, err := c.policy.Authorize(ctx, EvaluateInput{
			GuildID: input.GuildID,
			UserID:  input.UserID,
			Action:  action,
		}); err != nil {
			return err
		}

		var err error
		output, err = c.transport.Apply(ctx, input.GuildID, input.Op)
		return err
	})
	return output, err
}

// Leave ends the guild's session and disconnects from voice.
func (c *MusicController) Leave(ctx context.Context, input LeaveInput) error {
	return c.serializer.Do(ctx, input.GuildID, func(ctx context.Context) error {
		if _, err := c.policy.Authorize(ctx, EvaluateInput{
			GuildID: input.GuildID,
			UserID:  input.UserID,
			Action:  domain.ActionTransportControl,
		}); err != nil {
			return err
		}
		return c.sessions.Destroy(ctx, input.GuildID)
	})
}

// ListQueue returns one page of the guild's queue.
func (c *MusicController) ListQueue(ctx context.Context, input QueueListInput) (*QueueListOutput, error) {
	var output *QueueListOutput
	err := c.serializer.Do(ctx, input.GuildID, func(context.Context) error {
		var err error
		output, err = c.queue.List(input)
		return err
	})
	return output, err
}

// NowPlaying returns what the guild is playing.
func (c *MusicController) NowPlaying(ctx context.Context, guildID snowflake.ID) (*NowPlayingOutput, error) {
	var output *NowPlayingOutput
	err := c.serializer.Do(ctx, guildID, func(context.Context) error {
		var err error
		output, err = c.queue.NowPlaying(guildID)
		return err
	})
	return output, err
}

// SetupCentral enables the central system of the guild.
func (c *MusicController) SetupCentral(
	ctx context.Context,
	input SetupCentralInput,
) (*SetupCentralOutput, error) {
	var output *SetupCentralOutput
	err := c.serializer.Do(ctx, input.GuildID, func(ctx context.Context) error {
		var err error
		output, err = c.central.Setup(ctx, input)
		return err
	})
	return output, err
}

// DisableCentral disables the central system of the guild.
func (c *MusicController) DisableCentral(ctx context.Context, guildID snowflake.ID) error {
	return c.serializer.Do(ctx, guildID, func(ctx context.Context) error {
		return c.central.Disable(ctx, guildID)
	})
}

// SetAutoplay turns autoplay on or off for the guild.
func (c *MusicController) SetAutoplay(ctx context.Context, guildID snowflake.ID, enabled bool) error {
	return c.serializer.Do(ctx, guildID, func(ctx context.Context) error {
		return c.central.SetAutoplay(ctx, guildID, enabled)
	})
}

// CentralConfig returns the guild's configuration.
func (c *MusicController) CentralConfig(ctx context.Context, guildID snowflake.ID) (*domain.GuildConfig, error) {
	return c.central.Config(ctx, guildID)
}
