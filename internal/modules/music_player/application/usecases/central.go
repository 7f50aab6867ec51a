package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// SetupCentralInput contains the input for the SetupCentral use case.
type SetupCentralInput struct {
	GuildID                snowflake.ID
	ChannelID              snowflake.ID
	VoiceChannelID         snowflake.ID // optional
	AllowedRoleIDs         []snowflake.ID
	DeleteNonMusicMessages bool
}

// SetupCentralOutput contains the result of the SetupCentral use case.
type SetupCentralOutput struct {
	EmbedID snowflake.ID
}

// CentralService manages the central control-panel channel and guild settings.
type CentralService struct {
	configs    ports.GuildConfigStore
	embeds     ports.EmbedSink
	inspector  ports.ChannelInspector
	projection ports.ProjectionRefresher
}

// NewCentralService creates a new CentralService.
func NewCentralService(
	configs ports.GuildConfigStore,
	embeds ports.EmbedSink,
	inspector ports.ChannelInspector,
	projection ports.ProjectionRefresher,
) *CentralService {
	return &CentralService{
		configs:    configs,
		embeds:     embeds,
		inspector:  inspector,
		projection: projection,
	}
}

// Setup posts a control panel in the channel and enables the central system.
func (c *CentralService) Setup(
	ctx context.Context,
	input SetupCentralInput,
) (*SetupCentralOutput, error) {
	embedID, err := c.embeds.PostIdle(ctx, input.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to post control panel: %w", err)
	}

	enabled := true
	roles := input.AllowedRoleIDs
	if roles == nil {
		roles = []snowflake.ID{}
	}
	patch := domain.GuildConfigPatch{
		CentralEnabled:         &enabled,
		CentralChannelID:       &input.ChannelID,
		CentralEmbedID:         &embedID,
		CentralVoiceChannelID:  &input.VoiceChannelID,
		CentralAllowedRoleIDs:  &roles,
		DeleteNonMusicMessages: &input.DeleteNonMusicMessages,
	}
	if err := c.configs.Upsert(ctx, input.GuildID, patch); err != nil {
		return nil, err
	}

	slog.Info(
		"central system enabled",
		"guild", input.GuildID,
		"channel", input.ChannelID,
		"voice_channel", input.VoiceChannelID,
	)

	// Show what is already playing, if anything.
	c.projection.Refresh(ctx, input.GuildID)

	return &SetupCentralOutput{EmbedID: embedID}, nil
}

// Disable turns the central system off for the guild.
func (c *CentralService) Disable(ctx context.Context, guildID snowflake.ID) error {
	config, err := c.configs.FindByGuildID(ctx, guildID)
	if err != nil {
		return err
	}
	if config == nil || !config.Central.Enabled {
		return ErrCentralNotConfigured
	}

	if err := c.disable(ctx, guildID); err != nil {
		return err
	}

	slog.Info("central system disabled", "guild", guildID)
	return nil
}

// ResetOnStartup brings every enabled control panel back to idle.
// Guilds whose central channel is gone are disabled; missing panels are reposted.
func (c *CentralService) ResetOnStartup(ctx context.Context) error {
	configs, err := c.configs.ListCentralEnabled(ctx)
	if err != nil {
		return err
	}

	var reset, reposted, disabled int
	for _, config := range configs {
		guildID := config.GuildID
		channelID := config.Central.ChannelID

		exists, err := c.inspector.Exists(ctx, channelID)
		if err != nil {
			slog.Warn("failed to check central channel", "guild", guildID, "error", err)
			continue
		}
		if !exists {
			if err := c.disable(ctx, guildID); err != nil {
				slog.Warn("failed to disable central system", "guild", guildID, "error", err)
				continue
			}
			disabled++
			continue
		}

		target := ports.EmbedTarget{ChannelID: channelID, MessageID: config.Central.EmbedID}
		present := false
		if target.MessageID != 0 {
			present, err = c.embeds.Exists(ctx, target)
			if err != nil {
				slog.Warn("failed to check control panel", "guild", guildID, "error", err)
				continue
			}
		}

		if present {
			if err := c.embeds.RenderIdle(ctx, target); err != nil {
				slog.Warn("failed to reset control panel", "guild", guildID, "error", err)
				continue
			}
			reset++
			continue
		}

		embedID, err := c.embeds.PostIdle(ctx, channelID)
		if err != nil {
			slog.Warn("failed to repost control panel", "guild", guildID, "error", err)
			continue
		}
		if err := c.configs.Upsert(ctx, guildID, domain.GuildConfigPatch{CentralEmbedID: &embedID}); err != nil {
			slog.Warn("failed to store control panel", "guild", guildID, "error", err)
			continue
		}
		reposted++
	}

	slog.Info(
		"central control panels reset",
		"reset", reset,
		"reposted", reposted,
		"disabled", disabled,
	)
	return nil
}

// Config returns the guild's configuration, or the defaults if none was stored.
func (c *CentralService) Config(ctx context.Context, guildID snowflake.ID) (*domain.GuildConfig, error) {
	config, err := c.configs.FindByGuildID(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = domain.NewGuildConfig(guildID)
	}
	return config, nil
}

// SetAutoplay turns autoplay on or off for the guild.
func (c *CentralService) SetAutoplay(ctx context.Context, guildID snowflake.ID, enabled bool) error {
	if err := c.configs.Upsert(ctx, guildID, domain.GuildConfigPatch{Autoplay: &enabled}); err != nil {
		return err
	}
	slog.Info("autoplay updated", "guild", guildID, "enabled", enabled)
	return nil
}

func (c *CentralService) disable(ctx context.Context, guildID snowflake.ID) error {
	enabled := false
	var embedID snowflake.ID
	return c.configs.Upsert(ctx, guildID, domain.GuildConfigPatch{
		CentralEnabled: &enabled,
		CentralEmbedID: &embedID,
	})
}
