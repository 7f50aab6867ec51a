package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// ProjectionRefresher keeps the now-playing surfaces of a guild in sync with its session.
type ProjectionRefresher interface {
	// Refresh re-renders the surfaces from the current session.
	// A session without a current track renders as idle.
	Refresh(ctx context.Context, guildID snowflake.ID)

	// Idle renders the idle state and restores annotated voice channels.
	Idle(ctx context.Context, guildID snowflake.ID)
}

// EmbedSink renders the persistent control panel of a guild.
type EmbedSink interface {
	// RenderActive edits the panel to show the projection with controls.
	RenderActive(ctx context.Context, target EmbedTarget, projection *domain.DisplayProjection) error

	// RenderIdle edits the panel to the idle panel without controls.
	RenderIdle(ctx context.Context, target EmbedTarget) error

	// PostIdle posts a new idle panel and returns its message ID.
	PostIdle(ctx context.Context, channelID snowflake.ID) (snowflake.ID, error)

	// Exists reports whether the panel message is still present.
	Exists(ctx context.Context, target EmbedTarget) (bool, error)
}

// ChannelInspector reads channel metadata.
type ChannelInspector interface {
	// Exists reports whether the channel is still present.
	Exists(ctx context.Context, channelID snowflake.ID) (bool, error)

	// Snapshot returns the current name and topic of the channel.
	Snapshot(ctx context.Context, channelID snowflake.ID) (ChannelSnapshot, error)
}

// VoiceMetadataStrategy is one way of annotating a voice channel with the playing track.
type VoiceMetadataStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Annotate shows title on the channel.
	Annotate(ctx context.Context, channelID snowflake.ID, title string, original ChannelSnapshot) error

	// Restore reverts the channel to its original metadata.
	Restore(ctx context.Context, channelID snowflake.ID, original ChannelSnapshot) error
}

// PresenceSink sets the bot's global presence.
type PresenceSink interface {
	// SetListening shows the title as the track being listened to.
	SetListening(title string) error

	// SetIdle restores the default presence.
	SetIdle() error
}

// ChannelSnapshot holds the user-visible metadata of a voice channel.
type ChannelSnapshot struct {
	Name  string
	Topic string
}

// EmbedTarget identifies the persistent control-panel message of a guild.
type EmbedTarget struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}
