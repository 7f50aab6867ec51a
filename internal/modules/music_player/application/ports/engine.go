package ports

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// VoiceConnection moves the bot between voice channels of a guild.
type VoiceConnection interface {
	// JoinChannel connects to channelID, moving there if already connected elsewhere
	// in the guild. It returns once the engine has the voice session.
	JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error
	// LeaveChannel disconnects from voice and destroys the guild's player.
	LeaveChannel(ctx context.Context, guildID snowflake.ID) error
}

// AudioPlayer drives the playback engine's player for a guild.
// Playback state beyond position is owned by the session, not the engine.
type AudioPlayer interface {
	// Available returns false when no playback node is reachable.
	Available() bool

	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error
	Stop(ctx context.Context, guildID snowflake.ID) error
	Pause(ctx context.Context, guildID snowflake.ID) error
	Resume(ctx context.Context, guildID snowflake.ID) error

	// Seek moves playback of the current track to position.
	Seek(ctx context.Context, guildID snowflake.ID, position time.Duration) error
	// SetVolume sets the playback volume in percent.
	SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error

	// Position returns the live playback position of the current track.
	Position(guildID snowflake.ID) time.Duration
}
