package discord

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
)

// Controller is the part of usecases.MusicController the handlers call.
type Controller interface {
	Join(ctx context.Context, input usecases.JoinInput) (*usecases.JoinOutput, error)
	Play(ctx context.Context, input usecases.PlayInput) (*usecases.PlayOutput, error)
	Control(ctx context.Context, input usecases.ControlInput) (*usecases.TransportOutput, error)
	Leave(ctx context.Context, input usecases.LeaveInput) error
	ListQueue(ctx context.Context, input usecases.QueueListInput) (*usecases.QueueListOutput, error)
	NowPlaying(ctx context.Context, guildID snowflake.ID) (*usecases.NowPlayingOutput, error)
	SetupCentral(ctx context.Context, input usecases.SetupCentralInput) (*usecases.SetupCentralOutput, error)
	DisableCentral(ctx context.Context, guildID snowflake.ID) error
	SetAutoplay(ctx context.Context, guildID snowflake.ID, enabled bool) error
	CentralConfig(ctx context.Context, guildID snowflake.ID) (*usecases.GuildConfig, error)
}

var _ Controller = (*usecases.MusicController)(nil)
