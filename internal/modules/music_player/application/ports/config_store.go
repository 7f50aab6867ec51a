package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// GuildConfigStore persists per-guild configuration.
type GuildConfigStore interface {
	// FindByGuildID returns the configuration of a guild, or nil if none was stored.
	FindByGuildID(ctx context.Context, guildID snowflake.ID) (*domain.GuildConfig, error)

	// Upsert applies a partial update, creating the configuration if needed.
	Upsert(ctx context.Context, guildID snowflake.ID, patch domain.GuildConfigPatch) error

	// ListCentralEnabled returns every configuration with the central system enabled.
	ListCentralEnabled(ctx context.Context) ([]*domain.GuildConfig, error)
}
