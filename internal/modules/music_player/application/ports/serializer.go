package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// GuildSerializer runs work for a guild one job at a time, in submission order.
// Work for different guilds runs concurrently.
type GuildSerializer interface {
	// Do runs fn on the guild's queue and waits for its result.
	// fn must not call Do for the same guild.
	Do(ctx context.Context, guildID snowflake.ID, fn func(context.Context) error) error

	// Go runs fn on the guild's queue without waiting.
	Go(guildID snowflake.ID, fn func(context.Context))
}
