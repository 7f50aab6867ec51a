package ports

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// SpamKey identifies a member of a guild.
type SpamKey struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
}

// SpamGuard rate-limits messages per member.
type SpamGuard interface {
	// Allow reports whether a message sent at now is within the limit.
	Allow(key SpamKey, now time.Time) bool
}
