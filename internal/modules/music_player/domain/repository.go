package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository defines the interface for storing and retrieving guild voice sessions.
type SessionRepository interface {
	// Get returns the session for the given guild, or nil if not exists.
	Get(guildID snowflake.ID) *GuildVoiceSession

	// Save stores the session, replacing any previous session of the guild.
	Save(session *GuildVoiceSession)

	// Delete removes the session for the given guild.
	Delete(guildID snowflake.ID)
}
