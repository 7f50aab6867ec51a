package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// VoiceStateProvider defines the interface for getting Discord voice state information.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the voice channel ID the user is currently in.
	// Returns 0 if the user is not in a voice channel.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}

// PermissionChecker reports what the bot may do in a channel.
type PermissionChecker interface {
	// CanJoin returns true if the bot may connect and speak in the voice channel.
	CanJoin(guildID, channelID snowflake.ID) (bool, error)
}

// MemberRoleProvider looks up guild member roles.
type MemberRoleProvider interface {
	// MemberRoles returns the role IDs held by the user in the guild.
	MemberRoles(guildID, userID snowflake.ID) ([]snowflake.ID, error)
}
