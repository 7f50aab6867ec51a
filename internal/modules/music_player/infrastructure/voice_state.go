package infrastructure

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
)

// voicePermissions are required for the bot to play in a channel.
const voicePermissions = discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak

// VoiceStateProvider provides Discord voice state, permission and role information.
type VoiceStateProvider struct {
	session *discordgo.Session
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{
		session: session,
	}
}

// GetUserVoiceChannel returns the voice channel ID that the user is currently in.
// Returns 0 if the user is not in a voice channel.
func (v *VoiceStateProvider) GetUserVoiceChannel(
	guildID, userID snowflake.ID,
) (snowflake.ID, error) {
	// Get guild from state
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, err
	}

	// Find user's voice state
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID, err := snowflake.Parse(vs.ChannelID)
			if err != nil {
				return 0, err
			}
			return channelID, nil
		}
	}

	return 0, nil
}

// CanJoin returns true if the bot may connect and speak in the voice channel.
func (v *VoiceStateProvider) CanJoin(guildID, channelID snowflake.ID) (bool, error) {
	if v.session.State.User == nil {
		return false, fmt.Errorf("bot user not ready")
	}

	perms, err := v.session.State.UserChannelPermissions(
		v.session.State.User.ID,
		channelID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to compute permissions in guild %d: %w", guildID, err)
	}

	return perms&voicePermissions == voicePermissions, nil
}

// MemberRoles returns the role IDs held by the user in the guild.
// The state cache is consulted first; the member is fetched over REST if missing.
func (v *VoiceStateProvider) MemberRoles(guildID, userID snowflake.ID) ([]snowflake.ID, error) {
	member, err := v.session.State.Member(guildID.String(), userID.String())
	if err != nil {
		member, err = v.session.GuildMember(guildID.String(), userID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch guild member: %w", err)
		}
	}

	return parseRoleIDs(member.Roles)
}

func parseRoleIDs(roles []string) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(roles))
	for _, role := range roles {
		id, err := snowflake.Parse(role)
		if err != nil {
			return nil, fmt.Errorf("invalid role ID %q: %w", role, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Ensure VoiceStateProvider implements the voice state ports.
var (
	_ ports.VoiceStateProvider = (*VoiceStateProvider)(nil)
	_ ports.PermissionChecker  = (*VoiceStateProvider)(nil)
	_ ports.MemberRoleProvider = (*VoiceStateProvider)(nil)
)
