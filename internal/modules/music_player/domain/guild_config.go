package domain

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// DefaultPrefix is the text-command prefix used when a guild has not set one.
const DefaultPrefix = "!"

// CentralSetup configures the central control-panel channel of a guild.
type CentralSetup struct {
	Enabled                bool
	ChannelID              snowflake.ID
	EmbedID                snowflake.ID
	VoiceChannelID         snowflake.ID // zero when no voice channel is reserved
	AllowedRoleIDs         []snowflake.ID
	DeleteNonMusicMessages bool
}

// IsCentralChannel returns true if channelID is the enabled central text channel.
func (c CentralSetup) IsCentralChannel(channelID snowflake.ID) bool {
	return c.Enabled && c.ChannelID != 0 && c.ChannelID == channelID
}

// IsCentralVoiceChannel returns true if channelID is the reserved central voice channel.
func (c CentralSetup) IsCentralVoiceChannel(channelID snowflake.ID) bool {
	return c.Enabled && c.VoiceChannelID != 0 && c.VoiceChannelID == channelID
}

// GuildSettings holds general per-guild preferences.
type GuildSettings struct {
	Prefix        string
	Autoplay      bool
	DefaultVolume int
	DJRoleID      snowflake.ID // zero when no DJ role is configured
}

// GuildConfig is the stored configuration of a guild.
type GuildConfig struct {
	GuildID  snowflake.ID
	Central  CentralSetup
	Settings GuildSettings
}

// NewGuildConfig returns the configuration a guild has before anything was stored.
func NewGuildConfig(guildID snowflake.ID) *GuildConfig {
	return &GuildConfig{
		GuildID: guildID,
		Settings: GuildSettings{
			Prefix:        DefaultPrefix,
			DefaultVolume: DefaultVolume,
		},
	}
}

// CanUseMusic reports whether a member with roles may control playback.
// Any member may when no DJ role is configured.
func (c *GuildConfig) CanUseMusic(roles []snowflake.ID) bool {
	if c == nil || c.Settings.DJRoleID == 0 {
		return true
	}
	return slices.Contains(roles, c.Settings.DJRoleID)
}

// CanUseCentralSystem reports whether a member with roles may request songs through
// the central channel. An empty allow-list means unrestricted.
func (c *GuildConfig) CanUseCentralSystem(roles []snowflake.ID) bool {
	if c == nil || !c.Central.Enabled {
		return false
	}
	if len(c.Central.AllowedRoleIDs) == 0 {
		return true
	}
	for _, role := range roles {
		if slices.Contains(c.Central.AllowedRoleIDs, role) {
			return true
		}
	}
	return false
}

// GuildConfigPatch is a partial update. Nil fields are left untouched.
type GuildConfigPatch struct {
	CentralEnabled         *bool
	CentralChannelID       *snowflake.ID
	CentralEmbedID         *snowflake.ID
	CentralVoiceChannelID  *snowflake.ID
	CentralAllowedRoleIDs  *[]snowflake.ID
	DeleteNonMusicMessages *bool

	Prefix        *string
	Autoplay      *bool
	DefaultVolume *int
	DJRoleID      *snowflake.ID
}

// Apply writes the non-nil fields of p onto c.
func (p GuildConfigPatch) Apply(c *GuildConfig) {
	if p.CentralEnabled != nil {
		c.Central.Enabled = *p.CentralEnabled
	}
	if p.CentralChannelID != nil {
		c.Central.ChannelID = *p.CentralChannelID
	}
	if p.CentralEmbedID != nil {
		c.Central.EmbedID = *p.CentralEmbedID
	}
	if p.CentralVoiceChannelID != nil {
		c.Central.VoiceChannelID = *p.CentralVoiceChannelID
	}
	if p.CentralAllowedRoleIDs != nil {
		c.Central.AllowedRoleIDs = slices.Clone(*p.CentralAllowedRoleIDs)
	}
	if p.DeleteNonMusicMessages != nil {
		c.Central.DeleteNonMusicMessages = *p.DeleteNonMusicMessages
	}
	if p.Prefix != nil {
		c.Settings.Prefix = *p.Prefix
	}
	if p.Autoplay != nil {
		c.Settings.Autoplay = *p.Autoplay
	}
	if p.DefaultVolume != nil {
		c.Settings.DefaultVolume = ClampVolume(*p.DefaultVolume)
	}
	if p.DJRoleID != nil {
		c.Settings.DJRoleID = *p.DJRoleID
	}
}
