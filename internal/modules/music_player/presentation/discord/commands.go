package discord

import "github.com/bwmarrin/discordgo"

var manageChannels int64 = discordgo.PermissionManageChannels

// Commands returns all slash commands for the music player module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "join",
			Description: "Join your voice channel",
		},
		{
			Name:        "leave",
			Description: "Leave the voice channel and clear the queue",
		},
		{
			Name:        "play",
			Description: "Play a track from URL or search",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "query",
					Description:  "URL or search term",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "stop",
			Description: "Stop playback and clear the queue",
		},
		{
			Name:        "pause",
			Description: "Pause playback",
		},
		{
			Name:        "resume",
			Description: "Resume playback",
		},
		{
			Name:        "skip",
			Description: "Skip the current track",
		},
		{
			Name:        "seek",
			Description: "Seek to a position in the current track",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "position",
					Description: "Timestamp such as 1:30 or 1:02:03",
					Required:    true,
				},
			},
		},
		{
			Name:        "volume",
			Description: "Set the playback volume",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "Volume between 0 and 100",
					Required:    true,
					MinValue:    floatPtr(0),
					MaxValue:    100,
				},
			},
		},
		{
			Name:        "loop",
			Description: "Set the loop mode (or cycle through modes if no option provided)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Loop mode to set (omit to cycle through modes)",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Off", Value: "off"},
						{Name: "Track", Value: "track"},
						{Name: "Queue", Value: "queue"},
					},
				},
			},
		},
		{
			Name:        "queue",
			Description: "Show the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page number",
					Required:    false,
					MinValue:    floatPtr(1),
				},
			},
		},
		{
			Name:        "nowplaying",
			Description: "Show the current track",
		},
		{
			Name:        "move",
			Description: "Move a track to another position in the queue",
			Options: []*discordgo.ApplicationCommandOption{
				positionOption("from", "Current position of the track"),
				positionOption("to", "New position of the track"),
			},
		},
		{
			Name:        "remove",
			Description: "Remove a track from the queue",
			Options: []*discordgo.ApplicationCommandOption{
				positionOption("position", "Position of the track to remove (as shown in /queue)"),
			},
		},
		{
			Name:        "jump",
			Description: "Skip ahead to a track in the queue",
			Options: []*discordgo.ApplicationCommandOption{
				positionOption("position", "Position of the track to play (as shown in /queue)"),
			},
		},
		{
			Name:        "clear",
			Description: "Clear the upcoming tracks",
		},
		{
			Name:        "shuffle",
			Description: "Shuffle the upcoming tracks",
		},
		{
			Name:        "autoplay",
			Description: "Keep playing related tracks when the queue runs out",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Whether autoplay is on",
					Required:    true,
				},
			},
		},
		{
			Name:                     "setup-central",
			Description:              "Create the music control panel",
			DefaultMemberPermissions: &manageChannels,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Text channel for the panel (defaults to this channel)",
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildText,
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "voice_channel",
					Description: "Voice channel reserved for the panel",
					ChannelTypes: []discordgo.ChannelType{
						discordgo.ChannelTypeGuildVoice,
						discordgo.ChannelTypeGuildStageVoice,
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "allowed_role",
					Description: "Only members with this role may request songs in the panel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "delete_non_music",
					Description: "Delete messages in the panel channel that are not song requests",
				},
			},
		},
		{
			Name:                     "disable-central",
			Description:              "Disable the music control panel",
			DefaultMemberPermissions: &manageChannels,
		},
	}
}

func positionOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionInteger,
		Name:         name,
		Description:  description,
		Required:     true,
		MinValue:     floatPtr(1),
		Autocomplete: true,
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
