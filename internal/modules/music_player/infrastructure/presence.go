package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
)

// IdleActivity is the activity shown while nothing is playing.
const IdleActivity = "🎵 Ready for music!"

var _ ports.PresenceSink = (*DiscordPresence)(nil)

// DiscordPresence sets the bot's activity through the gateway.
type DiscordPresence struct {
	session *discordgo.Session
}

// NewDiscordPresence creates a new DiscordPresence.
func NewDiscordPresence(session *discordgo.Session) *DiscordPresence {
	return &DiscordPresence{session: session}
}

// SetListening shows "Listening to 🎵 title".
func (p *DiscordPresence) SetListening(title string) error {
	return p.session.UpdateStatusComplex(listeningStatus(title))
}

// SetIdle shows the default "Watching 🎵 Ready for music!" activity.
func (p *DiscordPresence) SetIdle() error {
	return p.session.UpdateStatusComplex(idleStatus())
}

func listeningStatus(title string) discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{
			{
				Name: nowPlayingLabel(title, 128),
				Type: discordgo.ActivityTypeListening,
			},
		},
	}
}

func idleStatus() discordgo.UpdateStatusData {
	return discordgo.UpdateStatusData{
		Status: string(discordgo.StatusOnline),
		Activities: []*discordgo.Activity{
			{
				Name: IdleActivity,
				Type: discordgo.ActivityTypeWatching,
			},
		},
	}
}
