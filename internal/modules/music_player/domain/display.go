package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// DisplayProjection is what the now-playing surfaces show for a guild.
// A nil *DisplayProjection means the guild is idle.
type DisplayProjection struct {
	Identifier  string
	Source      TrackSource
	Title       string
	Author      string
	URI         string
	ArtworkURL  string
	IsStream    bool
	Duration    time.Duration
	Position    time.Duration
	Paused      bool
	Volume      int
	LoopMode    LoopMode
	QueueLength int
	RequesterID snowflake.ID
}

// NewDisplayProjection derives the projection of a session.
// It returns nil when the session is absent or has no current track.
func NewDisplayProjection(session *GuildVoiceSession, position time.Duration) *DisplayProjection {
	if session == nil || session.Current() == nil {
		return nil
	}

	track := session.Current()
	return &DisplayProjection{
		Identifier:  track.Identifier,
		Source:      track.Source(),
		Title:       track.Title,
		Author:      track.Author,
		URI:         track.URI,
		ArtworkURL:  track.ArtworkURL,
		IsStream:    track.IsStream,
		Duration:    track.Duration,
		Position:    position,
		Paused:      session.IsPaused(),
		Volume:      session.Volume(),
		LoopMode:    session.LoopMode(),
		QueueLength: session.Queue.Len(),
		RequesterID: track.RequesterID,
	}
}

// FormattedDuration returns the track length, or "LIVE" for streams.
func (p *DisplayProjection) FormattedDuration() string {
	if p.IsStream {
		return "LIVE"
	}
	return FormatDuration(p.Duration)
}
