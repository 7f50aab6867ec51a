package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the track was stopped by the user.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the track was cleaned up.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvanceQueue returns true if this end reason should advance the queue.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// LifecycleEvent is a playback engine event for one guild.
// Events of a guild are handled one at a time, in emission order.
type LifecycleEvent interface {
	EventGuildID() snowflake.ID
}

// TrackStartedEvent is emitted when the engine starts rendering a track.
type TrackStartedEvent struct {
	GuildID snowflake.ID
	Encoded string
}

// TrackEndedEvent is emitted when a track stops rendering.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	Encoded string
	Reason  TrackEndReason
}

// TrackExceptionEvent is emitted when the engine fails while rendering a track.
type TrackExceptionEvent struct {
	GuildID snowflake.ID
	Message string
}

// TrackStuckEvent is emitted when a track stops providing audio.
type TrackStuckEvent struct {
	GuildID snowflake.ID
}

// PlayerDisconnectedEvent is emitted when the bot leaves voice in a guild.
type PlayerDisconnectedEvent struct {
	GuildID snowflake.ID
}

func (e TrackStartedEvent) EventGuildID() snowflake.ID       { return e.GuildID }
func (e TrackEndedEvent) EventGuildID() snowflake.ID         { return e.GuildID }
func (e TrackExceptionEvent) EventGuildID() snowflake.ID     { return e.GuildID }
func (e TrackStuckEvent) EventGuildID() snowflake.ID         { return e.GuildID }
func (e PlayerDisconnectedEvent) EventGuildID() snowflake.ID { return e.GuildID }
