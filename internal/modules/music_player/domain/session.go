package domain

import "github.com/disgoorg/snowflake/v2"

// Volume bounds in percent.
const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 50
)

// GuildVoiceSession is the voice and playback state of one guild.
// At most one session exists per guild. Callers serialize access per guild.
type GuildVoiceSession struct {
	GuildID snowflake.ID
	Queue   Queue

	voiceChannelID    snowflake.ID
	textSinkChannelID snowflake.ID
	current           *Track
	lastTrack         *Track
	playing           bool
	paused            bool
	volume            int
	loopMode          LoopMode
}

// NewGuildVoiceSession creates a session joined to voiceChannelID.
// volume is clamped to [MinVolume, MaxVolume].
func NewGuildVoiceSession(
	guildID, voiceChannelID, textSinkChannelID snowflake.ID,
	volume int,
) *GuildVoiceSession {
	return &GuildVoiceSession{
		GuildID:           guildID,
		Queue:             NewQueue(),
		voiceChannelID:    voiceChannelID,
		textSinkChannelID: textSinkChannelID,
		volume:            ClampVolume(volume),
		loopMode:          LoopModeOff,
	}
}

// ClampVolume limits v to [MinVolume, MaxVolume].
func ClampVolume(v int) int {
	return max(MinVolume, min(MaxVolume, v))
}

// VoiceChannelID returns the joined voice channel.
func (s *GuildVoiceSession) VoiceChannelID() snowflake.ID {
	return s.voiceChannelID
}

// MoveTo relocates the session to another voice channel, keeping queue and current track.
func (s *GuildVoiceSession) MoveTo(channelID snowflake.ID) {
	s.voiceChannelID = channelID
}

// TextSinkChannelID returns the channel used for transport notifications.
func (s *GuildVoiceSession) TextSinkChannelID() snowflake.ID {
	return s.textSinkChannelID
}

// SetTextSinkChannelID sets the channel used for transport notifications.
func (s *GuildVoiceSession) SetTextSinkChannelID(channelID snowflake.ID) {
	s.textSinkChannelID = channelID
}

// Current returns the track that is currently playing, or nil.
func (s *GuildVoiceSession) Current() *Track {
	return s.current
}

// LastTrack returns the most recent track that occupied the current slot.
func (s *GuildVoiceSession) LastTrack() *Track {
	return s.lastTrack
}

// IsIdle returns true when nothing is playing and playback is not paused.
func (s *GuildVoiceSession) IsIdle() bool {
	return s.current == nil && !s.paused
}

// IsPlaying returns true once the engine has confirmed the current track started.
func (s *GuildVoiceSession) IsPlaying() bool {
	return s.playing
}

// SetPlaying records whether the engine is rendering the current track.
func (s *GuildVoiceSession) SetPlaying(playing bool) {
	s.playing = playing
}

// IsPaused returns true if playback is paused.
func (s *GuildVoiceSession) IsPaused() bool {
	return s.paused
}

// SetPaused sets the paused state.
func (s *GuildVoiceSession) SetPaused(paused bool) {
	s.paused = paused
}

// Volume returns the playback volume in percent.
func (s *GuildVoiceSession) Volume() int {
	return s.volume
}

// SetVolume sets the playback volume, clamped to [MinVolume, MaxVolume].
func (s *GuildVoiceSession) SetVolume(volume int) {
	s.volume = ClampVolume(volume)
}

// LoopMode returns the loop mode.
func (s *GuildVoiceSession) LoopMode() LoopMode {
	return s.loopMode
}

// SetLoopMode sets the loop mode.
func (s *GuildVoiceSession) SetLoopMode(mode LoopMode) {
	s.loopMode = mode
}

// CycleLoopMode advances the loop mode and returns the new mode.
func (s *GuildVoiceSession) CycleLoopMode() LoopMode {
	s.loopMode = s.loopMode.Next()
	return s.loopMode
}

// Start places track in the current slot.
func (s *GuildVoiceSession) Start(track *Track) {
	s.current = track
	s.lastTrack = track
	s.paused = false
	s.playing = false
}

// Advance moves to the next track after the current one finished, honoring the loop mode.
// It returns nil when nothing is left to play.
func (s *GuildVoiceSession) Advance() *Track {
	if s.loopMode == LoopModeTrack && s.current != nil {
		s.playing = false
		return s.current
	}
	return s.Skip()
}

// Skip moves to the next queued track regardless of track looping.
// In queue loop mode the outgoing track is re-appended to the end of the queue.
// It returns nil when nothing is left to play.
func (s *GuildVoiceSession) Skip() *Track {
	if s.loopMode == LoopModeQueue && s.current != nil {
		s.Queue.Append(s.current)
	}
	next := s.Queue.PopFront()
	s.current = nil
	s.playing = false
	s.paused = false
	if next != nil {
		s.Start(next)
	}
	return next
}

// Halt empties the current slot and resets the transport without touching the queue.
func (s *GuildVoiceSession) Halt() {
	s.current = nil
	s.playing = false
	s.paused = false
}
