package domain

import "strings"

// TrackSource is the platform a track was resolved from, as reported by Lavalink.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSpotify    TrackSource = "spotify"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceTwitch     TrackSource = "twitch"
	TrackSourceBandcamp   TrackSource = "bandcamp"
	TrackSourceHTTP       TrackSource = "http"
	TrackSourceOther      TrackSource = "other"
)

var trackSourceLabels = map[TrackSource]string{
	TrackSourceYouTube:    "YouTube",
	TrackSourceSpotify:    "Spotify",
	TrackSourceSoundCloud: "SoundCloud",
	TrackSourceTwitch:     "Twitch",
	TrackSourceBandcamp:   "Bandcamp",
	TrackSourceHTTP:       "Direct link",
}

// ParseTrackSource maps a Lavalink source name to a TrackSource.
// Unknown names map to TrackSourceOther.
func ParseTrackSource(name string) TrackSource {
	source := TrackSource(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := trackSourceLabels[source]; ok {
		return source
	}
	return TrackSourceOther
}

// Label returns the platform name shown on the control panel.
func (s TrackSource) Label() string {
	if label, ok := trackSourceLabels[s]; ok {
		return label
	}
	return "Other"
}

// HasRadioMix reports whether related tracks can be resolved as a radio mix
// seeded by the track identifier.
func (s TrackSource) HasRadioMix() bool {
	return s == TrackSourceYouTube
}
