package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Track represents a playable audio track.
type Track struct {
	Encoded     string // Lavalink encoded track data
	Identifier  string // source-specific identifier, e.g. a YouTube video ID
	Title       string
	Author      string
	Duration    time.Duration
	URI         string
	ArtworkURL  string
	SourceName  string // e.g., "youtube", "spotify", "soundcloud"
	IsStream    bool
	RequesterID snowflake.ID // Discord user who added the track
	EnqueuedAt  time.Time
}

// Source returns the parsed TrackSource for this track.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// WithRequester returns a copy of the track attributed to the given requester.
// Each queue slot owns its own copy, so the requester can never change under a slot.
func (t *Track) WithRequester(requesterID snowflake.ID) *Track {
	clone := *t
	clone.RequesterID = requesterID
	clone.EnqueuedAt = time.Now().UTC()
	return &clone
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.Encoded != "" && t.Title != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}
	return FormatDuration(t.Duration)
}

// FormatDuration formats d as mm:ss, or hh:mm:ss when it spans an hour or more.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

// ErrInvalidTimestamp is returned by ParseTimestamp for malformed input.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ParseTimestamp parses "ss", "mm:ss" or "hh:mm:ss". Components after the
// first must be below 60.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return 0, ErrInvalidTimestamp
	}

	var total time.Duration
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || (i > 0 && n >= 60) {
			return 0, ErrInvalidTimestamp
		}
		total = total*60 + time.Duration(n)*time.Second
	}
	return total, nil
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
