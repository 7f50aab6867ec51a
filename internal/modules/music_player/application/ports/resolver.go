package ports

import (
	"context"
	"time"
)

// TrackResolver turns a URL or a prefixed search such as "ytsearch:..." into tracks.
type TrackResolver interface {
	LoadTracks(ctx context.Context, query string) (*LoadResult, error)
}

// LoadType is the shape of a resolver answer.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// LoadResult is what a query resolved to. PlaylistName is set for LoadTypePlaylist.
type LoadResult struct {
	Type         LoadType
	Tracks       []*TrackInfo
	PlaylistName string
}

// TrackInfo is a resolved track before it is attributed to a requester.
type TrackInfo struct {
	Identifier string
	Encoded    string
	Title      string
	Author     string
	Duration   time.Duration
	URI        string
	ArtworkURL string
	SourceName string
	IsStream   bool
}
