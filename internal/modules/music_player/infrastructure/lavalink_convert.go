package infrastructure

import (
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

func toLoadResult(result *lavalink.LoadResult) *ports.LoadResult {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &ports.LoadResult{
			Type:   ports.LoadTypeTrack,
			Tracks: []*ports.TrackInfo{toTrackInfo(data)},
		}
	case lavalink.Playlist:
		return &ports.LoadResult{
			Type:         ports.LoadTypePlaylist,
			Tracks:       toTrackInfos(data.Tracks),
			PlaylistName: data.Info.Name,
		}
	case lavalink.Search:
		return &ports.LoadResult{
			Type:   ports.LoadTypeSearch,
			Tracks: toTrackInfos(data),
		}
	case lavalink.Exception:
		return &ports.LoadResult{Type: ports.LoadTypeError}
	default:
		return &ports.LoadResult{Type: ports.LoadTypeEmpty}
	}
}

func toTrackInfos(tracks []lavalink.Track) []*ports.TrackInfo {
	infos := make([]*ports.TrackInfo, len(tracks))
	for i, track := range tracks {
		infos[i] = toTrackInfo(track)
	}
	return infos
}

func toTrackInfo(track lavalink.Track) *ports.TrackInfo {
	info := track.Info
	return &ports.TrackInfo{
		Identifier: info.Identifier,
		Encoded:    track.Encoded,
		Title:      info.Title,
		Author:     info.Author,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		URI:        deref(info.URI),
		ArtworkURL: deref(info.ArtworkURL),
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
}

// toEndReason maps Lavalink end reasons; anything unknown is treated as an
// explicit stop so it never advances the queue.
func toEndReason(reason lavalink.TrackEndReason) domain.TrackEndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return domain.TrackEndFinished
	case lavalink.TrackEndReasonLoadFailed:
		return domain.TrackEndLoadFailed
	case lavalink.TrackEndReasonReplaced:
		return domain.TrackEndReplaced
	case lavalink.TrackEndReasonCleanup:
		return domain.TrackEndCleanup
	default:
		return domain.TrackEndStopped
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
