package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// EnqueueInput contains the input for the Enqueue use case.
type EnqueueInput struct {
	GuildID     snowflake.ID
	RequesterID snowflake.ID
	Query       string
}

// EnqueueOutput contains the result of the Enqueue use case.
type EnqueueOutput struct {
	// Tracks are the tracks appended, in queue order.
	Tracks       []*domain.Track
	IsPlaylist   bool
	PlaylistName string

	// Started is the track that began playing because the session was idle, or nil.
	Started *domain.Track

	// Position is the 1-based queue position of the first appended track,
	// or 0 if it started playing right away.
	Position int
}

// EnqueueService resolves queries and appends the results to a guild's queue.
type EnqueueService struct {
	repo           domain.SessionRepository
	trackResolver  ports.TrackResolver
	playback       *PlaybackService
	projection     ports.ProjectionRefresher
	resolveTimeout time.Duration
}

// NewEnqueueService creates a new EnqueueService.
func NewEnqueueService(
	repo domain.SessionRepository,
	trackResolver ports.TrackResolver,
	playback *PlaybackService,
	projection ports.ProjectionRefresher,
	resolveTimeout time.Duration,
) *EnqueueService {
	if resolveTimeout <= 0 {
		resolveTimeout = DefaultResolveTimeout
	}
	return &EnqueueService{
		repo:           repo,
		trackResolver:  trackResolver,
		playback:       playback,
		projection:     projection,
		resolveTimeout: resolveTimeout,
	}
}

// Enqueue resolves the query and appends the result to the queue.
// A single track or the first search hit is appended; a playlist is appended whole.
// Playback starts if the session was idle.
func (e *EnqueueService) Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error) {
	session := e.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	query := domain.NewSearchQuery(input.Query)
	if !query.IsValid() {
		return nil, ErrNoResults
	}

	resolveCtx, cancel := context.WithTimeout(ctx, e.resolveTimeout)
	defer cancel()

	result, err := e.trackResolver.LoadTracks(resolveCtx, query.Identifier())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("track resolution timed out", "guild", input.GuildID, "query", input.Query)
		}
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	output := &EnqueueOutput{}
	switch result.Type {
	case ports.LoadTypePlaylist:
		output.IsPlaylist = true
		output.PlaylistName = result.PlaylistName
		for _, info := range result.Tracks {
			output.Tracks = append(output.Tracks, toDomainTrack(info, input.RequesterID))
		}
	case ports.LoadTypeTrack, ports.LoadTypeSearch:
		if len(result.Tracks) > 0 {
			output.Tracks = []*domain.Track{toDomainTrack(result.Tracks[0], input.RequesterID)}
		}
	case ports.LoadTypeError:
		return nil, ErrLoadFailed
	}

	if len(output.Tracks) == 0 {
		return nil, ErrNoResults
	}

	session.Queue.Append(output.Tracks...)
	output.Position = session.Queue.Len() - len(output.Tracks) + 1

	slog.Info(
		"tracks enqueued",
		"guild", input.GuildID,
		"count", len(output.Tracks),
		"playlist", output.IsPlaylist,
	)

	started, err := e.playback.StartIfIdle(ctx, session)
	if err != nil {
		return nil, err
	}
	if started != nil {
		output.Started = started
		output.Position = 0
		return output, nil
	}

	e.projection.Refresh(ctx, input.GuildID)
	return output, nil
}

func toDomainTrack(info *ports.TrackInfo, requesterID snowflake.ID) *domain.Track {
	track := &domain.Track{
		Encoded:    info.Encoded,
		Identifier: info.Identifier,
		Title:      info.Title,
		Author:     info.Author,
		Duration:   info.Duration,
		URI:        info.URI,
		ArtworkURL: info.ArtworkURL,
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
	return track.WithRequester(requesterID)
}
