package usecases

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

const DefaultPageSize = 10

// QueueListInput contains the input for the QueueList use case.
type QueueListInput struct {
	GuildID  snowflake.ID
	Page     int // 1-indexed page number
	PageSize int // Items per page (optional, defaults to 10)
}

// QueueListOutput contains the result of the QueueList use case.
type QueueListOutput struct {
	CurrentTrack *domain.Track
	Tracks       []*domain.Track
	// StartPosition is the 1-based queue position of Tracks[0].
	StartPosition int
	TotalTracks   int
	TotalDuration time.Duration
	CurrentPage   int
	TotalPages    int
	LoopMode      domain.LoopMode
	Paused        bool
	Volume        int
}

// NowPlayingOutput contains the result of the NowPlaying use case.
type NowPlayingOutput struct {
	Projection *domain.DisplayProjection
}

// QueueService provides read-only views of a guild's session.
type QueueService struct {
	repo        domain.SessionRepository
	audioPlayer ports.AudioPlayer
}

// NewQueueService creates a new QueueService.
func NewQueueService(repo domain.SessionRepository, audioPlayer ports.AudioPlayer) *QueueService {
	return &QueueService{
		repo:        repo,
		audioPlayer: audioPlayer,
	}
}

// List returns one page of the upcoming tracks along with the current track.
func (q *QueueService) List(input QueueListInput) (*QueueListOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	page := input.Page
	if page <= 0 {
		page = 1
	}

	queued := session.Queue.List()
	totalTracks := len(queued)
	totalPages := max((totalTracks+pageSize-1)/pageSize, 1)
	page = min(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, totalTracks)

	var total time.Duration
	for _, track := range queued {
		if !track.IsStream {
			total += track.Duration
		}
	}

	return &QueueListOutput{
		CurrentTrack:  session.Current(),
		Tracks:        queued[start:end],
		StartPosition: start + 1,
		TotalTracks:   totalTracks,
		TotalDuration: total,
		CurrentPage:   page,
		TotalPages:    totalPages,
		LoopMode:      session.LoopMode(),
		Paused:        session.IsPaused(),
		Volume:        session.Volume(),
	}, nil
}

// NowPlaying returns what is playing in the guild.
func (q *QueueService) NowPlaying(guildID snowflake.ID) (*NowPlayingOutput, error) {
	session := q.repo.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	projection := domain.NewDisplayProjection(session, q.audioPlayer.Position(guildID))
	if projection == nil {
		return nil, ErrNotPlaying
	}
	return &NowPlayingOutput{Projection: projection}, nil
}
