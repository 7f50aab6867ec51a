package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// DefaultResolveTimeout bounds how long a query may take to resolve.
const DefaultResolveTimeout = 12 * time.Second

// PlaybackService moves sessions from one track to the next.
type PlaybackService struct {
	repo           domain.SessionRepository
	audioPlayer    ports.AudioPlayer
	trackResolver  ports.TrackResolver
	configs        ports.GuildConfigStore
	sessions       *SessionService
	projection     ports.ProjectionRefresher
	resolveTimeout time.Duration
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.SessionRepository,
	audioPlayer ports.AudioPlayer,
	trackResolver ports.TrackResolver,
	configs ports.GuildConfigStore,
	sessions *SessionService,
	projection ports.ProjectionRefresher,
	resolveTimeout time.Duration,
) *PlaybackService {
	if resolveTimeout <= 0 {
		resolveTimeout = DefaultResolveTimeout
	}
	return &PlaybackService{
		repo:           repo,
		audioPlayer:    audioPlayer,
		trackResolver:  trackResolver,
		configs:        configs,
		sessions:       sessions,
		projection:     projection,
		resolveTimeout: resolveTimeout,
	}
}

// Advance continues playback after the current track finished, honoring the loop mode.
// It returns nil when the queue ran out and the session ended.
func (p *PlaybackService) Advance(ctx context.Context, guildID snowflake.ID) (*domain.Track, error) {
	session := p.repo.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}
	return p.playFrom(ctx, session, session.Advance())
}

// PlayNext skips to the next queued track regardless of track looping.
// It returns nil when the queue ran out and the session ended.
func (p *PlaybackService) PlayNext(
	ctx context.Context,
	session *domain.GuildVoiceSession,
) (*domain.Track, error) {
	return p.playFrom(ctx, session, session.Skip())
}

// StartIfIdle starts the first queued track when nothing is playing.
// It returns nil if the session was not idle.
func (p *PlaybackService) StartIfIdle(
	ctx context.Context,
	session *domain.GuildVoiceSession,
) (*domain.Track, error) {
	if !session.IsIdle() {
		return nil, nil
	}
	next := session.Queue.PopFront()
	if next == nil {
		return nil, nil
	}
	session.Start(next)

	started, err := p.playFrom(ctx, session, next)
	if err != nil {
		// Keep the request so a later play or skip can still reach it.
		session.Queue.Prepend(next)
		return nil, err
	}
	return started, nil
}

// playFrom renders next, or ends the queue when next is nil.
func (p *PlaybackService) playFrom(
	ctx context.Context,
	session *domain.GuildVoiceSession,
	next *domain.Track,
) (*domain.Track, error) {
	guildID := session.GuildID

	if next == nil {
		next = p.autoplayTrack(ctx, session)
		if next == nil {
			slog.Info("queue ended", "guild", guildID)
			if err := p.sessions.Destroy(ctx, guildID); err != nil {
				return nil, err
			}
			return nil, nil
		}
		session.Start(next)
	}

	if err := p.audioPlayer.Play(ctx, guildID, next); err != nil {
		session.Halt()
		p.projection.Refresh(ctx, guildID)
		return nil, fmt.Errorf("failed to play track: %w", err)
	}

	slog.Debug("playing track", "guild", guildID, "title", next.Title)
	p.projection.Refresh(ctx, guildID)
	return next, nil
}

// autoplayTrack resolves a track related to the last played one when the guild
// has autoplay enabled. It returns nil when autoplay is off or finds nothing.
func (p *PlaybackService) autoplayTrack(
	ctx context.Context,
	session *domain.GuildVoiceSession,
) *domain.Track {
	seed := session.LastTrack()
	if seed == nil {
		return nil
	}

	config, err := p.configs.FindByGuildID(ctx, session.GuildID)
	if err != nil {
		slog.Warn("failed to read autoplay setting", "guild", session.GuildID, "error", err)
		return nil
	}
	if config == nil || !config.Settings.Autoplay {
		return nil
	}

	resolveCtx, cancel := context.WithTimeout(ctx, p.resolveTimeout)
	defer cancel()

	result, err := p.trackResolver.LoadTracks(resolveCtx, domain.RelatedQuery(seed).Identifier())
	if err != nil {
		slog.Warn("failed to resolve autoplay track", "guild", session.GuildID, "error", err)
		return nil
	}

	for _, info := range result.Tracks {
		if info.Identifier == seed.Identifier || info.Encoded == seed.Encoded {
			continue
		}
		slog.Info("autoplay selected track", "guild", session.GuildID, "title", info.Title)
		return toDomainTrack(info, 0)
	}

	return nil
}
