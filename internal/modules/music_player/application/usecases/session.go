package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// EnsureSessionInput contains the input for the EnsureSession and Takeover use cases.
type EnsureSessionInput struct {
	GuildID           snowflake.ID
	VoiceChannelID    snowflake.ID
	TextSinkChannelID snowflake.ID
	DefaultVolume     int
}

// SessionService owns the lifetime of guild voice sessions.
type SessionService struct {
	repo        domain.SessionRepository
	voiceConn   ports.VoiceConnection
	audioPlayer ports.AudioPlayer
	projection  ports.ProjectionRefresher
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	repo domain.SessionRepository,
	voiceConn ports.VoiceConnection,
	audioPlayer ports.AudioPlayer,
	projection ports.ProjectionRefresher,
) *SessionService {
	return &SessionService{
		repo:        repo,
		voiceConn:   voiceConn,
		audioPlayer: audioPlayer,
		projection:  projection,
	}
}

// EnsureSession returns the guild's session in the given voice channel.
// An existing session in that channel is returned unchanged. An existing session
// elsewhere is moved, keeping its queue. Otherwise a new session is created.
func (s *SessionService) EnsureSession(
	ctx context.Context,
	input EnsureSessionInput,
) (*domain.GuildVoiceSession, error) {
	if !s.audioPlayer.Available() {
		return nil, ErrEngineUnavailable
	}

	session := s.repo.Get(input.GuildID)
	if session != nil {
		if session.VoiceChannelID() == input.VoiceChannelID {
			return session, nil
		}

		if err := s.voiceConn.JoinChannel(ctx, input.GuildID, input.VoiceChannelID); err != nil {
			return nil, err
		}
		previous := session.VoiceChannelID()
		session.MoveTo(input.VoiceChannelID)

		slog.Info(
			"moved voice session",
			"guild", input.GuildID,
			"from", previous,
			"to", input.VoiceChannelID,
		)
		s.projection.Refresh(ctx, input.GuildID)
		return session, nil
	}

	return s.create(ctx, input)
}

// Takeover replaces the guild's session with a fresh one owned by the caller.
// The previous session's playback and queue are discarded. The bot stays connected
// and only relocates when the channel differs.
func (s *SessionService) Takeover(
	ctx context.Context,
	input EnsureSessionInput,
) (*domain.GuildVoiceSession, error) {
	if !s.audioPlayer.Available() {
		return nil, ErrEngineUnavailable
	}

	previous := s.repo.Get(input.GuildID)
	if previous == nil {
		return s.create(ctx, input)
	}

	if previous.Current() != nil {
		if err := s.audioPlayer.Stop(ctx, input.GuildID); err != nil {
			slog.Warn("failed to stop playback during takeover", "guild", input.GuildID, "error", err)
		}
	}
	previous.Queue.Clear()
	previous.Halt()
	s.projection.Idle(ctx, input.GuildID)

	if previous.VoiceChannelID() != input.VoiceChannelID {
		if err := s.voiceConn.JoinChannel(ctx, input.GuildID, input.VoiceChannelID); err != nil {
			// The bot may still sit in the old channel with no session to own it.
			if leaveErr := s.voiceConn.LeaveChannel(ctx, input.GuildID); leaveErr != nil {
				slog.Warn("failed to leave voice after takeover failed", "guild", input.GuildID, "error", leaveErr)
			}
			s.repo.Delete(input.GuildID)
			return nil, err
		}
	}

	session := domain.NewGuildVoiceSession(
		input.GuildID,
		input.VoiceChannelID,
		input.TextSinkChannelID,
		input.DefaultVolume,
	)
	s.repo.Save(session)
	s.applyVolume(ctx, session)

	slog.Info(
		"voice session taken over",
		"guild", input.GuildID,
		"from", previous.VoiceChannelID(),
		"to", input.VoiceChannelID,
	)

	return session, nil
}

// Destroy stops playback, leaves voice and removes the guild's session.
func (s *SessionService) Destroy(ctx context.Context, guildID snowflake.ID) error {
	session := s.repo.Get(guildID)
	if session == nil {
		return ErrNotConnected
	}

	if session.Current() != nil {
		if err := s.audioPlayer.Stop(ctx, guildID); err != nil {
			slog.Warn("failed to stop playback", "guild", guildID, "error", err)
		}
	}

	// The session is dropped even if leaving fails, so a stuck connection cannot
	// block a later join.
	leaveErr := s.voiceConn.LeaveChannel(ctx, guildID)
	s.repo.Delete(guildID)
	s.projection.Idle(ctx, guildID)

	slog.Info("voice session destroyed", "guild", guildID)
	return leaveErr
}

// Forget removes the guild's session after the bot was disconnected externally.
func (s *SessionService) Forget(ctx context.Context, guildID snowflake.ID) {
	if s.repo.Get(guildID) == nil {
		return
	}
	s.repo.Delete(guildID)
	s.projection.Idle(ctx, guildID)

	slog.Info("voice session dropped after disconnect", "guild", guildID)
}

func (s *SessionService) create(
	ctx context.Context,
	input EnsureSessionInput,
) (*domain.GuildVoiceSession, error) {
	if err := s.voiceConn.JoinChannel(ctx, input.GuildID, input.VoiceChannelID); err != nil {
		return nil, err
	}

	session := domain.NewGuildVoiceSession(
		input.GuildID,
		input.VoiceChannelID,
		input.TextSinkChannelID,
		input.DefaultVolume,
	)
	s.repo.Save(session)
	s.applyVolume(ctx, session)

	slog.Info(
		"voice session created",
		"guild", input.GuildID,
		"channel", input.VoiceChannelID,
	)

	return session, nil
}

func (s *SessionService) applyVolume(ctx context.Context, session *domain.GuildVoiceSession) {
	if err := s.audioPlayer.SetVolume(ctx, session.GuildID, session.Volume()); err != nil {
		slog.Warn("failed to apply session volume", "guild", session.GuildID, "error", err)
	}
}
