package application

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// LifecycleEventHandler reacts to playback engine events.
// Events of one guild arrive one at a time, in emission order.
type LifecycleEventHandler struct {
	repo       domain.SessionRepository
	playback   *usecases.PlaybackService
	sessions   *usecases.SessionService
	projection ports.ProjectionRefresher
	voiceState ports.VoiceStateProvider
	subscriber ports.EventSubscriber
	botUserID  snowflake.ID
}

// NewLifecycleEventHandler creates a new LifecycleEventHandler.
func NewLifecycleEventHandler(
	repo domain.SessionRepository,
	playback *usecases.PlaybackService,
	sessions *usecases.SessionService,
	projection ports.ProjectionRefresher,
	voiceState ports.VoiceStateProvider,
	subscriber ports.EventSubscriber,
	botUserID snowflake.ID,
) *LifecycleEventHandler {
	return &LifecycleEventHandler{
		repo:       repo,
		playback:   playback,
		sessions:   sessions,
		projection: projection,
		voiceState: voiceState,
		subscriber: subscriber,
		botUserID:  botUserID,
	}
}

// Start registers the handler with the subscriber.
func (h *LifecycleEventHandler) Start() {
	h.subscriber.Subscribe(h.Handle)
	slog.Debug("lifecycle event handler registered")
}

// Handle dispatches one lifecycle event.
func (h *LifecycleEventHandler) Handle(ctx context.Context, event domain.LifecycleEvent) {
	switch e := event.(type) {
	case domain.TrackStartedEvent:
		h.handleTrackStarted(ctx, e)
	case domain.TrackEndedEvent:
		h.handleTrackEnded(ctx, e)
	case domain.TrackExceptionEvent:
		slog.Warn("track exception", "guild", e.GuildID, "message", e.Message)
	case domain.TrackStuckEvent:
		h.handleTrackStuck(ctx, e)
	case domain.PlayerDisconnectedEvent:
		h.handlePlayerDisconnected(ctx, e)
	default:
		slog.Debug("ignoring unknown lifecycle event", "guild", event.EventGuildID())
	}
}

func (h *LifecycleEventHandler) handleTrackStarted(ctx context.Context, event domain.TrackStartedEvent) {
	session := h.repo.Get(event.GuildID)
	if !isCurrent(session, event.Encoded) {
		slog.Debug("ignoring start of a track that is no longer current", "guild", event.GuildID)
		return
	}

	session.SetPlaying(true)
	h.projection.Refresh(ctx, event.GuildID)
}

func (h *LifecycleEventHandler) handleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	if !event.Reason.ShouldAdvanceQueue() {
		slog.Debug("track ended without advancing", "guild", event.GuildID, "reason", event.Reason)
		return
	}

	// A skip already moved the session on; the end of the old track must not advance it again.
	session := h.repo.Get(event.GuildID)
	if !isCurrent(session, event.Encoded) {
		slog.Debug("ignoring end of a track that is no longer current", "guild", event.GuildID)
		return
	}

	if _, err := h.playback.Advance(ctx, event.GuildID); err != nil {
		slog.Error("failed to advance queue", "guild", event.GuildID, "error", err)
	}
}

func (h *LifecycleEventHandler) handleTrackStuck(ctx context.Context, event domain.TrackStuckEvent) {
	session := h.repo.Get(event.GuildID)
	if session == nil || session.Current() == nil {
		return
	}

	slog.Warn("track stuck, skipping", "guild", event.GuildID, "title", session.Current().Title)
	if _, err := h.playback.PlayNext(ctx, session); err != nil {
		slog.Error("failed to skip stuck track", "guild", event.GuildID, "error", err)
	}
}

func (h *LifecycleEventHandler) handlePlayerDisconnected(
	ctx context.Context,
	event domain.PlayerDisconnectedEvent,
) {
	// A takeover or move can race with the disconnect of the previous connection.
	channelID, err := h.voiceState.GetUserVoiceChannel(event.GuildID, h.botUserID)
	if err == nil && channelID != 0 {
		slog.Debug("ignoring disconnect, still connected", "guild", event.GuildID, "channel", channelID)
		return
	}

	h.sessions.Forget(ctx, event.GuildID)
}

func isCurrent(session *domain.GuildVoiceSession, encoded string) bool {
	if session == nil || session.Current() == nil {
		return false
	}
	return session.Current().Encoded == encoded
}
