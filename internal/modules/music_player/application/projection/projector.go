// Package projection renders guild sessions onto the now-playing surfaces:
// the central control panel, voice channel metadata and the bot's presence.
package projection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// PositionReader reads the playback position of a guild.
type PositionReader interface {
	Position(guildID snowflake.ID) time.Duration
}

type voiceLabel struct {
	channelID snowflake.ID
	title     string
}

// Projector keeps every now-playing surface of a guild in sync with its session.
// Sinks are independent: a failing sink is logged and never blocks the others.
type Projector struct {
	repo      domain.SessionRepository
	configs   ports.GuildConfigStore
	positions PositionReader
	embeds    ports.EmbedSink
	annotator *VoiceAnnotator
	presence  *PresenceKeeper

	mu     sync.Mutex
	labels map[snowflake.ID]voiceLabel // guild -> annotated voice channel
}

// NewProjector creates a new Projector.
func NewProjector(
	repo domain.SessionRepository,
	configs ports.GuildConfigStore,
	positions PositionReader,
	embeds ports.EmbedSink,
	annotator *VoiceAnnotator,
	presence *PresenceKeeper,
) *Projector {
	return &Projector{
		repo:      repo,
		configs:   configs,
		positions: positions,
		embeds:    embeds,
		annotator: annotator,
		presence:  presence,
		labels:    make(map[snowflake.ID]voiceLabel),
	}
}

// Refresh re-renders the guild's surfaces from its session.
func (p *Projector) Refresh(ctx context.Context, guildID snowflake.ID) {
	session := p.repo.Get(guildID)
	if session == nil || session.Current() == nil {
		p.Idle(ctx, guildID)
		return
	}

	view := domain.NewDisplayProjection(session, p.positions.Position(guildID))

	if target, ok := p.embedTarget(ctx, guildID); ok {
		if err := p.embeds.RenderActive(ctx, target, view); err != nil {
			slog.Debug("failed to render control panel", "guild", guildID, "error", err)
		}
	}

	p.label(ctx, guildID, session.VoiceChannelID(), view.Title)
	p.presence.Activate(guildID, view.Title)
}

// Idle renders the guild's surfaces as idle.
func (p *Projector) Idle(ctx context.Context, guildID snowflake.ID) {
	if target, ok := p.embedTarget(ctx, guildID); ok {
		if err := p.embeds.RenderIdle(ctx, target); err != nil {
			slog.Debug("failed to render idle control panel", "guild", guildID, "error", err)
		}
	}

	p.unlabel(ctx, guildID)
	p.presence.Deactivate(guildID)
}

func (p *Projector) embedTarget(ctx context.Context, guildID snowflake.ID) (ports.EmbedTarget, bool) {
	config, err := p.configs.FindByGuildID(ctx, guildID)
	if err != nil {
		slog.Debug("failed to read guild configuration", "guild", guildID, "error", err)
		return ports.EmbedTarget{}, false
	}
	if config == nil || !config.Central.Enabled || config.Central.EmbedID == 0 {
		return ports.EmbedTarget{}, false
	}
	return ports.EmbedTarget{
		ChannelID: config.Central.ChannelID,
		MessageID: config.Central.EmbedID,
	}, true
}

// label and unlabel run on the guild's worker, so only the labels map needs
// the lock. Annotator calls reach Discord and are made without it.
func (p *Projector) label(ctx context.Context, guildID, channelID snowflake.ID, title string) {
	previous, ok := p.labelOf(guildID)
	if ok && previous.channelID == channelID && previous.title == title {
		return
	}
	if ok && previous.channelID != channelID {
		p.annotator.Restore(ctx, previous.channelID)
	}

	result := p.annotator.Annotate(ctx, channelID, title)
	switch {
	case result.Succeeded():
		p.setLabel(guildID, voiceLabel{channelID: channelID, title: title})
	case p.annotator.IsAnnotated(channelID):
		// An earlier title is still shown. An empty title retries on the next refresh.
		p.setLabel(guildID, voiceLabel{channelID: channelID})
	default:
		p.clearLabel(guildID)
	}
}

func (p *Projector) unlabel(ctx context.Context, guildID snowflake.ID) {
	previous, ok := p.labelOf(guildID)
	if !ok {
		return
	}
	p.annotator.Restore(ctx, previous.channelID)
	p.clearLabel(guildID)
}

func (p *Projector) labelOf(guildID snowflake.ID) (voiceLabel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	label, ok := p.labels[guildID]
	return label, ok
}

func (p *Projector) setLabel(guildID snowflake.ID, label voiceLabel) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.labels[guildID] = label
}

func (p *Projector) clearLabel(guildID snowflake.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.labels, guildID)
}

var _ ports.ProjectionRefresher = (*Projector)(nil)
