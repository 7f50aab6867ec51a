package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"golang.org/x/time/rate"
)

// Discord limits on voice channel metadata.
const (
	maxVoiceStatusLength = 500
	maxTopicLength       = 1024
	maxChannelNameLength = 100

	// Discord allows two renames per channel every ten minutes.
	channelRenameInterval = 5 * time.Minute
	channelRenameBurst    = 2
)

// ErrRenameThrottled is returned when a channel rename would exceed Discord's rename limit.
var ErrRenameThrottled = errors.New("channel rename throttled")

// Compile-time checks that the strategies implement ports.VoiceMetadataStrategy.
var (
	_ ports.VoiceMetadataStrategy = (*VoiceStatusStrategy)(nil)
	_ ports.VoiceMetadataStrategy = (*ChannelTopicStrategy)(nil)
	_ ports.VoiceMetadataStrategy = (*ChannelNameStrategy)(nil)
	_ ports.ChannelInspector      = (*DiscordChannelInspector)(nil)
)

func nowPlayingLabel(title string, limit int) string {
	return truncate("🎵 "+title, limit)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// VoiceStatusStrategy sets the voice channel status shown under the channel name.
type VoiceStatusStrategy struct {
	session *discordgo.Session
}

// NewVoiceStatusStrategy creates a new VoiceStatusStrategy.
func NewVoiceStatusStrategy(session *discordgo.Session) *VoiceStatusStrategy {
	return &VoiceStatusStrategy{session: session}
}

// Name returns "status".
func (s *VoiceStatusStrategy) Name() string { return "status" }

// Annotate sets the channel status to the track title.
func (s *VoiceStatusStrategy) Annotate(
	ctx context.Context,
	channelID snowflake.ID,
	title string,
	_ ports.ChannelSnapshot,
) error {
	return s.setStatus(ctx, channelID, nowPlayingLabel(title, maxVoiceStatusLength))
}

// Restore clears the channel status.
func (s *VoiceStatusStrategy) Restore(
	ctx context.Context,
	channelID snowflake.ID,
	_ ports.ChannelSnapshot,
) error {
	return s.setStatus(ctx, channelID, "")
}

func (s *VoiceStatusStrategy) setStatus(ctx context.Context, channelID snowflake.ID, status string) error {
	endpoint := discordgo.EndpointChannel(channelID.String())
	_, err := s.session.RequestWithBucketID(
		http.MethodPut,
		endpoint+"/voice-status",
		map[string]string{"status": status},
		endpoint,
		discordgo.WithContext(ctx),
	)
	return err
}

// ChannelTopicStrategy writes the track title into the channel topic.
type ChannelTopicStrategy struct {
	session *discordgo.Session
}

// NewChannelTopicStrategy creates a new ChannelTopicStrategy.
func NewChannelTopicStrategy(session *discordgo.Session) *ChannelTopicStrategy {
	return &ChannelTopicStrategy{session: session}
}

// Name returns "topic".
func (s *ChannelTopicStrategy) Name() string { return "topic" }

// Annotate sets the channel topic to the track title.
func (s *ChannelTopicStrategy) Annotate(
	ctx context.Context,
	channelID snowflake.ID,
	title string,
	_ ports.ChannelSnapshot,
) error {
	return s.setTopic(ctx, channelID, nowPlayingLabel("Now playing: "+title, maxTopicLength))
}

// Restore writes the original topic back, clearing it if there was none.
func (s *ChannelTopicStrategy) Restore(
	ctx context.Context,
	channelID snowflake.ID,
	original ports.ChannelSnapshot,
) error {
	return s.setTopic(ctx, channelID, original.Topic)
}

// setTopic patches the topic directly; discordgo.ChannelEdit drops an empty topic.
func (s *ChannelTopicStrategy) setTopic(ctx context.Context, channelID snowflake.ID, topic string) error {
	endpoint := discordgo.EndpointChannel(channelID.String())
	_, err := s.session.RequestWithBucketID(
		http.MethodPatch,
		endpoint,
		map[string]string{"topic": topic},
		endpoint,
		discordgo.WithContext(ctx),
	)
	return err
}

// ChannelNameStrategy renames the channel to the track title.
// Each channel has its own limiter; an annotation only goes through while a
// second token is left for the restore.
type ChannelNameStrategy struct {
	session *discordgo.Session

	mu       sync.Mutex
	limiters map[snowflake.ID]*rate.Limiter
}

// NewChannelNameStrategy creates a new ChannelNameStrategy.
func NewChannelNameStrategy(session *discordgo.Session) *ChannelNameStrategy {
	return &ChannelNameStrategy{
		session:  session,
		limiters: make(map[snowflake.ID]*rate.Limiter),
	}
}

// Name returns "name".
func (s *ChannelNameStrategy) Name() string { return "name" }

// Annotate renames the channel, unless that would leave no rename for the restore.
func (s *ChannelNameStrategy) Annotate(
	ctx context.Context,
	channelID snowflake.ID,
	title string,
	_ ports.ChannelSnapshot,
) error {
	if !s.reserve(channelID, 2) {
		return ErrRenameThrottled
	}
	return s.rename(ctx, channelID, nowPlayingLabel(title, maxChannelNameLength))
}

// Restore renames the channel back to its original name.
func (s *ChannelNameStrategy) Restore(
	ctx context.Context,
	channelID snowflake.ID,
	original ports.ChannelSnapshot,
) error {
	if !s.reserve(channelID, 1) {
		return ErrRenameThrottled
	}
	return s.rename(ctx, channelID, original.Name)
}

// reserve takes one token if at least need tokens are available.
func (s *ChannelNameStrategy) reserve(channelID snowflake.ID, need float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[channelID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(channelRenameInterval), channelRenameBurst)
		s.limiters[channelID] = limiter
	}

	if limiter.Tokens() < need {
		return false
	}
	return limiter.Allow()
}

func (s *ChannelNameStrategy) rename(ctx context.Context, channelID snowflake.ID, name string) error {
	_, err := s.session.ChannelEdit(
		channelID.String(),
		&discordgo.ChannelEdit{Name: name},
		discordgo.WithContext(ctx),
	)
	return err
}

// DiscordChannelInspector reads channel metadata from the state cache, falling back to REST.
type DiscordChannelInspector struct {
	session *discordgo.Session
}

// NewDiscordChannelInspector creates a new DiscordChannelInspector.
func NewDiscordChannelInspector(session *discordgo.Session) *DiscordChannelInspector {
	return &DiscordChannelInspector{session: session}
}

// Exists reports whether the channel is still present.
func (i *DiscordChannelInspector) Exists(ctx context.Context, channelID snowflake.ID) (bool, error) {
	_, err := i.channel(ctx, channelID)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// Snapshot returns the current name and topic of the channel.
func (i *DiscordChannelInspector) Snapshot(
	ctx context.Context,
	channelID snowflake.ID,
) (ports.ChannelSnapshot, error) {
	channel, err := i.channel(ctx, channelID)
	if err != nil {
		return ports.ChannelSnapshot{}, err
	}
	return ports.ChannelSnapshot{Name: channel.Name, Topic: channel.Topic}, nil
}

func (i *DiscordChannelInspector) channel(
	ctx context.Context,
	channelID snowflake.ID,
) (*discordgo.Channel, error) {
	if channel, err := i.session.State.Channel(channelID.String()); err == nil {
		return channel, nil
	}
	return i.session.Channel(channelID.String(), discordgo.WithContext(ctx))
}
