package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

var (
	_ ports.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*LavalinkAdapter)(nil)
	_ ports.TrackResolver   = (*LavalinkAdapter)(nil)
)

// voiceConnectionTimeout bounds how long JoinChannel waits for Discord's voice events.
const voiceConnectionTimeout = 10 * time.Second

// errNoNode is returned when no Lavalink node is connected.
var errNoNode = errors.New("no available Lavalink node")

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	NodeName string
	Address  string
	Password string
	Secure   bool
}

// LavalinkAdapter is the playback engine. It owns the DisGoLink client, relays
// Discord voice events to it and publishes track lifecycle events.
type LavalinkAdapter struct {
	link       disgolink.Client
	session    *discordgo.Session
	botID      snowflake.ID
	handshakes *voiceHandshakes
	publisher  ports.EventPublisher
}

// NewLavalinkAdapter connects to the configured node. The session must be open.
func NewLavalinkAdapter(
	session *discordgo.Session,
	publisher ports.EventPublisher,
	config LavalinkConfig,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		session:    session,
		botID:      botID,
		handshakes: newVoiceHandshakes(),
		publisher:  publisher,
	}

	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)

	node, err := adapter.link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     config.NodeName,
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)
	return adapter, nil
}

// Available returns true if a connected Lavalink node can serve requests.
func (c *LavalinkAdapter) Available() bool {
	return c.link.BestNode() != nil
}

// Close disconnects from every Lavalink node.
func (c *LavalinkAdapter) Close() {
	c.link.Close()
}

// JoinChannel asks Discord to move the bot into channelID and waits until
// Lavalink has received the resulting voice session.
func (c *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	connected := c.handshakes.expect(guildID)
	defer c.handshakes.forget(guildID, connected)

	if err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true); err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	timer := time.NewTimer(voiceConnectionTimeout)
	defer timer.Stop()

	select {
	case <-connected:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for voice connection: %w", ctx.Err())
	case <-timer.C:
		return fmt.Errorf("timeout waiting for voice connection in channel %d", channelID)
	}
}

// LeaveChannel destroys the guild's player and leaves voice.
// A failed player destroy is logged; leaving voice still proceeds.
func (c *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	if player := c.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	if err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play replaces whatever the player holds with track.
func (c *LavalinkAdapter) Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error {
	// The encoded form avoids sending userData: null, which some nodes reject.
	return c.update(ctx, guildID, "play track", lavalink.WithEncodedTrack(track.Encoded))
}

func (c *LavalinkAdapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	return c.update(ctx, guildID, "stop playback", lavalink.WithNullTrack())
}

func (c *LavalinkAdapter) Pause(ctx context.Context, guildID snowflake.ID) error {
	return c.update(ctx, guildID, "pause playback", lavalink.WithPaused(true))
}

func (c *LavalinkAdapter) Resume(ctx context.Context, guildID snowflake.ID) error {
	return c.update(ctx, guildID, "resume playback", lavalink.WithPaused(false))
}

// Seek moves the current track to position.
func (c *LavalinkAdapter) Seek(ctx context.Context, guildID snowflake.ID, position time.Duration) error {
	return c.update(ctx, guildID, "seek", lavalink.WithPosition(lavalink.Duration(position.Milliseconds())))
}

// SetVolume sets the playback volume in percent.
func (c *LavalinkAdapter) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	return c.update(ctx, guildID, "set volume", lavalink.WithVolume(volume))
}

func (c *LavalinkAdapter) update(
	ctx context.Context,
	guildID snowflake.ID,
	action string,
	opts ...lavalink.PlayerUpdateOpt,
) error {
	if err := c.link.Player(guildID).Update(ctx, opts...); err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return nil
}

// Position returns the live position of the current track, or zero without a player.
func (c *LavalinkAdapter) Position(guildID snowflake.ID) time.Duration {
	player := c.link.ExistingPlayer(guildID)
	if player == nil {
		return 0
	}
	return time.Duration(player.Position()) * time.Millisecond
}

// LoadTracks resolves query on the least loaded node.
func (c *LavalinkAdapter) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, errNoNode
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	return toLoadResult(result), nil
}

// OnVoiceServerUpdate relays a Discord voice server update to Lavalink.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	if update, ok := c.handshakes.server(guildID, event.Token, event.Endpoint); ok {
		c.forward(guildID, update)
	}
}

// OnVoiceStateUpdate relays the bot's own voice state to Lavalink. Leaving voice
// is forwarded at once and published as a PlayerDisconnectedEvent.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	if event.ChannelID == "" {
		c.handshakes.reset(guildID)
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		c.publisher.Publish(domain.PlayerDisconnectedEvent{GuildID: guildID})
		return
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		slog.Error("failed to parse channel ID in voice state update", "error", err)
		return
	}

	if update, ok := c.handshakes.state(guildID, channelID, event.SessionID); ok {
		c.forward(guildID, update)
	}
}

// forward hands a complete voice update to Lavalink, state first, then wakes
// the pending JoinChannel.
func (c *LavalinkAdapter) forward(guildID snowflake.ID, update voiceUpdate) {
	slog.Debug("forwarding voice update to Lavalink", "guild", guildID, "channel", update.channelID)

	channelID := update.channelID
	c.link.OnVoiceStateUpdate(context.Background(), guildID, &channelID, update.sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, update.token, update.endpoint)
	c.handshakes.connected(guildID)
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild", player.GuildID(), "track", event.Track.Info.Title)

	c.publisher.Publish(domain.TrackStartedEvent{
		GuildID: player.GuildID(),
		Encoded: event.Track.Encoded,
	})
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	c.publisher.Publish(domain.TrackEndedEvent{
		GuildID: player.GuildID(),
		Encoded: event.Track.Encoded,
		Reason:  toEndReason(event.Reason),
	})
}

func (c *LavalinkAdapter) onTrackException(player disgolink.Player, event lavalink.TrackExceptionEvent) {
	slog.Warn("track exception", "guild", player.GuildID(), "message", event.Exception.Message)

	c.publisher.Publish(domain.TrackExceptionEvent{
		GuildID: player.GuildID(),
		Message: event.Exception.Message,
	})
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Debug("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)

	c.publisher.Publish(domain.TrackStuckEvent{GuildID: player.GuildID()})
}
