package music_player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/bot"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/projection"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/presentation/discord"
)

const (
	redisConnectTimeout = 5 * time.Second
	startupResetTimeout = time.Minute
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var (
	_ bot.ConfigurableModule = (*MusicPlayerModule)(nil)
	_ bot.ComponentModule    = (*MusicPlayerModule)(nil)
	_ bot.AutocompleteModule = (*MusicPlayerModule)(nil)
	_ bot.MessageModule      = (*MusicPlayerModule)(nil)
	_ bot.StartupModule      = (*MusicPlayerModule)(nil)
)

// MusicPlayerModule provides music playback commands, the control panel and the
// central song request channel.
type MusicPlayerModule struct {
	config *Config

	commandHandlers   *discord.CommandHandlers
	componentHandlers *discord.ComponentHandlers
	autocomplete      *discord.AutocompleteHandler
	centralChannel    *discord.CentralChannelHandler

	workers         *infrastructure.GuildWorkers
	eventBus        *infrastructure.GuildEventBus
	lavalinkAdapter *infrastructure.LavalinkAdapter
	configStore     ports.GuildConfigStore
	redisStore      *infrastructure.RedisConfigStore
	spamLimiter     *infrastructure.SpamLimiter
	presence        *projection.PresenceKeeper
	presenceSink    *infrastructure.DiscordPresence
	central         *usecases.CentralService

	// Background tasks
	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return m.commandHandlers.Handlers()
}

// ComponentHandlers returns the control panel button handlers.
func (m *MusicPlayerModule) ComponentHandlers() map[string]bot.InteractionHandler {
	return m.componentHandlers.Handlers()
}

// AutocompleteHandlers returns the autocomplete handlers for this module.
func (m *MusicPlayerModule) AutocompleteHandlers() map[string]bot.AutocompleteHandler {
	return m.autocomplete.Handlers()
}

// MessageHandlers returns the central channel message handler.
func (m *MusicPlayerModule) MessageHandlers() []bot.MessageHandler {
	return []bot.MessageHandler{m.centralChannel.HandleMessageCreate}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.lavalinkAdapter.OnVoiceServerUpdate(event)
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.lavalinkAdapter.OnVoiceStateUpdate(event)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module. The session must be open.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		return fmt.Errorf("music_player module initialized without configuration")
	}
	session := deps.Session

	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return fmt.Errorf("failed to parse bot ID: %w", err)
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	// Every request and playback event of a guild runs on the guild's worker.
	m.workers = infrastructure.NewGuildWorkers()
	m.eventBus = infrastructure.NewGuildEventBus(m.workers)

	m.lavalinkAdapter, err = infrastructure.NewLavalinkAdapter(session, m.eventBus, infrastructure.LavalinkConfig{
		NodeName: m.config.LavalinkNodeName,
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
		Secure:   m.config.LavalinkSecure,
	})
	if err != nil {
		return err
	}

	if err := m.initConfigStore(); err != nil {
		return err
	}

	// Infrastructure
	repo := infrastructure.NewMemoryRepository()
	voiceState := infrastructure.NewVoiceStateProvider(session)
	inspector := infrastructure.NewDiscordChannelInspector(session)
	embeds := infrastructure.NewCentralEmbedSink(session, m.config.SupportURL)
	m.presenceSink = infrastructure.NewDiscordPresence(session)
	m.spamLimiter = infrastructure.NewSpamLimiter(m.config.SpamLimit, m.config.SpamWindow)

	// Now-playing projection
	m.presence = projection.NewPresenceKeeper(m.presenceSink, m.config.PresenceInterval)
	annotator := projection.NewVoiceAnnotator(
		inspector,
		infrastructure.NewVoiceStatusStrategy(session),
		infrastructure.NewChannelTopicStrategy(session),
		infrastructure.NewChannelNameStrategy(session),
	)
	projector := projection.NewProjector(
		repo,
		m.configStore,
		m.lavalinkAdapter,
		embeds,
		annotator,
		m.presence,
	)

	// Use cases
	policy := usecases.NewPolicyService(repo, m.configStore, voiceState, voiceState, voiceState)
	sessions := usecases.NewSessionService(repo, m.lavalinkAdapter, m.lavalinkAdapter, projector)
	playback := usecases.NewPlaybackService(
		repo,
		m.lavalinkAdapter,
		m.lavalinkAdapter,
		m.configStore,
		sessions,
		projector,
		m.config.ResolveTimeout,
	)
	enqueue := usecases.NewEnqueueService(
		repo,
		m.lavalinkAdapter,
		playback,
		projector,
		m.config.ResolveTimeout,
	)
	transport := usecases.NewTransportService(repo, m.lavalinkAdapter, sessions, playback, projector)
	queue := usecases.NewQueueService(repo, m.lavalinkAdapter)
	m.central = usecases.NewCentralService(m.configStore, embeds, inspector, projector)
	controller := usecases.NewMusicController(
		m.workers,
		policy,
		sessions,
		enqueue,
		transport,
		queue,
		m.central,
	)

	// Lifecycle events
	application.NewLifecycleEventHandler(
		repo,
		playback,
		sessions,
		projector,
		voiceState,
		m.eventBus,
		botID,
	).Start()

	// Presentation
	m.commandHandlers = discord.NewCommandHandlers(controller)
	m.componentHandlers = discord.NewComponentHandlers(controller)
	m.autocomplete = discord.NewAutocompleteHandler(
		controller,
		usecases.NewAutocompleteService(m.lavalinkAdapter),
	)
	m.centralChannel = discord.NewCentralChannelHandler(
		controller,
		m.spamLimiter,
		discord.NewDiscordMessageActions(session),
	)

	go m.sweepSpamLimiter(m.ctx, m.config.SpamSweepInterval)

	slog.Info("music_player module initialized", "node", m.config.LavalinkNodeName)

	return nil
}

func (m *MusicPlayerModule) initConfigStore() error {
	if m.config.RedisAddr == "" {
		slog.Warn("REDIS_ADDR is not set, guild configuration will not survive restarts")
		m.configStore = infrastructure.NewMemoryConfigStore()
		return nil
	}

	ctx, cancel := context.WithTimeout(m.ctx, redisConnectTimeout)
	defer cancel()

	client, err := infrastructure.NewRedisClient(ctx, infrastructure.RedisOptions{
		Addr:     m.config.RedisAddr,
		Username: m.config.RedisUsername,
		Password: m.config.RedisPassword,
		DB:       m.config.RedisDB,
	})
	if err != nil {
		return err
	}

	m.redisStore = infrastructure.NewRedisConfigStore(client)
	m.configStore = m.redisStore
	slog.Info("connected to redis", "address", m.config.RedisAddr)
	return nil
}

// OnReady resets the presence and every control panel to idle.
func (m *MusicPlayerModule) OnReady() error {
	if err := m.presenceSink.SetIdle(); err != nil {
		slog.Warn("failed to set idle presence", "error", err)
	}

	ctx, cancel := context.WithTimeout(m.ctx, startupResetTimeout)
	defer cancel()

	if err := m.central.ResetOnStartup(ctx); err != nil {
		return fmt.Errorf("failed to reset control panels: %w", err)
	}
	return nil
}

// sweepSpamLimiter evicts idle spam limiter keys until ctx ends.
func (m *MusicPlayerModule) sweepSpamLimiter(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := m.spamLimiter.Sweep(now); removed > 0 {
				slog.Debug("swept spam limiter", "removed", removed, "remaining", m.spamLimiter.Len())
			}
		}
	}
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Cancel context first to stop background tasks
	if m.cancel != nil {
		m.cancel()
	}

	if m.presence != nil {
		m.presence.Close()
	}

	// Stop accepting events, then let queued guild work finish
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.workers != nil {
		m.workers.Close()
	}

	// Close Lavalink connection
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	if m.redisStore != nil {
		if err := m.redisStore.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}

	return nil
}
