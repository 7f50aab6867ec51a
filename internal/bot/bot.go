package bot

import (
	"fmt"
	"log/slog"
	"maps"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// NotReadyMessage is shown for interactions that arrive before the bot is ready.
const NotReadyMessage = "The bot is starting up, try again shortly."

// Gateway intents the modules rely on.
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	config   *Config
	session  *discordgo.Session
	modules  []Module
	handlers map[string]InteractionHandler

	components    map[string]InteractionHandler
	autocompletes map[string]AutocompleteHandler
	messages      []MessageHandler

	// ready is set once modules are initialized, the session is open and
	// commands are registered. Nothing is dispatched to modules before.
	ready atomic.Bool
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config) *Bot {
	return &Bot{
		config:        cfg,
		modules:       make([]Module, 0),
		handlers:      make(map[string]InteractionHandler),
		components:    make(map[string]InteractionHandler),
		autocompletes: make(map[string]AutocompleteHandler),
	}
}

// LoadModules loads modules from the global registry and their configuration.
func (b *Bot) LoadModules() error {
	b.modules = Modules()

	for _, mod := range b.modules {
		configurable, ok := mod.(ConfigurableModule)
		if !ok {
			continue
		}
		if err := configurable.LoadConfig(); err != nil {
			return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
		}
	}

	return nil
}

// Ready returns true once the bot dispatches interactions and messages to modules.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

// Start connects to Discord, initializes the modules, and registers commands.
func (b *Bot) Start() error {
	// Create Discord session
	session, err := discordgo.New("Bot " + b.config.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = intents
	b.session = session

	// Register dispatchers before connecting; they answer "not ready" until Start completes.
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessage)

	// Open connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Initialize modules
	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}

	// Build handler maps
	b.buildHandlerMap()

	// Register module event handlers
	b.registerEventHandlers()

	// Register commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.ready.Store(true)

	b.notifyReady()

	slog.Info("started bot",
		"user_id", b.session.State.User.ID,
		"username", b.session.State.User.Username,
	)

	return nil
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	b.ready.Store(false)

	// Shutdown modules
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// initModules initializes all loaded modules.
func (b *Bot) initModules() error {
	deps := ModuleDependencies{
		Session: b.session,
	}

	for _, mod := range b.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// buildHandlerMap builds the command, component, autocomplete and message handler tables.
func (b *Bot) buildHandlerMap() {
	for _, mod := range b.modules {
		maps.Copy(b.handlers, mod.CommandHandlers())

		if m, ok := mod.(ComponentModule); ok {
			maps.Copy(b.components, m.ComponentHandlers())
		}
		if m, ok := mod.(AutocompleteModule); ok {
			maps.Copy(b.autocompletes, m.AutocompleteHandlers())
		}
		if m, ok := mod.(MessageModule); ok {
			b.messages = append(b.messages, m.MessageHandlers()...)
		}
	}
}

// registerEventHandlers registers all module event handlers with the session.
func (b *Bot) registerEventHandlers() {
	for _, mod := range b.modules {
		for _, handler := range mod.EventHandlers() {
			b.session.AddHandler(handler)
		}
	}
}

// collectCommands gathers all commands from loaded modules.
func (b *Bot) collectCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, mod := range b.modules {
		commands = append(commands, mod.Commands()...)
	}
	return commands
}

// registerCommands registers all module commands with Discord.
// Commands are registered in GUILD_ID when set, globally otherwise.
func (b *Bot) registerCommands() error {
	commands := b.collectCommands()

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			b.config.GuildID,
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		slog.Debug("registered command", "command", cmd.Name, "guild", b.config.GuildID)
	}

	return nil
}

func (b *Bot) notifyReady() {
	for _, mod := range b.modules {
		startup, ok := mod.(StartupModule)
		if !ok {
			continue
		}
		if err := startup.OnReady(); err != nil {
			slog.Warn("failed to run module startup", "module", mod.Name(), "error", err)
		}
	}
}

// Embed colors for responses.
const (
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

// handleInteraction routes incoming interactions to the appropriate handler.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		b.dispatchAutocomplete(s, i)
		return
	}
	b.dispatchInteraction(s, i, NewDiscordResponder(s, i.Interaction))
}

// dispatchInteraction runs the command or component handler of the interaction.
func (b *Bot) dispatchInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) {
	var (
		name    string
		handler InteractionHandler
		ok      bool
	)
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name = i.ApplicationCommandData().Name
		handler, ok = b.handlers[name]
	case discordgo.InteractionMessageComponent:
		name = i.MessageComponentData().CustomID
		handler, ok = b.components[name]
	default:
		return
	}

	if !b.Ready() {
		respondWithEmbed(r, "Starting Up", NotReadyMessage, colorYellow)
		return
	}

	if !ok {
		slog.Warn("found no handler for interaction", "name", name)
		respondWithEmbed(r, "Unknown Command", "This command is not recognized.", colorYellow)
		return
	}

	if err := handler(s, i, r); err != nil {
		slog.Error("failed to handle interaction", "name", name, "error", err)
		respondWithEmbed(r, "Error", "An error occurred while processing your command.", colorRed)
	}
}

func (b *Bot) dispatchAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.Ready() {
		return
	}

	handler, ok := b.autocompletes[i.ApplicationCommandData().Name]
	if !ok {
		return
	}
	handler(s, i)
}

// handleMessage fans guild messages out to module message handlers.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if !b.Ready() || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	for _, handler := range b.messages {
		handler(s, m)
	}
}

// respondWithEmbed sends an ephemeral embed response to an interaction.
func respondWithEmbed(r Responder, title, description string, color int) {
	err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       title,
					Description: description,
					Color:       color,
				},
			},
		},
	})
	if err != nil {
		slog.Error("failed to send embed response", "error", err)
	}
}
