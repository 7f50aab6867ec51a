package bot

import "github.com/bwmarrin/discordgo"

// InteractionHandler handles a Discord interaction and returns a response.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// AutocompleteHandler answers an autocomplete interaction.
type AutocompleteHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// MessageHandler handles a message posted in a guild channel.
type MessageHandler func(s *discordgo.Session, m *discordgo.MessageCreate)

// EventHandler is a generic handler for any Discord event.
// It should be a function matching one of discordgo's handler signatures,
// e.g., func(s *discordgo.Session, m *discordgo.VoiceStateUpdate)
type EventHandler any

// ModuleDependencies provides dependencies that modules may need during initialization.
// Session is open when Init is called.
type ModuleDependencies struct {
	Session *discordgo.Session
}

// Module defines the interface that all bot modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Commands returns the slash commands that this module provides.
	Commands() []*discordgo.ApplicationCommand

	// CommandHandlers returns a map of command names to their handlers.
	CommandHandlers() map[string]InteractionHandler

	// EventHandlers returns event handlers for this module.
	// Each handler should match a discordgo handler signature.
	// They are not gated on readiness.
	EventHandlers() []EventHandler

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ConfigurableModule is an optional interface for modules that need configuration.
// Modules implementing this interface will have LoadConfig called before Init.
type ConfigurableModule interface {
	// LoadConfig loads and validates module-specific configuration.
	// Called before Init() and before Discord connection is established.
	// Should return an error if required configuration is missing or invalid.
	LoadConfig() error
}

// ComponentModule is an optional interface for modules with message components.
type ComponentModule interface {
	// ComponentHandlers returns a map of component custom IDs to their handlers.
	ComponentHandlers() map[string]InteractionHandler
}

// AutocompleteModule is an optional interface for modules with autocompleted options.
type AutocompleteModule interface {
	// AutocompleteHandlers returns a map of command names to their autocomplete handlers.
	AutocompleteHandlers() map[string]AutocompleteHandler
}

// MessageModule is an optional interface for modules that read guild messages.
type MessageModule interface {
	// MessageHandlers returns handlers called for every message not sent by a bot.
	MessageHandlers() []MessageHandler
}

// StartupModule is an optional interface for modules with work to do once the bot is ready.
type StartupModule interface {
	// OnReady is called after commands are registered and the bot accepts interactions.
	OnReady() error
}
