package info

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunedeck/internal/bot"
	"github.com/sglre6355/tunedeck/internal/modules/info/application"
	"github.com/sglre6355/tunedeck/internal/modules/info/domain"
	"github.com/sglre6355/tunedeck/internal/modules/info/presentation"
)

func init() {
	bot.Register(&InfoModule{})
}

// InfoModule provides informational commands like /ping and /support.
type InfoModule struct {
	pingHandler    *presentation.PingHandler
	supportHandler *presentation.SupportHandler
}

// Name returns the module name.
func (m *InfoModule) Name() string {
	return "info"
}

// Commands returns the slash commands for this module.
func (m *InfoModule) Commands() []*discordgo.ApplicationCommand {
	links := domain.SupportLinks()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(links))
	for _, link := range links {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  link.Label,
			Value: string(link.Topic),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check whether the bot is responsive",
		},
		{
			Name:        "support",
			Description: "Get support server and contact information",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        presentation.SupportTopicOption,
					Description: "Which link to show",
					Choices:     choices,
				},
			},
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *InfoModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping":    m.pingHandler.Handle,
		"support": m.supportHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *InfoModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *InfoModule) Init(deps bot.ModuleDependencies) error {
	var latency application.LatencySource
	if deps.Session != nil {
		latency = deps.Session
	}
	m.pingHandler = presentation.NewPingHandler(latency)
	m.supportHandler = presentation.NewSupportHandler()
	return nil
}

// Shutdown cleans up module resources.
func (m *InfoModule) Shutdown() error {
	return nil
}
