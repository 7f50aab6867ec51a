package presentation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tunedeck/internal/bot"
	"github.com/sglre6355/tunedeck/internal/modules/info/application"
	"github.com/sglre6355/tunedeck/internal/modules/info/domain"
)

const (
	supportColor = 0x1DB954
	errorColor   = 0xE74C3C

	// SupportTopicOption is the name of the /support topic option.
	SupportTopicOption = "topic"
)

// PingHandler handles the /ping command.
type PingHandler struct {
	interactor *application.PingInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(latency application.LatencySource) *PingHandler {
	return &PingHandler{
		interactor: application.NewPingInteractor(latency),
	}
}

// Handle processes the ping command and sends the response.
func (h *PingHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	result := h.interactor.Execute()

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: result.Message,
		},
	})
}

// SupportHandler handles the /support command.
type SupportHandler struct {
	interactor *application.SupportInteractor
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler() *SupportHandler {
	return &SupportHandler{
		interactor: application.NewSupportInteractor(),
	}
}

// Handle replies with the requested support links and a link button for each.
func (h *SupportHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var topic string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == SupportTopicOption {
			topic = opt.StringValue()
		}
	}

	links, err := h.interactor.Execute(topic)
	if errors.Is(err, application.ErrUnknownSupportTopic) {
		return r.Respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{{
					Title:       "Error",
					Description: fmt.Sprintf("Unknown support topic %q.", topic),
					Color:       errorColor,
				}},
				Flags: discordgo.MessageFlagsEphemeral,
			},
		})
	}
	if err != nil {
		return err
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{supportEmbed(links)},
			Components: linkButtons(links),
		},
	})
}

func supportEmbed(links []domain.SupportLink) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, link := range links {
		fmt.Fprintf(&b, "**[%s](%s)**\n%s\n\n", link.Label, link.URL, link.Description)
	}

	return &discordgo.MessageEmbed{
		Title:       "🛠️ Support & Contact",
		Description: strings.TrimSpace(b.String()),
		Color:       supportColor,
	}
}

func linkButtons(links []domain.SupportLink) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(links))
	for _, link := range links {
		buttons = append(buttons, discordgo.Button{
			Label: link.Label,
			Style: discordgo.LinkButton,
			URL:   link.URL,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}
