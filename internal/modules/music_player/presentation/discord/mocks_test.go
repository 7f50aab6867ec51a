package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/usecases"
)

const (
	testGuildID   = "1"
	testUserID    = "2"
	testChannelID = "3"
)

type mockController struct {
	joinOutput *usecases.JoinOutput
	joinErr    error

	playOutput *usecases.PlayOutput
	playErr    error
	playInputs []usecases.PlayInput

	controlOutput *usecases.TransportOutput
	controlErr    error
	controlInputs []usecases.ControlInput

	leaveErr error

	queueOutput *usecases.QueueListOutput
	queueErr    error
	queueInputs []usecases.QueueListInput

	nowPlayingOutput *usecases.NowPlayingOutput
	nowPlayingErr    error

	setupInputs []usecases.SetupCentralInput
	setupErr    error

	disableErr error

	autoplay    []bool
	autoplayErr error

	config    *usecases.GuildConfig
	configErr error
}

func (m *mockController) Join(_ context.Context, _ usecases.JoinInput) (*usecases.JoinOutput, error) {
	return m.joinOutput, m.joinErr
}

func (m *mockController) Play(_ context.Context, input usecases.PlayInput) (*usecases.PlayOutput, error) {
	m.playInputs = append(m.playInputs, input)
	if m.playErr != nil {
		return nil, m.playErr
	}
	return m.playOutput, nil
}

func (m *mockController) Control(
	_ context.Context,
	input usecases.ControlInput,
) (*usecases.TransportOutput, error) {
	m.controlInputs = append(m.controlInputs, input)
	if m.controlErr != nil {
		return nil, m.controlErr
	}
	if m.controlOutput == nil {
		return &usecases.TransportOutput{}, nil
	}
	return m.controlOutput, nil
}

func (m *mockController) Leave(_ context.Context, _ usecases.LeaveInput) error {
	return m.leaveErr
}

func (m *mockController) ListQueue(
	_ context.Context,
	input usecases.QueueListInput,
) (*usecases.QueueListOutput, error) {
	m.queueInputs = append(m.queueInputs, input)
	return m.queueOutput, m.queueErr
}

func (m *mockController) NowPlaying(_ context.Context, _ snowflake.ID) (*usecases.NowPlayingOutput, error) {
	return m.nowPlayingOutput, m.nowPlayingErr
}

func (m *mockController) SetupCentral(
	_ context.Context,
	input usecases.SetupCentralInput,
) (*usecases.SetupCentralOutput, error) {
	m.setupInputs = append(m.setupInputs, input)
	if m.setupErr != nil {
		return nil, m.setupErr
	}
	return &usecases.SetupCentralOutput{EmbedID: snowflake.ID(99)}, nil
}

func (m *mockController) DisableCentral(_ context.Context, _ snowflake.ID) error {
	return m.disableErr
}

func (m *mockController) SetAutoplay(_ context.Context, _ snowflake.ID, enabled bool) error {
	m.autoplay = append(m.autoplay, enabled)
	return m.autoplayErr
}

func (m *mockController) CentralConfig(_ context.Context, _ snowflake.ID) (*usecases.GuildConfig, error) {
	return m.config, m.configErr
}

type reaction struct {
	messageID snowflake.ID
	emoji     string
}

type transientReply struct {
	messageID snowflake.ID
	content   string
	ttl       time.Duration
}

type scheduledDelete struct {
	messageID snowflake.ID
	delay     time.Duration
}

type mockMessageActions struct {
	reactions []reaction
	deleted   []snowflake.ID
	scheduled []scheduledDelete
	replies   []transientReply
}

func (m *mockMessageActions) DeleteAfter(_, messageID snowflake.ID, delay time.Duration) {
	m.scheduled = append(m.scheduled, scheduledDelete{messageID: messageID, delay: delay})
}

func (m *mockMessageActions) React(_ context.Context, _, messageID snowflake.ID, emoji string) error {
	m.reactions = append(m.reactions, reaction{messageID: messageID, emoji: emoji})
	return nil
}

func (m *mockMessageActions) Delete(_ context.Context, _, messageID snowflake.ID) error {
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *mockMessageActions) ReplyTransient(
	_ context.Context,
	_, messageID snowflake.ID,
	content string,
	ttl time.Duration,
) error {
	m.replies = append(m.replies, transientReply{messageID: messageID, content: content, ttl: ttl})
	return nil
}

type mockSearcher struct {
	tracks []*ports.TrackInfo
	err    error
	inputs []string
}

func (m *mockSearcher) SearchTracks(_ context.Context, input string, _ int) ([]*ports.TrackInfo, error) {
	m.inputs = append(m.inputs, input)
	return m.tracks, m.err
}

func newInteraction(
	interactionType discordgo.InteractionType,
	data discordgo.InteractionData,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      interactionType,
			GuildID:   testGuildID,
			ChannelID: testChannelID,
			Member:    &discordgo.Member{User: &discordgo.User{ID: testUserID}},
			Data:      data,
		},
	}
}

func newCommandInteraction(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return newInteraction(discordgo.InteractionApplicationCommand, discordgo.ApplicationCommandInteractionData{
		Name:    name,
		Options: options,
	})
}

func newButtonInteraction(customID string) *discordgo.InteractionCreate {
	return newInteraction(discordgo.InteractionMessageComponent, discordgo.MessageComponentInteractionData{
		CustomID: customID,
	})
}

func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func boolOption(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionBoolean,
		Value: value,
	}
}

func channelOption(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionChannel,
		Value: id,
	}
}

func roleOption(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionRole,
		Value: id,
	}
}

// responseEmbed returns the first embed of the last response, or nil.
func responseEmbed(resp *discordgo.InteractionResponse) *discordgo.MessageEmbed {
	if resp == nil || resp.Data == nil || len(resp.Data.Embeds) == 0 {
		return nil
	}
	return resp.Data.Embeds[0]
}
