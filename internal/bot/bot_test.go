package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// fullStubModule implements every optional module interface.
type fullStubModule struct {
	stubModule
	components    map[string]InteractionHandler
	autocompletes map[string]AutocompleteHandler
	messages      []MessageHandler
	configErr     error
	configLoaded  bool
}

func (m *fullStubModule) ComponentHandlers() map[string]InteractionHandler { return m.components }
func (m *fullStubModule) AutocompleteHandlers() map[string]AutocompleteHandler {
	return m.autocompletes
}
func (m *fullStubModule) MessageHandlers() []MessageHandler { return m.messages }
func (m *fullStubModule) LoadConfig() error {
	m.configLoaded = true
	return m.configErr
}

// trackingStubModule is a stub that tracks if Init was called
type trackingStubModule struct {
	stubModule
	initCalled *bool
}

func (m *trackingStubModule) Init(deps ModuleDependencies) error {
	*m.initCalled = true
	return m.stubModule.Init(deps)
}

func commandInteraction(name string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}

func componentInteraction(customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: customID},
		},
	}
}

func TestNewBot(t *testing.T) {
	cfg := &Config{
		DiscordToken: "test-token",
	}

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
	if b.Ready() {
		t.Error("expected new bot not to be ready")
	}
}

func TestBot_InitModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	initCalled := false
	b.modules = []Module{&trackingStubModule{
		stubModule: stubModule{name: "tracking"},
		initCalled: &initCalled,
	}}

	if err := b.initModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !initCalled {
		t.Error("expected Init to be called")
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	expectedErr := errors.New("init failed")
	b.modules = []Module{&stubModule{name: "failing", initErr: expectedErr}}

	err := b.initModules()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_LoadModules_LoadsConfig(t *testing.T) {
	r := NewRegistry()
	mod := &fullStubModule{stubModule: stubModule{name: "configurable"}}
	r.Register(mod)

	original := globalRegistry
	globalRegistry = r
	t.Cleanup(func() { globalRegistry = original })

	b := NewBot(&Config{DiscordToken: "test-token"})
	if err := b.LoadModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !mod.configLoaded {
		t.Error("expected LoadConfig to be called")
	}
	if len(b.modules) != 1 {
		t.Errorf("expected 1 module, got %d", len(b.modules))
	}
}

func TestBot_LoadModules_ReturnsConfigError(t *testing.T) {
	r := NewRegistry()
	expectedErr := errors.New("missing LAVALINK_ADDRESS")
	r.Register(&fullStubModule{stubModule: stubModule{name: "broken"}, configErr: expectedErr})

	original := globalRegistry
	globalRegistry = r
	t.Cleanup(func() { globalRegistry = original })

	b := NewBot(&Config{DiscordToken: "test-token"})
	if err := b.LoadModules(); !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_BuildHandlerMap(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}

	b.modules = []Module{
		&stubModule{
			name:     "mod1",
			handlers: map[string]InteractionHandler{"cmd1": handler},
		},
		&fullStubModule{
			stubModule: stubModule{
				name:     "mod2",
				handlers: map[string]InteractionHandler{"cmd2": handler},
			},
			components: map[string]InteractionHandler{"button": handler},
			autocompletes: map[string]AutocompleteHandler{
				"cmd2": func(s *discordgo.Session, i *discordgo.InteractionCreate) {},
			},
			messages: []MessageHandler{func(s *discordgo.Session, m *discordgo.MessageCreate) {}},
		},
	}

	b.buildHandlerMap()

	if len(b.handlers) != 2 {
		t.Errorf("expected 2 command handlers, got %d", len(b.handlers))
	}
	if _, ok := b.components["button"]; !ok {
		t.Error("expected button component handler to be registered")
	}
	if _, ok := b.autocompletes["cmd2"]; !ok {
		t.Error("expected autocomplete handler to be registered")
	}
	if len(b.messages) != 1 {
		t.Errorf("expected 1 message handler, got %d", len(b.messages))
	}
}

func TestBot_CollectCommands(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Ping command",
	}

	b.modules = []Module{&stubModule{
		name:     "test",
		commands: []*discordgo.ApplicationCommand{cmd},
	}}

	commands := b.collectCommands()

	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}
	if commands[0].Name != "ping" {
		t.Errorf("expected command name %q, got %q", "ping", commands[0].Name)
	}
}

func TestBot_DispatchInteraction_NotReady(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	called := false
	b.handlers["play"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		called = true
		return nil
	}

	r := &MockResponder{}
	b.dispatchInteraction(nil, commandInteraction("play"), r)

	if called {
		t.Error("expected handler not to run before the bot is ready")
	}
	if r.LastResponse == nil {
		t.Fatal("expected a response")
	}
	embed := r.LastResponse.Data.Embeds[0]
	if embed.Description != NotReadyMessage {
		t.Errorf("expected %q, got %q", NotReadyMessage, embed.Description)
	}
	if r.LastResponse.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("expected ephemeral response")
	}
}

func TestBot_DispatchInteraction_RoutesWhenReady(t *testing.T) {
	tests := []struct {
		name        string
		interaction *discordgo.InteractionCreate
		wantCommand bool
		wantButton  bool
	}{
		{
			name:        "command",
			interaction: commandInteraction("play"),
			wantCommand: true,
		},
		{
			name:        "component",
			interaction: componentInteraction("music_pause"),
			wantButton:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBot(&Config{DiscordToken: "test-token"})

			var gotCommand, gotButton bool
			b.handlers["play"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
				gotCommand = true
				return nil
			}
			b.components["music_pause"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
				gotButton = true
				return nil
			}
			b.ready.Store(true)

			b.dispatchInteraction(nil, tt.interaction, &MockResponder{})

			if gotCommand != tt.wantCommand {
				t.Errorf("expected command called=%v, got %v", tt.wantCommand, gotCommand)
			}
			if gotButton != tt.wantButton {
				t.Errorf("expected button called=%v, got %v", tt.wantButton, gotButton)
			}
		})
	}
}

func TestBot_DispatchInteraction_UnknownCommand(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	b.ready.Store(true)

	r := &MockResponder{}
	b.dispatchInteraction(nil, commandInteraction("missing"), r)

	if r.LastResponse == nil {
		t.Fatal("expected a response")
	}
	if got := r.LastResponse.Data.Embeds[0].Title; got != "Unknown Command" {
		t.Errorf("expected title %q, got %q", "Unknown Command", got)
	}
}

func TestBot_DispatchInteraction_HandlerError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	b.handlers["play"] = func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return errors.New("boom")
	}
	b.ready.Store(true)

	r := &MockResponder{}
	b.dispatchInteraction(nil, commandInteraction("play"), r)

	if r.LastResponse == nil {
		t.Fatal("expected a response")
	}
	embed := r.LastResponse.Data.Embeds[0]
	if embed.Title != "Error" {
		t.Errorf("expected title %q, got %q", "Error", embed.Title)
	}
	if embed.Color != colorRed {
		t.Errorf("expected color %x, got %x", colorRed, embed.Color)
	}
}

func TestBot_HandleMessage(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		message  *discordgo.Message
		wantCall bool
	}{
		{
			name:     "dispatched when ready",
			ready:    true,
			message:  &discordgo.Message{GuildID: "1", Author: &discordgo.User{ID: "2"}},
			wantCall: true,
		},
		{
			name:    "ignored before ready",
			message: &discordgo.Message{GuildID: "1", Author: &discordgo.User{ID: "2"}},
		},
		{
			name:    "ignores bots",
			ready:   true,
			message: &discordgo.Message{GuildID: "1", Author: &discordgo.User{ID: "2", Bot: true}},
		},
		{
			name:    "ignores direct messages",
			ready:   true,
			message: &discordgo.Message{Author: &discordgo.User{ID: "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBot(&Config{DiscordToken: "test-token"})

			called := false
			b.messages = []MessageHandler{func(s *discordgo.Session, m *discordgo.MessageCreate) {
				called = true
			}}
			b.ready.Store(tt.ready)

			b.handleMessage(nil, &discordgo.MessageCreate{Message: tt.message})

			if called != tt.wantCall {
				t.Errorf("expected handler called=%v, got %v", tt.wantCall, called)
			}
		})
	}
}

func TestBot_DispatchAutocomplete_NotReady(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	called := false
	b.autocompletes["play"] = func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		called = true
	}

	i := commandInteraction("play")
	i.Type = discordgo.InteractionApplicationCommandAutocomplete

	b.dispatchAutocomplete(nil, i)
	if called {
		t.Error("expected autocomplete to be ignored before ready")
	}

	b.ready.Store(true)
	b.dispatchAutocomplete(nil, i)
	if !called {
		t.Error("expected autocomplete to run once ready")
	}
}
