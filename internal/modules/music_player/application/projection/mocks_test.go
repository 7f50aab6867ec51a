package projection

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

var errStrategyFailed = errors.New("strategy failed")

// fakeChannel is a voice channel whose metadata strategies edit.
type fakeChannel struct {
	name   string
	topic  string
	status string
}

type fakeInspector struct {
	channels map[snowflake.ID]*fakeChannel
	err      error

	mu    sync.Mutex
	reads int
}

func (f *fakeInspector) Exists(_ context.Context, channelID snowflake.ID) (bool, error) {
	_, ok := f.channels[channelID]
	return ok, f.err
}

func (f *fakeInspector) Snapshot(_ context.Context, channelID snowflake.ID) (ports.ChannelSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.err != nil {
		return ports.ChannelSnapshot{}, f.err
	}
	ch := f.channels[channelID]
	return ports.ChannelSnapshot{Name: ch.name, Topic: ch.topic}, nil
}

// fakeStrategy writes to one field of a fakeChannel.
type fakeStrategy struct {
	name       string
	channels   map[snowflake.ID]*fakeChannel
	annotate   func(ch *fakeChannel, title string)
	restore    func(ch *fakeChannel, original ports.ChannelSnapshot)
	failAnnot  bool
	failRestor bool

	annotations int
	restores    int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Annotate(
	_ context.Context,
	channelID snowflake.ID,
	title string,
	_ ports.ChannelSnapshot,
) error {
	if f.failAnnot {
		return errStrategyFailed
	}
	f.annotations++
	f.annotate(f.channels[channelID], title)
	return nil
}

func (f *fakeStrategy) Restore(
	_ context.Context,
	channelID snowflake.ID,
	original ports.ChannelSnapshot,
) error {
	if f.failRestor {
		return errStrategyFailed
	}
	f.restores++
	f.restore(f.channels[channelID], original)
	return nil
}

func newStatusStrategy(channels map[snowflake.ID]*fakeChannel) *fakeStrategy {
	return &fakeStrategy{
		name:     "status",
		channels: channels,
		annotate: func(ch *fakeChannel, title string) { ch.status = "🎵 " + title },
		restore:  func(ch *fakeChannel, _ ports.ChannelSnapshot) { ch.status = "" },
	}
}

func newTopicStrategy(channels map[snowflake.ID]*fakeChannel) *fakeStrategy {
	return &fakeStrategy{
		name:     "topic",
		channels: channels,
		annotate: func(ch *fakeChannel, title string) { ch.topic = "Now Playing: " + title },
		restore:  func(ch *fakeChannel, original ports.ChannelSnapshot) { ch.topic = original.Topic },
	}
}

func newNameStrategy(channels map[snowflake.ID]*fakeChannel) *fakeStrategy {
	return &fakeStrategy{
		name:     "name",
		channels: channels,
		annotate: func(ch *fakeChannel, title string) { ch.name = "🎵 " + title },
		restore:  func(ch *fakeChannel, original ports.ChannelSnapshot) { ch.name = original.Name },
	}
}

type mockPresenceSink struct {
	mu        sync.Mutex
	listening []string
	idles     int
}

func (m *mockPresenceSink) SetListening(title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listening = append(m.listening, title)
	return nil
}

func (m *mockPresenceSink) SetIdle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idles++
	return nil
}

func (m *mockPresenceSink) snapshot() ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.listening...), m.idles
}

type mockEmbedSink struct {
	renderErr error
	active    []*domain.DisplayProjection
	idle      int
}

func (m *mockEmbedSink) RenderActive(
	_ context.Context,
	_ ports.EmbedTarget,
	projection *domain.DisplayProjection,
) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	m.active = append(m.active, projection)
	return nil
}

func (m *mockEmbedSink) RenderIdle(_ context.Context, _ ports.EmbedTarget) error {
	if m.renderErr != nil {
		return m.renderErr
	}
	m.idle++
	return nil
}

func (m *mockEmbedSink) PostIdle(context.Context, snowflake.ID) (snowflake.ID, error) {
	return 0, nil
}

func (m *mockEmbedSink) Exists(context.Context, ports.EmbedTarget) (bool, error) {
	return true, nil
}

type mockRepository struct {
	sessions map[snowflake.ID]*domain.GuildVoiceSession
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.GuildVoiceSession {
	return m.sessions[guildID]
}

func (m *mockRepository) Save(session *domain.GuildVoiceSession) {
	m.sessions[session.GuildID] = session
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	delete(m.sessions, guildID)
}

type mockConfigStore struct {
	config *domain.GuildConfig
	err    error
}

func (m *mockConfigStore) FindByGuildID(context.Context, snowflake.ID) (*domain.GuildConfig, error) {
	return m.config, m.err
}

func (m *mockConfigStore) Upsert(context.Context, snowflake.ID, domain.GuildConfigPatch) error {
	return nil
}

func (m *mockConfigStore) ListCentralEnabled(context.Context) ([]*domain.GuildConfig, error) {
	return nil, nil
}

type fixedPosition time.Duration

func (f fixedPosition) Position(snowflake.ID) time.Duration {
	return time.Duration(f)
}
