package usecases

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

func mockTrack(id string) *domain.Track {
	return &domain.Track{
		Encoded:     "encoded-" + id,
		Identifier:  id,
		Title:       "Track " + id,
		Author:      "Artist",
		Duration:    3 * time.Minute,
		SourceName:  "youtube",
		RequesterID: snowflake.ID(123),
	}
}

func mockTrackInfo(id string) *ports.TrackInfo {
	return &ports.TrackInfo{
		Identifier: id,
		Encoded:    "encoded-" + id,
		Title:      "Track " + id,
		Author:     "Artist",
		Duration:   3 * time.Minute,
		SourceName: "youtube",
	}
}

func queueTitles(session *domain.GuildVoiceSession) []string {
	var titles []string
	for _, track := range session.Queue.List() {
		titles = append(titles, track.Title)
	}
	return titles
}

type mockRepository struct {
	sessions map[snowflake.ID]*domain.GuildVoiceSession
	deleted  []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions: make(map[snowflake.ID]*domain.GuildVoiceSession),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.GuildVoiceSession {
	return m.sessions[guildID]
}

func (m *mockRepository) Save(session *domain.GuildVoiceSession) {
	m.sessions[session.GuildID] = session
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.deleted = append(m.deleted, guildID)
	delete(m.sessions, guildID)
}

// createSession creates a session with the given IDs and saves it to the mock repository.
// Returns the session for further modification (e.g., adding tracks).
func (m *mockRepository) createSession(
	guildID, voiceChannelID, textChannelID snowflake.ID,
) *domain.GuildVoiceSession {
	session := domain.NewGuildVoiceSession(guildID, voiceChannelID, textChannelID, domain.DefaultVolume)
	m.Save(session)
	return session
}

// createPlayingSession creates a session playing current with the given tracks queued.
func (m *mockRepository) createPlayingSession(
	guildID, voiceChannelID, textChannelID snowflake.ID,
	current string,
	queued ...string,
) *domain.GuildVoiceSession {
	session := m.createSession(guildID, voiceChannelID, textChannelID)
	for _, id := range queued {
		session.Queue.Append(mockTrack(id))
	}
	if current != "" {
		session.Start(mockTrack(current))
		session.SetPlaying(true)
	}
	return session
}

type mockAudioPlayer struct {
	unavailable bool
	playErr     error
	stopErr     error
	pauseErr    error
	resumeErr   error
	volumeErr   error
	seekErr     error
	position    time.Duration

	played  []string
	stopped int
	volumes []int
	seeks   []time.Duration
}

func (m *mockAudioPlayer) Available() bool {
	return !m.unavailable
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track *domain.Track) error {
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, track.Title)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.stopped++
	return m.stopErr
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	return m.pauseErr
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	return m.resumeErr
}

func (m *mockAudioPlayer) SetVolume(_ context.Context, _ snowflake.ID, volume int) error {
	if m.volumeErr != nil {
		return m.volumeErr
	}
	m.volumes = append(m.volumes, volume)
	return nil
}

func (m *mockAudioPlayer) Seek(_ context.Context, _ snowflake.ID, position time.Duration) error {
	if m.seekErr != nil {
		return m.seekErr
	}
	m.seeks = append(m.seeks, position)
	return nil
}

func (m *mockAudioPlayer) Position(_ snowflake.ID) time.Duration {
	return m.position
}

type mockVoiceConnection struct {
	joinErr  error
	leaveErr error

	joined []snowflake.ID
	left   int
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.left++
	return m.leaveErr
}

type mockTrackResolver struct {
	loadErr    error
	loadResult *ports.LoadResult
	// block makes LoadTracks wait for the context to end.
	block bool

	queries []string
}

func (m *mockTrackResolver) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	m.queries = append(m.queries, query)
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.loadResult == nil {
		return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
	}
	return m.loadResult, nil
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func newMockVoiceStateProvider() *mockVoiceStateProvider {
	return &mockVoiceStateProvider{channels: make(map[snowflake.ID]snowflake.ID)}
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

type mockPermissionChecker struct {
	denied bool
	err    error
}

func (m *mockPermissionChecker) CanJoin(_, _ snowflake.ID) (bool, error) {
	return !m.denied, m.err
}

type mockRoleProvider struct {
	roles map[snowflake.ID][]snowflake.ID
	err   error
	calls int
}

func (m *mockRoleProvider) MemberRoles(_, userID snowflake.ID) ([]snowflake.ID, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.roles[userID], nil
}

type mockConfigStore struct {
	configs   map[snowflake.ID]*domain.GuildConfig
	findErr   error
	upsertErr error
	listErr   error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{configs: make(map[snowflake.ID]*domain.GuildConfig)}
}

func (m *mockConfigStore) FindByGuildID(_ context.Context, guildID snowflake.ID) (*domain.GuildConfig, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.configs[guildID], nil
}

func (m *mockConfigStore) Upsert(_ context.Context, guildID snowflake.ID, patch domain.GuildConfigPatch) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	config, ok := m.configs[guildID]
	if !ok {
		config = domain.NewGuildConfig(guildID)
		m.configs[guildID] = config
	}
	patch.Apply(config)
	return nil
}

func (m *mockConfigStore) ListCentralEnabled(_ context.Context) ([]*domain.GuildConfig, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*domain.GuildConfig
	for _, config := range m.configs {
		if config.Central.Enabled {
			result = append(result, config)
		}
	}
	return result, nil
}

type mockProjection struct {
	refreshed []snowflake.ID
	idled     []snowflake.ID
}

func (m *mockProjection) Refresh(_ context.Context, guildID snowflake.ID) {
	m.refreshed = append(m.refreshed, guildID)
}

func (m *mockProjection) Idle(_ context.Context, guildID snowflake.ID) {
	m.idled = append(m.idled, guildID)
}

type mockEmbedSink struct {
	postErr   error
	existsErr error
	missing   map[snowflake.ID]bool // message IDs that no longer exist
	nextID    snowflake.ID

	posted   []snowflake.ID // channel IDs
	idled    []ports.EmbedTarget
	rendered []ports.EmbedTarget
}

func (m *mockEmbedSink) RenderActive(
	_ context.Context,
	target ports.EmbedTarget,
	_ *domain.DisplayProjection,
) error {
	m.rendered = append(m.rendered, target)
	return nil
}

func (m *mockEmbedSink) RenderIdle(_ context.Context, target ports.EmbedTarget) error {
	m.idled = append(m.idled, target)
	return nil
}

func (m *mockEmbedSink) PostIdle(_ context.Context, channelID snowflake.ID) (snowflake.ID, error) {
	if m.postErr != nil {
		return 0, m.postErr
	}
	m.posted = append(m.posted, channelID)
	m.nextID++
	return m.nextID, nil
}

func (m *mockEmbedSink) Exists(_ context.Context, target ports.EmbedTarget) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return !m.missing[target.MessageID], nil
}

type mockChannelInspector struct {
	missing map[snowflake.ID]bool
	err     error
}

func (m *mockChannelInspector) Exists(_ context.Context, channelID snowflake.ID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return !m.missing[channelID], nil
}

func (m *mockChannelInspector) Snapshot(_ context.Context, _ snowflake.ID) (ports.ChannelSnapshot, error) {
	return ports.ChannelSnapshot{}, m.err
}

// inlineSerializer runs work on the calling goroutine.
type inlineSerializer struct {
	calls int
}

func (s *inlineSerializer) Do(ctx context.Context, _ snowflake.ID, fn func(context.Context) error) error {
	s.calls++
	return fn(ctx)
}

func (s *inlineSerializer) Go(_ snowflake.ID, fn func(context.Context)) {
	s.calls++
	fn(context.Background())
}

// testServices wires every use case against fresh mocks.
type testServices struct {
	repo        *mockRepository
	player      *mockAudioPlayer
	voiceConn   *mockVoiceConnection
	resolver    *mockTrackResolver
	voiceState  *mockVoiceStateProvider
	permissions *mockPermissionChecker
	roles       *mockRoleProvider
	configs     *mockConfigStore
	projection  *mockProjection
	serializer  *inlineSerializer

	policy     *PolicyService
	sessions   *SessionService
	playback   *PlaybackService
	enqueue    *EnqueueService
	transport  *TransportService
	central    *CentralService
	controller *MusicController
}

func newTestServices() *testServices {
	ts := &testServices{
		repo:        newMockRepository(),
		player:      &mockAudioPlayer{},
		voiceConn:   &mockVoiceConnection{},
		resolver:    &mockTrackResolver{},
		voiceState:  newMockVoiceStateProvider(),
		permissions: &mockPermissionChecker{},
		roles:       &mockRoleProvider{roles: make(map[snowflake.ID][]snowflake.ID)},
		configs:     newMockConfigStore(),
		projection:  &mockProjection{},
		serializer:  &inlineSerializer{},
	}

	ts.policy = NewPolicyService(ts.repo, ts.configs, ts.voiceState, ts.permissions, ts.roles)
	ts.sessions = NewSessionService(ts.repo, ts.voiceConn, ts.player, ts.projection)
	ts.playback = NewPlaybackService(
		ts.repo,
		ts.player,
		ts.resolver,
		ts.configs,
		ts.sessions,
		ts.projection,
		time.Second,
	)
	ts.enqueue = NewEnqueueService(ts.repo, ts.resolver, ts.playback, ts.projection, time.Second)
	ts.transport = NewTransportService(ts.repo, ts.player, ts.sessions, ts.playback, ts.projection)
	ts.central = NewCentralService(
		ts.configs,
		&mockEmbedSink{missing: make(map[snowflake.ID]bool), nextID: 100},
		&mockChannelInspector{missing: make(map[snowflake.ID]bool)},
		ts.projection,
	)
	ts.controller = NewMusicController(
		ts.serializer,
		ts.policy,
		ts.sessions,
		ts.enqueue,
		ts.transport,
		NewQueueService(ts.repo, ts.player),
		ts.central,
	)
	return ts
}
