package usecases

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

func TestMusicController_PlayCentralTakeover(t *testing.T) {
	guildID := snowflake.ID(1)
	userID := snowflake.ID(2)
	centralVoice := snowflake.ID(10)
	centralText := snowflake.ID(11)
	otherText := snowflake.ID(12)

	ts := newTestServices()
	cfg := domain.NewGuildConfig(guildID)
	cfg.Central = domain.CentralSetup{
		Enabled:        true,
		ChannelID:      centralText,
		VoiceChannelID: centralVoice,
	}
	ts.configs.configs[guildID] = cfg
	ts.voiceState.channels[userID] = centralVoice
	previous := ts.repo.createPlayingSession(guildID, centralVoice, otherText, "A", "B")
	ts.resolver.loadResult = &ports.LoadResult{
		Type:   ports.LoadTypeSearch,
		Tracks: []*ports.TrackInfo{mockTrackInfo("C")},
	}

	output, err := ts.controller.Play(context.Background(), PlayInput{
		GuildID:            guildID,
		UserID:             userID,
		TextChannelID:      centralText,
		Query:              "song",
		FromCentralChannel: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !output.TookOver {
		t.Error("expected takeover")
	}
	session := ts.repo.Get(guildID)
	if session == previous {
		t.Fatal("expected the session to be replaced")
	}
	if session.TextSinkChannelID() != centralText {
		t.Errorf("expected central text sink, got %d", session.TextSinkChannelID())
	}
	if session.Current() == nil || session.Current().Title != "Track C" {
		t.Errorf("expected Track C to play, got %v", session.Current())
	}
	if session.Queue.Len() != 0 {
		t.Errorf("expected previous queue discarded, got %v", queueTitles(session))
	}
	if ts.voiceConn.left != 0 {
		t.Error("expected no disconnect during takeover")
	}
}

func TestMusicController_PlayFromCentralJoinsCentralSession(t *testing.T) {
	guildID := snowflake.ID(1)
	userID := snowflake.ID(2)
	centralVoice := snowflake.ID(10)
	centralText := snowflake.ID(11)

	ts := newTestServices()
	cfg := domain.NewGuildConfig(guildID)
	cfg.Central = domain.CentralSetup{Enabled: true, ChannelID: centralText, VoiceChannelID: centralVoice}
	ts.configs.configs[guildID] = cfg
	ts.voiceState.channels[userID] = centralVoice
	existing := ts.repo.createPlayingSession(guildID, centralVoice, centralText, "A")
	ts.resolver.loadResult = &ports.LoadResult{
		Type:   ports.LoadTypeSearch,
		Tracks: []*ports.TrackInfo{mockTrackInfo("B")},
	}

	output, err := ts.controller.Play(context.Background(), PlayInput{
		GuildID:            guildID,
		UserID:             userID,
		TextChannelID:      centralText,
		Query:              "song",
		FromCentralChannel: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.TookOver {
		t.Error("expected no takeover")
	}
	if ts.repo.Get(guildID) != existing {
		t.Error("expected the existing session to be kept")
	}
	if got := queueTitles(existing); !slices.Equal(got, []string{"Track B"}) {
		t.Errorf("expected Track B queued, got %v", got)
	}
}

func TestMusicController_DeniedRequestsLeaveSessionUntouched(t *testing.T) {
	guildID := snowflake.ID(1)
	userID := snowflake.ID(2)
	sessionChannel := snowflake.ID(10)
	otherChannel := snowflake.ID(20)

	requests := []struct {
		name string
		run  func(*testServices) error
	}{
		{
			name: "play",
			run: func(ts *testServices) error {
				_, err := ts.controller.Play(context.Background(), PlayInput{
					GuildID: guildID,
					UserID:  userID,
					Query:   "song",
				})
				return err
			},
		},
		{
			name: "skip",
			run: func(ts *testServices) error {
				_, err := ts.controller.Control(context.Background(), ControlInput{
					GuildID: guildID,
					UserID:  userID,
					Op:      SkipOp(),
				})
				return err
			},
		},
		{
			name: "button",
			run: func(ts *testServices) error {
				_, err := ts.controller.Control(context.Background(), ControlInput{
					GuildID:    guildID,
					UserID:     userID,
					Op:         ClearQueueOp(),
					FromButton: true,
				})
				return err
			},
		},
		{
			name: "leave",
			run: func(ts *testServices) error {
				return ts.controller.Leave(context.Background(), LeaveInput{GuildID: guildID, UserID: userID})
			},
		},
	}

	for _, req := range requests {
		t.Run(req.name, func(t *testing.T) {
			ts := newTestServices()
			ts.voiceState.channels[userID] = otherChannel
			session := ts.repo.createPlayingSession(guildID, sessionChannel, 3, "A", "B")

			err := req.run(ts)

			var denied *DeniedError
			if !errors.As(err, &denied) {
				t.Fatalf("expected DeniedError, got %v", err)
			}
			if denied.Reason != domain.ReasonDifferentChannel {
				t.Errorf("expected reason %q, got %q", domain.ReasonDifferentChannel, denied.Reason)
			}
			if ts.repo.Get(guildID) != session {
				t.Error("expected session to be kept")
			}
			if session.Current() == nil || session.Current().Title != "Track A" {
				t.Error("expected current track unchanged")
			}
			if got := queueTitles(session); !slices.Equal(got, []string{"Track B"}) {
				t.Errorf("expected queue unchanged, got %v", got)
			}
			if len(ts.player.played) != 0 || ts.player.stopped != 0 {
				t.Error("expected no engine calls")
			}
			if ts.serializer.calls != 1 {
				t.Errorf("expected the request to run on the guild serializer, got %d calls", ts.serializer.calls)
			}
		})
	}
}

func TestMusicController_JoinEngineUnavailable(t *testing.T) {
	ts := newTestServices()
	ts.voiceState.channels[snowflake.ID(2)] = snowflake.ID(10)
	ts.player.unavailable = true

	_, err := ts.controller.Join(context.Background(), JoinInput{
		GuildID: snowflake.ID(1),
		UserID:  snowflake.ID(2),
	})
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
	if len(ts.voiceConn.joined) != 0 {
		t.Error("expected no voice connection")
	}
}

func TestMusicController_ReadsRunOnSerializer(t *testing.T) {
	guildID := snowflake.ID(1)

	ts := newTestServices()
	ts.repo.createPlayingSession(guildID, snowflake.ID(10), snowflake.ID(11), "A", "B", "C")

	list, err := ts.controller.ListQueue(context.Background(), QueueListInput{GuildID: guildID, Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.TotalTracks != 2 {
		t.Errorf("expected 2 queued tracks, got %d", list.TotalTracks)
	}

	nowPlaying, err := ts.controller.NowPlaying(context.Background(), guildID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nowPlaying.Projection == nil || nowPlaying.Projection.Title != "Track A" {
		t.Errorf("expected Track A, got %+v", nowPlaying.Projection)
	}

	if ts.serializer.calls != 2 {
		t.Errorf("expected 2 serialized calls, got %d", ts.serializer.calls)
	}
}

func TestMusicController_SetupCentral(t *testing.T) {
	guildID := snowflake.ID(1)
	channelID := snowflake.ID(20)

	ts := newTestServices()

	output, err := ts.controller.SetupCentral(context.Background(), SetupCentralInput{
		GuildID:   guildID,
		ChannelID: channelID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, _ := ts.controller.CentralConfig(context.Background(), guildID)
	if !cfg.Central.Enabled || cfg.Central.ChannelID != channelID {
		t.Errorf("expected central enabled in channel %d, got %+v", channelID, cfg.Central)
	}
	if cfg.Central.EmbedID != output.EmbedID {
		t.Errorf("expected embed %d stored, got %d", output.EmbedID, cfg.Central.EmbedID)
	}

	if err := ts.controller.DisableCentral(context.Background(), guildID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ts.controller.DisableCentral(context.Background(), guildID); !errors.Is(err, ErrCentralNotConfigured) {
		t.Errorf("expected ErrCentralNotConfigured, got %v", err)
	}
}
