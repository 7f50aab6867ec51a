package usecases

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
)

func TestEnqueueService_Enqueue(t *testing.T) {
	guildID := snowflake.ID(1)
	requesterID := snowflake.ID(42)

	tests := []struct {
		name          string
		query         string
		setupSession  func(*mockRepository)
		setupResolver func(*mockTrackResolver)
		wantErr       error
		wantStarted   string
		wantPosition  int
		wantQueue     []string
		wantPlaylist  bool
	}{
		{
			name:         "not connected",
			query:        "song",
			setupSession: func(*mockRepository) {},
			wantErr:      ErrNotConnected,
		},
		{
			name:  "search hit starts playback when idle",
			query: "song",
			setupResolver: func(m *mockTrackResolver) {
				m.loadResult = &ports.LoadResult{
					Type:   ports.LoadTypeSearch,
					Tracks: []*ports.TrackInfo{mockTrackInfo("A"), mockTrackInfo("B")},
				}
			},
			wantStarted:  "Track A",
			wantPosition: 0,
		},
		{
			name:  "track is appended while playing",
			query: "https://youtu.be/B",
			setupSession: func(m *mockRepository) {
				m.createPlayingSession(guildID, 2, 3, "X", "Y")
			},
			setupResolver: func(m *mockTrackResolver) {
				m.loadResult = &ports.LoadResult{
					Type:   ports.LoadTypeTrack,
					Tracks: []*ports.TrackInfo{mockTrackInfo("B")},
				}
			},
			wantPosition: 2,
			wantQueue:    []string{"Track Y", "Track B"},
		},
		{
			name:  "playlist is appended whole",
			query: "https://youtube.com/playlist?list=1",
			setupSession: func(m *mockRepository) {
				m.createPlayingSession(guildID, 2, 3, "X")
			},
			setupResolver: func(m *mockTrackResolver) {
				m.loadResult = &ports.LoadResult{
					Type:         ports.LoadTypePlaylist,
					PlaylistName: "Mix",
					Tracks:       []*ports.TrackInfo{mockTrackInfo("A"), mockTrackInfo("B")},
				}
			},
			wantPosition: 1,
			wantQueue:    []string{"Track A", "Track B"},
			wantPlaylist: true,
		},
		{
			name:  "empty result",
			query: "nothing",
			setupResolver: func(m *mockTrackResolver) {
				m.loadResult = &ports.LoadResult{Type: ports.LoadTypeEmpty}
			},
			wantErr: ErrNoResults,
		},
		{
			name:  "engine error result",
			query: "broken",
			setupResolver: func(m *mockTrackResolver) {
				m.loadResult = &ports.LoadResult{Type: ports.LoadTypeError}
			},
			wantErr: ErrLoadFailed,
		},
		{
			name:  "resolver failure",
			query: "song",
			setupResolver: func(m *mockTrackResolver) {
				m.loadErr = errors.New("node unreachable")
			},
			wantErr: ErrLoadFailed,
		},
		{
			name:  "resolution times out",
			query: "slow",
			setupResolver: func(m *mockTrackResolver) {
				m.block = true
			},
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices()
			if tt.setupSession != nil {
				tt.setupSession(ts.repo)
			} else {
				ts.repo.createSession(guildID, 2, 3)
			}
			if tt.setupResolver != nil {
				tt.setupResolver(ts.resolver)
			}

			output, err := ts.enqueue.Enqueue(context.Background(), EnqueueInput{
				GuildID:     guildID,
				RequesterID: requesterID,
				Query:       tt.query,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantStarted != "" {
				if output.Started == nil || output.Started.Title != tt.wantStarted {
					t.Errorf("expected %s to start, got %v", tt.wantStarted, output.Started)
				}
				if !slices.Equal(ts.player.played, []string{tt.wantStarted}) {
					t.Errorf("expected engine to play %s, got %v", tt.wantStarted, ts.player.played)
				}
			} else if output.Started != nil {
				t.Errorf("expected nothing to start, got %s", output.Started.Title)
			}

			if output.Position != tt.wantPosition {
				t.Errorf("expected position %d, got %d", tt.wantPosition, output.Position)
			}
			if output.IsPlaylist != tt.wantPlaylist {
				t.Errorf("expected playlist=%v, got %v", tt.wantPlaylist, output.IsPlaylist)
			}
			if got := queueTitles(ts.repo.Get(guildID)); !slices.Equal(got, tt.wantQueue) {
				t.Errorf("expected queue %v, got %v", tt.wantQueue, got)
			}
			for _, track := range output.Tracks {
				if track.RequesterID != requesterID {
					t.Errorf("expected requester %d, got %d", requesterID, track.RequesterID)
				}
			}
			if len(ts.projection.refreshed) == 0 {
				t.Error("expected projection refresh")
			}
		})
	}
}

func TestEnqueueService_EachSlotOwnsItsTrack(t *testing.T) {
	guildID := snowflake.ID(1)
	ts := newTestServices()
	ts.repo.createPlayingSession(guildID, 2, 3, "X")
	ts.resolver.loadResult = &ports.LoadResult{
		Type:   ports.LoadTypeTrack,
		Tracks: []*ports.TrackInfo{mockTrackInfo("A")},
	}

	for _, requester := range []snowflake.ID{10, 20} {
		if _, err := ts.enqueue.Enqueue(context.Background(), EnqueueInput{
			GuildID:     guildID,
			RequesterID: requester,
			Query:       "https://youtu.be/A",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	queued := ts.repo.Get(guildID).Queue.List()
	if len(queued) != 2 {
		t.Fatalf("expected 2 queued tracks, got %d", len(queued))
	}
	if queued[0] == queued[1] {
		t.Fatal("expected distinct track values per slot")
	}
	if queued[0].RequesterID != 10 || queued[1].RequesterID != 20 {
		t.Errorf("expected requesters 10 and 20, got %d and %d", queued[0].RequesterID, queued[1].RequesterID)
	}
}
