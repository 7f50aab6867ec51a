package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// VolumeStep is how far the volume buttons move the volume.
const VolumeStep = 10

// TransportKind identifies a transport operation.
type TransportKind int

const (
	TransportPause TransportKind = iota
	TransportResume
	TransportTogglePause
	TransportStop
	TransportSkip
	TransportSeek
	TransportSetVolume
	TransportAdjustVolume
	TransportSetLoop
	TransportCycleLoop
	TransportJumpTo
	TransportMoveTrack
	TransportRemoveTrack
	TransportClearQueue
	TransportShuffleQueue
)

// TransportOp is one operation on a guild's playback. Queue positions are 1-based.
type TransportOp struct {
	Kind     TransportKind
	Volume   int
	Delta    int
	LoopMode domain.LoopMode
	Position int
	From     int
	To       int
	Offset   time.Duration
}

// PauseOp pauses playback.
func PauseOp() TransportOp { return TransportOp{Kind: TransportPause} }

// ResumeOp resumes playback.
func ResumeOp() TransportOp { return TransportOp{Kind: TransportResume} }

// TogglePauseOp pauses or resumes playback.
func TogglePauseOp() TransportOp { return TransportOp{Kind: TransportTogglePause} }

// StopOp stops playback and ends the session.
func StopOp() TransportOp { return TransportOp{Kind: TransportStop} }

// SkipOp skips the current track.
func SkipOp() TransportOp { return TransportOp{Kind: TransportSkip} }

// SeekOp moves playback of the current track to offset.
func SeekOp(offset time.Duration) TransportOp {
	return TransportOp{Kind: TransportSeek, Offset: offset}
}

// SetVolumeOp sets the volume in percent.
func SetVolumeOp(volume int) TransportOp {
	return TransportOp{Kind: TransportSetVolume, Volume: volume}
}

// AdjustVolumeOp moves the volume by delta, clamped to the valid range.
func AdjustVolumeOp(delta int) TransportOp {
	return TransportOp{Kind: TransportAdjustVolume, Delta: delta}
}

// SetLoopOp sets the loop mode.
func SetLoopOp(mode domain.LoopMode) TransportOp {
	return TransportOp{Kind: TransportSetLoop, LoopMode: mode}
}

// CycleLoopOp advances the loop mode.
func CycleLoopOp() TransportOp { return TransportOp{Kind: TransportCycleLoop} }

// JumpToOp drops the tracks before position and plays the track at position.
func JumpToOp(position int) TransportOp {
	return TransportOp{Kind: TransportJumpTo, Position: position}
}

// MoveTrackOp moves the track at from to position to.
func MoveTrackOp(from, to int) TransportOp {
	return TransportOp{Kind: TransportMoveTrack, From: from, To: to}
}

// RemoveTrackOp removes the track at position.
func RemoveTrackOp(position int) TransportOp {
	return TransportOp{Kind: TransportRemoveTrack, Position: position}
}

// ClearQueueOp removes every queued track.
func ClearQueueOp() TransportOp { return TransportOp{Kind: TransportClearQueue} }

// ShuffleQueueOp shuffles the queued tracks.
func ShuffleQueueOp() TransportOp { return TransportOp{Kind: TransportShuffleQueue} }

// TransportOutput contains the result of a transport operation.
type TransportOutput struct {
	Paused   bool
	Volume   int
	LoopMode domain.LoopMode

	// Track is the track the operation acted on: skipped, removed, moved or jumped to.
	Track *domain.Track

	// Next is the track now playing after a skip or jump, nil if the session ended.
	Next *domain.Track

	// Count is the number of tracks affected by clear and shuffle.
	Count int

	// Ended is true if the operation ended the session.
	Ended bool
}

// TransportService applies transport operations to guild sessions.
type TransportService struct {
	repo        domain.SessionRepository
	audioPlayer ports.AudioPlayer
	sessions    *SessionService
	playback    *PlaybackService
	projection  ports.ProjectionRefresher
}

// NewTransportService creates a new TransportService.
func NewTransportService(
	repo domain.SessionRepository,
	audioPlayer ports.AudioPlayer,
	sessions *SessionService,
	playback *PlaybackService,
	projection ports.ProjectionRefresher,
) *TransportService {
	return &TransportService{
		repo:        repo,
		audioPlayer: audioPlayer,
		sessions:    sessions,
		playback:    playback,
		projection:  projection,
	}
}

// Apply runs op on the guild's session. Every operation except stop re-renders
// the now-playing surfaces.
func (t *TransportService) Apply(
	ctx context.Context,
	guildID snowflake.ID,
	op TransportOp,
) (*TransportOutput, error) {
	session := t.repo.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	output := &TransportOutput{}
	var err error

	switch op.Kind {
	case TransportPause:
		err = t.pause(ctx, session)
	case TransportResume:
		err = t.resume(ctx, session)
	case TransportTogglePause:
		if session.IsPaused() {
			err = t.resume(ctx, session)
		} else {
			err = t.pause(ctx, session)
		}
	case TransportStop:
		if err := t.sessions.Destroy(ctx, guildID); err != nil {
			return nil, err
		}
		return &TransportOutput{Ended: true}, nil
	case TransportSkip:
		return t.skip(ctx, session)
	case TransportSeek:
		err = t.seek(ctx, session, op.Offset)
		output.Track = session.Current()
	case TransportSetVolume:
		if op.Volume < domain.MinVolume || op.Volume > domain.MaxVolume {
			return nil, ErrInvalidVolume
		}
		err = t.setVolume(ctx, session, op.Volume)
	case TransportAdjustVolume:
		err = t.setVolume(ctx, session, domain.ClampVolume(session.Volume()+op.Delta))
	case TransportSetLoop:
		session.SetLoopMode(op.LoopMode)
	case TransportCycleLoop:
		session.CycleLoopMode()
	case TransportJumpTo:
		return t.jumpTo(ctx, session, op.Position)
	case TransportMoveTrack:
		if !validPosition(session, op.From) || !validPosition(session, op.To) {
			return nil, ErrInvalidPosition
		}
		output.Track = session.Queue.GetAt(op.From - 1)
		session.Queue.Move(op.From-1, op.To-1)
	case TransportRemoveTrack:
		if !validPosition(session, op.Position) {
			return nil, ErrInvalidPosition
		}
		output.Track = session.Queue.RemoveAt(op.Position - 1)
	case TransportClearQueue:
		if session.Queue.IsEmpty() {
			return nil, ErrQueueEmpty
		}
		output.Count = session.Queue.Len()
		session.Queue.Clear()
	case TransportShuffleQueue:
		if session.Queue.IsEmpty() {
			return nil, ErrQueueEmpty
		}
		output.Count = session.Queue.Len()
		session.Queue.Shuffle()
	}
	if err != nil {
		return nil, err
	}

	t.projection.Refresh(ctx, guildID)

	output.Paused = session.IsPaused()
	output.Volume = session.Volume()
	output.LoopMode = session.LoopMode()
	return output, nil
}

func (t *TransportService) pause(ctx context.Context, session *domain.GuildVoiceSession) error {
	if session.Current() == nil {
		return ErrNotPlaying
	}
	if session.IsPaused() {
		return ErrAlreadyPaused
	}
	if err := t.audioPlayer.Pause(ctx, session.GuildID); err != nil {
		return err
	}
	session.SetPaused(true)
	return nil
}

func (t *TransportService) resume(ctx context.Context, session *domain.GuildVoiceSession) error {
	if session.Current() == nil {
		return ErrNotPlaying
	}
	if !session.IsPaused() {
		return ErrNotPaused
	}
	if err := t.audioPlayer.Resume(ctx, session.GuildID); err != nil {
		return err
	}
	session.SetPaused(false)
	return nil
}

func (t *TransportService) seek(
	ctx context.Context,
	session *domain.GuildVoiceSession,
	offset time.Duration,
) error {
	current := session.Current()
	if current == nil {
		return ErrNotPlaying
	}
	if current.IsStream {
		return ErrNotSeekable
	}
	if offset < 0 || offset >= current.Duration {
		return ErrInvalidSeekPosition
	}
	return t.audioPlayer.Seek(ctx, session.GuildID, offset)
}

func (t *TransportService) setVolume(
	ctx context.Context,
	session *domain.GuildVoiceSession,
	volume int,
) error {
	if err := t.audioPlayer.SetVolume(ctx, session.GuildID, volume); err != nil {
		return err
	}
	session.SetVolume(volume)
	return nil
}

func (t *TransportService) skip(
	ctx context.Context,
	session *domain.GuildVoiceSession,
) (*TransportOutput, error) {
	skipped := session.Current()
	if skipped == nil {
		return nil, ErrNotPlaying
	}

	next, err := t.playback.PlayNext(ctx, session)
	if err != nil {
		return nil, err
	}

	slog.Debug("track skipped", "guild", session.GuildID, "title", skipped.Title)
	return t.afterPlay(session, skipped, next), nil
}

func (t *TransportService) jumpTo(
	ctx context.Context,
	session *domain.GuildVoiceSession,
	position int,
) (*TransportOutput, error) {
	if !validPosition(session, position) {
		return nil, ErrInvalidPosition
	}

	target := session.Queue.GetAt(position - 1)
	session.Queue.DropFront(position - 1)

	next, err := t.playback.PlayNext(ctx, session)
	if err != nil {
		return nil, err
	}
	return t.afterPlay(session, target, next), nil
}

func (t *TransportService) afterPlay(
	session *domain.GuildVoiceSession,
	track, next *domain.Track,
) *TransportOutput {
	output := &TransportOutput{
		Track: track,
		Next:  next,
		Ended: next == nil,
	}
	if next != nil {
		output.Paused = session.IsPaused()
		output.Volume = session.Volume()
		output.LoopMode = session.LoopMode()
	}
	return output
}

func validPosition(session *domain.GuildVoiceSession, position int) bool {
	return position >= 1 && position <= session.Queue.Len()
}
