package usecases

import (
	"errors"
)

// Errors returned by the music player use cases. Their messages are shown to users.
var (
	// ErrNotConnected is returned when an operation requires the bot to be in a voice channel.
	ErrNotConnected = errors.New("I'm not connected to a voice channel.")

	// ErrNotPlaying is returned when no track is currently playing.
	ErrNotPlaying = errors.New("Nothing is currently playing.")

	// ErrAlreadyPaused is returned when trying to pause while already paused.
	ErrAlreadyPaused = errors.New("Playback is already paused.")

	// ErrNotPaused is returned when trying to resume while not paused.
	ErrNotPaused = errors.New("Playback is not paused.")

	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("No results found for your query.")

	// ErrQueueEmpty is returned when the queue is empty.
	ErrQueueEmpty = errors.New("The queue is empty.")

	// ErrInvalidPosition is returned when an invalid queue position is specified.
	ErrInvalidPosition = errors.New("Invalid queue position.")

	// ErrNotSeekable is returned when seeking within a live stream.
	ErrNotSeekable = errors.New("Live streams cannot be seeked.")

	// ErrInvalidSeekPosition is returned when seeking past the end of the track.
	ErrInvalidSeekPosition = errors.New("That position is outside the current track.")

	// ErrInvalidVolume is returned when a volume outside 0-100 is requested.
	ErrInvalidVolume = errors.New("Volume must be between 0 and 100.")

	// ErrCentralNotConfigured is returned when the central system is not set up in a guild.
	ErrCentralNotConfigured = errors.New("The central music system is not set up in this server.")

	// ErrEngineUnavailable is returned when no playback node is reachable.
	ErrEngineUnavailable = errors.New("The music system is offline right now.")
)

// Errors that never reach users verbatim.
var (
	// ErrPolicyUnavailable is returned when the guild configuration cannot be read.
	// Requests are denied rather than evaluated without configuration.
	ErrPolicyUnavailable = errors.New("guild configuration unavailable")

	// ErrLoadFailed is returned when the playback engine fails to resolve a query.
	ErrLoadFailed = errors.New("failed to load track")
)

// GenericErrorMessage is shown for any error that is not meant for users.
const GenericErrorMessage = "An error occurred while processing your request."

// DeniedError is returned when the session policy refuses a request.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

// userFacing lists errors whose message is safe to show.
var userFacing = []error{
	ErrNotConnected,
	ErrNotPlaying,
	ErrAlreadyPaused,
	ErrNotPaused,
	ErrNoResults,
	ErrQueueEmpty,
	ErrInvalidPosition,
	ErrNotSeekable,
	ErrInvalidSeekPosition,
	ErrInvalidVolume,
	ErrCentralNotConfigured,
	ErrEngineUnavailable,
}

// UserMessage returns the message to show for err.
// Anything that is not a denial or a known user-facing error maps to GenericErrorMessage.
func UserMessage(err error) string {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied.Reason
	}
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return GenericErrorMessage
}

// IsUserFacing returns true if err carries a message meant for users.
func IsUserFacing(err error) bool {
	return UserMessage(err) != GenericErrorMessage
}
