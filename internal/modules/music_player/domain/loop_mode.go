package domain

// LoopMode represents the loop mode for queue playback.
type LoopMode int

const (
	LoopModeOff   LoopMode = iota // Default: no looping
	LoopModeTrack                 // Repeat current track indefinitely
	LoopModeQueue                 // Re-append finished tracks to the end of the queue
)

// String returns a human-readable representation of the loop mode.
func (m LoopMode) String() string {
	switch m {
	case LoopModeTrack:
		return "track"
	case LoopModeQueue:
		return "queue"
	default:
		return "off"
	}
}

// Emoji returns the glyph shown for the loop mode on the control panel.
func (m LoopMode) Emoji() string {
	switch m {
	case LoopModeTrack:
		return "🔂"
	case LoopModeQueue:
		return "🔁"
	default:
		return "⏺️"
	}
}

// Next returns the mode that follows m in the off → track → queue → off cycle.
func (m LoopMode) Next() LoopMode {
	switch m {
	case LoopModeOff:
		return LoopModeTrack
	case LoopModeTrack:
		return LoopModeQueue
	default:
		return LoopModeOff
	}
}

// ParseLoopMode converts a string to domain.LoopMode.
func ParseLoopMode(s string) LoopMode {
	switch s {
	case "track":
		return LoopModeTrack
	case "queue":
		return LoopModeQueue
	default:
		return LoopModeOff
	}
}
