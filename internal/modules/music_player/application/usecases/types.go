package usecases

import (
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Track is an alias for domain.Track.
type Track = domain.Track

// LoopMode is an alias for domain.LoopMode.
type LoopMode = domain.LoopMode

// SessionAction is an alias for domain.SessionAction.
type SessionAction = domain.SessionAction

// GuildConfig is an alias for domain.GuildConfig.
type GuildConfig = domain.GuildConfig

// SessionRepository is an alias for domain.SessionRepository.
type SessionRepository = domain.SessionRepository

// DisplayProjection is an alias for domain.DisplayProjection.
type DisplayProjection = domain.DisplayProjection
