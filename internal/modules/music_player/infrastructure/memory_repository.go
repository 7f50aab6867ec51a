package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// MemoryRepository is an in-memory implementation of SessionRepository.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.GuildVoiceSession
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[snowflake.ID]*domain.GuildVoiceSession),
	}
}

// Get returns the session for the given guild, or nil if not exists.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.GuildVoiceSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sessions[guildID]
}

// Save stores the session.
func (r *MemoryRepository) Save(session *domain.GuildVoiceSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.GuildID] = session
}

// Delete removes the session for the given guild.
func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, guildID)
}

// Count returns the number of sessions (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Ensure MemoryRepository implements SessionRepository.
var _ domain.SessionRepository = (*MemoryRepository)(nil)
