package infrastructure

import (
	"context"
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

var _ ports.GuildConfigStore = (*MemoryConfigStore)(nil)

// MemoryConfigStore keeps guild configuration in process memory.
// It is used when no Redis address is configured; nothing survives a restart.
type MemoryConfigStore struct {
	mu      sync.RWMutex
	configs map[snowflake.ID]domain.GuildConfig
}

// NewMemoryConfigStore creates a new MemoryConfigStore.
func NewMemoryConfigStore() *MemoryConfigStore {
	return &MemoryConfigStore{configs: make(map[snowflake.ID]domain.GuildConfig)}
}

// FindByGuildID returns a copy of the stored configuration, or nil.
func (s *MemoryConfigStore) FindByGuildID(
	_ context.Context,
	guildID snowflake.ID,
) (*domain.GuildConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[guildID]
	if !ok {
		return nil, nil
	}
	return cloneConfig(cfg), nil
}

// Upsert applies patch to the stored configuration, starting from defaults.
func (s *MemoryConfigStore) Upsert(
	_ context.Context,
	guildID snowflake.ID,
	patch domain.GuildConfigPatch,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.configs[guildID]
	if !ok {
		cfg = *domain.NewGuildConfig(guildID)
	}
	patch.Apply(&cfg)
	s.configs[guildID] = cfg
	return nil
}

// ListCentralEnabled returns every configuration with the central system enabled.
func (s *MemoryConfigStore) ListCentralEnabled(_ context.Context) ([]*domain.GuildConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.GuildConfig
	for _, cfg := range s.configs {
		if cfg.Central.Enabled {
			result = append(result, cloneConfig(cfg))
		}
	}
	return result, nil
}

func cloneConfig(cfg domain.GuildConfig) *domain.GuildConfig {
	cfg.Central.AllowedRoleIDs = slices.Clone(cfg.Central.AllowedRoleIDs)
	return &cfg
}
