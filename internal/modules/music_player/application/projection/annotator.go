package projection

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
)

// StrategyResult reports which strategy, if any, handled a voice channel.
type StrategyResult struct {
	// Strategy is the name of the strategy that succeeded, empty if none did.
	Strategy string
	// Noop is true when there was nothing to do.
	Noop bool
}

// Succeeded returns true if a strategy handled the channel or nothing was needed.
func (r StrategyResult) Succeeded() bool {
	return r.Noop || r.Strategy != ""
}

// annotation is the per-channel cache entry. Its own lock serializes work on
// one channel; the annotator lock only guards the map.
type annotation struct {
	mu       sync.Mutex
	captured bool
	released bool
	original ports.ChannelSnapshot
	// applied marks the strategies whose changes are on the channel.
	applied map[int]bool
}

// VoiceAnnotator shows the playing track on voice channels through an ordered
// fallback chain of strategies, and restores the original metadata afterwards.
type VoiceAnnotator struct {
	strategies []ports.VoiceMetadataStrategy
	inspector  ports.ChannelInspector

	mu          sync.Mutex
	annotations map[snowflake.ID]*annotation
}

// NewVoiceAnnotator creates a VoiceAnnotator trying strategies in order.
func NewVoiceAnnotator(
	inspector ports.ChannelInspector,
	strategies ...ports.VoiceMetadataStrategy,
) *VoiceAnnotator {
	return &VoiceAnnotator{
		strategies:  strategies,
		inspector:   inspector,
		annotations: make(map[snowflake.ID]*annotation),
	}
}

// Annotate shows title on the channel using the first strategy that succeeds.
// The channel's original metadata is captured on first annotation and kept until restored.
func (a *VoiceAnnotator) Annotate(ctx context.Context, channelID snowflake.ID, title string) StrategyResult {
	entry := a.acquire(channelID)
	defer entry.mu.Unlock()

	if !entry.captured {
		original, err := a.inspector.Snapshot(ctx, channelID)
		if err != nil {
			slog.Debug("failed to read voice channel metadata", "channel", channelID, "error", err)
			a.release(channelID, entry)
			return StrategyResult{}
		}
		entry.original = original
		entry.captured = true
	}

	for i, strategy := range a.strategies {
		err := strategy.Annotate(ctx, channelID, title, entry.original)
		if err != nil {
			slog.Debug(
				"voice metadata strategy failed",
				"strategy", strategy.Name(),
				"channel", channelID,
				"error", err,
			)
			continue
		}
		entry.applied[i] = true
		return StrategyResult{Strategy: strategy.Name()}
	}

	slog.Debug("no voice metadata strategy succeeded", "channel", channelID)
	if len(entry.applied) == 0 {
		a.release(channelID, entry)
	}
	return StrategyResult{}
}

// Restore reverts every strategy that annotated the channel.
// Restoring a channel that was never annotated, or already restored, does nothing.
func (a *VoiceAnnotator) Restore(ctx context.Context, channelID snowflake.ID) StrategyResult {
	entry := a.lookup(channelID)
	if entry == nil {
		return StrategyResult{Noop: true}
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.released || len(entry.applied) == 0 {
		return StrategyResult{Noop: true}
	}

	var restored string
	for i, strategy := range a.strategies {
		if !entry.applied[i] {
			continue
		}
		if err := strategy.Restore(ctx, channelID, entry.original); err != nil {
			slog.Debug(
				"failed to restore voice metadata",
				"strategy", strategy.Name(),
				"channel", channelID,
				"error", err,
			)
			continue
		}
		delete(entry.applied, i)
		if restored == "" {
			restored = strategy.Name()
		}
	}

	// Entries with unrestored changes stay cached so a later idle can retry.
	if len(entry.applied) == 0 {
		a.release(channelID, entry)
	}
	return StrategyResult{Strategy: restored}
}

// IsAnnotated returns true if the channel carries unrestored annotations.
func (a *VoiceAnnotator) IsAnnotated(channelID snowflake.ID) bool {
	entry := a.lookup(channelID)
	if entry == nil {
		return false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	return !entry.released && len(entry.applied) > 0
}

func (a *VoiceAnnotator) lookup(channelID snowflake.ID) *annotation {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.annotations[channelID]
}

// acquire returns the channel's live entry, creating it if needed, with its lock held.
func (a *VoiceAnnotator) acquire(channelID snowflake.ID) *annotation {
	for {
		a.mu.Lock()
		entry, ok := a.annotations[channelID]
		if !ok {
			entry = &annotation{applied: make(map[int]bool)}
			a.annotations[channelID] = entry
		}
		a.mu.Unlock()

		entry.mu.Lock()
		if !entry.released {
			return entry
		}
		// Released while we waited; the map holds a newer entry or none.
		entry.mu.Unlock()
	}
}

// release drops entry from the cache. The caller holds entry.mu.
func (a *VoiceAnnotator) release(channelID snowflake.ID, entry *annotation) {
	entry.released = true

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.annotations[channelID] == entry {
		delete(a.annotations, channelID)
	}
}
