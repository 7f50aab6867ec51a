package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// Compile-time checks that GuildEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*GuildEventBus)(nil)
	_ ports.EventSubscriber = (*GuildEventBus)(nil)
)

// GuildEventBus delivers lifecycle events on the guild's serializer, so events
// are handled in emission order and never interleave with user requests of the
// same guild.
type GuildEventBus struct {
	serializer ports.GuildSerializer

	handlers []func(context.Context, domain.LifecycleEvent)
	closed   bool
	mu       sync.RWMutex
}

// NewGuildEventBus creates a new GuildEventBus dispatching on serializer.
func NewGuildEventBus(serializer ports.GuildSerializer) *GuildEventBus {
	return &GuildEventBus{serializer: serializer}
}

// Publish queues the event for its guild. It never blocks on handlers.
func (b *GuildEventBus) Publish(event domain.LifecycleEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "guild", event.EventGuildID())
		return
	}

	handlers := b.handlers
	b.serializer.Go(event.EventGuildID(), func(ctx context.Context) {
		for _, handler := range handlers {
			handler(ctx, event)
		}
	})
	slog.Debug("published event", "guild", event.EventGuildID())
}

// Subscribe registers a handler for every lifecycle event.
func (b *GuildEventBus) Subscribe(handler func(context.Context, domain.LifecycleEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Close stops accepting events.
func (b *GuildEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
