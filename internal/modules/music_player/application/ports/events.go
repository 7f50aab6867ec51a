package ports

import (
	"context"

	"github.com/sglre6355/tunedeck/internal/modules/music_player/domain"
)

// EventPublisher publishes playback lifecycle events.
type EventPublisher interface {
	Publish(event domain.LifecycleEvent)
}

// EventSubscriber registers handlers for playback lifecycle events.
// Handlers for one guild are invoked one event at a time, in publish order.
type EventSubscriber interface {
	Subscribe(handler func(context.Context, domain.LifecycleEvent))
}
