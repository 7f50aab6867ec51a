package projection

import (
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
)

// DefaultPresenceInterval is how often the listening presence is re-asserted.
const DefaultPresenceInterval = 30 * time.Second

// PresenceKeeper shows the most recently started track as the bot's presence.
// Presence is global, so the last guild to activate owns it until it goes idle.
type PresenceKeeper struct {
	sink     ports.PresenceSink
	interval time.Duration

	mu    sync.Mutex
	owner snowflake.ID
	title string
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewPresenceKeeper creates a new PresenceKeeper.
func NewPresenceKeeper(sink ports.PresenceSink, interval time.Duration) *PresenceKeeper {
	if interval <= 0 {
		interval = DefaultPresenceInterval
	}
	return &PresenceKeeper{
		sink:     sink,
		interval: interval,
	}
}

// Activate shows title for guildID and keeps re-asserting it.
func (p *PresenceKeeper) Activate(guildID snowflake.ID, title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.owner == guildID && p.title == title && p.stop != nil {
		return
	}

	p.stopTicker()
	p.owner = guildID
	p.title = title

	if err := p.sink.SetListening(title); err != nil {
		slog.Debug("failed to set presence", "error", err)
	}

	stop := make(chan struct{})
	p.stop = stop
	p.wg.Add(1)
	go p.keep(stop, title)
}

// Deactivate restores the idle presence if guildID owns it.
func (p *PresenceKeeper) Deactivate(guildID snowflake.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.owner != guildID {
		return
	}

	p.stopTicker()
	p.owner = 0
	p.title = ""

	if err := p.sink.SetIdle(); err != nil {
		slog.Debug("failed to clear presence", "error", err)
	}
}

// Owner returns the guild currently shown in the presence, zero if none.
func (p *PresenceKeeper) Owner() snowflake.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner
}

// Close stops re-asserting the presence.
func (p *PresenceKeeper) Close() {
	p.mu.Lock()
	p.stopTicker()
	p.mu.Unlock()
	p.wg.Wait()
}

// stopTicker must be called with mu held.
func (p *PresenceKeeper) stopTicker() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

func (p *PresenceKeeper) keep(stop <-chan struct{}, title string) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := p.sink.SetListening(title); err != nil {
				slog.Debug("failed to refresh presence", "error", err)
			}
		}
	}
}
