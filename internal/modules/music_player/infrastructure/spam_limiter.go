package infrastructure

import (
	"sync"
	"time"

	"github.com/sglre6355/tunedeck/internal/modules/music_player/application/ports"
)

var _ ports.SpamGuard = (*SpamLimiter)(nil)

// SpamLimiter is a sliding-window limiter for central channel messages.
// It keeps no timer of its own; callers evict idle keys with Sweep.
type SpamLimiter struct {
	limit  int
	window time.Duration

	mu   sync.Mutex
	hits map[ports.SpamKey][]time.Time
}

// NewSpamLimiter allows limit hits per key within any window.
func NewSpamLimiter(limit int, window time.Duration) *SpamLimiter {
	return &SpamLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[ports.SpamKey][]time.Time),
	}
}

// Allow reports whether a hit at now is within the limit.
// Only accepted hits are recorded.
func (l *SpamLimiter) Allow(key ports.SpamKey, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.hits[key]
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(recent) && !recent[i].After(cutoff) {
		i++
	}
	recent = recent[i:]

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false
	}

	l.hits[key] = append(recent, now)
	return true
}

// Sweep drops keys whose newest hit is older than two windows and returns how many were dropped.
func (l *SpamLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-2 * l.window)
	removed := 0
	for key, hits := range l.hits {
		if len(hits) == 0 || hits[len(hits)-1].Before(cutoff) {
			delete(l.hits, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *SpamLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}
