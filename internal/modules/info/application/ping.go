package application

import (
	"time"

	"github.com/sglre6355/tunedeck/internal/modules/info/domain"
)

// LatencySource reports the gateway heartbeat latency.
// *discordgo.Session satisfies it.
type LatencySource interface {
	HeartbeatLatency() time.Duration
}

// PingInteractor handles the ping use case.
type PingInteractor struct {
	latency LatencySource
}

// NewPingInteractor creates a new PingInteractor. latency may be nil.
func NewPingInteractor(latency LatencySource) *PingInteractor {
	return &PingInteractor{latency: latency}
}

// Execute performs the ping operation and returns the result.
func (p *PingInteractor) Execute() *domain.PingResult {
	var latency time.Duration
	if p.latency != nil {
		latency = p.latency.HeartbeatLatency()
	}
	return domain.NewPingResult(latency)
}
