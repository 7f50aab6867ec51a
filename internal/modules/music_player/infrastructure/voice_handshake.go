package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// voiceUpdate is everything Lavalink needs to open a voice connection.
type voiceUpdate struct {
	channelID snowflake.ID
	sessionID string
	token     string
	endpoint  string
}

type partialVoiceUpdate struct {
	voiceUpdate
	hasState  bool
	hasServer bool
}

// voiceHandshakes pairs VoiceStateUpdate and VoiceServerUpdate per guild.
// Discord sends them in either order and Lavalink rejects a partial voice
// state, so an update is only released once both halves have arrived.
type voiceHandshakes struct {
	mu      sync.Mutex
	partial map[snowflake.ID]*partialVoiceUpdate
	waiting map[snowflake.ID]chan struct{}
}

func newVoiceHandshakes() *voiceHandshakes {
	return &voiceHandshakes{
		partial: make(map[snowflake.ID]*partialVoiceUpdate),
		waiting: make(map[snowflake.ID]chan struct{}),
	}
}

// expect registers a join in progress. The returned channel is closed by
// connected. A newer expect for the same guild replaces the older one.
func (h *voiceHandshakes) expect(guildID snowflake.ID) <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{})
	h.waiting[guildID] = ch
	return ch
}

// forget drops the waiter registered by expect unless it was replaced.
func (h *voiceHandshakes) forget(guildID snowflake.ID, ch <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.waiting[guildID]; ok && current == ch {
		delete(h.waiting, guildID)
	}
}

// state records the VoiceStateUpdate half and returns the complete update once
// the server half is also present.
func (h *voiceHandshakes) state(
	guildID, channelID snowflake.ID,
	sessionID string,
) (voiceUpdate, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.partialFor(guildID)
	p.channelID = channelID
	p.sessionID = sessionID
	p.hasState = true
	return h.release(guildID, p)
}

// server records the VoiceServerUpdate half and returns the complete update once
// the state half is also present.
func (h *voiceHandshakes) server(guildID snowflake.ID, token, endpoint string) (voiceUpdate, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.partialFor(guildID)
	p.token = token
	p.endpoint = endpoint
	p.hasServer = true
	return h.release(guildID, p)
}

// connected wakes the join waiting on guildID, if any.
func (h *voiceHandshakes) connected(guildID snowflake.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.waiting[guildID]; ok {
		close(ch)
		delete(h.waiting, guildID)
	}
}

// reset discards a half-received handshake, e.g. after a disconnect.
func (h *voiceHandshakes) reset(guildID snowflake.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.partial, guildID)
}

func (h *voiceHandshakes) partialFor(guildID snowflake.ID) *partialVoiceUpdate {
	p, ok := h.partial[guildID]
	if !ok {
		p = &partialVoiceUpdate{}
		h.partial[guildID] = p
	}
	return p
}

func (h *voiceHandshakes) release(guildID snowflake.ID, p *partialVoiceUpdate) (voiceUpdate, bool) {
	if !p.hasState || !p.hasServer {
		return voiceUpdate{}, false
	}
	delete(h.partial, guildID)
	return p.voiceUpdate, true
}
