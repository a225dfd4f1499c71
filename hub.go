package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const defaultMaxSpectators = 64

// Hub fans the per-tick state payload out to websocket spectators
type Hub struct {
	mu         sync.RWMutex
	spectators map[*Spectator]bool
	register   chan *Spectator
	unregister chan *Spectator
	done       chan struct{}
	max        int
	log        zerolog.Logger
}

func NewHub(max int, log zerolog.Logger) *Hub {
	if max <= 0 {
		max = defaultMaxSpectators
	}
	return &Hub{
		spectators: make(map[*Spectator]bool),
		register:   make(chan *Spectator),
		unregister: make(chan *Spectator, 64),
		done:       make(chan struct{}),
		max:        max,
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Run processes register/unregister events until ctx is cancelled, then
// disconnects every spectator
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case s := <-h.register:
			h.mu.Lock()
			h.spectators[s] = true
			n := len(h.spectators)
			h.mu.Unlock()
			h.log.Info().Str("addr", s.addr).Str("sub", s.subject).Int("spectators", n).Msg("spectator joined")

		case s := <-h.unregister:
			h.remove(s)

		case <-ctx.Done():
			h.mu.Lock()
			for s := range h.spectators {
				delete(h.spectators, s)
				close(s.send)
			}
			h.mu.Unlock()
			return nil
		}
	}
}

func (h *Hub) remove(s *Spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.spectators[s]; ok {
		delete(h.spectators, s)
		close(s.send)
		h.log.Info().Str("addr", s.addr).Msg("spectator left")
	}
}

// Register hands a spectator to Run and blocks until Run has it. It returns
// false once the hub stopped.
func (h *Hub) Register(s *Spectator) bool {
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

// Unregister is safe to call after the hub stopped
func (h *Hub) Unregister(s *Spectator) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Broadcast queues payload for every spectator; slow ones miss frames
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.spectators {
		s.SendBinary(payload)
	}
}

// CanAccept reports whether another spectator fits
func (h *Hub) CanAccept() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.spectators) < h.max
}

// Count returns the number of registered spectators
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.spectators)
}
