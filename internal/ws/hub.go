package ws

import (
	"fmt"
	"sync"
	"time"
)

type Session struct {
	ID       string
	Coin     string
	OpenedAt time.Time
}

// Hub tracks the live widget stream sessions.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]Session)}
}

func (h *Hub) Add(session Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if session.ID == "" || session.Coin == "" {
		return fmt.Errorf("session id and coin are required")
	}
	if _, ok := h.sessions[session.ID]; ok {
		return fmt.Errorf("session already exists")
	}
	h.sessions[session.ID] = session
	return nil
}

func (h *Hub) Remove(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Watching reports how many sessions follow coin.
func (h *Hub) Watching(coin string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, s := range h.sessions {
		if s.Coin == coin {
			n++
		}
	}
	return n
}
