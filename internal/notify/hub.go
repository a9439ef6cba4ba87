package notify

import "sync"

// Event is a named live-push event; Data is serialized as the SSE payload.
type Event struct {
	Name string
	Data interface{}
}

const channelBuffer = 16

// Hub maps a user id to its single open push channel. Process-scoped and
// in-memory only: a restart drops every connection and clients reconnect.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]chan Event
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]chan Event)}
}

// Register opens a channel for the user, replacing any previous one. The
// replaced channel is not closed here: it simply stops receiving, and the
// transport tears it down on disconnect.
func (h *Hub) Register(userID string) chan Event {
	ch := make(chan Event, channelBuffer)
	h.mu.Lock()
	h.conns[userID] = ch
	h.mu.Unlock()
	return ch
}

// Unregister removes the mapping only if it still points at ch, so a
// replaced connection cannot tear down its successor.
func (h *Hub) Unregister(userID string, ch chan Event) {
	h.mu.Lock()
	if cur, ok := h.conns[userID]; ok && cur == ch {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
}

// Send pushes an event to the user's channel if one is open. The send never
// blocks: a full buffer (dead or slow consumer) drops the event.
func (h *Hub) Send(userID string, ev Event) bool {
	h.mu.RLock()
	ch, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}

func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}
