// Package realtime fans events out to connected admin sessions over SSE.
package realtime

import (
	"sync"

	"github.com/gin-contrib/sse"
)

// Hub broadcasts events to every subscriber. Slow subscribers drop events
// rather than block the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[chan sse.Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan sse.Event]struct{})}
}

func (h *Hub) Subscribe() chan sse.Event {
	ch := make(chan sse.Event, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan sse.Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Broadcast(event string, payload any) {
	ev := sse.Event{Event: event, Data: payload}
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
