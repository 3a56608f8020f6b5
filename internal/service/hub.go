package service

import (
	"sync"

	"task_tracker/internal/models"
)

// subscriber buffer; a slow websocket client drops events rather than
// blocking the request path.
const hubBufferSize = 16

// Hub fans task events out to live subscribers. Publishing never
// blocks: requests only write, websocket readers consume.
type Hub struct {
	mu   sync.Mutex
	subs map[chan models.TaskEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan models.TaskEvent]struct{})}
}

// Subscribe registers a new listener. The returned cancel func must be
// called to release the channel.
func (h *Hub) Subscribe() (<-chan models.TaskEvent, func()) {
	ch := make(chan models.TaskEvent, hubBufferSize)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount reports the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish delivers e to every subscriber with room in its buffer.
func (h *Hub) Publish(e models.TaskEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default: // drop for slow consumers
		}
	}
}
