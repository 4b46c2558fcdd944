package session

import (
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 8

// Hub fans session events out to the subscribers of each session key. A
// subscriber that falls behind loses events rather than blocking others.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan Event
	nextID int
	logger *zap.Logger
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("session.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.hub")
	}
	return &Hub{subs: make(map[string]map[int]chan Event), logger: l}
}

// Subscribe returns the event channel of sessionKey and a cancel func that
// unsubscribes and closes the channel. Cancel is safe to call twice.
func (h *Hub) Subscribe(sessionKey string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Event, subscriberBuffer)
	if h.subs[sessionKey] == nil {
		h.subs[sessionKey] = make(map[int]chan Event)
	}
	h.subs[sessionKey][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.subs[sessionKey]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(h.subs, sessionKey)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[e.SessionKey] {
		select {
		case ch <- e:
		default:
			h.logger.Warn("session event dropped", zap.String("type", string(e.Type)))
		}
	}
}

func (h *Hub) Subscribers(sessionKey string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionKey])
}
