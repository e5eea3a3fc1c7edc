// internal/websocket/hub.go
package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Subscriber receives comment feed snapshots for a single post. It is
// transport-agnostic: websocket clients drain Send through their write pump,
// and tests read it directly.
type Subscriber struct {
	PostID uuid.UUID
	Send   chan []byte

	hub  *Hub
	once sync.Once
}

// Cancel detaches the subscriber from the hub and closes its Send channel.
// Safe to call more than once.
func (s *Subscriber) Cancel() {
	s.once.Do(func() {
		s.hub.unregister <- s
	})
}

type message struct {
	postID  uuid.UUID
	payload []byte
}

// Hub routes comment feed snapshots to the subscribers of each post.
type Hub struct {
	subscribers map[uuid.UUID]map[*Subscriber]bool
	register    chan *Subscriber
	unregister  chan *Subscriber
	publish     chan message
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*Subscriber]bool),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		publish:     make(chan message, 64),
	}
}

// Run processes register/unregister/publish events. Call it once, in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.subscribers[sub.PostID] == nil {
				h.subscribers[sub.PostID] = make(map[*Subscriber]bool)
			}
			h.subscribers[sub.PostID][sub] = true
			h.mu.Unlock()
			log.Printf("Subscriber registered for post %s", sub.PostID)

		case sub := <-h.unregister:
			h.mu.Lock()
			if subs, ok := h.subscribers[sub.PostID]; ok {
				if _, ok := subs[sub]; ok {
					delete(subs, sub)
					close(sub.Send)
					if len(subs) == 0 {
						delete(h.subscribers, sub.PostID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Subscriber unregistered for post %s", sub.PostID)

		case msg := <-h.publish:
			h.mu.RLock()
			for sub := range h.subscribers[msg.postID] {
				select {
				case sub.Send <- msg.payload:
				default:
					// Slow subscriber, skip this snapshot. The next publish
					// carries the full feed so nothing is lost permanently.
					log.Printf("Dropping snapshot for slow subscriber on post %s", msg.postID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Subscribe registers a new subscriber for the given post's comment feed.
func (h *Hub) Subscribe(postID uuid.UUID) *Subscriber {
	return h.SubscribeWithSnapshot(postID, nil)
}

// SubscribeWithSnapshot queues the given snapshot as the subscriber's first
// frame before registering it with the hub. Publishes can only reach the
// subscriber after registration, so the initial frame is never reordered
// behind a newer one.
func (h *Hub) SubscribeWithSnapshot(postID uuid.UUID, initial []byte) *Subscriber {
	sub := &Subscriber{
		PostID: postID,
		Send:   make(chan []byte, 16),
		hub:    h,
	}
	if initial != nil {
		sub.Send <- initial
	}
	h.register <- sub
	return sub
}

// Publish fans a snapshot out to every subscriber of the post.
func (h *Hub) Publish(postID uuid.UUID, payload []byte) {
	h.publish <- message{postID: postID, payload: payload}
}

// SubscriberCount reports the number of active subscribers for a post.
func (h *Hub) SubscriberCount(postID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[postID])
}
