// Package realtime keeps the live WebSocket connection of each online user
// and pushes events to it. Delivery is best effort: the caller has already
// persisted whatever it pushes.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// Event is the frame written to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventNotification = "notification"
	EventTyping       = "typing"
	EventPong         = "pong"
	EventError        = "error"
)

const (
	DropOffline    = "offline"
	DropBufferFull = "buffer_full"
	DropEncode     = "encode_failed"
	DropBus        = "bus_publish_failed"
)

// DropFunc observes pushes that did not reach a live connection.
type DropFunc func(userID int64, eventType, reason string)

// Hub maps a user to its current connection. Last connect wins; there is no
// multi-device fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*Client

	bus     Bus
	onDrop  DropFunc
	dropped atomic.Int64
}

type HubOption func(*Hub)

// WithBus forwards local misses to other API instances.
func WithBus(bus Bus) HubOption {
	return func(h *Hub) { h.bus = bus }
}

func WithDropHook(fn DropFunc) HubOption {
	return func(h *Hub) { h.onDrop = fn }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{clients: make(map[int64]*Client)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register makes c the current connection of its user and returns the
// connection it replaced, if any.
func (h *Hub) Register(c *Client) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.clients[c.userID]
	h.clients[c.userID] = c
	if prev == c {
		return nil
	}
	return prev
}

// Unregister removes c only if it is still the current connection.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.userID]; ok && existing == c {
		delete(h.clients, c.userID)
		return true
	}
	return false
}

// Kick drops the user's current connection and closes it. The socket
// receives a close frame and its pumps exit.
func (h *Hub) Kick(userID int64) bool {
	h.mu.Lock()
	c, ok := h.clients[userID]
	if ok {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	if !ok {
		return false
	}
	c.close()
	return true
}

func (h *Hub) Lookup(userID int64) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[userID]
	return c, ok
}

func (h *Hub) IsOnline(userID int64) bool {
	_, ok := h.Lookup(userID)
	return ok
}

// Online returns the subset of ids that have a live connection.
func (h *Hub) Online(ids []int64) []int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := h.clients[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped is the number of pushes that reached nobody.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Push delivers event to the user's live connection and reports whether it
// was queued locally. It never blocks on a slow client.
func (h *Hub) Push(userID int64, event Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.drop(userID, event.Type, DropEncode)
		return false
	}

	delivered, reason := h.deliverLocal(userID, data)
	if delivered {
		return true
	}

	if h.bus != nil && reason == DropOffline {
		if err := h.bus.Publish(context.Background(), userID, data); err != nil {
			log.Printf("push_bus_error user_id=%d type=%s error=%q", userID, event.Type, err)
			h.drop(userID, event.Type, DropBus)
		}
		return false
	}

	h.drop(userID, event.Type, reason)
	return false
}

// Deliver hands pre-encoded data to a local connection. The bus subscriber
// uses it so forwarded pushes are never republished.
func (h *Hub) Deliver(userID int64, data []byte) bool {
	ok, _ := h.deliverLocal(userID, data)
	return ok
}

func (h *Hub) deliverLocal(userID int64, data []byte) (bool, string) {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false, DropOffline
	}
	if !c.enqueue(data) {
		return false, DropBufferFull
	}
	return true, ""
}

func (h *Hub) drop(userID int64, eventType, reason string) {
	h.dropped.Add(1)
	if reason != DropOffline {
		log.Printf("push_dropped user_id=%d type=%s reason=%s", userID, eventType, reason)
	}
	if h.onDrop != nil {
		h.onDrop(userID, eventType, reason)
	}
}

// RunBus consumes forwarded pushes until ctx is done.
func (h *Hub) RunBus(ctx context.Context) error {
	if h.bus == nil {
		return nil
	}
	return h.bus.Subscribe(ctx, func(userID int64, data []byte) {
		h.Deliver(userID, data)
	})
}
