package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventProductCreated EventType = "product.created"
	EventProductUpdated EventType = "product.updated"
	EventProductDeleted EventType = "product.deleted"
)

// ProductEvent is the payload broadcast to dashboard SSE clients.
type ProductEvent struct {
	Event     EventType `json:"event"`
	ProductID string    `json:"productId"`
	Nama      string    `json:"nama"`
	SHA       string    `json:"sha,omitempty"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is an encoded event and its position in the stream.
type Message struct {
	ID   uint64
	Data []byte
}

// Client is a registered stream consumer.
type Client struct {
	ID       string
	Messages chan Message
}

const (
	clientBuffer = 64
	historySize  = 32
)

// Hub numbers catalog events and fans them out to stream clients. The last
// historySize messages are kept so a client reconnecting with Last-Event-ID
// gets what it missed.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
	history []Message
	lastID  uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client. Retained messages newer than lastEventID are
// queued ahead of live ones; lastEventID 0 skips the replay.
func (h *Hub) Register(clientID string, lastEventID uint64) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:       clientID,
		Messages: make(chan Message, clientBuffer),
	}
	replayed := 0
	if lastEventID > 0 {
		for _, m := range h.history {
			if m.ID > lastEventID {
				c.Messages <- m
				replayed++
			}
		}
	}
	h.clients[clientID] = c

	log.Info().
		Str("client_id", clientID).
		Uint64("last_event_id", lastEventID).
		Int("replayed", replayed).
		Int("total_clients", len(h.clients)).
		Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Messages)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Publish assigns the next id to event, retains it and sends it to every
// client. A client whose buffer is full misses the message.
func (h *Hub) Publish(event *ProductEvent) uint64 {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	msg := Message{ID: h.lastID, Data: data}
	h.history = append(h.history, msg)
	if n := len(h.history); n > historySize {
		h.history = append([]Message(nil), h.history[n-historySize:]...)
	}

	for _, c := range h.clients {
		select {
		case c.Messages <- msg:
		default:
			log.Warn().Str("client_id", c.ID).Uint64("event_id", msg.ID).Msg("SSE client buffer full, dropping event")
		}
	}
	return msg.ID
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
