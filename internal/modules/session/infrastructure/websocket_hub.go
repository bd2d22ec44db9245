package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"dareNowConsole/internal/modules/session/domain"
)

// StreamMessage is what session stream clients receive.
type StreamMessage struct {
	Topic string       `json:"topic"`
	Event domain.Event `json:"event"`
}

// Hub fans session events out to websocket clients. A client either follows one variant or,
// with no variant, every event.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.id]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.id] = c
	slog.Info("ws client attached", slog.String("clientId", c.id), slog.String("variant", c.variant.String()))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
	}
	c.close()
	slog.Info("ws client detached", slog.String("clientId", c.id))
}

// Len reports the number of attached clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish delivers event to every interested client. A client whose buffer is full is
// dropped instead of blocking the others.
func (h *Hub) Publish(_ context.Context, event domain.Event) {
	data, err := json.Marshal(StreamMessage{Topic: event.Topic(), Event: event})
	if err != nil {
		slog.Error("session event marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.variant != "" && c.variant != event.Variant {
			continue
		}
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.enqueue(data) {
			slog.Warn("ws send buffer full", slog.String("clientId", c.id))
			go h.detachClient(c)
		}
	}
}
