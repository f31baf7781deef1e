// Package websocket fans change notifications out to connected
// subscribers. Handlers broadcast after every successful mutation; a
// slow subscriber loses messages rather than stalling the request.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dukerupert/shoplist/internal/model"
)

// Hub maintains the set of active subscribers and broadcasts changes.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("subscriber connected", "clients", h.ClientCount())
}

// Unregister removes a client and closes its send channel. Calling it
// twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends change to every subscriber without blocking.
func (h *Hub) Broadcast(change model.Change) {
	data, err := json.Marshal(change)
	if err != nil {
		h.logger.Error("marshal broadcast", "type", change.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("subscriber buffer full, dropping change", "type", change.Type)
		}
	}
}

// Publish builds a change and broadcasts it.
func (h *Hub) Publish(entity, action string, id int64, extra map[string]any) {
	h.Broadcast(model.NewChange(entity, action, id, extra))
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
