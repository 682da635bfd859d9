// Package websocket pushes live funding updates to open campaign pages.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// FundingUpdate is broadcast whenever a backing lands on a campaign.
type FundingUpdate struct {
	Type           string `json:"type"`
	CampaignID     int64  `json:"campaign_id"`
	Slug           string `json:"slug"`
	CurrentFunding int64  `json:"current_funding"`
	Progress       int    `json:"progress"`
	Status         string `json:"status"`
}

// NewFundingUpdate builds a FundingUpdate message.
func NewFundingUpdate(campaignID int64, slug string, currentFunding int64, progress int, status string) FundingUpdate {
	return FundingUpdate{
		Type:           "campaign_funding",
		CampaignID:     campaignID,
		Slug:           slug,
		CurrentFunding: currentFunding,
		Progress:       progress,
		Status:         status,
	}
}

// Hub maintains the set of active WebSocket clients and broadcasts funding
// updates to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a funding update to all connected clients.
func (h *Hub) Broadcast(update FundingUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// client buffer full, drop the message rather than block
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
