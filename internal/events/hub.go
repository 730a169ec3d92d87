// Package events broadcasts entity changes to connected admin dashboards
// over WebSocket.
package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vilo-admin/internal/logging"
)

// maxConns caps simultaneous dashboard connections.
const maxConns = 32

// Event describes a status change or a new submission.
type Event struct {
	Kind   string    `json:"kind"` // "contact", "appointment", "testimonial"
	ID     int64     `json:"id"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// Hub fans Events out to every connected dashboard.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]bool
	logger *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]bool),
		logger: logger,
	}
}

// Add registers a connection. Connections past the cap are closed.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.conns) >= maxConns {
		h.logger.Warnf("Max dashboard connections reached, rejecting")
		conn.Close()
		return
	}
	h.conns[conn] = true
	h.logger.Infof("Dashboard connected (total: %d)", len(h.conns))
}

// Remove unregisters and closes a connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		conn.Close()
		h.logger.Infof("Dashboard disconnected (remaining: %d)", len(h.conns))
	}
}

// Broadcast sends ev to every connection, dropping the ones that fail.
func (h *Hub) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Errorf("Dashboard broadcast failed: %v", err)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
