package socket

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Hub tracks open connections per client. A client may hold several
// connections, one per browser tab.
type Hub struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// Register adds a connection for a client.
func (h *Hub) Register(clientID, connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.active[clientID]; !ok {
		h.active[clientID] = make(map[string]*websocket.Conn)
	}
	h.active[clientID][connID] = conn
	slog.Debug("Socket connection registered", "client_id", clientID, "conn_id", connID)
}

// Unregister removes a connection if it is still the one registered.
func (h *Hub) Unregister(clientID, connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.active[clientID]
	if !ok {
		return
	}
	if current, exists := conns[connID]; exists && current == conn {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.active, clientID)
		}
		slog.Debug("Socket connection unregistered", "client_id", clientID, "conn_id", connID)
	}
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.active {
		n += len(conns)
	}
	return n
}

// CloseAll closes every connection, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	var conns []*websocket.Conn
	for _, byID := range h.active {
		for _, conn := range byID {
			conns = append(conns, conn)
		}
	}
	h.active = make(map[string]map[string]*websocket.Conn)
	h.mu.Unlock()

	// Close waits for the peer handshake, so it must run without the lock
	// held by Unregister.
	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
