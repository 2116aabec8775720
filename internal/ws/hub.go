// Package ws pushes change notifications to connected vendor sessions so
// they reload the affected collection. It is an invalidation channel, not a
// sync protocol: the message carries only the table name.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"pos-service/internal/util"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// vendor terminals connect from arbitrary origins on the shop LAN
		return true
	},
}

type invalidation struct {
	Table string    `json:"table"`
	At    time.Time `json:"at"`
}

// Hub tracks connected clients and broadcasts invalidations to all of them
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: util.GetLogger(),
	}
}

// Handle upgrades an HTTP request and keeps the connection registered until
// the client goes away
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends a table invalidation to every connected client, dropping
// connections that fail to take the write
func (h *Hub) Broadcast(table string) {
	payload, err := json.Marshal(invalidation{Table: table, At: time.Now()})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Count reports the number of connected clients
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
