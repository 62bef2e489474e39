package publisher

import (
	"sync"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
	"github.com/gorilla/websocket"
)

// Hub keeps the websocket clients that receive live readings.
type Hub struct {
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	writeMu   sync.Mutex // gorilla connections allow one concurrent writer
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Broadcast(reading types.Reading) {
	h.clientsMu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clientsMu.RUnlock()

	data := reading.ToJsonBytes()
	for _, client := range clients {
		if err := h.write(client, data); err != nil {
			h.RemoveClient(client)
		}
	}
}

func (h *Hub) AddClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	h.clients[conn] = true
	h.clientsMu.Unlock()
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	delete(h.clients, conn)
	h.clientsMu.Unlock()
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) write(conn *websocket.Conn, data []byte) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}
