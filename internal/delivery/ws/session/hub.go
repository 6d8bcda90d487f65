package ws_session

import (
	"log/slog"
	"sync"

	"github.com/shree5k/swipematch/internal/model"
)

// Sender is the broadcast surface the gateway talks to: one connection, or
// everyone currently bound to a room code. Bind/Unbind keep the room index
// in step with registry membership.
type Sender interface {
	ToConn(conn model.ConnID, ev Event)
	ToRoom(code string, ev Event)
	Bind(conn model.ConnID, code string)
	Unbind(conn model.ConnID, code string)
}

// Hub tracks live clients and their room bindings.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnID]*Client
	rooms   map[string]map[model.ConnID]*Client
	logger  *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		rooms:   make(map[string]map[model.ConnID]*Client),
		logger:  slog.Default(),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info("client connected", "conn", client.ID)
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.send)

	for code, members := range h.rooms {
		if _, ok := members[client.ID]; ok {
			delete(members, client.ID)
			if len(members) == 0 {
				delete(h.rooms, code)
			}
		}
	}
	h.logger.Info("client disconnected", "conn", client.ID)
}

func (h *Hub) Bind(conn model.ConnID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[conn]
	if !ok {
		return
	}
	if _, ok := h.rooms[code]; !ok {
		h.rooms[code] = make(map[model.ConnID]*Client)
	}
	h.rooms[code][conn] = client
}

func (h *Hub) Unbind(conn model.ConnID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[code]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
}

func (h *Hub) ToConn(conn model.ConnID, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[conn]; ok {
		h.push(client, ev)
	}
}

func (h *Hub) ToRoom(code string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[code] {
		h.push(client, ev)
	}
}

// push never blocks: a client that cannot keep up is dropped rather than
// stalling the whole room.
func (h *Hub) push(client *Client, ev Event) {
	select {
	case client.send <- ev:
	default:
		h.logger.Warn("client send buffer full, dropping", "conn", client.ID)
		client.conn.Close()
	}
}
