package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub owns the set of connected clients and the named broadcast rooms.
// It is the transport-facing pub/sub primitive: sessions ask it to join or
// leave rooms and to fan events out; it never inspects event payloads.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]*Room
	log     *zerolog.Logger
}

// NewHub creates a hub with no clients or rooms.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]*Room),
		log:     logger,
	}
}

// Register adds a client to the hub. Must be called before any room join.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ConnID] = c
}

// Unregister removes a client from the hub and from every room it joined.
// Unregistering an unknown client is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, c.ConnID)
	for name, room := range h.rooms {
		if room.RemoveClient(c) && room.Empty() {
			delete(h.rooms, name)
		}
	}
}

// JoinRoom subscribes the connection to a named room, creating the room on
// first use. Joining a room twice has no effect.
func (h *Hub) JoinRoom(connID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}

	room, ok := h.rooms[roomName]
	if !ok {
		room = NewRoom(roomName)
		h.rooms[roomName] = room
	}
	if room.AddClient(client) {
		h.log.Debug().Str("conn_id", connID).Str("room", roomName).Msg("joined room")
	}
}

// LeaveRoom unsubscribes the connection from a room. Leaving a room never
// joined has no effect. Empty rooms are pruned.
func (h *Hub) LeaveRoom(connID, roomName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	room, ok := h.rooms[roomName]
	if !ok {
		return
	}
	if room.RemoveClient(client) {
		h.log.Debug().Str("conn_id", connID).Str("room", roomName).Msg("left room")
	}
	if room.Empty() {
		delete(h.rooms, roomName)
	}
}

// InRoom reports whether the connection is currently a member of the room.
func (h *Hub) InRoom(connID, roomName string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[roomName]
	return ok && room.Has(connID)
}

// Broadcast fans an event out to every member of the room. A non-empty
// excludeConnID skips that one connection. Delivery is fire-and-forget.
func (h *Hub) Broadcast(roomName string, event *Event, excludeConnID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[roomName]; ok {
		room.Broadcast(event, excludeConnID)
	}
}

// BroadcastAll fans an event out to every connected client, optionally
// skipping one connection.
func (h *Hub) BroadcastAll(event *Event, excludeConnID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, client := range h.clients {
		if connID == excludeConnID {
			continue
		}
		client.send(event)
	}
}
