package core

// Room groups clients subscribed to the same broadcast channel. Not
// goroutine-safe on its own; the hub serializes all access.
type Room struct {
	Name    string
	clients map[string]*Client
}

// NewRoom constructs a room with no clients.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		clients: make(map[string]*Client),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c.ConnID]; exists {
		return false
	}
	r.clients[c.ConnID] = c
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c.ConnID]; !exists {
		return false
	}
	delete(r.clients, c.ConnID)
	return true
}

// Has reports whether the connection is a member of the room.
func (r *Room) Has(connID string) bool {
	_, exists := r.clients[connID]
	return exists
}

// Broadcast sends an event to all clients in the room, skipping the
// excluded connection when excludeConnID is non-empty.
func (r *Room) Broadcast(event *Event, excludeConnID string) {
	for connID, client := range r.clients {
		if connID == excludeConnID {
			continue
		}
		client.send(event)
	}
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}
