package core

// Client is one live authenticated connection as seen by the core layer.
// Identity fields are set at handshake and immutable afterwards. One user
// may own several clients at once.
type Client struct {
	ConnID string
	UserID string
	Email  string
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
func NewClient(connID, userID, email string) *Client {
	return &Client{
		ConnID: connID,
		UserID: userID,
		Email:  email,
		Events: make(chan *Event, 16),
	}
}

// send delivers an event without blocking. Slow consumers lose events;
// delivery is best-effort.
func (c *Client) send(event *Event) {
	select {
	case c.Events <- event:
	default:
	}
}
