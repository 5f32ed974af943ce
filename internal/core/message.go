package core

import "time"

// MessageStatusSent marks a message as relayed but not yet acknowledged by
// any system of record.
const MessageStatusSent = "sent"

// DefaultMessageType is assumed when the client omits the message type.
const DefaultMessageType = "text"

// Message is the domain model for a relayed chat message. The ID is a
// temporary one assigned by this process; a durable ID would come from the
// API of record, which this relay does not talk to.
type Message struct {
	ID        string
	Room      string
	From      string
	Content   string
	Type      string
	ReplyTo   string
	CreatedAt time.Time
	Status    string
}
