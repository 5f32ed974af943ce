package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessageNew delivers a relayed chat message to room members.
	EventMessageNew EventKind = iota
	// EventMessageRead delivers a read receipt to room members.
	EventMessageRead
	// EventTypingUpdate notifies room members that a user started or stopped typing.
	EventTypingUpdate
	// EventPresenceUpdate notifies all clients of an explicit status change.
	EventPresenceUpdate
	// EventUserOnline notifies all clients that a user came online.
	EventUserOnline
	// EventUserOffline notifies all clients that a user's last session closed.
	EventUserOffline
	// EventError notifies a single client about a failed action.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// Exactly one payload field is set, matching Kind.
type Event struct {
	Kind     EventKind
	Message  *Message
	Read     *ReadReceipt
	Typing   *TypingUpdate
	Presence *PresenceUpdate
	User     string    // EventUserOnline / EventUserOffline
	LastSeen time.Time // EventUserOffline
	Error    *CoreError
}

// ReadReceipt reports that a user has read a message in a room.
type ReadReceipt struct {
	Room      string
	MessageID string
	ReadBy    string
	ReadAt    time.Time
}

// TypingUpdate carries the full typing state of a room after one change.
type TypingUpdate struct {
	Room        string
	User        string
	IsTyping    bool
	TypingUsers []string
}

// PresenceUpdate reports an explicit availability change.
type PresenceUpdate struct {
	User      string
	Status    Status
	UpdatedAt time.Time
}
