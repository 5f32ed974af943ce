package proto

import "encoding/json"

// Inbound is the envelope for events coming from the client. Type selects
// the event; Data carries its payload.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound event types.
const (
	InboundTypeMessageSend    = "message:send"
	InboundTypeMessageRead    = "message:read"
	InboundTypeTypingStart    = "typing:start"
	InboundTypeTypingStop     = "typing:stop"
	InboundTypePresenceUpdate = "presence:update"
	InboundTypeRoomJoin       = "room:join"
	InboundTypeRoomLeave      = "room:leave"
)

// Outbound event names.
const (
	OutboundEventMessageNew     = "message:new"
	OutboundEventMessageRead    = "message:read"
	OutboundEventTypingUpdate   = "typing:update"
	OutboundEventPresenceUpdate = "presence:update"
	OutboundEventUserOnline     = "user:online"
	OutboundEventUserOffline    = "user:offline"
)

// Outbound envelope types.
const (
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// SendMessageData asks the relay to fan a chat message out to a room.
type SendMessageData struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
	ReplyTo string `json:"replyTo,omitempty"`
}

// ReadMessageData reports that the sender has read a message.
type ReadMessageData struct {
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId"`
}

// TypingData marks the start or stop of typing in a room.
type TypingData struct {
	RoomID string `json:"roomId"`
}

// PresenceData carries an explicit availability change.
type PresenceData struct {
	Status string `json:"status,omitempty"`
}

// RoomData names a room to join or leave.
type RoomData struct {
	RoomID string `json:"roomId"`
}

// Outbound is the envelope for events sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessageEvent is a relayed chat message, including the sender's own copy.
type MessageEvent struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	ReplyTo   string `json:"replyTo,omitempty"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// ReadEvent is a read receipt fanned out to a room.
type ReadEvent struct {
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId"`
	ReadBy    string `json:"readBy"`
	ReadAt    string `json:"readAt"`
}

// TypingEvent carries a room's full typing state after one change.
type TypingEvent struct {
	RoomID      string   `json:"roomId"`
	UserID      string   `json:"userId"`
	IsTyping    bool     `json:"isTyping"`
	TypingUsers []string `json:"typingUsers"`
}

// PresenceEvent reports a user's explicit status change.
type PresenceEvent struct {
	UserID    string `json:"userId"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}

// UserOnlineEvent announces a user's first live connection.
type UserOnlineEvent struct {
	UserID string `json:"userId"`
}

// UserOfflineEvent announces that a user's last connection closed.
type UserOfflineEvent struct {
	UserID   string `json:"userId"`
	LastSeen string `json:"lastSeen"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
