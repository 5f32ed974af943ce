package core

// CommandKind describes what the client wants to do. The set is closed:
// the session router matches it exhaustively, and the transport mapper
// rejects anything it cannot translate into one of these.
type CommandKind int

const (
	// CommandSendMessage relays a chat message to room participants.
	CommandSendMessage CommandKind = iota
	// CommandReadMessage relays a read receipt to room participants.
	CommandReadMessage
	// CommandTypingStart marks the sender as typing in a room.
	CommandTypingStart
	// CommandTypingStop clears the sender's typing state in a room.
	CommandTypingStop
	// CommandUpdatePresence records an explicit availability change.
	CommandUpdatePresence
	// CommandJoinRoom subscribes the connection to a room.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the connection from a room.
	CommandLeaveRoom
)

// Command represents an action requested by a client. Fields beyond Kind and
// Room are populated only for the kinds that use them.
type Command struct {
	Kind        CommandKind
	Room        string
	Content     string // CommandSendMessage
	MessageType string // CommandSendMessage, optional
	ReplyTo     string // CommandSendMessage, optional
	MessageID   string // CommandReadMessage
	Status      Status // CommandUpdatePresence
}
