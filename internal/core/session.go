package core

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lumichat/relay-server/internal/utils"
)

// Broadcaster is the room/fan-out capability the session requires from the
// transport layer. Any transport supplying these four operations works.
type Broadcaster interface {
	JoinRoom(connID, roomName string)
	LeaveRoom(connID, roomName string)
	Broadcast(roomName string, event *Event, excludeConnID string)
	BroadcastAll(event *Event, excludeConnID string)
}

// PersonalRoom names the private room scoped to one user, used for targeted
// delivery to all of that user's devices.
func PersonalRoom(userID string) string {
	return "user:" + userID
}

// Session orchestrates the lifecycle of one authenticated connection: it
// registers the connection, keeps presence and typing state in step with
// inbound commands, and fans resulting events out through the broadcaster.
type Session struct {
	client   *Client
	hub      Broadcaster
	registry *Registry
	presence *PresenceStore
	typing   *TypingTracker
	log      *zerolog.Logger
}

// NewSession wires a session for one connected client.
func NewSession(client *Client, hub Broadcaster, registry *Registry, presence *PresenceStore, typing *TypingTracker, logger *zerolog.Logger) *Session {
	return &Session{
		client:   client,
		hub:      hub,
		registry: registry,
		presence: presence,
		typing:   typing,
		log:      logger,
	}
}

// Connect runs the post-handshake sequence: register the connection, flip
// presence to online, announce the user to everyone else, and join the
// user's personal room.
func (s *Session) Connect() {
	userID := s.client.UserID

	s.registry.Add(userID, s.client.ConnID)
	s.presence.SetStatus(userID, StatusOnline)

	s.hub.BroadcastAll(&Event{Kind: EventUserOnline, User: userID}, s.client.ConnID)
	s.hub.JoinRoom(s.client.ConnID, PersonalRoom(userID))

	s.log.Info().Str("user_id", userID).Str("conn_id", s.client.ConnID).Msg("session connected")
}

// Disconnect runs the teardown sequence: deregister, clear typing state
// everywhere, and only when this was the user's last connection flip
// presence to offline and announce it. The remaining count comes from the
// removal itself, so concurrent disconnects announce offline exactly once.
func (s *Session) Disconnect() {
	userID := s.client.UserID

	remaining := s.registry.Remove(userID, s.client.ConnID)
	s.typing.ClearUser(userID)

	if remaining == 0 {
		s.presence.SetStatus(userID, StatusOffline)
		lastSeen, _ := s.presence.LastSeen(userID)
		s.hub.BroadcastAll(&Event{Kind: EventUserOffline, User: userID, LastSeen: lastSeen}, s.client.ConnID)
	}

	s.log.Info().Str("user_id", userID).Str("conn_id", s.client.ConnID).Msg("session disconnected")
}

// Handle processes one inbound command. Validation failures are local:
// they emit a scoped error or do nothing, never tear the connection down.
func (s *Session) Handle(cmd *Command) {
	switch cmd.Kind {
	case CommandSendMessage:
		s.handleSendMessage(cmd)
	case CommandReadMessage:
		s.handleReadMessage(cmd)
	case CommandTypingStart:
		s.handleTyping(cmd.Room, true)
	case CommandTypingStop:
		s.handleTyping(cmd.Room, false)
	case CommandUpdatePresence:
		s.handleUpdatePresence(cmd.Status)
	case CommandJoinRoom:
		if cmd.Room != "" {
			s.hub.JoinRoom(s.client.ConnID, cmd.Room)
		}
	case CommandLeaveRoom:
		if cmd.Room != "" {
			s.hub.LeaveRoom(s.client.ConnID, cmd.Room)
		}
	}
}

func (s *Session) handleSendMessage(cmd *Command) {
	if cmd.Room == "" || cmd.Content == "" {
		s.client.send(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeBadRequest, "roomId and content are required"),
		})
		return
	}

	msgType := cmd.MessageType
	if msgType == "" {
		msgType = DefaultMessageType
	}

	msg := &Message{
		ID:        utils.NewTempMessageID(),
		Room:      cmd.Room,
		From:      s.client.UserID,
		Content:   cmd.Content,
		Type:      msgType,
		ReplyTo:   cmd.ReplyTo,
		CreatedAt: time.Now(),
		Status:    MessageStatusSent,
	}

	// The sender receives its own message back so optimistic UI state can
	// reconcile against the relayed copy.
	s.hub.Broadcast(cmd.Room, &Event{Kind: EventMessageNew, Message: msg}, "")

	s.log.Debug().Str("user_id", s.client.UserID).Str("room", cmd.Room).Msg("message relayed")
}

func (s *Session) handleReadMessage(cmd *Command) {
	// Read receipts are best-effort: missing fields are dropped silently.
	if cmd.Room == "" || cmd.MessageID == "" {
		return
	}

	s.hub.Broadcast(cmd.Room, &Event{
		Kind: EventMessageRead,
		Read: &ReadReceipt{
			Room:      cmd.Room,
			MessageID: cmd.MessageID,
			ReadBy:    s.client.UserID,
			ReadAt:    time.Now(),
		},
	}, "")
}

func (s *Session) handleTyping(roomID string, isTyping bool) {
	if roomID == "" {
		return
	}

	userID := s.client.UserID
	if isTyping {
		s.typing.Start(roomID, userID)
	} else {
		s.typing.Stop(roomID, userID)
	}

	s.hub.Broadcast(roomID, &Event{
		Kind: EventTypingUpdate,
		Typing: &TypingUpdate{
			Room:        roomID,
			User:        userID,
			IsTyping:    isTyping,
			TypingUsers: s.typing.Typing(roomID),
		},
	}, s.client.ConnID)
}

func (s *Session) handleUpdatePresence(status Status) {
	if status == "" || !status.Valid() || status == StatusOffline {
		status = StatusOnline
	}

	userID := s.client.UserID
	s.presence.SetStatus(userID, status)

	// Every socket gets this, including the sender's own devices.
	s.hub.BroadcastAll(&Event{
		Kind: EventPresenceUpdate,
		Presence: &PresenceUpdate{
			User:      userID,
			Status:    status,
			UpdatedAt: time.Now(),
		},
	}, "")

	s.log.Debug().Str("user_id", userID).Str("status", string(status)).Msg("presence updated")
}
