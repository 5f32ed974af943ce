package http

import (
	"encoding/json"
	"time"

	"github.com/lumichat/relay-server/internal/core"
	"github.com/lumichat/relay-server/internal/proto"
)

// inboundToCommand translates a wire envelope into a core command.
// A returned *proto.Error means a scoped error event goes back to the
// sender; (nil, nil, nil) means the event is dropped silently. The
// validation asymmetry is deliberate: message:send errors loudly, read
// receipts and typing are best-effort.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeMessageSend:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload"}, nil
		}
		if data.RoomID == "" || data.Content == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId and content are required"}, nil
		}
		return &core.Command{
			Kind:        core.CommandSendMessage,
			Room:        data.RoomID,
			Content:     data.Content,
			MessageType: data.Type,
			ReplyTo:     data.ReplyTo,
		}, nil, nil

	case proto.InboundTypeMessageRead:
		var data proto.ReadMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, nil
		}
		if data.RoomID == "" || data.MessageID == "" {
			return nil, nil, nil
		}
		return &core.Command{
			Kind:      core.CommandReadMessage,
			Room:      data.RoomID,
			MessageID: data.MessageID,
		}, nil, nil

	case proto.InboundTypeTypingStart, proto.InboundTypeTypingStop:
		var data proto.TypingData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, nil
		}
		if data.RoomID == "" {
			return nil, nil, nil
		}
		kind := core.CommandTypingStart
		if inbound.Type == proto.InboundTypeTypingStop {
			kind = core.CommandTypingStop
		}
		return &core.Command{Kind: kind, Room: data.RoomID}, nil, nil

	case proto.InboundTypePresenceUpdate:
		var data proto.PresenceData
		// Every field is optional, so an absent data object means the
		// online default.
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &data); err != nil {
				return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload"}, nil
			}
		}
		return &core.Command{
			Kind:   core.CommandUpdatePresence,
			Status: core.Status(data.Status),
		}, nil, nil

	case proto.InboundTypeRoomJoin, proto.InboundTypeRoomLeave:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, nil
		}
		kind := core.CommandJoinRoom
		if inbound.Type == proto.InboundTypeRoomLeave {
			kind = core.CommandLeaveRoom
		}
		return &core.Command{Kind: kind, Room: data.RoomID}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidEvent, Msg: "unknown event type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessageNew:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.OutboundEventMessageNew,
			Data: proto.MessageEvent{
				ID:        event.Message.ID,
				RoomID:    event.Message.Room,
				SenderID:  event.Message.From,
				Content:   event.Message.Content,
				Type:      event.Message.Type,
				ReplyTo:   event.Message.ReplyTo,
				Timestamp: event.Message.CreatedAt.UTC().Format(time.RFC3339Nano),
				Status:    event.Message.Status,
			},
		}
	case core.EventMessageRead:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.OutboundEventMessageRead,
			Data: proto.ReadEvent{
				RoomID:    event.Read.Room,
				MessageID: event.Read.MessageID,
				ReadBy:    event.Read.ReadBy,
				ReadAt:    event.Read.ReadAt.UTC().Format(time.RFC3339Nano),
			},
		}
	case core.EventTypingUpdate:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.OutboundEventTypingUpdate,
			Data: proto.TypingEvent{
				RoomID:      event.Typing.Room,
				UserID:      event.Typing.User,
				IsTyping:    event.Typing.IsTyping,
				TypingUsers: event.Typing.TypingUsers,
			},
		}
	case core.EventPresenceUpdate:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.OutboundEventPresenceUpdate,
			Data: proto.PresenceEvent{
				UserID:    event.Presence.User,
				Status:    string(event.Presence.Status),
				UpdatedAt: event.Presence.UpdatedAt.UTC().Format(time.RFC3339Nano),
			},
		}
	case core.EventUserOnline:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.OutboundEventUserOnline,
			Data:  proto.UserOnlineEvent{UserID: event.User},
		}
	case core.EventUserOffline:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.OutboundEventUserOffline,
			Data: proto.UserOfflineEvent{
				UserID:   event.User,
				LastSeen: event.LastSeen.UTC().Format(time.RFC3339Nano),
			},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
