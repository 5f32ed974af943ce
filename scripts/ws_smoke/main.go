package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/lumichat/relay-server/internal/proto"
)

// Manual smoke client: connects with a bearer token, joins a room, sends one
// message, and waits for its own relayed copy to come back.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3001/ws", "WebSocket address")
	token := flag.String("token", "", "bearer token for the handshake")
	room := flag.String("room", "general", "room name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	if *token == "" {
		return fmt.Errorf("-token is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr+"?token="+*token, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(eventType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", eventType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: eventType, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", eventType, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeRoomJoin, proto.RoomData{RoomID: *room}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMessageSend, proto.SendMessageData{RoomID: *room, Content: *text}); err != nil {
		return err
	}

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received outbound: type=%s", outbound.Type)
		if outbound.Event != "" {
			fmt.Printf(" event=%s", outbound.Event)
		}
		fmt.Println()

		if outbound.Error != nil {
			return fmt.Errorf("server error: %s (%s)", outbound.Error.Msg, outbound.Error.Code)
		}

		switch outbound.Event {
		case proto.OutboundEventMessageNew:
			var evt proto.MessageEvent
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				fmt.Printf("Raw data: %s\n", string(outbound.Data))
				return fmt.Errorf("unmarshal message: %w", err)
			}
			fmt.Printf("MessageEvent: id=%s room=%s sender=%s content=%q status=%s\n",
				evt.ID, evt.RoomID, evt.SenderID, evt.Content, evt.Status)
			return nil
		case proto.OutboundEventUserOnline:
			var evt proto.UserOnlineEvent
			if err := json.Unmarshal(outbound.Data, &evt); err == nil {
				fmt.Printf("Online: user=%s\n", evt.UserID)
			}
		case proto.OutboundEventUserOffline:
			var evt proto.UserOfflineEvent
			if err := json.Unmarshal(outbound.Data, &evt); err == nil {
				fmt.Printf("Offline: user=%s lastSeen=%s\n", evt.UserID, evt.LastSeen)
			}
		default:
			// keep looping until the relayed message arrives
		}
	}
}
