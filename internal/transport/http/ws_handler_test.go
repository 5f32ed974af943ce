package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/lumichat/relay-server/internal/auth"
	"github.com/lumichat/relay-server/internal/config"
	"github.com/lumichat/relay-server/internal/core"
	"github.com/lumichat/relay-server/internal/proto"
)

const testSecret = "testsecret"

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.AllowedOrigin = "*"
	cfg.JWTSecret = testSecret

	logger := zerolog.Nop()
	verifier := auth.NewJWTVerifier(&auth.JWTConfig{Secret: []byte(cfg.JWTSecret)})

	hub := core.NewHub(&logger)
	registry := core.NewRegistry()
	presence := core.NewPresenceStore()
	typing := core.NewTypingTracker()

	server := NewServer(hub, registry, presence, typing, verifier, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func makeToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.GenerateToken(&auth.JWTConfig{Secret: []byte(testSecret)}, userID, userID+"@example.com", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func wsURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dialAs(t *testing.T, ctx context.Context, ts *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, wsURL(ts)+"?token="+makeToken(t, userID), nil)
	if err != nil {
		t.Fatalf("dial as %s: %v", userID, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, eventType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", eventType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: eventType, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", eventType, err)
	}
}

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readUntil discards frames until the predicate matches.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(rawOutbound) bool) rawOutbound {
	t.Helper()

	for {
		var out rawOutbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read outbound: %v", err)
		}
		if match(out) {
			return out
		}
	}
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, resp, err := websocket.Dial(ctx, wsURL(ts), nil)
	if err == nil {
		conn.Close(websocket.StatusNormalClosure, "unexpected")
		t.Fatal("dial without token should fail")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401 handshake rejection, got %+v", resp)
	}
}

func TestWebSocketRejectsInvalidToken(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, resp, err := websocket.Dial(ctx, wsURL(ts)+"?token=garbage", nil)
	if err == nil {
		conn.Close(websocket.StatusNormalClosure, "unexpected")
		t.Fatal("dial with invalid token should fail")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401 handshake rejection, got %+v", resp)
	}
}

func TestWebSocketAcceptsBearerHeader(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(ts), &websocket.DialOptions{
		HTTPHeader: map[string][]string{
			"Authorization": {"Bearer " + makeToken(t, "alice")},
		},
	})
	if err != nil {
		t.Fatalf("dial with bearer header: %v", err)
	}
	conn.Close(websocket.StatusNormalClosure, "done")
}

func TestWebSocketMessageRoundtrip(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialAs(t, ctx, ts, "alice")
	connB := dialAs(t, ctx, ts, "bob")

	// Each side proves its own room join completed by receiving its own
	// relayed message; the sender is always included in the fan-out.
	sendInbound(t, ctx, connB, proto.InboundTypeRoomJoin, proto.RoomData{RoomID: "room-1"})
	sendInbound(t, ctx, connB, proto.InboundTypeMessageSend, proto.SendMessageData{RoomID: "room-1", Content: "bob joined"})
	readUntil(t, ctx, connB, func(o rawOutbound) bool { return o.Event == proto.OutboundEventMessageNew })

	sendInbound(t, ctx, connA, proto.InboundTypeRoomJoin, proto.RoomData{RoomID: "room-1"})
	sendInbound(t, ctx, connA, proto.InboundTypeMessageSend, proto.SendMessageData{RoomID: "room-1", Content: "hi"})

	var fromA proto.MessageEvent
	outA := readUntil(t, ctx, connA, func(o rawOutbound) bool { return o.Event == proto.OutboundEventMessageNew })
	if err := json.Unmarshal(outA.Data, &fromA); err != nil {
		t.Fatalf("unmarshal message event: %v", err)
	}

	outB := readUntil(t, ctx, connB, func(o rawOutbound) bool {
		var ev proto.MessageEvent
		if o.Event != proto.OutboundEventMessageNew {
			return false
		}
		if err := json.Unmarshal(o.Data, &ev); err != nil {
			return false
		}
		return ev.SenderID == "alice"
	})

	var fromB proto.MessageEvent
	if err := json.Unmarshal(outB.Data, &fromB); err != nil {
		t.Fatalf("unmarshal message event: %v", err)
	}

	if fromA.ID != fromB.ID {
		t.Fatalf("message ids differ: %q vs %q", fromA.ID, fromB.ID)
	}
	if !strings.HasPrefix(fromA.ID, "temp_") {
		t.Fatalf("id %q should carry the temporary prefix", fromA.ID)
	}
	if fromA.SenderID != "alice" || fromA.Content != "hi" || fromA.Status != "sent" {
		t.Fatalf("unexpected message event: %+v", fromA)
	}
}

func TestWebSocketMalformedSendEmitsScopedError(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialAs(t, ctx, ts, "alice")

	sendInbound(t, ctx, conn, proto.InboundTypeRoomJoin, proto.RoomData{RoomID: "room-1"})
	sendInbound(t, ctx, conn, proto.InboundTypeMessageSend, proto.SendMessageData{RoomID: "room-1"})

	out := readUntil(t, ctx, conn, func(o rawOutbound) bool { return o.Type == proto.OutboundTypeError })
	if out.Error == nil || out.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", out)
	}

	// The connection survives and keeps working.
	sendInbound(t, ctx, conn, proto.InboundTypeMessageSend, proto.SendMessageData{RoomID: "room-1", Content: "still here"})
	readUntil(t, ctx, conn, func(o rawOutbound) bool { return o.Event == proto.OutboundEventMessageNew })
}

func TestWebSocketUnknownEventTypeEmitsError(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialAs(t, ctx, ts, "alice")

	sendInbound(t, ctx, conn, "message:unsend", proto.RoomData{RoomID: "room-1"})

	out := readUntil(t, ctx, conn, func(o rawOutbound) bool { return o.Type == proto.OutboundTypeError })
	if out.Error == nil || out.Error.Code != core.ErrCodeInvalidEvent {
		t.Fatalf("expected invalid_event error, got %+v", out)
	}
}

func TestWebSocketPresenceUpdateFanout(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialAs(t, ctx, ts, "alice")
	connB := dialAs(t, ctx, ts, "bob")

	sendInbound(t, ctx, connB, proto.InboundTypePresenceUpdate, proto.PresenceData{Status: "away"})

	out := readUntil(t, ctx, connA, func(o rawOutbound) bool { return o.Event == proto.OutboundEventPresenceUpdate })
	var ev proto.PresenceEvent
	if err := json.Unmarshal(out.Data, &ev); err != nil {
		t.Fatalf("unmarshal presence event: %v", err)
	}
	if ev.UserID != "bob" || ev.Status != "away" || ev.UpdatedAt == "" {
		t.Fatalf("unexpected presence event: %+v", ev)
	}

	// The sender's own socket receives it too; nothing is excluded.
	readUntil(t, ctx, connB, func(o rawOutbound) bool { return o.Event == proto.OutboundEventPresenceUpdate })
}

func TestWebSocketUserOfflineAfterLastDisconnect(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialAs(t, ctx, ts, "alice")

	phone, _, err := websocket.Dial(ctx, wsURL(ts)+"?token="+makeToken(t, "bob"), nil)
	if err != nil {
		t.Fatalf("dial bob phone: %v", err)
	}
	laptop, _, err := websocket.Dial(ctx, wsURL(ts)+"?token="+makeToken(t, "bob"), nil)
	if err != nil {
		t.Fatalf("dial bob laptop: %v", err)
	}

	phone.Close(websocket.StatusNormalClosure, "done")
	laptop.Close(websocket.StatusNormalClosure, "done")

	out := readUntil(t, ctx, connA, func(o rawOutbound) bool { return o.Event == proto.OutboundEventUserOffline })
	var ev proto.UserOfflineEvent
	if err := json.Unmarshal(out.Data, &ev); err != nil {
		t.Fatalf("unmarshal offline event: %v", err)
	}
	if ev.UserID != "bob" || ev.LastSeen == "" {
		t.Fatalf("unexpected offline event: %+v", ev)
	}
}
