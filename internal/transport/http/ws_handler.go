package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/lumichat/relay-server/internal/auth"
	"github.com/lumichat/relay-server/internal/config"
	"github.com/lumichat/relay-server/internal/core"
	"github.com/lumichat/relay-server/internal/proto"
	"github.com/lumichat/relay-server/internal/utils"
)

// WSHandler gates, upgrades, and bridges connections to a core.Session.
type WSHandler struct {
	hub      *core.Hub
	registry *core.Registry
	presence *core.PresenceStore
	typing   *core.TypingTracker
	verifier auth.Verifier
	cfg      *config.Config
	log      *zerolog.Logger
}

// NewWSHandler builds the WebSocket endpoint handler.
func NewWSHandler(hub *core.Hub, registry *core.Registry, presence *core.PresenceStore, typing *core.TypingTracker, verifier auth.Verifier, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:      hub,
		registry: registry,
		presence: presence,
		typing:   typing,
		verifier: verifier,
		cfg:      cfg,
		log:      logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	// Gate first: no upgrade, no state until the credential checks out.
	// Missing and invalid tokens are reported identically.
	identity, err := h.authenticate(ctx, r)
	if err != nil {
		h.log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("handshake rejected")
		stdhttp.Error(w, "authentication failed", stdhttp.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{originPattern(h.cfg.AllowedOrigin)},
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	conn.SetReadLimit(h.cfg.MaxMessageBytes)

	client := core.NewClient(utils.NewConnID(), identity.UserID, identity.Email)
	session := core.NewSession(client, h.hub, h.registry, h.presence, h.typing, h.log)

	h.hub.Register(client)
	session.Connect()
	defer h.hub.Unregister(client)
	defer session.Disconnect()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", client.ConnID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// authenticate extracts and verifies the handshake credential under a
// bounded timeout. Fails closed on verifier errors.
func (h *WSHandler) authenticate(ctx context.Context, r *stdhttp.Request) (*auth.Identity, error) {
	token, ok := auth.ExtractToken(r.URL.Query(), r.Header)
	if !ok {
		return nil, auth.ErrInvalidToken
	}

	authCtx, cancel := context.WithTimeout(ctx, h.cfg.HandshakeTimeout)
	defer cancel()

	return h.verifier.Verify(authCtx, token)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *core.Session) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		cmd, protoErr, err := inboundToCommand(inbound)
		if err != nil {
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}
		if cmd != nil {
			session.Handle(cmd)
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ConnID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// originPattern maps the configured origin to a coder/websocket origin
// pattern, which matches on host only.
func originPattern(origin string) string {
	if origin == "" || origin == "*" {
		return "*"
	}
	host := strings.TrimPrefix(origin, "https://")
	host = strings.TrimPrefix(host, "http://")
	return host
}
