package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lumichat/relay-server/internal/core"
)

// PresenceHandlers provides read-only HTTP access to presence state, for
// clients that need a snapshot without holding a socket open.
type PresenceHandlers struct {
	presence *core.PresenceStore
	registry *core.Registry
	log      *zerolog.Logger
}

// NewPresenceHandlers creates a new presence handlers instance.
func NewPresenceHandlers(presence *core.PresenceStore, registry *core.Registry, logger *zerolog.Logger) *PresenceHandlers {
	return &PresenceHandlers{
		presence: presence,
		registry: registry,
		log:      logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PresenceResponse represents one user's presence in API responses.
type PresenceResponse struct {
	Status   string `json:"status"`
	LastSeen string `json:"lastSeen"`
}

// OnlineResponse lists users with at least one live connection.
type OnlineResponse struct {
	Users            []string `json:"users"`
	TotalConnections int      `json:"totalConnections"`
}

// BulkPresence handles bulk presence lookup.
// GET /api/presence?user_ids=a,b,c
func (h *PresenceHandlers) BulkPresence(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("user_ids"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_ids is required"})
		return
	}

	userIDs := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_ids is required"})
		return
	}

	response := make(map[string]PresenceResponse, len(userIDs))
	for userID, info := range h.presence.BulkGet(userIDs) {
		response[userID] = PresenceResponse{
			Status:   string(info.Status),
			LastSeen: info.LastSeen.UTC().Format(time.RFC3339Nano),
		}
	}

	c.JSON(http.StatusOK, response)
}

// OnlineUsers handles listing currently connected users.
// GET /api/online
func (h *PresenceHandlers) OnlineUsers(c *gin.Context) {
	users := h.registry.ConnectedUsers()
	if users == nil {
		users = []string{}
	}

	c.JSON(http.StatusOK, OnlineResponse{
		Users:            users,
		TotalConnections: h.registry.TotalConnections(),
	})
}
