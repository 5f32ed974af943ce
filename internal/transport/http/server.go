package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lumichat/relay-server/internal/auth"
	"github.com/lumichat/relay-server/internal/config"
	"github.com/lumichat/relay-server/internal/core"
)

// NewServer builds the HTTP server: health check, the WebSocket endpoint,
// and the read-only presence API.
func NewServer(hub *core.Hub, registry *core.Registry, presence *core.PresenceStore, typing *core.TypingTracker, verifier auth.Verifier, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	wsHandler := NewWSHandler(hub, registry, presence, typing, verifier, cfg, logger)
	router.GET("/ws", gin.WrapH(wsHandler))

	api := router.Group("/api", AuthMiddleware(verifier, logger))
	{
		presenceHandlers := NewPresenceHandlers(presence, registry, logger)
		api.GET("/presence", presenceHandlers.BulkPresence)
		api.GET("/online", presenceHandlers.OnlineUsers)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
