package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lumichat/relay-server/internal/auth"
)

const (
	// ContextKeyUserID is the context key for storing the verified user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyEmail is the context key for storing the verified email.
	ContextKeyEmail = "email"
)

// AuthMiddleware validates the bearer credential on REST requests using the
// same verifier as the WebSocket gate.
func AuthMiddleware(verifier auth.Verifier, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.ExtractToken(c.Request.URL.Query(), c.Request.Header)
		if !ok {
			logger.Debug().Msg("missing credential")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication failed"})
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug().Err(err).Msg("invalid credential")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication failed"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, identity.UserID)
		c.Set(ContextKeyEmail, identity.Email)

		c.Next()
	}
}

// LoggerMiddleware logs HTTP requests after they complete.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
