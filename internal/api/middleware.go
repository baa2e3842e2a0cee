package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workbench/internal/logging"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

// requestLogger tags each request with a correlation id and logs it once it
// completes.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))

		start := time.Now()
		c.Next()

		attrs := []logging.Attr{
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("duration", time.Since(start)),
		}
		log := logging.WithContext(c.Request.Context(), logger)
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn("api request failed", logging.Args(append(attrs,
				logging.String(logging.FieldEventType, "api_request_failed"),
				logging.String(logging.FieldErrorHint, "check the workbench log for the failing operation"),
				logging.String(logging.FieldImpact, "the station UI shows an error"))...)...)
			return
		}
		log.Debug("api request", logging.Args(attrs...)...)
	}
}

// recovery turns a handler panic into a 500 body.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logging.ErrorWithContext(logging.WithContext(c.Request.Context(), logger),
			"api handler panicked", "api_panic",
			logging.String("path", c.FullPath()),
			logging.Any("panic", recovered))
		abortWithStatus(c, http.StatusInternalServerError, "internal server error")
	})
}

// cors allows the station UI to be served from any origin.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// bearerAuth validates bearer tokens. An empty token disables the check.
// Otherwise requests must include "Authorization: Bearer <token>".
func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			abortWithStatus(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}
