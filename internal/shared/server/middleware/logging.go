package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	DocumentIDKey = "documentId"
	ShareIDKey    = "shareId"
	ExportKindKey = "exportKind"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)
		documentID, _ := c.Get(DocumentIDKey)
		shareID, _ := c.Get(ShareIDKey)
		exportKind, _ := c.Get(ExportKindKey)

		// Public share paths carry the capability token; log the route pattern instead.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     userID,
			"is_guest":    isGuest,
			"document_id": documentID,
			"share_id":    shareID,
			"export_kind": exportKind,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
