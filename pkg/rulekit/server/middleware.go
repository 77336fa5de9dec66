package server

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rkerrors "github.com/randalmurphal/rulekit/pkg/rulekit/errors"
	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// requestID echoes the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs each request once it has been handled.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := observability.TimedOperation()
		c.Next()

		reqLogger := observability.EnrichLogger(logger, c.GetString(requestIDKey), c.FullPath())
		reqLogger = observability.WithTraceID(c.Request.Context(), reqLogger)
		observability.LogRequest(reqLogger, c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			observability.Milliseconds(done()))
	}
}

// recoverPanic reports a handler panic as an internal error in the usual
// error body.
func recoverPanic(c *gin.Context, recovered any) {
	writeError(c, rkerrors.Internal(fmt.Errorf("panic: %v", recovered), c.Request.URL.Path))
}
