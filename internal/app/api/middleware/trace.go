package middleware

import (
	"context"

	"github.com/fatflowers/duesledger/pkg/logctx"
	"github.com/fatflowers/duesledger/pkg/tool"

	"github.com/gin-gonic/gin"
)

// TraceHeader carries the trace id in and out of the service.
const TraceHeader = "X-Request-ID"

// TraceMiddleware adds a trace ID to the request context.
// It reads X-Request-ID if provided by the client; otherwise generates a UUIDv7.
// The trace ID is stored in both gin.Context and the request's context.Context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = tool.GenerateUUIDV7()
		}

		c.Set(string(logctx.TraceIDKey), traceID)
		ctx := context.WithValue(c.Request.Context(), logctx.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
