package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "stockbook/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

const (
	requestIDKey = "request_id"
	traceIDKey   = "trace_id"
)

// Trace attaches a TraceContext to the request. An incoming X-Request-ID
// is kept; the trace ID is always fresh unless the caller sent one.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(c.GetHeader(HeaderRequestID))
		if traceID := c.GetHeader(HeaderTraceID); traceID != "" {
			trace.TraceID = traceID
		}

		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))

		c.Set(traceIDKey, trace.TraceID)
		c.Set(requestIDKey, trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
