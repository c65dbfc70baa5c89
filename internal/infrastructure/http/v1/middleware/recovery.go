// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/pkg/logger"
)

// Recovery turns a panic into a 500 response.
// The stack is logged, never sent to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				appErr := apperror.NewInternal(fmt.Errorf("panic: %v", err)).
					WithDetail("request_id", c.GetString(requestIDKey))
				_ = c.Error(appErr)
				c.Abort()

				// The panic unwound past ErrorHandler, so answer here.
				if !c.Writer.Written() {
					writeError(c, appErr)
				}
			}
		}()
		c.Next()
	}
}
