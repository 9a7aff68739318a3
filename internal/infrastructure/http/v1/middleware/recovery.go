// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"stockview/internal/core/apperror"
	"stockview/internal/infrastructure/http/v1/dto"
	"stockview/pkg/logger"
)

// Recovery turns a handler panic into an INTERNAL_ERROR response.
// The stack trace goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", r,
					"method", c.Request.Method,
					"path", c.FullPath(),
					"stack", string(debug.Stack()),
				)
				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", r)))
				// ErrorHandler sits below this middleware and was unwound by the panic.
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
						Code:    apperror.CodeInternal,
						Message: "Internal server error",
						Details: withRequestID(nil, c),
					})
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
