package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockview/internal/core/apperror"
	"stockview/internal/infrastructure/http/v1/dto"
	"stockview/pkg/logger"
)

// ErrorHandler renders the last error attached to the gin context.
// Internal causes are logged, never sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}
			body := dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			}
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				body.Details = withRequestID(body.Details, c)
			}
			c.JSON(appErr.HTTPStatus, body)
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: withRequestID(nil, c),
		})
	}
}

func withRequestID(details map[string]any, c *gin.Context) map[string]any {
	out := make(map[string]any, len(details)+1)
	for k, v := range details {
		out[k] = v
	}
	out["request_id"] = c.GetString(KeyRequestID)
	return out
}
