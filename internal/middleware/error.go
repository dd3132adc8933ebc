// File: internal/middleware/error.go
package middleware

import (
	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			ginErr := c.Errors[0]
			if apiErr, ok := common.IsAPIError(ginErr.Err); ok {
				common.RespondWithError(c, apiErr)
				return
			}

			logger.Error("Unhandled application error",
				zap.Error(ginErr.Err),
				zap.String("path", c.Request.URL.Path),
				zap.Any("meta", ginErr.Meta),
				zap.String("request_id", c.GetString(RequestIDContextKey)),
			)
			genericError := common.ErrInternalServer.WithDetails("An unexpected error occurred.")
			if gin.Mode() == gin.DebugMode && ginErr.Err != nil {
				genericError = genericError.WithDetails(ginErr.Err.Error())
			}
			common.RespondWithError(c, genericError)
			return
		}

		if c.Writer.Status() == 404 && !c.Writer.Written() {
			common.RespondWithError(c, common.ErrNotFound.WithDetails("The requested endpoint does not exist."))
			return
		}
		if c.Writer.Status() == 405 && !c.Writer.Written() {
			common.RespondWithError(c, common.NewAPIError(405, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL."))
			return
		}
	}
}
