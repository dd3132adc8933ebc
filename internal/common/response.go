// File: internal/common/response.go
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the uniform response shape. Every operation returns at least
// the success flag; callers are expected to check it rather than rely on
// transport-level errors.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Total   *int64      `json:"total,omitempty"`
	HasMore *bool       `json:"has_more,omitempty"`
	Query   string      `json:"query,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// RespondWithError sends the failure envelope. Unrecognized errors are
// wrapped as internal server errors so nothing propagates unhandled to the
// transport layer.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		if l, exists := c.Get("logger"); exists {
			if logger, ok := l.(*zap.Logger); ok {
				logger.Error("Unhandled internal error being wrapped", zap.Error(err))
			}
		}
		apiErr = ErrInternalServer.WithDetails(err.Error())
	}

	c.AbortWithStatusJSON(apiErr.StatusCode, Envelope{
		Success: false,
		Error:   apiErr.Message,
		Code:    apiErr.Code,
		Details: apiErr.Details,
	})
}

// RespondData sends a success envelope carrying a single record.
func RespondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// RespondMessage sends a success envelope with a message and optional data.
func RespondMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// RespondCreated sends a 201 envelope.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// RespondList sends a success envelope carrying a result set and its count.
func RespondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// RespondPaged sends a list envelope with pagination totals.
// has_more is true iff offset+limit < total.
func RespondPaged(c *gin.Context, data interface{}, count int, total int64, limit, offset int) {
	hasMore := int64(offset+limit) < total
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Count:   &count,
		Total:   &total,
		HasMore: &hasMore,
	})
}

// RespondSearch is RespondPaged with the search term echoed back so clients
// can correlate results with the query that produced them.
func RespondSearch(c *gin.Context, query string, data interface{}, count int, total int64, limit, offset int) {
	hasMore := int64(offset+limit) < total
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Count:   &count,
		Total:   &total,
		HasMore: &hasMore,
		Query:   query,
	})
}
