// File: internal/common/pagination.go
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// GetLimitOffset extracts limit/offset query parameters, coercing string
// input to integers the way the facades expect. Invalid or missing values
// fall back to the defaults; limit is clamped to MaxLimit.
func GetLimitOffset(c *gin.Context, defaultLimit int) (limit, offset int) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GetLimit extracts a bare limit parameter for the ranked facades.
func GetLimit(c *gin.Context, defaultLimit int) int {
	limit, _ := GetLimitOffset(c, defaultLimit)
	return limit
}
