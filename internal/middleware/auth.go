// File: internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/iphenelist/vendor-backend/internal/auth"
	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokenService auth.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, tokenService)
		if err != nil {
			logger.Debug("Authentication failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails(err.Error()))
			return
		}

		c.Set(common.UserIDKey, claims.UserID)
		c.Set(common.UserEmailKey, claims.Email)
		c.Set(common.UserRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware populates the caller identity when a valid bearer
// token is present and lets the request through anonymously otherwise.
func OptionalAuthMiddleware(tokenService auth.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, tokenService)
		if err == nil {
			c.Set(common.UserIDKey, claims.UserID)
			c.Set(common.UserEmailKey, claims.Email)
			c.Set(common.UserRoleKey, claims.Role)
		} else if c.GetHeader(common.AuthorizationHeader) != "" {
			logger.Debug("Ignoring invalid optional credentials", zap.Error(err))
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, tokenService auth.TokenService) (*auth.Claims, error) {
	authHeader := c.GetHeader(common.AuthorizationHeader)
	if authHeader == "" {
		return nil, common.ErrUnauthorized.WithDetails("Authorization header is required.")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.AuthorizationTypeBearer) {
		return nil, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'.")
	}

	return tokenService.ValidateToken(parts[1])
}

// RoleAuthMiddleware checks that the authenticated user holds one of the
// allowed roles. It must run after AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
