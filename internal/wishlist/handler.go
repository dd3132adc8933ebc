// File: internal/wishlist/handler.go
package wishlist

import (
	"errors"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for wishlist handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new wishlist handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the wishlist routes. Count and status checks run
// under optional auth so anonymous clients get empty answers; everything
// else requires a session.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, optionalAuthMW gin.HandlerFunc) {
	wishlistGroup := router.Group("/wishlist")
	{
		wishlistGroup.GET("/count", optionalAuthMW, h.getCount)
		wishlistGroup.GET("/status/:listingID", optionalAuthMW, h.checkStatus)

		authed := wishlistGroup.Group("")
		authed.Use(authMW)
		{
			authed.GET("", h.getUserWishlist)
			authed.POST("", h.addToWishlist)
			authed.DELETE("/:listingID", h.removeFromWishlist)
		}
	}
}

func (h *Handler) addToWishlist(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Add to wishlist: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	item, err := h.service.Add(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Item added to wishlist.", item)
}

func (h *Handler) removeFromWishlist(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listingID"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if err := h.service.Remove(c.Request.Context(), common.GetUserIDFromContext(c), listingID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Item removed from wishlist.", nil)
}

func (h *Handler) getUserWishlist(c *gin.Context) {
	limit, offset := common.GetLimitOffset(c, common.DefaultLimit)
	entries, total, err := h.service.GetUserWishlist(c.Request.Context(), common.GetUserIDFromContext(c), limit, offset)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaged(c, entries, len(entries), total, limit, offset)
}

func (h *Handler) getCount(c *gin.Context) {
	count, err := h.service.GetCount(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondData(c, gin.H{"count": count})
}

func (h *Handler) checkStatus(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("listingID"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	status, err := h.service.CheckStatus(c.Request.Context(), common.GetUserIDFromContext(c), listingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondData(c, status)
}
