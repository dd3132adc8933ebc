// File: internal/listing/handler.go
package listing

import (
	"errors"

	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for listing handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new listing handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for listing operations. Browsing is
// guest-accessible; owner mutations and view recording require auth, and
// status moderation requires the admin role on top.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	listingGroup := router.Group("/listings")
	{
		listingGroup.GET("", h.getListings)
		listingGroup.GET("/featured", h.getFeaturedListings)
		listingGroup.GET("/search", h.searchListings)
		listingGroup.GET("/top-selling", h.getTopSellingListings)
		listingGroup.GET("/:id", h.getListingDetails)

		authed := listingGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("", h.createListing)
			authed.PUT("/:id", h.updateListing)
			authed.PUT("/:id/images", h.updateListingImages)
			authed.DELETE("/:id", h.deleteListing)
			authed.POST("/:id/views", h.recordView)
		}

		adminGroup := listingGroup.Group("/admin")
		adminGroup.Use(authMW)
		adminGroup.Use(adminRoleMW)
		{
			adminGroup.PATCH("/:id/status", h.adminUpdateStatus)
		}
	}
}

func (h *Handler) getListings(c *gin.Context) {
	filters, err := ParseFilters(c.Query("filters"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	limit, offset := common.GetLimitOffset(c, defaultListLimit)
	categoryFilter := c.DefaultQuery("category", CategoryAll)

	rows, total, err := h.service.GetListings(c.Request.Context(), categoryFilter, limit, offset, filters)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaged(c, rows, len(rows), total, limit, offset)
}

func (h *Handler) searchListings(c *gin.Context) {
	filters, err := ParseFilters(c.Query("filters"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	limit, offset := common.GetLimitOffset(c, defaultListLimit)
	term := c.Query("q")

	rows, total, err := h.service.SearchListings(c.Request.Context(), term, limit, offset, filters)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondSearch(c, term, rows, len(rows), total, limit, offset)
}

func (h *Handler) getFeaturedListings(c *gin.Context) {
	limit := common.GetLimit(c, defaultFeaturedLimit)
	rows, err := h.service.GetFeaturedListings(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondList(c, rows, len(rows))
}

func (h *Handler) getTopSellingListings(c *gin.Context) {
	limit := common.GetLimit(c, defaultListLimit)
	rows, err := h.service.GetTopSellingListings(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondList(c, rows, len(rows))
}

func (h *Handler) getListingDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	details, err := h.service.GetListingDetails(c.Request.Context(), id, true)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondData(c, details)
}

func (h *Handler) createListing(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create listing: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	l, err := h.service.CreateListing(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	middleware.CountListingCreated()
	common.RespondCreated(c, "Listing created successfully.", l)
}

func (h *Handler) updateListing(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update listing: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	l, err := h.service.UpdateListing(c.Request.Context(), id, userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Listing updated successfully.", l)
}

func (h *Handler) updateListingImages(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update listing images: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	images, err := h.service.ReplaceListingImages(c.Request.Context(), id, userID, req.Images)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Listing images updated successfully.", images)
}

func (h *Handler) deleteListing(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), id, userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Listing deleted successfully.", nil)
}

func (h *Handler) recordView(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if err := h.service.RecordView(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	middleware.CountListingView()
	common.RespondMessage(c, "View recorded.", nil)
}

func (h *Handler) adminUpdateStatus(c *gin.Context) {
	adminID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req AdminUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	l, err := h.service.AdminUpdateStatus(c.Request.Context(), id, adminID, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Listing status updated.", l)
}
