// File: internal/category/handler.go
package category

import (
	"errors"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for category handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new category handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for category operations. Public reads
// are guest-accessible; admin mutations sit behind auth + role middleware.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	categoryGroup := router.Group("/categories")
	{
		categoryGroup.GET("", h.getAllCategories)
		categoryGroup.GET("/tree", h.getCategoryTree)
		categoryGroup.GET("/popular", h.getPopularCategories)
		categoryGroup.GET("/featured", h.getFeaturedCategories)
		categoryGroup.GET("/:idOrSlug", h.getCategoryDetails)

		adminCategoryGroup := categoryGroup.Group("/admin")
		adminCategoryGroup.Use(authMW)
		adminCategoryGroup.Use(adminRoleMW)
		{
			adminCategoryGroup.POST("", h.adminCreateCategory)
			adminCategoryGroup.PUT("/:id", h.adminUpdateCategory)
			adminCategoryGroup.DELETE("/:id", h.adminDeleteCategory)
		}
	}
}

func (h *Handler) getCategoryTree(c *gin.Context) {
	tree, err := h.service.GetCategoryTree(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondList(c, tree, len(tree))
}

func (h *Handler) getPopularCategories(c *gin.Context) {
	limit := common.GetLimit(c, 10)
	ranked, err := h.service.GetPopularCategories(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondList(c, ranked, len(ranked))
}

func (h *Handler) getAllCategories(c *gin.Context) {
	categories, err := h.service.GetAllCategories(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	common.RespondList(c, responses, len(responses))
}

func (h *Handler) getCategoryDetails(c *gin.Context) {
	details, err := h.service.GetCategoryDetails(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondData(c, details)
}

func (h *Handler) getFeaturedCategories(c *gin.Context) {
	limit := common.GetLimit(c, 6)
	ranked, err := h.service.GetFeaturedCategories(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondList(c, ranked, len(ranked))
}

func (h *Handler) adminCreateCategory(c *gin.Context) {
	var req AdminUpsertCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Admin create category: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	cat, err := h.service.AdminCreateCategory(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Category created successfully.", ToCategoryResponse(cat))
}

func (h *Handler) adminUpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid category ID format."))
		return
	}
	var req AdminUpsertCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Admin update category: Invalid request body", zap.Error(err), zap.String("categoryID", categoryID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	cat, err := h.service.AdminUpdateCategory(c.Request.Context(), categoryID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Category updated successfully.", ToCategoryResponse(cat))
}

func (h *Handler) adminDeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid category ID format."))
		return
	}
	if err := h.service.AdminDeleteCategory(c.Request.Context(), categoryID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondMessage(c, "Category deleted successfully.", nil)
}
