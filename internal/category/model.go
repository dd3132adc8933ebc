// File: internal/category/model.go
package category

import (
	"time"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
)

// Category represents the category model in the database. Parent links are
// self-referential and form a forest; validation keeps the graph acyclic.
type Category struct {
	common.BaseModel
	Name            string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name,unique"`
	Slug            string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_slug,unique"`
	ParentID        *uuid.UUID `gorm:"type:uuid;index"`
	Parent          *Category  `gorm:"foreignKey:ParentID;references:ID"`
	IsActive        bool       `gorm:"not null;default:true"`
	SortOrder       int        `gorm:"not null;default:0"`
	Icon            *string    `gorm:"type:varchar(100)"`
	Image           *string    `gorm:"type:text"`
	Description     *string    `gorm:"type:text"`
	MetaTitle       *string    `gorm:"type:varchar(255)"`
	MetaDescription *string    `gorm:"type:text"`
	MetaKeywords    *string    `gorm:"type:text"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// --- DTOs ---

// CategoryResponse defines the structure for category data sent in API responses.
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
	Icon        *string    `json:"icon,omitempty"`
	Image       *string    `json:"image,omitempty"`
	Description *string    `json:"description,omitempty"`
	MetaTitle   *string    `json:"meta_title,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a Category model to a CategoryResponse DTO.
func ToCategoryResponse(category *Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		ParentID:    category.ParentID,
		IsActive:    category.IsActive,
		SortOrder:   category.SortOrder,
		Icon:        category.Icon,
		Image:       category.Image,
		Description: category.Description,
		MetaTitle:   category.MetaTitle,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// TreeNode is one node of the rooted category forest; children are nested
// recursively in (sort_order, name) order.
type TreeNode struct {
	CategoryResponse
	Children []*TreeNode `json:"children"`
}

// RankedCategory is a category row joined with its active listing count,
// used by the popular and featured facades.
type RankedCategory struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Icon         *string   `json:"icon,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ListingCount int64     `json:"listing_count"`
}

// Stats aggregates listing figures for one category.
type Stats struct {
	TotalListings  int64    `json:"total_listings"`
	ActiveListings int64    `json:"active_listings"`
	AvgPrice       *float64 `json:"avg_price"`
	MinPrice       *float64 `json:"min_price"`
	MaxPrice       *float64 `json:"max_price"`
}

// Breadcrumb is one element of a root-to-self trail.
type Breadcrumb struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Details is the payload of the category details facade.
type Details struct {
	Category    CategoryResponse   `json:"category"`
	Stats       Stats              `json:"stats"`
	Breadcrumbs []Breadcrumb       `json:"breadcrumbs"`
	Children    []CategoryResponse `json:"children"`
}

// AdminUpsertCategoryRequest is the admin create/update payload.
type AdminUpsertCategoryRequest struct {
	Name            string     `json:"name" binding:"required,max=100"`
	Slug            string     `json:"slug" binding:"omitempty,max=100"`
	ParentID        *uuid.UUID `json:"parent_id,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
	SortOrder       int        `json:"sort_order"`
	Icon            *string    `json:"icon,omitempty" binding:"omitempty,max=100"`
	Image           *string    `json:"image,omitempty"`
	Description     *string    `json:"description,omitempty"`
	MetaTitle       *string    `json:"meta_title,omitempty" binding:"omitempty,max=255"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	MetaKeywords    *string    `json:"meta_keywords,omitempty"`
}
