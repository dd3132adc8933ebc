// File: internal/listing/model.go
package listing

import (
	"time"

	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/user"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// --- Enumerations ---

type ListingStatus string

const (
	StatusDraft    ListingStatus = "Draft"
	StatusActive   ListingStatus = "Active"
	StatusSold     ListingStatus = "Sold"
	StatusExpired  ListingStatus = "Expired"
	StatusRejected ListingStatus = "Rejected"
)

type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsed        Condition = "Used"
	ConditionRefurbished Condition = "Refurbished"
)

type ListingType string

const (
	TypeForSale ListingType = "For Sale"
	TypeForRent ListingType = "For Rent"
	TypeService ListingType = "Service"
	TypeJob     ListingType = "Job"
)

// priceRequired reports whether the listing type mandates a price.
func (t ListingType) priceRequired() bool {
	return t == TypeForSale || t == TypeForRent
}

// --- Main Listing Model ---

type Listing struct {
	common.BaseModel
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	User            *user.User     `gorm:"foreignKey:UserID;references:ID"`
	CategoryID      *uuid.UUID     `gorm:"type:uuid;index"`
	Title           string         `gorm:"type:varchar(255);not null"`
	Description     string         `gorm:"type:text"`
	Price           *float64       `gorm:"type:numeric(14,2)"`
	Currency        string         `gorm:"type:varchar(10);not null;default:'TZS'"`
	Condition       Condition      `gorm:"type:varchar(20)"`
	ListingType     ListingType    `gorm:"type:varchar(20);not null"`
	Status          ListingStatus  `gorm:"type:varchar(20);not null;default:'Draft';index"`
	Location        *string        `gorm:"type:varchar(150)"`
	Address         *string        `gorm:"type:text"`
	Latitude        float64        `gorm:"type:decimal(10,8)"`
	Longitude       float64        `gorm:"type:decimal(11,8)"`
	ContactPhone    *string        `gorm:"type:varchar(50)"`
	ContactEmail    *string        `gorm:"type:varchar(255)"`
	ContactWhatsapp *string        `gorm:"type:varchar(50)"`
	ShowContactInfo bool           `gorm:"not null;default:true"`
	ExpiresOn       time.Time      `gorm:"type:date;not null;index"`
	ViewsCount      int            `gorm:"not null;default:0"`
	Featured        bool           `gorm:"not null;default:false"`
	ApprovedOn      *time.Time     `gorm:"type:timestamptz"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid"`
	MetaTitle       *string        `gorm:"type:varchar(255)"`
	MetaDescription *string        `gorm:"type:text"`
	MetaKeywords    pq.StringArray `gorm:"type:text[]"`
	Images          []ListingImage `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE;"`
}

func (Listing) TableName() string {
	return "listings"
}

// --- Listing Image Model ---

// ListingImage belongs to exactly one listing. At most one image should be
// flagged primary per listing; nothing at the data layer enforces that, so
// readers break ties by lowest sort_order.
type ListingImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index"`
	Image     string    `json:"image" gorm:"type:text;not null"`
	IsPrimary bool      `json:"is_primary" gorm:"not null;default:false"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ListingImage) TableName() string {
	return "listing_images"
}

// --- Query DTOs ---

// Summary is the flattened row shape returned by the list facades: listing
// columns joined with the category name/icon and the correlated
// primary-image/image-count subqueries.
type Summary struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Price        *float64    `json:"price"`
	Currency     string      `json:"currency"`
	Location     *string     `json:"location"`
	CategoryID   *uuid.UUID  `json:"category_id"`
	Condition    Condition   `json:"condition"`
	ListingType  ListingType `json:"listing_type"`
	ViewsCount   int         `json:"views_count"`
	Featured     bool        `json:"featured"`
	CreatedAt    time.Time   `json:"created_at"`
	CategoryName *string     `json:"category_name"`
	CategoryIcon *string     `json:"category_icon"`
	PrimaryImage *string     `json:"primary_image"`
	ImageCount   int64       `json:"image_count"`
}

// ListQuery carries the normalized inputs of the paginated list facades.
type ListQuery struct {
	CategoryID *uuid.UUID
	SearchTerm string
	Limit      int
	Offset     int
	Filters    *Filters
}

// Presentation carries the derived fields computed when a listing's detail
// page is rendered.
type Presentation struct {
	FormattedPrice  string       `json:"formatted_price,omitempty"`
	IsExpired       bool         `json:"is_expired"`
	MetaTitle       string       `json:"meta_title"`
	MetaDescription string       `json:"meta_description"`
	Breadcrumbs     []Breadcrumb `json:"breadcrumbs"`
}

// Breadcrumb is one element of the detail-page trail, rooted at "Listings".
type Breadcrumb struct {
	Title string `json:"title"`
	Route string `json:"route"`
}

// DetailResponse is the payload of the listing details facade.
type DetailResponse struct {
	ID              uuid.UUID           `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Price           *float64            `json:"price"`
	Currency        string              `json:"currency"`
	Condition       Condition           `json:"condition"`
	ListingType     ListingType         `json:"listing_type"`
	Status          ListingStatus       `json:"status"`
	Location        *string             `json:"location,omitempty"`
	Address         *string             `json:"address,omitempty"`
	Latitude        float64             `json:"latitude"`
	Longitude       float64             `json:"longitude"`
	ContactPhone    *string             `json:"contact_phone,omitempty"`
	ContactEmail    *string             `json:"contact_email,omitempty"`
	ContactWhatsapp *string             `json:"contact_whatsapp,omitempty"`
	ExpiresOn       time.Time           `json:"expires_on"`
	ViewsCount      int                 `json:"views_count"`
	Featured        bool                `json:"featured"`
	CreatedAt       time.Time           `json:"created_at"`
	CategoryID      *uuid.UUID          `json:"category_id,omitempty"`
	CategoryName    *string             `json:"category_name,omitempty"`
	CategoryIcon    *string             `json:"category_icon,omitempty"`
	Seller          user.SellerResponse `json:"seller"`
	Images          []ListingImage      `json:"images"`
	Presentation    Presentation        `json:"presentation"`
}

// --- Request DTOs ---

type CreateListingRequest struct {
	Title           string      `json:"title" binding:"required,min=3,max=255"`
	Description     string      `json:"description" binding:"omitempty"`
	Price           *float64    `json:"price,omitempty" binding:"omitempty,gte=0"`
	Currency        string      `json:"currency,omitempty" binding:"omitempty,max=10"`
	CategoryID      *uuid.UUID  `json:"category_id,omitempty"`
	Condition       Condition   `json:"condition,omitempty" binding:"omitempty,oneof=New Used Refurbished"`
	ListingType     ListingType `json:"listing_type" binding:"required,oneof='For Sale' 'For Rent' Service Job"`
	Location        *string     `json:"location,omitempty" binding:"omitempty,max=150"`
	Address         *string     `json:"address,omitempty"`
	Latitude        float64     `json:"latitude,omitempty" binding:"omitempty,latitude"`
	Longitude       float64     `json:"longitude,omitempty" binding:"omitempty,longitude"`
	ContactPhone    *string     `json:"contact_phone,omitempty" binding:"omitempty,max=50"`
	ContactEmail    *string     `json:"contact_email,omitempty" binding:"omitempty,email,max=255"`
	ContactWhatsapp *string     `json:"contact_whatsapp,omitempty" binding:"omitempty,max=50"`
	ExpiresOn       string      `json:"expires_on,omitempty" binding:"omitempty,datetime=2006-01-02"`
	MetaTitle       *string     `json:"meta_title,omitempty" binding:"omitempty,max=255"`
	MetaDescription *string     `json:"meta_description,omitempty"`
	MetaKeywords    []string    `json:"meta_keywords,omitempty" binding:"omitempty,dive,max=50"`
}

type UpdateListingRequest struct {
	Title           *string      `json:"title,omitempty" binding:"omitempty,min=3,max=255"`
	Description     *string      `json:"description,omitempty"`
	Price           *float64     `json:"price,omitempty" binding:"omitempty,gte=0"`
	Currency        *string      `json:"currency,omitempty" binding:"omitempty,max=10"`
	CategoryID      *uuid.UUID   `json:"category_id,omitempty"`
	Condition       *Condition   `json:"condition,omitempty" binding:"omitempty,oneof=New Used Refurbished"`
	ListingType     *ListingType `json:"listing_type,omitempty" binding:"omitempty,oneof='For Sale' 'For Rent' Service Job"`
	Location        *string      `json:"location,omitempty" binding:"omitempty,max=150"`
	Address         *string      `json:"address,omitempty"`
	ContactPhone    *string      `json:"contact_phone,omitempty" binding:"omitempty,max=50"`
	ContactEmail    *string      `json:"contact_email,omitempty" binding:"omitempty,email,max=255"`
	ContactWhatsapp *string      `json:"contact_whatsapp,omitempty" binding:"omitempty,max=50"`
	ExpiresOn       *string      `json:"expires_on,omitempty" binding:"omitempty,datetime=2006-01-02"`
	MetaTitle       *string      `json:"meta_title,omitempty" binding:"omitempty,max=255"`
	MetaDescription *string      `json:"meta_description,omitempty"`
}

// ListingImageInput is one element of an image replacement request.
type ListingImageInput struct {
	Image     string `json:"image" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order" binding:"omitempty,gte=0"`
}

// UpdateImagesRequest replaces a listing's full image set. An empty list
// clears the gallery.
type UpdateImagesRequest struct {
	Images []ListingImageInput `json:"images" binding:"dive"`
}

type AdminUpdateStatusRequest struct {
	Status ListingStatus `json:"status" binding:"required,oneof=Draft Active Sold Expired Rejected"`
}
