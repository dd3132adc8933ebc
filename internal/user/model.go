// File: internal/user/model.go
package user

import (
	"time"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
)

// User mirrors the identity subsystem's user record. This service never
// writes to it; rows are created and maintained by the identity provider.
type User struct {
	common.BaseModel
	Email    *string `gorm:"type:varchar(255);uniqueIndex"`
	FullName *string `gorm:"type:varchar(200)"`
	Role     string  `gorm:"type:varchar(50);not null;default:'user'"` // "user" or "admin"
	Enabled  bool    `gorm:"not null;default:true"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// SellerProfile carries the seller-facing profile fields shown on a listing
// detail page. Owned by the identity subsystem, read-only here.
type SellerProfile struct {
	common.BaseModel
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PhoneNumber     *string   `gorm:"type:varchar(50)"`
	WhatsappNumber  *string   `gorm:"type:varchar(50)"`
	Location        *string   `gorm:"type:varchar(150)"`
	Bio             *string   `gorm:"type:text"`
	ProfileImage    *string   `gorm:"type:text"`
	Rating          float64   `gorm:"not null;default:0"`
	TotalRatings    int       `gorm:"not null;default:0"`
}

// TableName specifies the table name for the SellerProfile model.
func (SellerProfile) TableName() string {
	return "user_profiles"
}

// SellerResponse is the seller block embedded in listing detail responses.
type SellerResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     *string   `json:"seller_name,omitempty"`
	Phone        *string   `json:"seller_phone,omitempty"`
	Whatsapp     *string   `json:"seller_whatsapp,omitempty"`
	Location     *string   `json:"seller_location,omitempty"`
	ProfileImage *string   `json:"seller_image,omitempty"`
	Rating       float64   `json:"seller_rating"`
	TotalRatings int       `json:"seller_total_ratings"`
}

// ToSellerResponse combines a user record with its optional profile.
func ToSellerResponse(u *User, profile *SellerProfile) SellerResponse {
	resp := SellerResponse{ID: u.ID, FullName: u.FullName}
	if profile != nil {
		resp.Phone = profile.PhoneNumber
		resp.Whatsapp = profile.WhatsappNumber
		resp.Location = profile.Location
		resp.ProfileImage = profile.ProfileImage
		resp.Rating = profile.Rating
		resp.TotalRatings = profile.TotalRatings
	}
	return resp
}

// NewWithEmail builds an in-memory user record, mainly for tests.
func NewWithEmail(id uuid.UUID, email string) *User {
	now := time.Now()
	return &User{
		BaseModel: common.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Email:     &email,
		Role:      common.RoleUser,
		Enabled:   true,
	}
}
