// File: internal/wishlist/model.go
package wishlist

import (
	"time"

	"github.com/google/uuid"
)

// Item is one saved listing in a user's wishlist.
type Item struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uidx_wishlist_user_listing"`
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;uniqueIndex:uidx_wishlist_user_listing"`
	Notes     *string   `json:"notes,omitempty" gorm:"type:text"`
	AddedDate time.Time `json:"added_date" gorm:"autoCreateTime"`
}

func (Item) TableName() string {
	return "wishlist_items"
}

// Entry is the joined row returned by the wishlist listing facade: the saved
// item plus a snapshot of the listing it points at.
type Entry struct {
	ID           uuid.UUID `json:"id"`
	ListingID    uuid.UUID `json:"listing_id"`
	Notes        *string   `json:"notes,omitempty"`
	AddedDate    time.Time `json:"added_date"`
	Title        string    `json:"title"`
	Price        *float64  `json:"price"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	Location     *string   `json:"location"`
	CategoryName *string   `json:"category_name"`
	PrimaryImage *string   `json:"primary_image"`
}

// AddRequest is the payload for saving a listing.
type AddRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Notes     *string   `json:"notes,omitempty"`
}

// StatusResponse reports whether a listing is in the caller's wishlist.
type StatusResponse struct {
	ListingID    uuid.UUID `json:"listing_id"`
	InWishlist   bool      `json:"in_wishlist"`
	WishlistItem *Item     `json:"wishlist_item,omitempty"`
}
