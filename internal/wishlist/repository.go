// File: internal/wishlist/repository.go
package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for wishlist data operations.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Delete(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	Find(ctx context.Context, userID, listingID uuid.UUID) (*Item, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM wishlist repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, item *Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}
	return nil
}

// Delete removes the saved item and reports whether a row existed.
func (r *gormRepository) Delete(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&Item{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete wishlist item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Find returns nil without error when the listing is not saved.
func (r *gormRepository) Find(ctx context.Context, userID, listingID uuid.UUID) (*Item, error) {
	var item Item
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find wishlist item: %w", err)
	}
	return &item, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Item{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}

	var entries []Entry
	err = r.db.WithContext(ctx).
		Table("wishlist_items").
		Select(`wishlist_items.id, wishlist_items.listing_id, wishlist_items.notes,
			wishlist_items.added_date, listings.title, listings.price, listings.currency,
			listings.status, listings.location, categories.name AS category_name,
			(SELECT li.image FROM listing_images li
				WHERE li.listing_id = listings.id AND li.is_primary
				ORDER BY li.sort_order ASC LIMIT 1) AS primary_image`).
		Joins("JOIN listings ON listings.id = wishlist_items.listing_id").
		Joins("LEFT JOIN categories ON categories.id = listings.category_id").
		Where("wishlist_items.user_id = ?", userID).
		Order("wishlist_items.added_date DESC").
		Limit(limit).
		Offset(offset).
		Scan(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	return entries, total, nil
}

func (r *gormRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Item{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}
	return count, nil
}
