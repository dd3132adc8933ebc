// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for listing data operations.
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	List(ctx context.Context, q ListQuery) ([]Summary, int64, error)
	Featured(ctx context.Context, limit int) ([]Summary, error)
	TopSelling(ctx context.Context, limit int) ([]Summary, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	ReplaceImages(ctx context.Context, listingID uuid.UUID, images []ListingImage) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// summarySelect lists the flattened columns of a Summary row. The primary
// image and image count come from correlated subqueries so the facades stay
// a single round trip.
const summarySelect = `listings.id, listings.title, listings.description, listings.price,
	listings.currency, listings.location, listings.category_id, listings.condition,
	listings.listing_type, listings.views_count, listings.featured, listings.created_at,
	categories.name AS category_name, categories.icon AS category_icon,
	(SELECT li.image FROM listing_images li
		WHERE li.listing_id = listings.id AND li.is_primary
		ORDER BY li.sort_order ASC LIMIT 1) AS primary_image,
	(SELECT COUNT(*) FROM listing_images li WHERE li.listing_id = listings.id) AS image_count`

// liveListings scopes a query to listings that are active and not past their
// expiry date.
func liveListings(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("listings.status = ?", StatusActive).
			Where("listings.expires_on >= ?", now.Format("2006-01-02"))
	}
}

func (r *gormRepository) summaryQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&Listing{}).
		Select(summarySelect).
		Joins("LEFT JOIN categories ON categories.id = listings.category_id").
		Scopes(liveListings(time.Now()))
}

func applyFilters(db *gorm.DB, f *Filters) *gorm.DB {
	if f == nil {
		return db
	}
	if f.MinPrice != nil {
		db = db.Where("listings.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("listings.price <= ?", *f.MaxPrice)
	}
	if f.Condition != nil {
		db = db.Where("listings.condition = ?", *f.Condition)
	}
	if f.ListingType != nil {
		db = db.Where("listings.listing_type = ?", *f.ListingType)
	}
	if f.Location != nil {
		db = db.Where("listings.location ILIKE ?", "%"+*f.Location+"%")
	}
	if f.categoryID != nil {
		db = db.Where("listings.category_id = ?", *f.categoryID)
	}
	return db
}

func (r *gormRepository) Create(ctx context.Context, listing *Listing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Listing, error) {
	query := r.db.WithContext(ctx)
	if preloadAssociations {
		query = query.
			Preload("User").
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("listing_images.sort_order ASC")
			})
	}

	var l Listing
	err := query.First(&l, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Listing not found.")
		}
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}
	return &l, nil
}

func (r *gormRepository) Update(ctx context.Context, listing *Listing) error {
	result := r.db.WithContext(ctx).Model(listing).Save(listing)
	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Listing not found for update.")
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Listing{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Listing not found or you do not have permission to delete it.")
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, q ListQuery) ([]Summary, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Listing{}).
		Scopes(liveListings(time.Now()))
	if q.CategoryID != nil {
		base = base.Where("listings.category_id = ?", *q.CategoryID)
	}
	if q.SearchTerm != "" {
		term := "%" + q.SearchTerm + "%"
		base = base.Where("listings.title ILIKE ? OR listings.description ILIKE ?", term, term)
	}
	base = applyFilters(base, q.Filters)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query := r.summaryQuery(ctx)
	if q.CategoryID != nil {
		query = query.Where("listings.category_id = ?", *q.CategoryID)
	}
	if q.SearchTerm != "" {
		term := "%" + q.SearchTerm + "%"
		query = query.Where("listings.title ILIKE ? OR listings.description ILIKE ?", term, term)
	}
	query = applyFilters(query, q.Filters)

	var rows []Summary
	err := query.
		Order("listings.featured DESC, listings.created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}
	return rows, total, nil
}

func (r *gormRepository) Featured(ctx context.Context, limit int) ([]Summary, error) {
	var rows []Summary
	err := r.summaryQuery(ctx).
		Where("listings.featured = ?", true).
		Order("listings.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured listings: %w", err)
	}
	return rows, nil
}

func (r *gormRepository) TopSelling(ctx context.Context, limit int) ([]Summary, error) {
	var rows []Summary
	err := r.summaryQuery(ctx).
		Order("listings.views_count DESC, listings.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top selling listings: %w", err)
	}
	return rows, nil
}

func (r *gormRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Exec("UPDATE listings SET views_count = COALESCE(views_count, 0) + 1 WHERE id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// MarkExpired flips every active listing whose expiry date has passed to
// Expired and reports how many rows changed.
func (r *gormRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Listing{}).
		Where("status = ? AND expires_on < ?", StatusActive, now.Format("2006-01-02")).
		Update("status", StatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire listings: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ReplaceImages swaps a listing's image set atomically.
func (r *gormRepository) ReplaceImages(ctx context.Context, listingID uuid.UUID, images []ListingImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&ListingImage{}).Error; err != nil {
			return fmt.Errorf("failed to clear listing images: %w", err)
		}
		for i := range images {
			images[i].ListingID = listingID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return fmt.Errorf("failed to save listing images: %w", err)
			}
		}
		return nil
	})
}
