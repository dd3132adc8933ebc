// File: internal/category/repository.go
package category

import (
	"context"
	"errors"
	"strings"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for category data operations.
type Repository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAllActive(ctx context.Context) ([]Category, error)
	FindActiveChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountAll(ctx context.Context) (int64, error)
	CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error)
	CountListings(ctx context.Context, categoryID uuid.UUID) (int64, error)

	Popular(ctx context.Context, limit int) ([]RankedCategory, error)
	Featured(ctx context.Context, limit int) ([]RankedCategory, error)
	ListingStats(ctx context.Context, categoryID uuid.UUID) (*Stats, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM category repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, category *Category) error {
	category.Slug = strings.ToLower(strings.TrimSpace(category.Slug))
	err := r.db.WithContext(ctx).Create(category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Category with this name or slug already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Category not found.")
		}
		return nil, err
	}
	return &category, nil
}

func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	normalizedSlug := strings.ToLower(strings.TrimSpace(slug))
	err := r.db.WithContext(ctx).First(&category, "slug = ?", normalizedSlug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Category not found.")
		}
		return nil, err
	}
	return &category, nil
}

// FindAllActive returns active categories in (sort_order, name) order. The
// tree builder relies on this ordering for sibling order, so keep the two
// in sync.
func (r *gormRepository) FindAllActive(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *gormRepository) FindActiveChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *gormRepository) Update(ctx context.Context, category *Category) error {
	if category.Slug != "" {
		category.Slug = strings.ToLower(strings.TrimSpace(category.Slug))
	}
	err := r.db.WithContext(ctx).Save(category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Category with this name or slug already exists.")
		}
		return err
	}
	return nil
}

// Delete removes a bare category row. Dependent-listing and child checks
// happen in the service before this is called.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Category{BaseModel: common.BaseModel{ID: id}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Category not found or already deleted.")
	}
	return nil
}

func (r *gormRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Category{}).Count(&count).Error
	return count, err
}

func (r *gormRepository) CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Category{}).Where("parent_id = ?", parentID).Count(&count).Error
	return count, err
}

func (r *gormRepository) CountListings(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("listings").Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// Popular ranks active categories by their active listing count.
func (r *gormRepository) Popular(ctx context.Context, limit int) ([]RankedCategory, error) {
	var ranked []RankedCategory
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name,
			c.slug,
			c.icon,
			c.image,
			c.description,
			COUNT(l.id) AS listing_count
		FROM categories c
		LEFT JOIN listings l ON l.category_id = c.id AND l.status = ?
		WHERE c.is_active = ?
		GROUP BY c.id, c.name, c.slug, c.icon, c.image, c.description
		ORDER BY listing_count DESC, c.name ASC
		LIMIT ?`, "Active", true, limit).Scan(&ranked).Error
	return ranked, err
}

// Featured returns top-level active categories having at least one active
// listing, most-listed first then sort_order.
func (r *gormRepository) Featured(ctx context.Context, limit int) ([]RankedCategory, error) {
	var ranked []RankedCategory
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name,
			c.slug,
			c.icon,
			c.image,
			c.description,
			COUNT(l.id) AS listing_count
		FROM categories c
		LEFT JOIN listings l ON l.category_id = c.id AND l.status = ?
		WHERE c.is_active = ? AND c.parent_id IS NULL
		GROUP BY c.id, c.name, c.slug, c.icon, c.image, c.description, c.sort_order
		HAVING COUNT(l.id) > 0
		ORDER BY listing_count DESC, c.sort_order ASC
		LIMIT ?`, "Active", true, limit).Scan(&ranked).Error
	return ranked, err
}

func (r *gormRepository) ListingStats(ctx context.Context, categoryID uuid.UUID) (*Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_listings,
			COUNT(CASE WHEN status = ? THEN 1 END) AS active_listings,
			AVG(price) AS avg_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price
		FROM listings
		WHERE category_id = ?`, "Active", categoryID).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
