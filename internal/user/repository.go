// File: internal/user/repository.go
package user

import (
	"context"
	"errors"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the read-only lookups this service needs from the
// identity subsystem's tables.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*SellerProfile, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, err
	}
	return &u, nil
}

// FindProfileByUserID returns nil without error when the user has no seller
// profile; listing details render the seller block from the user row alone.
func (r *gormRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*SellerProfile, error) {
	var profile SellerProfile
	err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
