// File: internal/wishlist/service.go
package wishlist

import (
	"context"

	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/listing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for wishlist business logic. Read facades
// tolerate anonymous callers (empty results); mutations demand identity.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*Item, error)
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
	GetUserWishlist(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, int64, error)
	GetCount(ctx context.Context, userID uuid.UUID) (int64, error)
	CheckStatus(ctx context.Context, userID, listingID uuid.UUID) (*StatusResponse, error)
}

type service struct {
	repo        Repository
	listingRepo listing.Repository
	logger      *zap.Logger
}

// NewService creates a new wishlist service.
func NewService(repo Repository, listingRepo listing.Repository, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		listingRepo: listingRepo,
		logger:      logger.Named("wishlist-service"),
	}
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*Item, error) {
	if userID == uuid.Nil {
		return nil, common.ErrUnauthorized.WithDetails("Please login to add items to your wishlist.")
	}

	if _, err := s.listingRepo.FindByID(ctx, req.ListingID, false); err != nil {
		return nil, err
	}

	existing, err := s.repo.Find(ctx, userID, req.ListingID)
	if err != nil {
		s.logger.Error("Failed to check wishlist", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not update wishlist.")
	}
	if existing != nil {
		return nil, common.ErrConflict.WithDetails("Item already in wishlist.")
	}

	item := &Item{
		UserID:    userID,
		ListingID: req.ListingID,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to add wishlist item", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not add item to wishlist.")
	}
	return item, nil
}

func (s *service) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	if userID == uuid.Nil {
		return common.ErrUnauthorized.WithDetails("Please login to manage your wishlist.")
	}

	removed, err := s.repo.Delete(ctx, userID, listingID)
	if err != nil {
		s.logger.Error("Failed to remove wishlist item", zap.Error(err), zap.String("userID", userID.String()))
		return common.ErrInternalServer.WithDetails("Could not remove item from wishlist.")
	}
	if !removed {
		return common.ErrNotFound.WithDetails("Item not found in wishlist.")
	}
	return nil
}

func (s *service) GetUserWishlist(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, common.ErrUnauthorized.WithDetails("Please login to view your wishlist.")
	}

	entries, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to load wishlist", zap.Error(err), zap.String("userID", userID.String()))
		return nil, 0, common.ErrInternalServer.WithDetails("Could not retrieve wishlist.")
	}
	return entries, total, nil
}

// GetCount returns 0 for anonymous callers rather than an error, so the
// badge in the client header can render without a session.
func (s *service) GetCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, nil
	}
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count wishlist", zap.Error(err), zap.String("userID", userID.String()))
		return 0, common.ErrInternalServer.WithDetails("Could not count wishlist items.")
	}
	return count, nil
}

// CheckStatus reports false for anonymous callers.
func (s *service) CheckStatus(ctx context.Context, userID, listingID uuid.UUID) (*StatusResponse, error) {
	resp := &StatusResponse{ListingID: listingID}
	if userID == uuid.Nil {
		return resp, nil
	}

	item, err := s.repo.Find(ctx, userID, listingID)
	if err != nil {
		s.logger.Error("Failed to check wishlist status", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not check wishlist status.")
	}
	if item != nil {
		resp.InWishlist = true
		resp.WishlistItem = item
	}
	return resp, nil
}
