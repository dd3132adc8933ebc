// File: internal/listing/service.go
package listing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iphenelist/vendor-backend/internal/category"
	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/config"
	"github.com/iphenelist/vendor-backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit     = 20
	defaultFeaturedLimit = 8
	metaDescriptionMax   = 160
	// CategoryAll is the sentinel that disables category filtering.
	CategoryAll = "all"
)

// Service defines the interface for listing business logic.
type Service interface {
	CreateListing(ctx context.Context, userID uuid.UUID, req CreateListingRequest) (*Listing, error)
	UpdateListing(ctx context.Context, id, userID uuid.UUID, req UpdateListingRequest) (*Listing, error)
	DeleteListing(ctx context.Context, id, userID uuid.UUID) error
	ReplaceListingImages(ctx context.Context, id, userID uuid.UUID, images []ListingImageInput) ([]ListingImage, error)
	GetListingDetails(ctx context.Context, id uuid.UUID, countView bool) (*DetailResponse, error)
	GetListings(ctx context.Context, categoryFilter string, limit, offset int, filters *Filters) ([]Summary, int64, error)
	SearchListings(ctx context.Context, term string, limit, offset int, filters *Filters) ([]Summary, int64, error)
	GetFeaturedListings(ctx context.Context, limit int) ([]Summary, error)
	GetTopSellingListings(ctx context.Context, limit int) ([]Summary, error)
	RecordView(ctx context.Context, id uuid.UUID) error
	AdminUpdateStatus(ctx context.Context, id, adminID uuid.UUID, status ListingStatus) (*Listing, error)
	ExpireOverdueListings(ctx context.Context) (int64, error)
}

type service struct {
	repo        Repository
	userRepo    user.Repository
	categorySvc category.Service
	cfg         *config.Config
	logger      *zap.Logger
}

// NewService creates a new listing service.
func NewService(
	repo Repository,
	userRepo user.Repository,
	categorySvc category.Service,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		repo:        repo,
		userRepo:    userRepo,
		categorySvc: categorySvc,
		cfg:         cfg,
		logger:      logger.Named("listing-service"),
	}
}

// CreateListing persists a new listing owned by userID, applying the
// lifespan, currency and contact defaults.
func (s *service) CreateListing(ctx context.Context, userID uuid.UUID, req CreateListingRequest) (*Listing, error) {
	owner, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	l := &Listing{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Price:           req.Price,
		Currency:        req.Currency,
		Condition:       req.Condition,
		ListingType:     req.ListingType,
		Status:          StatusDraft,
		Location:        req.Location,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		ContactWhatsapp: req.ContactWhatsapp,
		ShowContactInfo: true,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}

	if l.Currency == "" {
		l.Currency = s.cfg.DefaultCurrency
	}
	if l.ContactEmail == nil && l.ContactPhone == nil && l.ContactWhatsapp == nil && owner.Email != nil {
		email := *owner.Email
		l.ContactEmail = &email
	}
	if req.ExpiresOn != "" {
		expires, parseErr := time.Parse("2006-01-02", req.ExpiresOn)
		if parseErr != nil {
			return nil, common.NewValidationError("Invalid expires_on date, expected YYYY-MM-DD.")
		}
		l.ExpiresOn = expires
	} else {
		l.ExpiresOn = time.Now().AddDate(0, 0, s.cfg.DefaultListingLifespanDays)
	}
	if l.MetaTitle == nil || *l.MetaTitle == "" {
		title := l.Title
		l.MetaTitle = &title
	}

	if err := s.validateListing(ctx, l); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("Failed to create listing", zap.Error(err), zap.String("userID", userID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not create listing.")
	}
	return l, nil
}

// UpdateListing applies the owner's changes to their listing.
func (s *service) UpdateListing(ctx context.Context, id, userID uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, common.ErrForbidden.WithDetails("You can only modify your own listings.")
	}

	if req.Title != nil {
		l.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Price != nil {
		l.Price = req.Price
	}
	if req.Currency != nil {
		l.Currency = *req.Currency
	}
	if req.CategoryID != nil {
		l.CategoryID = req.CategoryID
	}
	if req.Condition != nil {
		l.Condition = *req.Condition
	}
	if req.ListingType != nil {
		l.ListingType = *req.ListingType
	}
	if req.Location != nil {
		l.Location = req.Location
	}
	if req.Address != nil {
		l.Address = req.Address
	}
	if req.ContactPhone != nil {
		l.ContactPhone = req.ContactPhone
	}
	if req.ContactEmail != nil {
		l.ContactEmail = req.ContactEmail
	}
	if req.ContactWhatsapp != nil {
		l.ContactWhatsapp = req.ContactWhatsapp
	}
	if req.ExpiresOn != nil {
		expires, parseErr := time.Parse("2006-01-02", *req.ExpiresOn)
		if parseErr != nil {
			return nil, common.NewValidationError("Invalid expires_on date, expected YYYY-MM-DD.")
		}
		l.ExpiresOn = expires
	}
	if req.MetaTitle != nil {
		l.MetaTitle = req.MetaTitle
	}
	if req.MetaDescription != nil {
		l.MetaDescription = req.MetaDescription
	}

	if err := s.validateListing(ctx, l); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to update listing", zap.Error(err), zap.String("listingID", id.String()))
		return nil, err
	}
	return l, nil
}

func (s *service) DeleteListing(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

// ReplaceListingImages swaps the owner's gallery for the supplied set. At
// most one image may be flagged primary.
func (s *service) ReplaceListingImages(ctx context.Context, id, userID uuid.UUID, images []ListingImageInput) ([]ListingImage, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, common.ErrForbidden.WithDetails("You can only modify your own listings.")
	}

	primaries := 0
	rows := make([]ListingImage, 0, len(images))
	for _, in := range images {
		if in.IsPrimary {
			primaries++
		}
		rows = append(rows, ListingImage{
			ListingID: id,
			Image:     in.Image,
			IsPrimary: in.IsPrimary,
			SortOrder: in.SortOrder,
		})
	}
	if primaries > 1 {
		return nil, common.NewValidationError("Only one image can be flagged primary.")
	}

	if err := s.repo.ReplaceImages(ctx, id, rows); err != nil {
		s.logger.Error("Failed to replace listing images", zap.Error(err), zap.String("listingID", id.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not update listing images.")
	}
	return rows, nil
}

// validateListing enforces the cross-field rules that struct tags cannot
// express: at least one contact channel, a price on For Sale/For Rent, an
// expiry date not in the past, and a category that exists.
func (s *service) validateListing(ctx context.Context, l *Listing) error {
	if l.ContactPhone == nil && l.ContactEmail == nil && l.ContactWhatsapp == nil {
		return common.NewValidationError("At least one contact method (phone, email or WhatsApp) is required.")
	}
	if l.ListingType.priceRequired() && l.Price == nil {
		return common.NewValidationError(fmt.Sprintf("Price is required for %q listings.", l.ListingType))
	}
	if l.ExpiresOn.Before(today()) {
		return common.NewValidationError("Expiry date cannot be in the past.")
	}
	if l.CategoryID != nil {
		if _, err := s.categorySvc.GetCategoryByID(ctx, *l.CategoryID); err != nil {
			return common.ErrBadRequest.WithDetails("Listing category does not exist.")
		}
	}
	return nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// GetListingDetails assembles the detail payload: listing fields, seller
// card, images and the derived presentation block. When countView is set the
// view counter is bumped first.
func (s *service) GetListingDetails(ctx context.Context, id uuid.UUID, countView bool) (*DetailResponse, error) {
	if countView {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			s.logger.Warn("Failed to increment listing views", zap.Error(err), zap.String("listingID", id.String()))
		}
	}

	l, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	resp := &DetailResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Currency:    l.Currency,
		Condition:   l.Condition,
		ListingType: l.ListingType,
		Status:      l.Status,
		Location:    l.Location,
		Address:     l.Address,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		ExpiresOn:   l.ExpiresOn,
		ViewsCount:  l.ViewsCount,
		Featured:    l.Featured,
		CreatedAt:   l.CreatedAt,
		CategoryID:  l.CategoryID,
		Images:      l.Images,
	}
	if countView {
		resp.ViewsCount++
	}
	if l.ShowContactInfo {
		resp.ContactPhone = l.ContactPhone
		resp.ContactEmail = l.ContactEmail
		resp.ContactWhatsapp = l.ContactWhatsapp
	}

	seller := l.User
	if seller == nil {
		seller, err = s.userRepo.FindByID(ctx, l.UserID)
		if err != nil {
			return nil, err
		}
	}
	profile, err := s.userRepo.FindProfileByUserID(ctx, l.UserID)
	if err != nil {
		s.logger.Warn("Failed to load seller profile", zap.Error(err), zap.String("userID", l.UserID.String()))
	}
	resp.Seller = user.ToSellerResponse(seller, profile)

	breadcrumbs := []Breadcrumb{{Title: "Listings", Route: "/listings"}}
	if l.CategoryID != nil {
		if cat, catErr := s.categorySvc.GetCategoryByID(ctx, *l.CategoryID); catErr == nil {
			resp.CategoryName = &cat.Name
			resp.CategoryIcon = cat.Icon
			breadcrumbs = append(breadcrumbs, Breadcrumb{
				Title: cat.Name,
				Route: "/listings?category=" + cat.Slug,
			})
		}
	}
	resp.Presentation = s.buildPresentation(l, breadcrumbs)
	return resp, nil
}

func (s *service) buildPresentation(l *Listing, breadcrumbs []Breadcrumb) Presentation {
	p := Presentation{
		IsExpired:   l.ExpiresOn.Before(today()),
		Breadcrumbs: breadcrumbs,
	}
	if l.Price != nil {
		p.FormattedPrice = FormatPrice(*l.Price, l.Currency)
	}
	if l.MetaTitle != nil && *l.MetaTitle != "" {
		p.MetaTitle = *l.MetaTitle
	} else {
		p.MetaTitle = l.Title
	}
	source := l.Description
	if l.MetaDescription != nil && *l.MetaDescription != "" {
		source = *l.MetaDescription
	}
	p.MetaDescription = truncate(source, metaDescriptionMax)
	return p
}

// FormatPrice renders a price with thousands separators and its currency,
// e.g. 1500000 TZS becomes "1,500,000 TZS".
func FormatPrice(price float64, currency string) string {
	whole := int64(price)
	frac := price - float64(whole)

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	if strings.HasPrefix(digits, "-") {
		b.WriteByte('-')
		digits = digits[1:]
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String()
	if frac > 0.004 {
		out += strings.TrimPrefix(fmt.Sprintf("%.2f", frac), "0")
	}
	if currency != "" {
		out += " " + currency
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// GetListings is the paginated public browse facade. The category filter
// accepts "all", a UUID or a slug; an unresolvable category yields an empty
// page rather than an error.
func (s *service) GetListings(ctx context.Context, categoryFilter string, limit, offset int, filters *Filters) ([]Summary, int64, error) {
	q := ListQuery{Limit: normalizeLimit(limit), Offset: offset, Filters: filters}

	categoryFilter = strings.TrimSpace(categoryFilter)
	if categoryFilter != "" && !strings.EqualFold(categoryFilter, CategoryAll) {
		cat, err := s.categorySvc.ResolveCategory(ctx, categoryFilter)
		if err != nil {
			return []Summary{}, 0, nil
		}
		q.CategoryID = &cat.ID
	}
	if !s.resolveFilterCategory(ctx, filters) {
		return []Summary{}, 0, nil
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("Failed to list listings", zap.Error(err))
		return nil, 0, common.ErrInternalServer.WithDetails("Could not retrieve listings.")
	}
	return rows, total, nil
}

// resolveFilterCategory maps the optional category filter key, a UUID or a
// slug, onto a concrete category ID so the repository can build a predicate
// from it. Reports false when the value names no known category, in which
// case the caller returns an empty page.
func (s *service) resolveFilterCategory(ctx context.Context, filters *Filters) bool {
	if filters == nil || filters.Category == nil {
		return true
	}
	raw := strings.TrimSpace(*filters.Category)
	if raw == "" {
		return true
	}
	cat, err := s.categorySvc.ResolveCategory(ctx, raw)
	if err != nil {
		return false
	}
	filters.categoryID = &cat.ID
	return true
}

// SearchListings matches the term against titles and descriptions.
func (s *service) SearchListings(ctx context.Context, term string, limit, offset int, filters *Filters) ([]Summary, int64, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, 0, common.NewValidationError("Search term is required.")
	}
	if !s.resolveFilterCategory(ctx, filters) {
		return []Summary{}, 0, nil
	}
	rows, total, err := s.repo.List(ctx, ListQuery{
		SearchTerm: term,
		Limit:      normalizeLimit(limit),
		Offset:     offset,
		Filters:    filters,
	})
	if err != nil {
		s.logger.Error("Failed to search listings", zap.Error(err), zap.String("term", term))
		return nil, 0, common.ErrInternalServer.WithDetails("Could not search listings.")
	}
	return rows, total, nil
}

func (s *service) GetFeaturedListings(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	rows, err := s.repo.Featured(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to load featured listings", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve featured listings.")
	}
	return rows, nil
}

func (s *service) GetTopSellingListings(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.repo.TopSelling(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to load top selling listings", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve top selling listings.")
	}
	return rows, nil
}

func (s *service) RecordView(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id, false); err != nil {
		return err
	}
	return s.repo.IncrementViews(ctx, id)
}

// AdminUpdateStatus moves a listing between statuses. The first transition
// into Active stamps the approval fields; later transitions leave the stamp
// untouched.
func (s *service) AdminUpdateStatus(ctx context.Context, id, adminID uuid.UUID, status ListingStatus) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	l.Status = status
	if status == StatusActive && l.ApprovedOn == nil {
		now := time.Now()
		l.ApprovedOn = &now
		l.ApprovedBy = &adminID
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to update listing status", zap.Error(err), zap.String("listingID", id.String()))
		return nil, err
	}
	s.logger.Info("Listing status updated",
		zap.String("listingID", id.String()),
		zap.String("status", string(status)),
		zap.String("adminID", adminID.String()))
	return l, nil
}

// ExpireOverdueListings is invoked by the scheduler.
func (s *service) ExpireOverdueListings(ctx context.Context) (int64, error) {
	count, err := s.repo.MarkExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to expire overdue listings", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.logger.Info("Expired overdue listings", zap.Int64("count", count))
	}
	return count, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > common.MaxLimit {
		return common.MaxLimit
	}
	return limit
}
