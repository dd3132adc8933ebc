// File: internal/listing/service_test.go
package listing

import (
	"context"
	"testing"
	"time"

	"github.com/iphenelist/vendor-backend/internal/category"
	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/config"
	"github.com/iphenelist/vendor-backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockListingRepository is a mock type for listing.Repository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Listing, error) {
	args := m.Called(ctx, id, preloadAssociations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockListingRepository) List(ctx context.Context, q ListQuery) ([]Summary, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Summary), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) Featured(ctx context.Context, limit int) ([]Summary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Summary), args.Error(1)
}

func (m *MockListingRepository) TopSelling(ctx context.Context, limit int) ([]Summary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Summary), args.Error(1)
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) ReplaceImages(ctx context.Context, listingID uuid.UUID, images []ListingImage) error {
	args := m.Called(ctx, listingID, images)
	return args.Error(0)
}

// MockUserRepository is a mock type for user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*user.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.SellerProfile), args.Error(1)
}

// stubCategoryService backs the handful of category lookups the listing
// service makes.
type stubCategoryService struct {
	category.Service
	byID   map[uuid.UUID]*category.Category
	bySlug map[string]*category.Category
}

func newStubCategoryService(cats ...*category.Category) *stubCategoryService {
	s := &stubCategoryService{
		byID:   map[uuid.UUID]*category.Category{},
		bySlug: map[string]*category.Category{},
	}
	for _, c := range cats {
		s.byID[c.ID] = c
		s.bySlug[c.Slug] = c
	}
	return s
}

func (s *stubCategoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, common.ErrNotFound.WithDetails("Category not found.")
}

func (s *stubCategoryService) ResolveCategory(ctx context.Context, idOrSlug string) (*category.Category, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.GetCategoryByID(ctx, id)
	}
	if c, ok := s.bySlug[idOrSlug]; ok {
		return c, nil
	}
	return nil, common.ErrNotFound.WithDetails("Category not found.")
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultCurrency:            "TZS",
		DefaultListingLifespanDays: 30,
	}
}

func newTestService(repo Repository, userRepo user.Repository, catSvc category.Service) Service {
	return NewService(repo, userRepo, catSvc, testConfig(), zap.NewNop())
}

func TestCreateListing_AppliesDefaults(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	ownerID := uuid.New()
	mockUsers.On("FindByID", mock.Anything, ownerID).
		Return(user.NewWithEmail(ownerID, "seller@example.com"), nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).Return(nil)

	created, err := svc.CreateListing(context.Background(), ownerID, CreateListingRequest{
		Title:       "Toyota Corolla 2018",
		ListingType: TypeForSale,
		Price:       floatPtr(18_500_000),
	})

	assert.NoError(t, err)
	assert.Equal(t, "TZS", created.Currency)
	assert.Equal(t, StatusDraft, created.Status)
	// No contact supplied, so the owner's email backfills one.
	assert.NotNil(t, created.ContactEmail)
	assert.Equal(t, "seller@example.com", *created.ContactEmail)
	// 30-day default lifespan.
	wantExpiry := time.Now().AddDate(0, 0, 30)
	assert.WithinDuration(t, wantExpiry, created.ExpiresOn, time.Minute)
	// Meta title falls back to the title.
	assert.Equal(t, "Toyota Corolla 2018", *created.MetaTitle)
	mockRepo.AssertExpectations(t)
}

func TestCreateListing_RequiresPriceForSale(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	ownerID := uuid.New()
	mockUsers.On("FindByID", mock.Anything, ownerID).
		Return(user.NewWithEmail(ownerID, "seller@example.com"), nil)

	_, err := svc.CreateListing(context.Background(), ownerID, CreateListingRequest{
		Title:       "Car without price",
		ListingType: TypeForSale,
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListing_ServiceTypeNeedsNoPrice(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	ownerID := uuid.New()
	mockUsers.On("FindByID", mock.Anything, ownerID).
		Return(user.NewWithEmail(ownerID, "seller@example.com"), nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreateListing(context.Background(), ownerID, CreateListingRequest{
		Title:       "House cleaning",
		ListingType: TypeService,
	})

	assert.NoError(t, err)
}

func TestCreateListing_RejectsPastExpiry(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	ownerID := uuid.New()
	mockUsers.On("FindByID", mock.Anything, ownerID).
		Return(user.NewWithEmail(ownerID, "seller@example.com"), nil)

	_, err := svc.CreateListing(context.Background(), ownerID, CreateListingRequest{
		Title:       "Stale listing",
		ListingType: TypeService,
		ExpiresOn:   "2020-01-01",
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestCreateListing_RejectsUnknownCategory(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	ownerID := uuid.New()
	unknownCategory := uuid.New()
	mockUsers.On("FindByID", mock.Anything, ownerID).
		Return(user.NewWithEmail(ownerID, "seller@example.com"), nil)

	_, err := svc.CreateListing(context.Background(), ownerID, CreateListingRequest{
		Title:       "Mystery item",
		ListingType: TypeService,
		CategoryID:  &unknownCategory,
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestUpdateListing_RejectsNonOwner(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	owner := uuid.New()
	intruder := uuid.New()
	existing := &Listing{UserID: owner, Title: "Bike", ListingType: TypeForSale}
	existing.ID = uuid.New()
	mockRepo.On("FindByID", mock.Anything, existing.ID, false).Return(existing, nil)

	_, err := svc.UpdateListing(context.Background(), existing.ID, intruder, UpdateListingRequest{})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_StampsFirstApprovalOnly(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	adminID := uuid.New()
	l := &Listing{UserID: uuid.New(), Status: StatusDraft}
	l.ID = uuid.New()
	mockRepo.On("FindByID", mock.Anything, l.ID, false).Return(l, nil)
	mockRepo.On("Update", mock.Anything, l).Return(nil)

	updated, err := svc.AdminUpdateStatus(context.Background(), l.ID, adminID, StatusActive)
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, updated.Status)
	assert.NotNil(t, updated.ApprovedOn)
	assert.Equal(t, adminID, *updated.ApprovedBy)

	firstApproval := *updated.ApprovedOn

	// A later status flip and re-activation keeps the original stamp.
	otherAdmin := uuid.New()
	_, err = svc.AdminUpdateStatus(context.Background(), l.ID, otherAdmin, StatusRejected)
	assert.NoError(t, err)
	reapproved, err := svc.AdminUpdateStatus(context.Background(), l.ID, otherAdmin, StatusActive)
	assert.NoError(t, err)
	assert.Equal(t, firstApproval, *reapproved.ApprovedOn)
	assert.Equal(t, adminID, *reapproved.ApprovedBy)
}

func TestGetListings_UnresolvedCategoryYieldsEmptyPage(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	rows, total, err := svc.GetListings(context.Background(), "no-such-category", 20, 0, nil)

	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, total)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetListings_AllSentinelSkipsCategoryFilter(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q ListQuery) bool {
		return q.CategoryID == nil && q.Limit == 20
	})).Return([]Summary{}, int64(0), nil)

	_, _, err := svc.GetListings(context.Background(), "all", 20, 0, nil)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGetListings_ResolvesCategorySlug(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)

	cat := &category.Category{Name: "Vehicles", Slug: "vehicles"}
	cat.ID = uuid.New()
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService(cat))

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q ListQuery) bool {
		return q.CategoryID != nil && *q.CategoryID == cat.ID
	})).Return([]Summary{}, int64(0), nil)

	_, _, err := svc.GetListings(context.Background(), "vehicles", 20, 0, nil)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGetListings_ResolvesCategoryFilterKey(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)

	cat := &category.Category{Name: "Vehicles", Slug: "vehicles"}
	cat.ID = uuid.New()
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService(cat))

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q ListQuery) bool {
		return q.CategoryID == nil &&
			q.Filters != nil && q.Filters.categoryID != nil && *q.Filters.categoryID == cat.ID
	})).Return([]Summary{}, int64(0), nil)

	filters := &Filters{Category: strPtr("vehicles")}
	_, _, err := svc.GetListings(context.Background(), "all", 20, 0, filters)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSearchListings_AppliesCategoryFilterKey(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)

	cat := &category.Category{Name: "Vehicles", Slug: "vehicles"}
	cat.ID = uuid.New()
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService(cat))

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q ListQuery) bool {
		return q.SearchTerm == "corolla" &&
			q.Filters != nil && q.Filters.categoryID != nil && *q.Filters.categoryID == cat.ID
	})).Return([]Summary{}, int64(0), nil)

	_, _, err := svc.SearchListings(context.Background(), "corolla", 20, 0, &Filters{Category: strPtr("vehicles")})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSearchListings_UnknownFilterCategoryYieldsEmptyPage(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	rows, total, err := svc.SearchListings(context.Background(), "corolla", 20, 0, &Filters{Category: strPtr("no-such-category")})

	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, total)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSearchListings_RequiresTerm(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	_, _, err := svc.SearchListings(context.Background(), "   ", 20, 0, nil)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestReplaceListingImages_RejectsNonOwner(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	owner := uuid.New()
	intruder := uuid.New()
	existing := &Listing{UserID: owner, Title: "Bike", ListingType: TypeForSale}
	existing.ID = uuid.New()
	mockRepo.On("FindByID", mock.Anything, existing.ID, false).Return(existing, nil)

	_, err := svc.ReplaceListingImages(context.Background(), existing.ID, intruder, []ListingImageInput{
		{Image: "/img/bike.jpg", IsPrimary: true},
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	mockRepo.AssertNotCalled(t, "ReplaceImages", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplaceListingImages_RejectsTwoPrimaries(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	owner := uuid.New()
	existing := &Listing{UserID: owner, Title: "Bike", ListingType: TypeForSale}
	existing.ID = uuid.New()
	mockRepo.On("FindByID", mock.Anything, existing.ID, false).Return(existing, nil)

	_, err := svc.ReplaceListingImages(context.Background(), existing.ID, owner, []ListingImageInput{
		{Image: "/img/front.jpg", IsPrimary: true},
		{Image: "/img/back.jpg", IsPrimary: true},
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	mockRepo.AssertNotCalled(t, "ReplaceImages", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplaceListingImages_SavesMappedRows(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	owner := uuid.New()
	existing := &Listing{UserID: owner, Title: "Bike", ListingType: TypeForSale}
	existing.ID = uuid.New()
	mockRepo.On("FindByID", mock.Anything, existing.ID, false).Return(existing, nil)
	mockRepo.On("ReplaceImages", mock.Anything, existing.ID, mock.MatchedBy(func(rows []ListingImage) bool {
		return len(rows) == 2 &&
			rows[0].ListingID == existing.ID && rows[0].IsPrimary &&
			rows[1].Image == "/img/back.jpg" && rows[1].SortOrder == 1
	})).Return(nil)

	images, err := svc.ReplaceListingImages(context.Background(), existing.ID, owner, []ListingImageInput{
		{Image: "/img/front.jpg", IsPrimary: true, SortOrder: 0},
		{Image: "/img/back.jpg", SortOrder: 1},
	})

	assert.NoError(t, err)
	assert.Len(t, images, 2)
	mockRepo.AssertExpectations(t)
}

func TestParseFilters(t *testing.T) {
	t.Run("empty input yields nil filters", func(t *testing.T) {
		f, err := ParseFilters("")
		assert.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("valid object parses", func(t *testing.T) {
		f, err := ParseFilters(`{"min_price": 1000, "max_price": 5000, "condition": "Used"}`)
		assert.NoError(t, err)
		assert.Equal(t, 1000.0, *f.MinPrice)
		assert.Equal(t, 5000.0, *f.MaxPrice)
		assert.Equal(t, "Used", *f.Condition)
	})

	t.Run("category key accepted", func(t *testing.T) {
		f, err := ParseFilters(`{"category": "vehicles"}`)
		assert.NoError(t, err)
		assert.Equal(t, "vehicles", *f.Category)
	})

	t.Run("unknown keys rejected", func(t *testing.T) {
		_, err := ParseFilters(`{"color": "red"}`)
		assert.Error(t, err)
	})

	t.Run("inverted price range rejected", func(t *testing.T) {
		_, err := ParseFilters(`{"min_price": 100, "max_price": 10}`)
		assert.Error(t, err)
	})

	t.Run("unknown condition rejected", func(t *testing.T) {
		_, err := ParseFilters(`{"condition": "Broken"}`)
		assert.Error(t, err)
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1,500,000 TZS", FormatPrice(1_500_000, "TZS"))
	assert.Equal(t, "999 TZS", FormatPrice(999, "TZS"))
	assert.Equal(t, "1,000 TZS", FormatPrice(1000, "TZS"))
	assert.Equal(t, "12,345.50 TZS", FormatPrice(12345.5, "TZS"))
	assert.Equal(t, "0 TZS", FormatPrice(0, "TZS"))
}

func TestExpireOverdueListings(t *testing.T) {
	mockRepo := new(MockListingRepository)
	mockUsers := new(MockUserRepository)
	svc := newTestService(mockRepo, mockUsers, newStubCategoryService())

	mockRepo.On("MarkExpired", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(4), nil)

	count, err := svc.ExpireOverdueListings(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
