// File: internal/category/service_test.go
package category

import (
	"context"
	"testing"
	"time"

	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockCategoryRepository is a mock type for category.Repository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllActive(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockCategoryRepository) FindActiveChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountListings(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Popular(ctx context.Context, limit int) ([]RankedCategory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RankedCategory), args.Error(1)
}

func (m *MockCategoryRepository) Featured(ctx context.Context, limit int) ([]RankedCategory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RankedCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListingStats(ctx context.Context, categoryID uuid.UUID) (*Stats, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

// memoryStore is a throwaway cache.Store for tests.
type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (s *memoryStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (s *memoryStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.data[key] = []byte("set")
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *memoryStore) Close() error { return nil }

func newTestService(repo Repository) Service {
	return NewService(repo, newMemoryStore(), zap.NewNop(), &config.Config{})
}

func newCategory(name string, parentID *uuid.UUID) Category {
	cat := Category{
		Name:     name,
		Slug:     name,
		ParentID: parentID,
		IsActive: true,
	}
	cat.ID = uuid.New()
	return cat
}

func TestGetCategoryTree_NestsChildrenUnderParents(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	root := newCategory("electronics", nil)
	child := newCategory("phones", &root.ID)
	grandchild := newCategory("smartphones", &child.ID)
	orphan := newCategory("orphaned", func() *uuid.UUID { id := uuid.New(); return &id }())

	mockRepo.On("FindAllActive", mock.Anything).
		Return([]Category{root, child, grandchild, orphan}, nil).Once()

	tree, err := svc.GetCategoryTree(context.Background())

	assert.NoError(t, err)
	// Orphans whose parent is missing are promoted to roots.
	assert.Len(t, tree, 2)
	assert.Equal(t, "electronics", tree[0].Name)
	assert.Len(t, tree[0].Children, 1)
	assert.Equal(t, "phones", tree[0].Children[0].Name)
	assert.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "smartphones", tree[0].Children[0].Children[0].Name)
	assert.Equal(t, "orphaned", tree[1].Name)
	mockRepo.AssertExpectations(t)
}

func TestAdminUpdateCategory_RejectsSelfParent(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	existing := newCategory("tools", nil)
	mockRepo.On("FindByID", mock.Anything, existing.ID).Return(&existing, nil)
	mockRepo.On("CountAll", mock.Anything).Return(int64(5), nil)

	_, err := svc.AdminUpdateCategory(context.Background(), existing.ID, AdminUpsertCategoryRequest{
		Name:     "tools",
		ParentID: &existing.ID,
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "Category cannot be its own parent", apiErr.Message)
}

func TestAdminUpdateCategory_RejectsCircularHierarchy(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	// a -> b -> c, then try to reparent a under c.
	a := newCategory("a", nil)
	b := newCategory("b", &a.ID)
	c := newCategory("c", &b.ID)

	mockRepo.On("FindByID", mock.Anything, a.ID).Return(&a, nil)
	mockRepo.On("FindByID", mock.Anything, b.ID).Return(&b, nil)
	mockRepo.On("FindByID", mock.Anything, c.ID).Return(&c, nil)
	mockRepo.On("CountAll", mock.Anything).Return(int64(3), nil)

	_, err := svc.AdminUpdateCategory(context.Background(), a.ID, AdminUpsertCategoryRequest{
		Name:     "a",
		ParentID: &c.ID,
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "Circular reference detected in category hierarchy", apiErr.Message)
}

func TestAdminCreateCategory_RejectsUnknownParent(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	missingParent := uuid.New()
	mockRepo.On("CountAll", mock.Anything).Return(int64(1), nil)
	mockRepo.On("FindByID", mock.Anything, missingParent).
		Return(nil, common.ErrNotFound.WithDetails("Category not found."))

	_, err := svc.AdminCreateCategory(context.Background(), AdminUpsertCategoryRequest{
		Name:     "new",
		ParentID: &missingParent,
	})

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestAdminDeleteCategory_RefusesWhenListingsExist(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("CountListings", mock.Anything, id).Return(int64(3), nil)

	err := svc.AdminDeleteCategory(context.Background(), id)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Contains(t, apiErr.Details, "3 listing(s)")
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, id)
}

func TestAdminDeleteCategory_RefusesWhenChildrenExist(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("CountListings", mock.Anything, id).Return(int64(0), nil)
	mockRepo.On("CountChildren", mock.Anything, id).Return(int64(2), nil)

	err := svc.AdminDeleteCategory(context.Background(), id)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, id)
}

func TestAdminDeleteCategory_DeletesWhenUnreferenced(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("CountListings", mock.Anything, id).Return(int64(0), nil)
	mockRepo.On("CountChildren", mock.Anything, id).Return(int64(0), nil)
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.AdminDeleteCategory(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGetPopularCategories_SlicesToRequestedLimit(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newTestService(mockRepo)

	ranked := make([]RankedCategory, 10)
	for i := range ranked {
		ranked[i] = RankedCategory{ID: uuid.New(), Name: "cat", ListingCount: int64(10 - i)}
	}
	mockRepo.On("Popular", mock.Anything, popularCacheSize).Return(ranked, nil).Once()

	got, err := svc.GetPopularCategories(context.Background(), 3)

	assert.NoError(t, err)
	assert.Len(t, got, 3)
	mockRepo.AssertExpectations(t)
}
