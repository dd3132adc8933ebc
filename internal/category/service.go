// File: internal/category/service.go
package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/config"
	"github.com/iphenelist/vendor-backend/internal/platform/cache"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// popularCacheSize is how many ranked rows the popular-categories cache
// holds; limits above it fall through to the store.
const popularCacheSize = 50

// Service defines the interface for category-related business logic.
type Service interface {
	// Public facades
	GetCategoryTree(ctx context.Context) ([]*TreeNode, error)
	GetPopularCategories(ctx context.Context, limit int) ([]RankedCategory, error)
	GetAllCategories(ctx context.Context) ([]Category, error)
	GetCategoryDetails(ctx context.Context, idOrSlug string) (*Details, error)
	GetFeaturedCategories(ctx context.Context, limit int) ([]RankedCategory, error)

	// Hierarchy helpers used by the listing module
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	ResolveCategory(ctx context.Context, idOrSlug string) (*Category, error)
	GetAllDescendants(ctx context.Context, id uuid.UUID) ([]Category, error)
	GetBreadcrumbs(ctx context.Context, id uuid.UUID) ([]Breadcrumb, error)

	// Admin methods
	AdminCreateCategory(ctx context.Context, req AdminUpsertCategoryRequest) (*Category, error)
	AdminUpdateCategory(ctx context.Context, id uuid.UUID, req AdminUpsertCategoryRequest) (*Category, error)
	AdminDeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	store  cache.Store
	logger *zap.Logger
	config *config.Config
}

// NewService creates a new category service.
func NewService(repo Repository, store cache.Store, logger *zap.Logger, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		store:  store,
		logger: logger,
		config: cfg,
	}
}

// --- Public Facades ---

// GetCategoryTree returns the rooted forest of active categories with
// children nested recursively. Sibling order matches the (sort_order, name)
// fetch order. The result is cached; category mutations invalidate it.
func (s *service) GetCategoryTree(ctx context.Context) ([]*TreeNode, error) {
	var cached []*TreeNode
	if hit, err := s.store.GetJSON(ctx, cache.CategoryTreeKey, &cached); err != nil {
		s.logger.Warn("Category tree cache read failed, recomputing", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	categories, err := s.repo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load categories for tree", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve categories.")
	}

	tree := buildTree(categories)

	if err := s.store.SetJSON(ctx, cache.CategoryTreeKey, tree, cache.DefaultTTL); err != nil {
		s.logger.Warn("Category tree cache write failed", zap.Error(err))
	}
	return tree, nil
}

// buildTree assembles the forest in two linear passes. First pass: index
// every category by ID with an empty child list. Second pass: attach each
// category to its parent when the parent is present in the index; anything
// whose parent is absent (no parent, or parent inactive) becomes a root.
// Appending in fetch order keeps siblings sorted without re-sorting.
func buildTree(categories []Category) []*TreeNode {
	nodes := make(map[uuid.UUID]*TreeNode, len(categories))
	ordered := make([]*TreeNode, 0, len(categories))
	for i := range categories {
		node := &TreeNode{
			CategoryResponse: ToCategoryResponse(&categories[i]),
			Children:         []*TreeNode{},
		}
		nodes[categories[i].ID] = node
		ordered = append(ordered, node)
	}

	roots := make([]*TreeNode, 0)
	for _, node := range ordered {
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// GetPopularCategories ranks active categories by active listing count.
func (s *service) GetPopularCategories(ctx context.Context, limit int) ([]RankedCategory, error) {
	if limit <= 0 {
		limit = 10
	}

	if limit <= popularCacheSize {
		var cached []RankedCategory
		if hit, err := s.store.GetJSON(ctx, cache.PopularCategoriesKey, &cached); err != nil {
			s.logger.Warn("Popular categories cache read failed, recomputing", zap.Error(err))
		} else if hit {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}

		ranked, err := s.repo.Popular(ctx, popularCacheSize)
		if err != nil {
			s.logger.Error("Failed to rank popular categories", zap.Error(err))
			return nil, common.ErrInternalServer.WithDetails("Could not retrieve popular categories.")
		}
		if err := s.store.SetJSON(ctx, cache.PopularCategoriesKey, ranked, cache.DefaultTTL); err != nil {
			s.logger.Warn("Popular categories cache write failed", zap.Error(err))
		}
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
		return ranked, nil
	}

	ranked, err := s.repo.Popular(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to rank popular categories", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve popular categories.")
	}
	return ranked, nil
}

// GetAllCategories is the flat active list for dropdowns, name ascending.
func (s *service) GetAllCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("Failed to get all categories", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve categories.")
	}
	return categories, nil
}

// ResolveCategory looks a category up by UUID or slug.
func (s *service) ResolveCategory(ctx context.Context, idOrSlug string) (*Category, error) {
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.FindBySlug(ctx, idOrSlug)
}

// GetCategoryDetails resolves a category by ID or slug and assembles its
// aggregate stats, breadcrumbs and direct children.
func (s *service) GetCategoryDetails(ctx context.Context, idOrSlug string) (*Details, error) {
	cat, err := s.ResolveCategory(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.ListingStats(ctx, cat.ID)
	if err != nil {
		s.logger.Error("Failed to compute category stats", zap.Error(err), zap.String("categoryID", cat.ID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not compute category statistics.")
	}

	breadcrumbs, err := s.breadcrumbsFor(ctx, cat)
	if err != nil {
		return nil, err
	}

	children, err := s.repo.FindActiveChildren(ctx, cat.ID)
	if err != nil {
		s.logger.Error("Failed to load child categories", zap.Error(err), zap.String("categoryID", cat.ID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve child categories.")
	}
	childResponses := make([]CategoryResponse, len(children))
	for i := range children {
		childResponses[i] = ToCategoryResponse(&children[i])
	}

	return &Details{
		Category:    ToCategoryResponse(cat),
		Stats:       *stats,
		Breadcrumbs: breadcrumbs,
		Children:    childResponses,
	}, nil
}

// GetFeaturedCategories returns top-level categories carrying at least one
// active listing.
func (s *service) GetFeaturedCategories(ctx context.Context, limit int) ([]RankedCategory, error) {
	if limit <= 0 {
		limit = 6
	}
	ranked, err := s.repo.Featured(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to load featured categories", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve featured categories.")
	}
	return ranked, nil
}

// --- Hierarchy Helpers ---

func (s *service) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

// GetAllDescendants expands the subtree below a category depth-first: each
// direct child is emitted, then its own descendants. Write-time validation
// keeps the graph acyclic, so this walk does not re-check for cycles.
func (s *service) GetAllDescendants(ctx context.Context, id uuid.UUID) ([]Category, error) {
	children, err := s.repo.FindActiveChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	descendants := make([]Category, 0, len(children))
	for _, child := range children {
		descendants = append(descendants, child)
		grandchildren, err := s.GetAllDescendants(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		descendants = append(descendants, grandchildren...)
	}
	return descendants, nil
}

// GetBreadcrumbs walks parent references upward and returns the trail in
// root-to-self order.
func (s *service) GetBreadcrumbs(ctx context.Context, id uuid.UUID) ([]Breadcrumb, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.breadcrumbsFor(ctx, cat)
}

func (s *service) breadcrumbsFor(ctx context.Context, cat *Category) ([]Breadcrumb, error) {
	trail := []Breadcrumb{}
	current := cat
	// Bounded like the cycle walk: a corrupt parent chain must not hang a
	// request.
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	for steps := int64(0); current != nil && steps <= total; steps++ {
		trail = append([]Breadcrumb{{ID: current.ID, Name: current.Name, Slug: current.Slug}}, trail...)
		if current.ParentID == nil {
			return trail, nil
		}
		parent, err := s.repo.FindByID(ctx, *current.ParentID)
		if err != nil {
			// Missing parent rows truncate the trail instead of failing the
			// whole page.
			s.logger.Warn("Breadcrumb walk hit missing parent",
				zap.String("categoryID", current.ID.String()), zap.Error(err))
			return trail, nil
		}
		current = parent
	}
	return nil, common.ErrInternalServer.WithDetails("Category hierarchy is corrupt (parent chain too long).")
}

// --- Admin Methods ---

func (s *service) AdminCreateCategory(ctx context.Context, req AdminUpsertCategoryRequest) (*Category, error) {
	cat := &Category{
		Name:            strings.TrimSpace(req.Name),
		Slug:            finalSlug(req.Slug, req.Name),
		ParentID:        req.ParentID,
		IsActive:        true,
		SortOrder:       req.SortOrder,
		Icon:            req.Icon,
		Image:           req.Image,
		Description:     req.Description,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	applyMetaTitleDefault(cat)

	if err := s.validateHierarchy(ctx, cat); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cat); err != nil {
		s.logger.Error("Failed to create category", zap.Error(err), zap.String("name", req.Name))
		return nil, err
	}
	s.invalidateAggregates(ctx)
	s.logger.Info("Category created", zap.String("id", cat.ID.String()), zap.String("name", cat.Name))
	return cat, nil
}

func (s *service) AdminUpdateCategory(ctx context.Context, id uuid.UUID, req AdminUpsertCategoryRequest) (*Category, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cat.Name = strings.TrimSpace(req.Name)
	cat.Slug = finalSlug(req.Slug, req.Name)
	cat.ParentID = req.ParentID
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	cat.SortOrder = req.SortOrder
	cat.Icon = req.Icon
	cat.Image = req.Image
	cat.Description = req.Description
	cat.MetaTitle = req.MetaTitle
	cat.MetaDescription = req.MetaDescription
	cat.MetaKeywords = req.MetaKeywords
	applyMetaTitleDefault(cat)

	if err := s.validateHierarchy(ctx, cat); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, cat); err != nil {
		s.logger.Error("Failed to update category", zap.Error(err), zap.String("id", id.String()))
		return nil, err
	}
	s.invalidateAggregates(ctx)
	s.logger.Info("Category updated", zap.String("id", cat.ID.String()))
	return cat, nil
}

// AdminDeleteCategory refuses deletion while listings or child categories
// still reference the category.
func (s *service) AdminDeleteCategory(ctx context.Context, id uuid.UUID) error {
	listingCount, err := s.repo.CountListings(ctx, id)
	if err != nil {
		s.logger.Error("Failed to check for associated listings", zap.Error(err), zap.String("id", id.String()))
		return common.ErrInternalServer.WithDetails("Failed to check for associated listings.")
	}
	if listingCount > 0 {
		return common.ErrConflict.WithDetails(
			fmt.Sprintf("Cannot delete category. It has %d listing(s) associated with it.", listingCount))
	}

	childCount, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		s.logger.Error("Failed to check for child categories", zap.Error(err), zap.String("id", id.String()))
		return common.ErrInternalServer.WithDetails("Failed to check for child categories.")
	}
	if childCount > 0 {
		return common.ErrConflict.WithDetails(
			fmt.Sprintf("Cannot delete category. It has %d child categor(ies).", childCount))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete category", zap.Error(err), zap.String("id", id.String()))
		return err
	}
	s.invalidateAggregates(ctx)
	s.logger.Info("Category deleted", zap.String("id", id.String()))
	return nil
}

// --- Validation ---

// validateHierarchy enforces the two hierarchy invariants: a category may
// not be its own parent, and the parent chain above it may not loop back.
// The walk accumulates visited IDs starting with the category's own, and is
// additionally bounded by the total category count so a pre-existing cycle
// written around this API cannot loop the request.
func (s *service) validateHierarchy(ctx context.Context, cat *Category) error {
	if cat.ParentID == nil {
		return nil
	}
	if *cat.ParentID == cat.ID {
		return common.NewValidationError("Category cannot be its own parent")
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return common.ErrInternalServer.WithDetails("Could not validate category hierarchy.")
	}

	visited := map[uuid.UUID]bool{cat.ID: true}
	currentID := *cat.ParentID
	for steps := int64(0); steps <= total; steps++ {
		if visited[currentID] {
			return common.NewValidationError("Circular reference detected in category hierarchy")
		}
		visited[currentID] = true

		parent, err := s.repo.FindByID(ctx, currentID)
		if err != nil {
			if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == "NOT_FOUND" {
				return common.ErrBadRequest.WithDetails("Parent category does not exist.")
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		currentID = *parent.ParentID
	}
	return common.NewValidationError("Circular reference detected in category hierarchy")
}

// invalidateAggregates drops both cached aggregates so subsequent reads
// recompute from the store. Cache failures are logged, not surfaced; the
// write itself already succeeded.
func (s *service) invalidateAggregates(ctx context.Context) {
	if err := s.store.Delete(ctx, cache.CategoryTreeKey, cache.PopularCategoriesKey); err != nil {
		s.logger.Warn("Failed to invalidate category caches", zap.Error(err))
	}
}

func finalSlug(requested, name string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return slug.Make(name)
	}
	return slug.Make(requested)
}

func applyMetaTitleDefault(cat *Category) {
	if cat.MetaTitle == nil || strings.TrimSpace(*cat.MetaTitle) == "" {
		title := cat.Name
		cat.MetaTitle = &title
	}
}
