package catalog

import (
	"context"

	appasset "github.com/catalogue/backend/internal/application/asset"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	uploader     *appasset.Uploader
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, uploader *appasset.Uploader) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		uploader:     uploader,
	}
}

// Create creates a new category. The name is checked before the logo is
// uploaded; the unique index settles concurrent creations.
func (s *CategoryService) Create(ctx context.Context, caller shared.Identity, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, nil)
	if err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, category.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflictf("Category %q already exists", category.Name)
	}

	if req.Logo != nil {
		logo, err := s.uploader.Upload(ctx, *req.Logo)
		if err != nil {
			return nil, err
		}
		category.Logo = &logo
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if category.Logo != nil {
			s.uploader.Discard(ctx, catalog.AggregateTypeCategory, category.ID, *category.Logo)
		}
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// resolveByName finds a category by name, reporting NOT_FOUND with the name
func resolveByName(ctx context.Context, repo catalog.CategoryRepository, name string) (*catalog.Category, error) {
	category, err := repo.FindByName(ctx, name)
	if err != nil {
		if shared.CodeOf(err) == shared.CodeNotFound {
			return nil, shared.NotFoundf("Category %q not found", name).WithDetail("category", name)
		}
		return nil, err
	}
	return category, nil
}

