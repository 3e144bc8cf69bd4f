package catalog

import (
	"strings"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
)

// AggregateTypeCategory identifies categories in domain events
const AggregateTypeCategory = "Category"

// Category groups products. Names are unique ignoring case.
type Category struct {
	shared.BaseEntity
	Name string
	Logo *asset.Asset
}

// NewCategory creates a new category
func NewCategory(name string, logo *asset.Asset) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if logo != nil && logo.IsZero() {
		logo = nil
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Logo:       logo,
	}, nil
}

// NameKey returns the case-folded name used for uniqueness
func (c *Category) NameKey() string {
	return CategoryNameKey(c.Name)
}

// CategoryNameKey folds a category name for case-insensitive comparison
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.InvalidArgumentf("Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.InvalidArgumentf("Category name cannot exceed 100 characters")
	}
	return nil
}
