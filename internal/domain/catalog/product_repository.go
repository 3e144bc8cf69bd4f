package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence.
// Implementations enforce SKU uniqueness with a unique index and report
// collisions as CONFLICT errors.
type ProductRepository interface {
	// Create inserts a product together with its image set
	Create(ctx context.Context, product *Product) error

	// Update persists scalar fields and the image set. It fails with a
	// CONFLICT error when the stored version no longer matches.
	Update(ctx context.Context, product *Product) error

	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs returns the products that exist among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll returns products matching filter, newest first
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// ExistsBySKU checks if another product already uses sku.
	// excludeID is ignored when uuid.Nil.
	ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)

	// ExistingSKUs returns the subset of skus already in use
	ExistingSKUs(ctx context.Context, skus []string) ([]string, error)

	// Delete removes a product and its image rows
	Delete(ctx context.Context, id uuid.UUID) error
}
