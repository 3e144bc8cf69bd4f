package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// Create inserts a category. A name that collides ignoring case
	// yields a CONFLICT error from the store's unique index.
	Create(ctx context.Context, category *Category) error

	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by name, ignoring case
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindByIDs returns the categories that exist among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error)

	// FindAll returns all categories ordered by name
	FindAll(ctx context.Context) ([]Category, error)

	// ExistsByName checks whether a category name is taken, ignoring case
	ExistsByName(ctx context.Context, name string) (bool, error)
}
