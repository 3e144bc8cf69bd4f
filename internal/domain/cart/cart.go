// Package cart models the per-user staging area of products that precedes
// an enquiry.
package cart

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Item references one product in a cart
type Item struct {
	ProductID uuid.UUID
	AddedAt   time.Time
}

// Cart is the set of products a user intends to enquire about.
// A product appears at most once.
type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart creates an empty cart for userID
func NewCart(userID uuid.UUID) *Cart {
	now := time.Now()
	return &Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Contains reports whether productID is already in the cart
func (c *Cart) Contains(productID uuid.UUID) bool {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Add appends productID, failing with CONFLICT when it is already present
func (c *Cart) Add(productID uuid.UUID) error {
	if productID == uuid.Nil {
		return shared.InvalidArgumentf("Product ID is required")
	}
	if c.Contains(productID) {
		return ErrDuplicateItem
	}
	c.Items = append(c.Items, Item{ProductID: productID, AddedAt: time.Now()})
	c.UpdatedAt = time.Now()
	return nil
}

// Remove drops productID if present. Removing an absent item is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	for i, it := range c.Items {
		if it.ProductID == productID {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// ProductIDs lists the referenced products in insertion order
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	return ids
}

// ErrDuplicateItem is returned when a product is added twice
var ErrDuplicateItem = shared.NewDomainError(shared.CodeConflict, "Product is already in the cart")

// ErrCartNotFound is returned when a user has never added anything
var ErrCartNotFound = shared.NewDomainError(shared.CodeNotFound, "Cart not found")

// Repository defines cart persistence. Item insertion is a single
// add-if-absent statement so concurrent adds cannot duplicate a product.
type Repository interface {
	// FindByUserID loads a user's cart, or ErrCartNotFound
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// AddItem creates the cart when missing and inserts productID.
	// It returns ErrDuplicateItem when the product is already present.
	AddItem(ctx context.Context, userID, productID uuid.UUID) error

	// RemoveItem deletes productID from the user's cart if present
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error

	// Clear empties the user's cart, keeping the cart itself
	Clear(ctx context.Context, userID uuid.UUID) error
}
