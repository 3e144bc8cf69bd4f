package models

import (
	"time"

	"github.com/catalogue/backend/internal/domain/cart"
	"github.com/google/uuid"
)

// CartModel is the persistence model for a user's cart
type CartModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_carts_user"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is one product in a cart. The composite primary key keeps
// a product from appearing twice in the same cart.
type CartItemModel struct {
	CartID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	AddedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart
func (m *CartModel) ToDomain(items []CartItemModel) *cart.Cart {
	c := &cart.Cart{
		ID:        m.ID,
		UserID:    m.UserID,
		Items:     make([]cart.Item, 0, len(items)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, it := range items {
		c.Items = append(c.Items, cart.Item{ProductID: it.ProductID, AddedAt: it.AddedAt})
	}
	return c
}
