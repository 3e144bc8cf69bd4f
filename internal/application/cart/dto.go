package cart

import (
	"time"

	"github.com/google/uuid"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// CartItemResponse is a cart entry with its resolved product detail
type CartItemResponse struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	SKU          *string   `json:"sku,omitempty"`
	Status       string    `json:"status"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CategoryID   uuid.UUID `json:"category_id"`
	AddedAt      time.Time `json:"added_at"`
}

// CartResponse represents a user's cart in API responses
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	UpdatedAt time.Time          `json:"updated_at"`
}
