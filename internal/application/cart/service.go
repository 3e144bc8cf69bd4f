// Package cart implements the per-user cart that precedes an enquiry
package cart

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/cart"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metrics records cart activity
type Metrics interface {
	RecordCartItemAdded(ctx context.Context)
}

// Service handles cart operations. A cart is created on first add.
type Service struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	metrics     Metrics
}

// NewService creates a new cart Service. metrics may be nil.
func NewService(cartRepo cart.Repository, productRepo catalog.ProductRepository, metrics Metrics) *Service {
	return &Service{cartRepo: cartRepo, productRepo: productRepo, metrics: metrics}
}

// AddItem adds productID to the caller's cart. The product must exist and
// must not already be in the cart.
func (s *Service) AddItem(ctx context.Context, caller shared.Identity, productID uuid.UUID) (*CartResponse, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.InvalidArgumentf("Product ID is required")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, caller.UserID, productID); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordCartItemAdded(ctx)
	}
	logger.FromContext(ctx).Debug("cart item added",
		zap.String("user_id", caller.UserID.String()),
		zap.String("product_id", productID.String()),
	)
	return s.Get(ctx, caller)
}

// RemoveItem removes productID from the caller's cart. Removing an absent
// item, or removing from a cart that was never created, succeeds.
func (s *Service) RemoveItem(ctx context.Context, caller shared.Identity, productID uuid.UUID) error {
	if err := caller.RequireUser(); err != nil {
		return err
	}
	return s.cartRepo.RemoveItem(ctx, caller.UserID, productID)
}

// Get returns the caller's cart with product detail. Items whose product
// no longer exists are left out.
func (s *Service) Get(ctx context.Context, caller shared.Identity) (*CartResponse, error) {
	if err := caller.RequireUser(); err != nil {
		return nil, err
	}
	c, err := s.cartRepo.FindByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]CartItemResponse, 0, len(c.Items))
	if len(c.Items) > 0 {
		products, err := s.productRepo.FindByIDs(ctx, c.ProductIDs())
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]catalog.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, it := range c.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				continue
			}
			items = append(items, toItemResponse(p, it.AddedAt))
		}
	}

	return &CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func toItemResponse(p catalog.Product, addedAt time.Time) CartItemResponse {
	resp := CartItemResponse{
		ProductID:  p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Status:     string(p.Status),
		CategoryID: p.CategoryID,
		AddedAt:    addedAt,
	}
	if p.Thumbnail != nil {
		resp.ThumbnailURL = p.Thumbnail.URL
	}
	return resp
}
