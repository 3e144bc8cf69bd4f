package persistence

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/cart"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUserID loads a user's cart with items in insertion order
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		return nil, translate(err, cart.ErrCartNotFound, nil)
	}
	var items []models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", model.ID).
		Order("added_at").Order("product_id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(items), nil
}

// AddItem creates the cart when missing and inserts productID. Both inserts
// are ON CONFLICT DO NOTHING so concurrent adds for the same user settle on
// one cart and one item; the loser sees ErrDuplicateItem.
func (r *GormCartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&models.CartModel{
			ID:        uuid.New(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error; err != nil {
			return err
		}

		var model models.CartModel
		if err := tx.Where("user_id = ?", userID).First(&model).Error; err != nil {
			return err
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CartItemModel{
			CartID:    model.ID,
			ProductID: productID,
			AddedAt:   now,
		})
		if result.Error != nil {
			return translate(result.Error, nil, cart.ErrDuplicateItem)
		}
		if result.RowsAffected == 0 {
			return cart.ErrDuplicateItem
		}
		return tx.Model(&models.CartModel{}).Where("id = ?", model.ID).Update("updated_at", now).Error
	})
}

// RemoveItem deletes productID from the user's cart. A missing cart or item
// is not an error.
func (r *GormCartRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND cart_id IN (?)", productID, r.cartIDs(ctx, userID)).
		Delete(&models.CartItemModel{}).Error
}

// Clear empties the user's cart, keeping the cart itself
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id IN (?)", r.cartIDs(ctx, userID)).
		Delete(&models.CartItemModel{}).Error
}

func (r *GormCartRepository) cartIDs(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CartModel{}).Select("id").Where("user_id = ?", userID)
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
