package persistence

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errProductNotFound = shared.NewDomainError(shared.CodeNotFound, "Product not found")
	errSKUExists       = shared.NewDomainError(shared.CodeConflict, "SKU already exists")
	errProductModified = shared.NewDomainError(shared.CodeConflict, "Product was modified by another request")
)

// GormProductRepository implements ProductRepository using GORM.
// Image sets live in product_images ordered by position.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts a product together with its image set
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model, images := models.ProductModelFromDomain(product)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if len(images) > 0 {
			return tx.Create(&images).Error
		}
		return nil
	})
	return translate(err, nil, errSKUExists)
}

// Update persists scalar fields and replaces the image set. The row is only
// written while its version still matches product.Version; on success the
// version is advanced on the entity as well.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	model, images := models.ProductModelFromDomain(product)
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ProductModel{}).
			Where("id = ? AND version = ?", product.ID, product.Version).
			Updates(map[string]any{
				"name":          model.Name,
				"description":   model.Description,
				"composition":   model.Composition,
				"usage":         model.Use,
				"sku":           model.SKU,
				"status":        string(model.Status),
				"tags":          model.Tags,
				"thumbnail_url": model.ThumbnailURL,
				"thumbnail_ref": model.ThumbnailRef,
				"category_id":   model.CategoryID,
				"version":       product.Version + 1,
				"updated_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.ProductModel{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errProductNotFound
			}
			return errProductModified
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImageModel{}).Error; err != nil {
			return err
		}
		if len(images) > 0 {
			return tx.Create(&images).Error
		}
		return nil
	})
	if err != nil {
		return translate(err, nil, errSKUExists)
	}
	product.Version++
	product.UpdatedAt = now
	return nil
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, errProductNotFound, nil)
	}
	products, err := r.withImages(ctx, []models.ProductModel{model})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// FindByIDs returns the products that exist among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withImages(ctx, rows)
}

// FindAll returns products matching filter, newest first
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var rows []models.ProductModel
	if err := query.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withImages(ctx, rows)
}

// ExistsBySKU checks if another product already uses sku
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("sku = ?", sku)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistingSKUs returns the subset of skus already in use
func (r *GormProductRepository) ExistingSKUs(ctx context.Context, skus []string) ([]string, error) {
	if len(skus) == 0 {
		return []string{}, nil
	}
	var found []string
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("sku IN ?", skus).
		Pluck("sku", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// Delete removes a product and its image rows
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImageModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errProductNotFound
		}
		return nil
	})
}

// withImages loads the image sets of rows with one query and converts to
// domain products, keeping the order of rows.
func (r *GormProductRepository) withImages(ctx context.Context, rows []models.ProductModel) ([]catalog.Product, error) {
	if len(rows) == 0 {
		return []catalog.Product{}, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var images []models.ProductImageModel
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("product_id").Order("position").
		Find(&images).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID][]models.ProductImageModel, len(rows))
	for _, img := range images {
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(byProduct[rows[i].ID])
	}
	return out, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
