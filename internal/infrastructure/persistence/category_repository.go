package persistence

import (
	"context"

	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errCategoryNotFound = shared.NewDomainError(shared.CodeNotFound, "Category not found")
	errCategoryExists   = shared.NewDomainError(shared.CodeConflict, "Category already exists")
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create inserts a category. The unique name_key index rejects names that
// differ only in case.
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	model := models.CategoryModelFromDomain(category)
	err := r.db.WithContext(ctx).Create(model).Error
	return translate(err, nil, errCategoryExists)
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, errCategoryNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindByName finds a category by name, ignoring case
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Where("name_key = ?", catalog.CategoryNameKey(name)).
		First(&model).Error; err != nil {
		return nil, translate(err, errCategoryNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the categories that exist among ids
func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return []catalog.Category{}, nil
	}
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

// FindAll returns all categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name_key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

// ExistsByName checks whether a category name is taken, ignoring case
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("name_key = ?", catalog.CategoryNameKey(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func toCategories(rows []models.CategoryModel) []catalog.Category {
	out := make([]catalog.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
