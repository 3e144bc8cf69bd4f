package persistence

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errEnquiryNotFound = shared.NewDomainError(shared.CodeNotFound, "Enquiry not found")

// GormEnquiryRepository implements enquiry.Repository using GORM
type GormEnquiryRepository struct {
	db *gorm.DB
}

// NewGormEnquiryRepository creates a new GormEnquiryRepository
func NewGormEnquiryRepository(db *gorm.DB) *GormEnquiryRepository {
	return &GormEnquiryRepository{db: db}
}

// Create inserts an enquiry and its ordered product references
func (r *GormEnquiryRepository) Create(ctx context.Context, e *enquiry.Enquiry) error {
	model, products := models.EnquiryModelFromDomain(e)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return tx.Create(&products).Error
	})
}

// FindByID finds an enquiry by its ID
func (r *GormEnquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*enquiry.Enquiry, error) {
	var model models.EnquiryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, errEnquiryNotFound, nil)
	}
	out, err := r.withProducts(ctx, []models.EnquiryModel{model})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// FindAll returns every enquiry, newest first
func (r *GormEnquiryRepository) FindAll(ctx context.Context) ([]enquiry.Enquiry, error) {
	var rows []models.EnquiryModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withProducts(ctx, rows)
}

// UpdateStatus persists a status change
func (r *GormEnquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enquiry.Status) error {
	result := r.db.WithContext(ctx).Model(&models.EnquiryModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errEnquiryNotFound
	}
	return nil
}

func (r *GormEnquiryRepository) withProducts(ctx context.Context, rows []models.EnquiryModel) ([]enquiry.Enquiry, error) {
	if len(rows) == 0 {
		return []enquiry.Enquiry{}, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var refs []models.EnquiryProductModel
	if err := r.db.WithContext(ctx).
		Where("enquiry_id IN ?", ids).
		Order("enquiry_id").Order("position").
		Find(&refs).Error; err != nil {
		return nil, err
	}
	byEnquiry := make(map[uuid.UUID][]models.EnquiryProductModel, len(rows))
	for _, ref := range refs {
		byEnquiry[ref.EnquiryID] = append(byEnquiry[ref.EnquiryID], ref)
	}
	out := make([]enquiry.Enquiry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(byEnquiry[rows[i].ID])
	}
	return out, nil
}

// Ensure GormEnquiryRepository implements enquiry.Repository
var _ enquiry.Repository = (*GormEnquiryRepository)(nil)
