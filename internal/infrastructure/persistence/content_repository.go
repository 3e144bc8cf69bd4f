package persistence

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/content"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errSocialLinkNotFound = shared.NewDomainError(shared.CodeNotFound, "Social link not found")
	errSocialLinkExists   = shared.NewDomainError(shared.CodeConflict, "A link for this platform already exists")
	errBannerNotFound     = shared.NewDomainError(shared.CodeNotFound, "Banner not found")
	errTermsNotFound      = shared.NewDomainError(shared.CodeNotFound, "Terms have not been published")
)

// GormSocialLinkRepository implements content.SocialLinkRepository
type GormSocialLinkRepository struct {
	db *gorm.DB
}

// NewGormSocialLinkRepository creates a new GormSocialLinkRepository
func NewGormSocialLinkRepository(db *gorm.DB) *GormSocialLinkRepository {
	return &GormSocialLinkRepository{db: db}
}

// Create inserts a link; one link per platform, ignoring case
func (r *GormSocialLinkRepository) Create(ctx context.Context, link *content.SocialLink) error {
	err := r.db.WithContext(ctx).Create(models.SocialLinkModelFromDomain(link)).Error
	return translate(err, nil, errSocialLinkExists)
}

// Update stores a new URL for an existing link
func (r *GormSocialLinkRepository) Update(ctx context.Context, link *content.SocialLink) error {
	result := r.db.WithContext(ctx).Model(&models.SocialLinkModel{}).
		Where("id = ?", link.ID).
		Updates(map[string]any{"url": link.URL, "updated_at": link.UpdatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errSocialLinkNotFound
	}
	return nil
}

// FindByID finds a link by its ID
func (r *GormSocialLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.SocialLink, error) {
	var model models.SocialLinkModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, errSocialLinkNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindAll returns all links ordered by platform
func (r *GormSocialLinkRepository) FindAll(ctx context.Context) ([]content.SocialLink, error) {
	var rows []models.SocialLinkModel
	if err := r.db.WithContext(ctx).Order("platform_key").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]content.SocialLink, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Delete removes a link
func (r *GormSocialLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SocialLinkModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errSocialLinkNotFound
	}
	return nil
}

// GormBannerRepository implements content.BannerRepository
type GormBannerRepository struct {
	db *gorm.DB
}

// NewGormBannerRepository creates a new GormBannerRepository
func NewGormBannerRepository(db *gorm.DB) *GormBannerRepository {
	return &GormBannerRepository{db: db}
}

// Create inserts a banner
func (r *GormBannerRepository) Create(ctx context.Context, banner *content.Banner) error {
	return r.db.WithContext(ctx).Create(models.BannerModelFromDomain(banner)).Error
}

// FindByID finds a banner by its ID
func (r *GormBannerRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Banner, error) {
	var model models.BannerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, errBannerNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindAll returns banners, newest first
func (r *GormBannerRepository) FindAll(ctx context.Context) ([]content.Banner, error) {
	var rows []models.BannerModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]content.Banner, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Delete removes a banner
func (r *GormBannerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BannerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errBannerNotFound
	}
	return nil
}

// GormTermsRepository implements content.TermsRepository as a single row
type GormTermsRepository struct {
	db *gorm.DB
}

// NewGormTermsRepository creates a new GormTermsRepository
func NewGormTermsRepository(db *gorm.DB) *GormTermsRepository {
	return &GormTermsRepository{db: db}
}

// Get returns the current terms
func (r *GormTermsRepository) Get(ctx context.Context) (*content.Terms, error) {
	var model models.TermsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", models.TermsSingletonID).Error; err != nil {
		return nil, translate(err, errTermsNotFound, nil)
	}
	return &content.Terms{Content: model.Content, UpdatedAt: model.UpdatedAt}, nil
}

// Save replaces the terms document
func (r *GormTermsRepository) Save(ctx context.Context, terms *content.Terms) error {
	if terms.UpdatedAt.IsZero() {
		terms.UpdatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&models.TermsModel{
		ID:        models.TermsSingletonID,
		Content:   terms.Content,
		UpdatedAt: terms.UpdatedAt,
	}).Error
}

var (
	_ content.SocialLinkRepository = (*GormSocialLinkRepository)(nil)
	_ content.BannerRepository     = (*GormBannerRepository)(nil)
	_ content.TermsRepository      = (*GormTermsRepository)(nil)
)
