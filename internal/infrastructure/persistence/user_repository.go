package persistence

import (
	"context"

	"github.com/catalogue/backend/internal/domain/identity"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errUserNotFound = shared.NewDomainError(shared.CodeNotFound, "User not found")

// GormUserDirectory implements identity.UserDirectory over the users table
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory creates a new GormUserDirectory
func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, errUserNotFound, nil)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the users that exist among ids
func (r *GormUserDirectory) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	if len(ids) == 0 {
		return []identity.User{}, nil
	}
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toUsers(rows), nil
}

// FindAll returns all users, newest first
func (r *GormUserDirectory) FindAll(ctx context.Context) ([]identity.User, error) {
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toUsers(rows), nil
}

func toUsers(rows []models.UserModel) []identity.User {
	out := make([]identity.User, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormUserDirectory implements identity.UserDirectory
var _ identity.UserDirectory = (*GormUserDirectory)(nil)
