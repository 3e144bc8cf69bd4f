package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/identity"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps transactions and savepoints on one session.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, nil)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name, sku string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.NewProductInput{Name: name, SKU: sku, CategoryID: categoryID})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), p))
	return p
}

func seedUser(t *testing.T, db *gorm.DB, name, city string, createdAt time.Time) *identity.User {
	t.Helper()
	u := &identity.User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      uuid.NewString() + "@example.com",
		City:       city,
		Role:       shared.RoleUser,
	}
	if !createdAt.IsZero() {
		u.CreatedAt = createdAt
	}
	require.NoError(t, db.Create(models.UserModelFromDomain(u)).Error)
	return u
}
