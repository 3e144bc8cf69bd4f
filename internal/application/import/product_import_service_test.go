package importapp

import (
	"context"
	"strings"
	"testing"

	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) ExistingSKUs(ctx context.Context, skus []string) ([]string, error) {
	args := m.Called(ctx, skus)
	return args.Get(0).([]string), args.Error(1)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
	catalog.CategoryRepository
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

type rowCounter struct{ imported, skipped int }

func (c *rowCounter) RecordImportRows(_ context.Context, imported, skipped int) {
	c.imported += imported
	c.skipped += skipped
}

var admin = shared.Identity{UserID: uuid.New(), Role: shared.RoleAdmin}

func category(t *testing.T, name string) catalog.Category {
	c, err := catalog.NewCategory(name, nil)
	require.NoError(t, err)
	return *c
}

func TestProductImportService_Import(t *testing.T) {
	ctx := context.Background()
	tablets := category(t, "Tablets")
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	metrics := &rowCounter{}
	svc := NewProductImportService(products, categories, 0, metrics)

	categories.On("FindAll", ctx).Return([]catalog.Category{tablets}, nil)
	products.On("ExistingSKUs", ctx, []string{"P-1", "P-2", "P-1", "OLD"}).Return([]string{"OLD"}, nil)
	products.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	sheet := strings.Join([]string{
		"Name,Description,Category,SKU,Tags",
		"Paracetamol,Pain relief,tablets,P-1,pain|fever",
		"Ibuprofen,,Tablets,P-2,",
		"Copy,,Tablets,P-1,",
		",,Tablets,,",
		"Gel,,Gels,,",
		"Legacy,,Tablets,OLD,",
		"No SKU,,TABLETS,,a, b",
	}, "\n")

	result, err := svc.Import(ctx, admin, "products.csv", strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalRows)
	assert.Equal(t, 3, result.SuccessfulUploads)
	assert.Equal(t, 4, result.SkippedRows)
	require.Len(t, result.Products, 3)
	assert.Equal(t, tablets.ID, result.Products[0].CategoryID)
	assert.Equal(t, []string{"pain", "fever"}, result.Products[0].Tags)
	assert.Equal(t, "No SKU", result.Products[2].Name)

	require.Len(t, result.Errors, 4)
	byRow := map[int]string{}
	for _, e := range result.Errors {
		byRow[e.Row] = e.Code
	}
	assert.Equal(t, map[int]string{
		4: shared.CodeConflict,
		5: shared.CodeInvalidArgument,
		6: shared.CodeNotFound,
		7: shared.CodeConflict,
	}, byRow)

	products.AssertNumberOfCalls(t, "Create", 3)
	assert.Equal(t, 3, metrics.imported)
	assert.Equal(t, 4, metrics.skipped)
}

func TestProductImportService_StoreConflictIsARowError(t *testing.T) {
	ctx := context.Background()
	tablets := category(t, "Tablets")
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	svc := NewProductImportService(products, categories, 0, nil)

	categories.On("FindAll", ctx).Return([]catalog.Category{tablets}, nil)
	products.On("ExistingSKUs", ctx, []string{"X1", "X2"}).Return([]string{}, nil)
	products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool { return p.SKUValue() == "X1" })).
		Return(shared.Conflictf("SKU already exists"))
	products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool { return p.SKUValue() == "X2" })).
		Return(nil)

	result, err := svc.Import(ctx, admin, "p.csv", strings.NewReader("name,category,sku\nA,Tablets,X1\nB,Tablets,X2\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulUploads)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sku", result.Errors[0].Field)
	assert.Equal(t, shared.CodeConflict, result.Errors[0].Code)
}

func TestProductImportService_FileErrors(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	svc := NewProductImportService(products, categories, 2, nil)

	_, err := svc.Import(ctx, admin, "p.txt", strings.NewReader("name\n"))
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = svc.Import(ctx, admin, "p.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = svc.Import(ctx, admin, "p.csv", strings.NewReader("name,sku\nA,1\n"))
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)

	_, err = svc.Import(ctx, admin, "p.csv", strings.NewReader("name,category\na,b\nc,d\ne,f\n"))
	assert.ErrorIs(t, err, shared.ErrLimitExceeded)

	user := shared.Identity{UserID: uuid.New(), Role: shared.RoleUser}
	_, err = svc.Import(ctx, user, "p.csv", strings.NewReader("name,category\na,b\n"))
	assert.Equal(t, shared.CodeForbidden, shared.CodeOf(err))

	categories.AssertNotCalled(t, "FindAll", mock.Anything)
}
