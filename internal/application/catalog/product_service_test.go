package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	appasset "github.com/catalogue/backend/internal/application/asset"
	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var admin = shared.Identity{UserID: uuid.New(), Role: shared.RoleAdmin}

type productFixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	storage    *MockStorage
	publisher  *MockPublisher
	service    *ProductService
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		storage:    new(MockStorage),
		publisher:  new(MockPublisher),
	}
	releaser := appasset.NewReleaser(f.publisher, nil)
	f.service = NewProductService(f.products, f.categories, appasset.NewUploader(f.storage, releaser), releaser)
	return f
}

func newCategory(name string) *catalog.Category {
	c, err := catalog.NewCategory(name, nil)
	if err != nil {
		panic(err)
	}
	return c
}

func newProductWithImages(categoryID uuid.UUID, n int) *catalog.Product {
	p, err := catalog.NewProduct(catalog.NewProductInput{Name: "Foo", CategoryID: categoryID})
	if err != nil {
		panic(err)
	}
	if n > 0 {
		assets := make([]asset.Asset, n)
		for i := range assets {
			assets[i] = asset.Asset{URL: fmt.Sprintf("https://cdn/%d.png", i), Ref: fmt.Sprintf("img/%d", i)}
		}
		if _, err := p.AddImages(assets); err != nil {
			panic(err)
		}
	}
	return p
}

func upload(name string) asset.File {
	return asset.File{Name: name, ContentType: "image/png", Content: strings.NewReader(name)}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves category name to id and rejects a reused sku", func(t *testing.T) {
		f := newProductFixture()
		tablets := newCategory("tablets")
		f.categories.On("FindByName", ctx, "tablets").Return(tablets, nil)
		f.products.On("ExistsBySKU", ctx, "X1", uuid.Nil).Return(false, nil).Once()
		f.products.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil).Once()

		req := CreateProductRequest{Name: "Foo", SKU: "X1", Category: "tablets"}
		resp, err := f.service.Create(ctx, admin, req)
		require.NoError(t, err)
		assert.Equal(t, tablets.ID, resp.CategoryID)
		assert.Equal(t, "tablets", resp.CategoryName)
		assert.Equal(t, "available", resp.Status)
		require.NotNil(t, resp.SKU)
		assert.Equal(t, "X1", *resp.SKU)

		f.products.On("ExistsBySKU", ctx, "X1", uuid.Nil).Return(true, nil).Once()
		_, err = f.service.Create(ctx, admin, req)
		assert.ErrorIs(t, err, shared.ErrConflict)
		f.products.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		f := newProductFixture()
		f.categories.On("FindByName", ctx, "capsules").Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, admin, CreateProductRequest{Name: "Foo", Category: "capsules"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		f := newProductFixture()
		user := shared.Identity{UserID: uuid.New(), Role: shared.RoleUser}
		_, err := f.service.Create(ctx, user, CreateProductRequest{Name: "Foo", Category: "tablets"})
		assert.Equal(t, shared.CodeForbidden, shared.CodeOf(err))
	})

	t.Run("more than ten images is rejected before upload", func(t *testing.T) {
		f := newProductFixture()
		f.categories.On("FindByName", ctx, "tablets").Return(newCategory("tablets"), nil)
		files := make([]asset.File, 11)
		for i := range files {
			files[i] = upload(fmt.Sprintf("%d.png", i))
		}

		_, err := f.service.Create(ctx, admin, CreateProductRequest{Name: "Foo", Category: "tablets", Images: files})
		assert.ErrorIs(t, err, shared.ErrLimitExceeded)
		f.storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("uploads images and thumbnail in order", func(t *testing.T) {
		f := newProductFixture()
		f.categories.On("FindByName", ctx, "tablets").Return(newCategory("tablets"), nil)
		for _, name := range []string{"a.png", "b.png", "t.png"} {
			n := name
			f.storage.On("Store", ctx, mock.MatchedBy(func(file asset.File) bool { return file.Name == n })).
				Return(asset.Asset{URL: "https://cdn/" + n, Ref: n}, nil)
		}
		f.products.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return len(p.Images) == 2 && p.Images[0].Ref == "a.png" && p.Images[1].Ref == "b.png" &&
				p.Thumbnail != nil && p.Thumbnail.Ref == "t.png"
		})).Return(nil)

		thumb := upload("t.png")
		resp, err := f.service.Create(ctx, admin, CreateProductRequest{
			Name:      "Foo",
			Category:  "tablets",
			Images:    []asset.File{upload("a.png"), upload("b.png")},
			Thumbnail: &thumb,
		})
		require.NoError(t, err)
		require.Len(t, resp.Images, 2)
		assert.NotEqual(t, resp.Images[0].ImageID, resp.Images[1].ImageID)
		assert.Equal(t, "https://cdn/t.png", resp.ThumbnailURL)
	})

	t.Run("storage failure aborts and releases earlier uploads", func(t *testing.T) {
		f := newProductFixture()
		f.categories.On("FindByName", ctx, "tablets").Return(newCategory("tablets"), nil)
		f.storage.On("Store", ctx, mock.MatchedBy(func(file asset.File) bool { return file.Name == "a.png" })).
			Return(asset.Asset{URL: "u", Ref: "a.png"}, nil)
		thumb := upload("t.png")
		f.storage.On("Store", ctx, mock.MatchedBy(func(file asset.File) bool { return file.Name == "t.png" })).
			Return(asset.Asset{}, errors.New("storage down"))
		f.publisher.On("Publish", ctx, releasedRefs("a.png")).Return(nil)

		_, err := f.service.Create(ctx, admin, CreateProductRequest{
			Name: "Foo", Category: "tablets", Images: []asset.File{upload("a.png")}, Thumbnail: &thumb,
		})
		assert.ErrorIs(t, err, shared.ErrDependencyFailure)
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.publisher.AssertExpectations(t)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	tablets := newCategory("tablets")

	t.Run("only present fields change", func(t *testing.T) {
		f := newProductFixture()
		p, err := catalog.NewProduct(catalog.NewProductInput{
			Name: "Foo", Description: "keep", Composition: "keep too", SKU: "X1", CategoryID: tablets.ID,
		})
		require.NoError(t, err)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("Update", ctx, p).Return(nil)
		f.categories.On("FindByIDs", ctx, []uuid.UUID{tablets.ID}).Return([]catalog.Category{*tablets}, nil)

		name := "Bar"
		resp, err := f.service.Update(ctx, admin, p.ID, UpdateProductRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Bar", resp.Name)
		assert.Equal(t, "keep", resp.Description)
		assert.Equal(t, "keep too", resp.Composition)
		assert.Equal(t, "X1", *resp.SKU)
		f.products.AssertNotCalled(t, "ExistsBySKU", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("changed sku is checked excluding self", func(t *testing.T) {
		f := newProductFixture()
		p, err := catalog.NewProduct(catalog.NewProductInput{Name: "Foo", SKU: "X1", CategoryID: tablets.ID})
		require.NoError(t, err)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("ExistsBySKU", ctx, "X2", p.ID).Return(true, nil)

		sku := "X2"
		_, err = f.service.Update(ctx, admin, p.ID, UpdateProductRequest{SKU: &sku})
		assert.ErrorIs(t, err, shared.ErrConflict)
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("changed category must exist", func(t *testing.T) {
		f := newProductFixture()
		p, err := catalog.NewProduct(catalog.NewProductInput{Name: "Foo", CategoryID: tablets.ID})
		require.NoError(t, err)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.categories.On("FindByName", ctx, "ghost").Return(nil, shared.ErrNotFound)

		ghost := "ghost"
		_, err = f.service.Update(ctx, admin, p.ID, UpdateProductRequest{Category: &ghost})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, tablets.ID, p.CategoryID)
	})
}

func TestProductService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	_, err := f.service.UpdateStatus(ctx, admin, uuid.New(), "discontinued")
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)

	tablets := newCategory("tablets")
	p := newProductWithImages(tablets.ID, 0)
	f.products.On("FindByID", ctx, p.ID).Return(p, nil)
	f.products.On("Update", ctx, p).Return(nil)
	f.categories.On("FindByIDs", ctx, []uuid.UUID{tablets.ID}).Return([]catalog.Category{*tablets}, nil)

	resp, err := f.service.UpdateStatus(ctx, admin, p.ID, "out_of_stock")
	require.NoError(t, err)
	assert.Equal(t, "out_of_stock", resp.Status)
}

func TestProductService_AddImages(t *testing.T) {
	ctx := context.Background()
	tablets := newCategory("tablets")

	t.Run("nine plus two exceeds the limit and changes nothing", func(t *testing.T) {
		f := newProductFixture()
		p := newProductWithImages(tablets.ID, 9)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := f.service.AddImages(ctx, admin, p.ID, []asset.File{upload("1.png"), upload("2.png")})
		assert.ErrorIs(t, err, shared.ErrLimitExceeded)
		assert.Len(t, p.Images, 9)
		f.storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("appends with fresh ids in arrival order", func(t *testing.T) {
		f := newProductFixture()
		p := newProductWithImages(tablets.ID, 8)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.storage.On("Store", ctx, mock.MatchedBy(func(file asset.File) bool { return file.Name == "1.png" })).
			Return(asset.Asset{URL: "u1", Ref: "r1"}, nil)
		f.storage.On("Store", ctx, mock.MatchedBy(func(file asset.File) bool { return file.Name == "2.png" })).
			Return(asset.Asset{URL: "u2", Ref: "r2"}, nil)
		f.products.On("Update", ctx, p).Return(nil)

		added, err := f.service.AddImages(ctx, admin, p.ID, []asset.File{upload("1.png"), upload("2.png")})
		require.NoError(t, err)
		require.Len(t, added, 2)
		assert.Equal(t, "u1", added[0].URL)
		assert.Equal(t, "u2", added[1].URL)
		assert.Len(t, p.Images, catalog.MaxProductImages)
		assert.Equal(t, "u2", p.Images[9].URL)
	})

	t.Run("lost update releases the uploads", func(t *testing.T) {
		f := newProductFixture()
		p := newProductWithImages(tablets.ID, 0)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.storage.On("Store", ctx, mock.Anything).Return(asset.Asset{URL: "u1", Ref: "r1"}, nil)
		f.products.On("Update", ctx, p).Return(shared.Conflictf("Product was modified by another request"))
		f.publisher.On("Publish", ctx, releasedRefs("r1")).Return(nil)

		_, err := f.service.AddImages(ctx, admin, p.ID, []asset.File{upload("1.png")})
		assert.ErrorIs(t, err, shared.ErrConflict)
		f.publisher.AssertExpectations(t)
	})
}

func TestProductService_RemoveImage(t *testing.T) {
	ctx := context.Background()
	tablets := newCategory("tablets")

	t.Run("removes one image and releases its ref after the update", func(t *testing.T) {
		f := newProductFixture()
		p := newProductWithImages(tablets.ID, 3)
		target := p.Images[1]
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("Update", ctx, p).Return(nil)
		f.categories.On("FindByIDs", ctx, []uuid.UUID{tablets.ID}).Return([]catalog.Category{*tablets}, nil)
		f.publisher.On("Publish", ctx, releasedRefs(target.Ref)).Return(nil)

		resp, err := f.service.RemoveImage(ctx, admin, p.ID, target.ID)
		require.NoError(t, err)
		require.Len(t, resp.Images, 2)
		assert.Equal(t, "img/0", p.Images[0].Ref)
		assert.Equal(t, "img/2", p.Images[1].Ref)
		f.publisher.AssertExpectations(t)
	})

	t.Run("unknown image id is a no-op", func(t *testing.T) {
		f := newProductFixture()
		p := newProductWithImages(tablets.ID, 2)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.categories.On("FindByIDs", ctx, []uuid.UUID{tablets.ID}).Return([]catalog.Category{*tablets}, nil)

		resp, err := f.service.RemoveImage(ctx, admin, p.ID, uuid.New())
		require.NoError(t, err)
		assert.Len(t, resp.Images, 2)
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("release failure does not fail the removal", func(t *testing.T) {
		f := newProductFixture()
		p := newProductWithImages(tablets.ID, 1)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("Update", ctx, p).Return(nil)
		f.categories.On("FindByIDs", ctx, []uuid.UUID{tablets.ID}).Return([]catalog.Category{*tablets}, nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("bus closed"))

		resp, err := f.service.RemoveImage(ctx, admin, p.ID, p.Images[0].ID)
		require.NoError(t, err)
		assert.Empty(t, resp.Images)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	tablets := newCategory("tablets")
	f := newProductFixture()
	p := newProductWithImages(tablets.ID, 2)
	p.Thumbnail = &asset.Asset{URL: "t", Ref: "thumb"}
	f.products.On("FindByID", ctx, p.ID).Return(p, nil)
	f.products.On("Delete", ctx, p.ID).Return(nil)
	f.publisher.On("Publish", ctx, releasedRefs("img/0", "img/1", "thumb")).Return(nil)

	require.NoError(t, f.service.Delete(ctx, admin, p.ID))
	f.publisher.AssertExpectations(t)

	missing := uuid.New()
	f.products.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	assert.ErrorIs(t, f.service.Delete(ctx, admin, missing), shared.ErrNotFound)
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	tablets, syrups := newCategory("Tablets"), newCategory("Syrups")
	t1 := newProductWithImages(tablets.ID, 0)
	t2 := newProductWithImages(tablets.ID, 0)
	require.NoError(t, t2.SetStatus(catalog.ProductStatusOutOfStock))
	s1 := newProductWithImages(syrups.ID, 0)

	f := newProductFixture()
	f.products.On("FindAll", ctx, catalog.ProductFilter{}).Return([]catalog.Product{*t1, *t2, *s1}, nil)
	f.categories.On("FindByIDs", ctx, []uuid.UUID{tablets.ID, syrups.ID}).
		Return([]catalog.Category{*tablets, *syrups}, nil)

	all, err := f.service.List(ctx, ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, "Syrups", all.Items[2].CategoryName)

	filtered, err := f.service.List(ctx, ProductListFilter{Category: "tablets", Status: "available"})
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, t1.ID, filtered.Items[0].ID)

	paged, err := f.service.List(ctx, ProductListFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, paged.Items, 1)
	assert.Equal(t, 2, paged.TotalPages)

	_, err = f.service.List(ctx, ProductListFilter{Status: "gone"})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestProductService_ListByCategory(t *testing.T) {
	ctx := context.Background()
	tablets := newCategory("Tablets")
	p := newProductWithImages(tablets.ID, 0)

	f := newProductFixture()
	f.categories.On("FindByName", ctx, "tablets").Return(tablets, nil)
	f.categories.On("FindByName", ctx, "ghost").Return(nil, shared.ErrNotFound)
	f.products.On("FindAll", ctx, catalog.ProductFilter{CategoryID: &tablets.ID}).Return([]catalog.Product{*p}, nil)

	got, err := f.service.ListByCategory(ctx, "tablets", shared.Page{})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Tablets", got.Items[0].CategoryName)

	_, err = f.service.ListByCategory(ctx, "ghost", shared.Page{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
