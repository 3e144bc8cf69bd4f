package catalog

import (
	"context"
	"fmt"

	appasset "github.com/catalogue/backend/internal/application/asset"
	"github.com/catalogue/backend/internal/application/query"
	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations, including
// the product image set
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	uploader     *appasset.Uploader
	releaser     *appasset.Releaser
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	uploader *appasset.Uploader,
	releaser *appasset.Releaser,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		uploader:     uploader,
		releaser:     releaser,
	}
}

// Create creates a new product. Category, image count and SKU are checked
// before any file is uploaded; the product row is written last.
func (s *ProductService) Create(ctx context.Context, caller shared.Identity, req CreateProductRequest) (*ProductResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	category, err := resolveByName(ctx, s.categoryRepo, req.Category)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(catalog.NewProductInput{
		Name:        req.Name,
		Description: req.Description,
		Composition: req.Composition,
		Use:         req.Use,
		SKU:         req.SKU,
		Tags:        req.Tags,
		CategoryID:  category.ID,
	})
	if err != nil {
		return nil, err
	}

	if len(req.Images) > catalog.MaxProductImages {
		return nil, shared.NewDomainError(shared.CodeLimitExceeded,
			fmt.Sprintf("A product can have at most %d images, %d were submitted", catalog.MaxProductImages, len(req.Images)))
	}

	if err := s.ensureSKUFree(ctx, product.SKU, uuid.Nil); err != nil {
		return nil, err
	}

	uploaded, err := s.uploader.UploadAll(ctx, catalog.AggregateTypeProduct, product.ID, req.Images)
	if err != nil {
		return nil, err
	}
	if len(uploaded) > 0 {
		if _, err := product.AddImages(uploaded); err != nil {
			s.uploader.Discard(ctx, catalog.AggregateTypeProduct, product.ID, uploaded...)
			return nil, err
		}
	}
	if req.Thumbnail != nil {
		thumb, err := s.uploader.Upload(ctx, *req.Thumbnail)
		if err != nil {
			s.uploader.Discard(ctx, catalog.AggregateTypeProduct, product.ID, uploaded...)
			return nil, err
		}
		product.Thumbnail = &thumb
		uploaded = append(uploaded, thumb)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.uploader.Discard(ctx, catalog.AggregateTypeProduct, product.ID, uploaded...)
		return nil, err
	}

	response := ToProductResponse(catalog.ProductView{Product: *product, CategoryName: category.Name})
	return &response, nil
}

// GetByID retrieves a product joined with its category name
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	views, err := s.joinCategories(ctx, []catalog.Product{*product})
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(views[0])
	return &response, nil
}

// List returns products joined with category names, narrowed by the admin
// filter and then paginated
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	var status catalog.ProductStatus
	if filter.Status != "" {
		parsed, err := catalog.ParseProductStatus(filter.Status)
		if err != nil {
			return shared.Paginated[ProductResponse]{}, err
		}
		status = parsed
	}

	products, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	views, err := s.joinCategories(ctx, products)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	matched := query.FilterProducts(views, query.ProductFilter{Category: filter.Category, Status: status})
	return shared.Paginate(ToProductResponses(matched), shared.Page{Page: filter.Page, PageSize: filter.PageSize}), nil
}

// ListByCategory returns the products of the named category
func (s *ProductService) ListByCategory(ctx context.Context, name string, page shared.Page) (shared.Paginated[ProductResponse], error) {
	category, err := resolveByName(ctx, s.categoryRepo, name)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	products, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{CategoryID: &category.ID})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	views := make([]catalog.ProductView, len(products))
	for i := range products {
		views[i] = catalog.ProductView{Product: products[i], CategoryName: category.Name}
	}
	return shared.Paginate(ToProductResponses(views), page), nil
}

// Update applies a partial update. Only present fields change; a changed SKU
// is re-checked against other products and a changed category must exist.
func (s *ProductService) Update(ctx context.Context, caller shared.Identity, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	patch := catalog.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Composition: req.Composition,
		Use:         req.Use,
		SKU:         req.SKU,
		Tags:        req.Tags,
	}
	if req.Category != nil {
		category, err := resolveByName(ctx, s.categoryRepo, *req.Category)
		if err != nil {
			return nil, err
		}
		patch.CategoryID = &category.ID
	}
	if patch.IsEmpty() {
		return s.GetByID(ctx, productID)
	}

	skuChanged, err := product.ApplyPatch(patch)
	if err != nil {
		return nil, err
	}
	if skuChanged {
		if err := s.ensureSKUFree(ctx, product.SKU, product.ID); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.respond(ctx, product)
}

// UpdateStatus sets the availability status
func (s *ProductService) UpdateStatus(ctx context.Context, caller shared.Identity, productID uuid.UUID, status string) (*ProductResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	parsed, err := catalog.ParseProductStatus(status)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.SetStatus(parsed); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.respond(ctx, product)
}

// Delete removes a product. Its images and thumbnail are released after the
// row is gone.
func (s *ProductService) Delete(ctx context.Context, caller shared.Identity, productID uuid.UUID) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("product deleted",
		zap.String("product_id", productID.String()),
		zap.Int("released_assets", len(product.AssetRefs())),
	)
	s.releaser.Release(ctx, catalog.AggregateTypeProduct, product.ID, product.AssetRefs()...)
	return nil
}

// AddImages uploads files and appends them to the image set in arrival
// order. The bound is checked before uploading; the versioned update keeps
// concurrent additions from overshooting it.
func (s *ProductService) AddImages(ctx context.Context, caller shared.Identity, productID uuid.UUID, files []asset.File) ([]ImageResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, shared.InvalidArgumentf("At least one image is required")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(product.Images)+len(files) > catalog.MaxProductImages {
		return nil, shared.NewDomainError(shared.CodeLimitExceeded,
			fmt.Sprintf("A product can have at most %d images; it has %d and %d were submitted",
				catalog.MaxProductImages, len(product.Images), len(files)))
	}

	uploaded, err := s.uploader.UploadAll(ctx, catalog.AggregateTypeProduct, product.ID, files)
	if err != nil {
		return nil, err
	}
	added, err := product.AddImages(uploaded)
	if err != nil {
		s.uploader.Discard(ctx, catalog.AggregateTypeProduct, product.ID, uploaded...)
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		s.uploader.Discard(ctx, catalog.AggregateTypeProduct, product.ID, uploaded...)
		return nil, err
	}
	return ToImageResponses(added), nil
}

// RemoveImage drops one image. An unknown image id leaves the product
// unchanged and is not an error.
func (s *ProductService) RemoveImage(ctx context.Context, caller shared.Identity, productID, imageID uuid.UUID) (*ProductResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	removed := product.RemoveImage(imageID)
	if removed == nil {
		return s.respond(ctx, product)
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.releaser.Release(ctx, catalog.AggregateTypeProduct, product.ID, removed.Ref)
	return s.respond(ctx, product)
}

func (s *ProductService) ensureSKUFree(ctx context.Context, sku *string, excludeID uuid.UUID) error {
	if sku == nil {
		return nil
	}
	exists, err := s.productRepo.ExistsBySKU(ctx, *sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.Conflictf("SKU %q is already used by another product", *sku).WithDetail("sku", *sku)
	}
	return nil
}

func (s *ProductService) respond(ctx context.Context, product *catalog.Product) (*ProductResponse, error) {
	views, err := s.joinCategories(ctx, []catalog.Product{*product})
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(views[0])
	return &response, nil
}

// joinCategories composes products with their category names using one
// category lookup
func (s *ProductService) joinCategories(ctx context.Context, products []catalog.Product) ([]catalog.ProductView, error) {
	idSet := make(map[uuid.UUID]struct{}, len(products))
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		if _, ok := idSet[p.CategoryID]; !ok {
			idSet[p.CategoryID] = struct{}{}
			ids = append(ids, p.CategoryID)
		}
	}
	categories, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	views := make([]catalog.ProductView, len(products))
	for i := range products {
		views[i] = catalog.ProductView{Product: products[i], CategoryName: names[products[i].CategoryID]}
	}
	return views, nil
}
