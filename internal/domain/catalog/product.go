package catalog

import (
	"fmt"
	"strings"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeProduct names the product aggregate in events
const AggregateTypeProduct = "Product"

// MaxProductImages bounds the image set of a single product
const MaxProductImages = 10

// ProductStatus represents the availability of a product
type ProductStatus string

const (
	ProductStatusAvailable  ProductStatus = "available"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// IsValid reports whether s is a known status
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusAvailable || s == ProductStatusOutOfStock
}

// ParseProductStatus validates a raw status value
func ParseProductStatus(raw string) (ProductStatus, error) {
	s := ProductStatus(raw)
	if !s.IsValid() {
		return "", shared.InvalidArgumentf("Invalid product status %q, expected available or out_of_stock", raw)
	}
	return s, nil
}

// ProductImage is one entry of a product's ordered image set
type ProductImage struct {
	ID  uuid.UUID `json:"image_id"`
	URL string    `json:"url"`
	Ref string    `json:"-"`
}

// Product represents a catalogue item
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Composition string
	Use         string
	SKU         *string
	Status      ProductStatus
	Tags        []string
	Images      []ProductImage
	Thumbnail   *asset.Asset
	CategoryID  uuid.UUID
	Version     int
}

// NewProductInput carries the fields accepted at creation
type NewProductInput struct {
	Name        string
	Description string
	Composition string
	Use         string
	SKU         string
	Tags        []string
	CategoryID  uuid.UUID
	Thumbnail   *asset.Asset
}

// NewProduct creates a new product in the available status
func NewProduct(in NewProductInput) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if in.CategoryID == uuid.Nil {
		return nil, shared.InvalidArgumentf("Product category is required")
	}
	sku, err := normalizeSKU(in.SKU)
	if err != nil {
		return nil, err
	}
	thumb := in.Thumbnail
	if thumb != nil && thumb.IsZero() {
		thumb = nil
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: in.Description,
		Composition: in.Composition,
		Use:         in.Use,
		SKU:         sku,
		Status:      ProductStatusAvailable,
		Tags:        NormalizeTags(in.Tags),
		Images:      []ProductImage{},
		Thumbnail:   thumb,
		CategoryID:  in.CategoryID,
		Version:     1,
	}, nil
}

// SKUValue returns the SKU or "" when unset
func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

// SetStatus changes the availability status
func (p *Product) SetStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.InvalidArgumentf("Invalid product status %q, expected available or out_of_stock", status)
	}
	p.Status = status
	p.Touch()
	return nil
}

// ApplyPatch applies the present fields of patch. Every field is validated
// before anything is written, so a rejected patch leaves p unchanged. It
// reports whether the SKU changed so the caller can re-check uniqueness.
func (p *Product) ApplyPatch(patch ProductPatch) (skuChanged bool, err error) {
	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if err := validateProductName(name); err != nil {
			return false, err
		}
	}
	if patch.CategoryID != nil && *patch.CategoryID == uuid.Nil {
		return false, shared.InvalidArgumentf("Product category is required")
	}
	var sku *string
	if patch.SKU != nil {
		if sku, err = normalizeSKU(*patch.SKU); err != nil {
			return false, err
		}
	}

	if patch.Name != nil {
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Composition != nil {
		p.Composition = *patch.Composition
	}
	if patch.Use != nil {
		p.Use = *patch.Use
	}
	if patch.Tags != nil {
		p.Tags = NormalizeTags(*patch.Tags)
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.SKU != nil {
		skuChanged = !sameSKU(p.SKU, sku)
		p.SKU = sku
	}
	p.Touch()
	return skuChanged, nil
}

// AddImages appends images for the given assets in order. The whole batch
// is rejected when it would push the set past MaxProductImages.
func (p *Product) AddImages(assets []asset.Asset) ([]ProductImage, error) {
	if len(assets) == 0 {
		return nil, shared.InvalidArgumentf("At least one image is required")
	}
	if len(p.Images)+len(assets) > MaxProductImages {
		return nil, shared.NewDomainError(shared.CodeLimitExceeded,
			fmt.Sprintf("A product can have at most %d images; it has %d and %d were submitted",
				MaxProductImages, len(p.Images), len(assets)))
	}
	added := make([]ProductImage, 0, len(assets))
	for _, a := range assets {
		img := ProductImage{ID: uuid.New(), URL: a.URL, Ref: a.Ref}
		p.Images = append(p.Images, img)
		added = append(added, img)
	}
	p.Touch()
	return added, nil
}

// RemoveImage drops the image with imageID, keeping the order of the rest.
// It returns nil when no such image exists.
func (p *Product) RemoveImage(imageID uuid.UUID) *ProductImage {
	for i, img := range p.Images {
		if img.ID == imageID {
			removed := img
			p.Images = append(p.Images[:i:i], p.Images[i+1:]...)
			p.Touch()
			return &removed
		}
	}
	return nil
}

// AssetRefs returns every storage ref owned by the product
func (p *Product) AssetRefs() []string {
	refs := make([]string, 0, len(p.Images)+1)
	for _, img := range p.Images {
		if img.Ref != "" {
			refs = append(refs, img.Ref)
		}
	}
	if p.Thumbnail != nil && p.Thumbnail.Ref != "" {
		refs = append(refs, p.Thumbnail.Ref)
	}
	return refs
}

// NormalizeTags trims tags and drops empty entries, keeping order
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeSKU trims the raw SKU. An empty SKU means "unset".
func normalizeSKU(raw string) (*string, error) {
	sku := strings.TrimSpace(raw)
	if sku == "" {
		return nil, nil
	}
	if len(sku) > 64 {
		return nil, shared.InvalidArgumentf("SKU cannot exceed 64 characters")
	}
	return &sku, nil
}

func sameSKU(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func validateProductName(name string) error {
	if name == "" {
		return shared.InvalidArgumentf("Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.InvalidArgumentf("Product name cannot exceed 200 characters")
	}
	return nil
}

// ProductPatch enumerates the updatable product fields. A nil field is
// left untouched; an empty SKU clears it.
type ProductPatch struct {
	Name        *string
	Description *string
	Composition *string
	Use         *string
	SKU         *string
	Tags        *[]string
	CategoryID  *uuid.UUID
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Composition == nil &&
		p.Use == nil && p.SKU == nil && p.Tags == nil && p.CategoryID == nil
}

// ProductFilter narrows product listings. Zero values match everything.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Status     ProductStatus
}

// ProductView is a product joined with its category name
type ProductView struct {
	Product
	CategoryName string
}
