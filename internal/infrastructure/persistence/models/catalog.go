package models

import (
	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CategoryModel is the persistence model for the Category domain entity.
// NameKey holds the lower-cased name and carries the unique index.
type CategoryModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null"`
	NameKey string `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name_key"`
	LogoURL string `gorm:"type:varchar(1024)"`
	LogoRef string `gorm:"type:varchar(512)"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	c := &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
	if m.LogoURL != "" || m.LogoRef != "" {
		c.Logo = &asset.Asset{URL: m.LogoURL, Ref: m.LogoRef}
	}
	return c
}

// CategoryModelFromDomain creates a persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:    c.Name,
		NameKey: c.NameKey(),
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	if c.Logo != nil {
		m.LogoURL = c.Logo.URL
		m.LogoRef = c.Logo.Ref
	}
	return m
}

// ProductModel is the persistence model for the Product domain entity.
// SKU is nullable so that the unique index only constrains products that
// have one.
type ProductModel struct {
	BaseModel
	Name         string                `gorm:"type:varchar(200);not null"`
	Description  string                `gorm:"type:text"`
	Composition  string                `gorm:"type:text"`
	Use          string                `gorm:"column:usage;type:text"`
	SKU          *string               `gorm:"column:sku;type:varchar(64);uniqueIndex:idx_products_sku"`
	Status       catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	Tags         StringList            `gorm:"type:text"`
	ThumbnailURL string                `gorm:"type:varchar(1024)"`
	ThumbnailRef string                `gorm:"type:varchar(512)"`
	CategoryID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	Version      int                   `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ProductImageModel stores one entry of a product's ordered image set
type ProductImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_product_images_product,priority:1"`
	Position  int       `gorm:"not null;index:idx_product_images_product,priority:2"`
	URL       string    `gorm:"type:varchar(1024);not null"`
	Ref       string    `gorm:"type:varchar(512)"`
}

// TableName returns the table name for GORM
func (ProductImageModel) TableName() string {
	return "product_images"
}

// ToDomain converts the persistence model to a domain Product entity.
// images must already be ordered by position.
func (m *ProductModel) ToDomain(images []ProductImageModel) *catalog.Product {
	p := &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Composition: m.Composition,
		Use:         m.Use,
		SKU:         m.SKU,
		Status:      m.Status,
		Tags:        []string(m.Tags),
		Images:      make([]catalog.ProductImage, 0, len(images)),
		CategoryID:  m.CategoryID,
		Version:     m.Version,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if m.ThumbnailURL != "" || m.ThumbnailRef != "" {
		p.Thumbnail = &asset.Asset{URL: m.ThumbnailURL, Ref: m.ThumbnailRef}
	}
	for _, img := range images {
		p.Images = append(p.Images, catalog.ProductImage{ID: img.ID, URL: img.URL, Ref: img.Ref})
	}
	return p
}

// ProductModelFromDomain creates a persistence model and image rows from a
// domain Product.
func ProductModelFromDomain(p *catalog.Product) (*ProductModel, []ProductImageModel) {
	m := &ProductModel{
		Name:        p.Name,
		Description: p.Description,
		Composition: p.Composition,
		Use:         p.Use,
		SKU:         p.SKU,
		Status:      p.Status,
		Tags:        StringList(p.Tags),
		CategoryID:  p.CategoryID,
		Version:     p.Version,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	if m.Tags == nil {
		m.Tags = StringList{}
	}
	if p.Thumbnail != nil {
		m.ThumbnailURL = p.Thumbnail.URL
		m.ThumbnailRef = p.Thumbnail.Ref
	}
	images := make([]ProductImageModel, len(p.Images))
	for i, img := range p.Images {
		images[i] = ProductImageModel{
			ID:        img.ID,
			ProductID: p.ID,
			Position:  i,
			URL:       img.URL,
			Ref:       img.Ref,
		}
	}
	return m, images
}
