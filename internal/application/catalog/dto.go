package catalog

import (
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string     `form:"name" binding:"required,min=1,max=100"`
	Logo *asset.File `form:"-"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain Category to a CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
	if c.Logo != nil {
		resp.LogoURL = c.Logo.URL
	}
	return resp
}

// CreateProductRequest represents a request to create a product. Category
// is resolved by name.
type CreateProductRequest struct {
	Name        string       `form:"name" json:"name" binding:"required,min=1,max=200"`
	Description string       `form:"description" json:"description" binding:"max=5000"`
	Composition string       `form:"composition" json:"composition" binding:"max=5000"`
	Use         string       `form:"use" json:"use" binding:"max=5000"`
	SKU         string       `form:"sku" json:"sku" binding:"max=64"`
	Category    string       `form:"category" json:"category" binding:"required"`
	Tags        []string     `form:"tags" json:"tags"`
	Images      []asset.File `form:"-" json:"-"`
	Thumbnail   *asset.File  `form:"-" json:"-"`
}

// UpdateProductRequest lists the editable product fields. Absent fields are
// left untouched; an empty sku clears it.
type UpdateProductRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	Composition *string   `json:"composition" binding:"omitempty,max=5000"`
	Use         *string   `json:"use" binding:"omitempty,max=5000"`
	SKU         *string   `json:"sku" binding:"omitempty,max=64"`
	Category    *string   `json:"category" binding:"omitempty,min=1"`
	Tags        *[]string `json:"tags"`
}

// UpdateStatusRequest represents a product status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,product_status"`
}

// ProductListFilter represents filter options for product lists
type ProductListFilter struct {
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,product_status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ImageResponse is one entry of a product image set
type ImageResponse struct {
	ImageID uuid.UUID `json:"image_id"`
	URL     string    `json:"url"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Composition  string          `json:"composition"`
	Use          string          `json:"use"`
	SKU          *string         `json:"sku"`
	Status       string          `json:"status"`
	Tags         []string        `json:"tags"`
	Images       []ImageResponse `json:"images"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToProductResponse converts a product view to a ProductResponse
func ToProductResponse(v catalog.ProductView) ProductResponse {
	p := v.Product
	resp := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Composition:  p.Composition,
		Use:          p.Use,
		SKU:          p.SKU,
		Status:       string(p.Status),
		Tags:         p.Tags,
		Images:       ToImageResponses(p.Images),
		CategoryID:   p.CategoryID,
		CategoryName: v.CategoryName,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if p.Thumbnail != nil {
		resp.ThumbnailURL = p.Thumbnail.URL
	}
	return resp
}

// ToImageResponses converts product images to responses, keeping order
func ToImageResponses(images []catalog.ProductImage) []ImageResponse {
	out := make([]ImageResponse, len(images))
	for i, img := range images {
		out[i] = ImageResponse{ImageID: img.ID, URL: img.URL}
	}
	return out
}

// ToProductResponses converts product views to responses
func ToProductResponses(views []catalog.ProductView) []ProductResponse {
	out := make([]ProductResponse, len(views))
	for i, v := range views {
		out[i] = ToProductResponse(v)
	}
	return out
}
