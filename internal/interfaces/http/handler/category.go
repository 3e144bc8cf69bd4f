package handler

import (
	catalogapp "github.com/catalogue/backend/internal/application/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
	productService  *catalogapp.ProductService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService, productService *catalogapp.ProductService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		productService:  productService,
	}
}

// Create godoc
// @Summary      Create a category
// @Description  Create a category with an optional logo image
// @Tags         categories
// @Accept       multipart/form-data
// @Produce      json
// @Param        name formData string true "Category name"
// @Param        logo formData file false "Logo image"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var files uploads
	defer files.Close()
	if fh := multipartFile(c, "logo"); fh != nil {
		logo, err := files.openImage(fh)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		req.Logo = &logo
	}

	category, err := h.categoryService.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// List godoc
// @Summary      List categories
// @Description  List every category ordered by name
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Router       /catalog/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// ListProducts godoc
// @Summary      List products of a category
// @Description  List the products of the named category
// @Tags         categories
// @Produce      json
// @Param        name path string true "Category name"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/categories/{name}/products [get]
func (h *CategoryHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.productService.ListByCategory(c.Request.Context(), c.Param("name"), shared.Page{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	SuccessPage(c, page)
}
