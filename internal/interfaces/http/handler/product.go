package handler

import (
	catalogapp "github.com/catalogue/backend/internal/application/catalog"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create godoc
// @Summary      Create a product
// @Description  Create a product with up to 10 images and an optional thumbnail
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        name formData string true "Product name"
// @Param        category formData string true "Category name"
// @Param        description formData string false "Description"
// @Param        composition formData string false "Composition"
// @Param        use formData string false "Use"
// @Param        sku formData string false "Stock keeping unit"
// @Param        tags formData []string false "Tags" collectionFormat(multi)
// @Param        images formData file false "Product images"
// @Param        thumbnail formData file false "Thumbnail image"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var files uploads
	defer files.Close()

	images, err := files.openImages(multipartFiles(c, "images"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req.Images = images

	if fh := multipartFile(c, "thumbnail"); fh != nil {
		thumbnail, err := files.openImage(fh)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		req.Thumbnail = &thumbnail
	}

	product, err := h.productService.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  List products, optionally filtered by category name and status
// @Tags         products
// @Produce      json
// @Param        category query string false "Category name"
// @Param        status query string false "Status" Enums(available, out_of_stock)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	SuccessPage(c, page)
}

// Update godoc
// @Summary      Edit a product
// @Description  Change the supplied fields of a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UpdateStatus godoc
// @Summary      Change product status
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/status [put]
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateStatus(c.Request.Context(), caller(c), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Delete a product; its images are removed from storage asynchronously
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), caller(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddImages godoc
// @Summary      Add product images
// @Description  Append images to a product; the set holds at most 10
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        images formData file true "Images"
// @Success      201 {object} APIResponse[[]catalogapp.ImageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/images [post]
func (h *ProductHandler) AddImages(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	parts := multipartFiles(c, "images")
	if len(parts) == 0 {
		h.HandleError(c, shared.InvalidArgumentf("At least one image is required"))
		return
	}

	var files uploads
	defer files.Close()
	images, err := files.openImages(parts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	added, err := h.productService.AddImages(c.Request.Context(), caller(c), id, images)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, added)
}

// RemoveImage godoc
// @Summary      Remove a product image
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        imageId path string true "Image ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/images/{imageId} [delete]
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.pathUUID(c, "imageId")
	if !ok {
		return
	}

	product, err := h.productService.RemoveImage(c.Request.Context(), caller(c), id, imageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
