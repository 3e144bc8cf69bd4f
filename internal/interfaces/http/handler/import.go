package handler

import (
	"fmt"
	"net/http"

	importapp "github.com/catalogue/backend/internal/application/import"
	"github.com/catalogue/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ImportHandler handles bulk product import
type ImportHandler struct {
	BaseHandler
	importService *importapp.ProductImportService
	maxFileSize   int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importapp.ProductImportService, maxFileSize int64) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		maxFileSize:   maxFileSize,
	}
}

// ImportProducts godoc
// @Summary      Bulk import products
// @Description  Import products from a .csv or .xlsx sheet with the columns
// @Description  name, description, composition, category, sku, tags.
// @Description  Row failures are reported per row and do not abort the import.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV or XLSX file"
// @Success      200 {object} APIResponse[importapp.ProductImportResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/import [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "File is required")
		return
	}
	defer file.Close()

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge,
			fmt.Sprintf("File exceeds maximum size of %d bytes", h.maxFileSize))
		return
	}

	result, err := h.importService.Import(c.Request.Context(), caller(c), header.Filename, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
