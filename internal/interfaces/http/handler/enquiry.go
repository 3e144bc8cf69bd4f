package handler

import (
	enquiryapp "github.com/catalogue/backend/internal/application/enquiry"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader deduplicates enquiry submissions
const IdempotencyKeyHeader = "Idempotency-Key"

// EnquiryHandler handles enquiry endpoints
type EnquiryHandler struct {
	BaseHandler
	enquiryService *enquiryapp.Service
}

// NewEnquiryHandler creates a new EnquiryHandler
func NewEnquiryHandler(enquiryService *enquiryapp.Service) *EnquiryHandler {
	return &EnquiryHandler{enquiryService: enquiryService}
}

// Create godoc
// @Summary      Submit an enquiry
// @Description  Submit an enquiry for the listed products and clear the caller's cart.
// @Description  A 207 response means the enquiry was stored but the cart could not be cleared.
// @Tags         enquiries
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Deduplication key"
// @Param        request body enquiryapp.CreateEnquiryRequest true "Enquiry"
// @Success      201 {object} APIResponse[enquiryapp.EnquiryResponse]
// @Success      207 {object} PartialResponse[enquiryapp.EnquiryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enquiries [post]
func (h *EnquiryHandler) Create(c *gin.Context) {
	var req enquiryapp.CreateEnquiryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.enquiryService.Create(c.Request.Context(), caller(c), req, c.GetHeader(IdempotencyKeyHeader))
	if resp == nil {
		h.HandleError(c, err)
		return
	}

	h.CreatedOrPartial(c, resp, err)
}

// List godoc
// @Summary      List enquiries
// @Description  List enquiries with requester details, newest first
// @Tags         enquiries
// @Produce      json
// @Param        from query string false "Created on or after (YYYY-MM-DD)"
// @Param        to query string false "Created on or before (YYYY-MM-DD, inclusive)"
// @Param        city query string false "Requester city"
// @Param        name query string false "Requester name"
// @Param        status query string false "Status" Enums(yet_to_contact, dnd, confirming_order, order_confirmed)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]enquiryapp.EnquiryViewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enquiries [get]
func (h *EnquiryHandler) List(c *gin.Context) {
	var filter enquiryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.enquiryService.List(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	SuccessPage(c, page)
}

// UpdateStatus godoc
// @Summary      Change enquiry status
// @Tags         enquiries
// @Accept       json
// @Produce      json
// @Param        id path string true "Enquiry ID" format(uuid)
// @Param        request body enquiryapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[enquiryapp.EnquiryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enquiries/{id}/status [put]
func (h *EnquiryHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req enquiryapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.enquiryService.UpdateStatus(c.Request.Context(), caller(c), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
