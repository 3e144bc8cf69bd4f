package handler

import (
	contentapp "github.com/catalogue/backend/internal/application/content"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ContentHandler handles site content: social links, banners and terms
type ContentHandler struct {
	BaseHandler
	contentService *contentapp.Service
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *contentapp.Service) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// CreateSocialLink godoc
// @Summary      Add a social link
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body contentapp.CreateSocialLinkRequest true "Link"
// @Success      201 {object} APIResponse[contentapp.SocialLinkResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/social-links [post]
func (h *ContentHandler) CreateSocialLink(c *gin.Context) {
	var req contentapp.CreateSocialLinkRequest
	if !h.bindJSON(c, &req) {
		return
	}

	link, err := h.contentService.CreateSocialLink(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, link)
}

// ListSocialLinks godoc
// @Summary      List social links
// @Tags         content
// @Produce      json
// @Success      200 {object} APIResponse[[]contentapp.SocialLinkResponse]
// @Router       /content/social-links [get]
func (h *ContentHandler) ListSocialLinks(c *gin.Context) {
	links, err := h.contentService.ListSocialLinks(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, links)
}

// UpdateSocialLink godoc
// @Summary      Change a social link target
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        id path string true "Link ID" format(uuid)
// @Param        request body contentapp.UpdateSocialLinkRequest true "New URL"
// @Success      200 {object} APIResponse[contentapp.SocialLinkResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/social-links/{id} [put]
func (h *ContentHandler) UpdateSocialLink(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req contentapp.UpdateSocialLinkRequest
	if !h.bindJSON(c, &req) {
		return
	}

	link, err := h.contentService.UpdateSocialLink(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, link)
}

// DeleteSocialLink godoc
// @Summary      Delete a social link
// @Tags         content
// @Param        id path string true "Link ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/social-links/{id} [delete]
func (h *ContentHandler) DeleteSocialLink(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteSocialLink(c.Request.Context(), caller(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateBanner godoc
// @Summary      Publish a banner
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Param        title formData string false "Title"
// @Param        image formData file true "Banner image"
// @Success      201 {object} APIResponse[contentapp.BannerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/banners [post]
func (h *ContentHandler) CreateBanner(c *gin.Context) {
	var req contentapp.CreateBannerRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	fh := multipartFile(c, "image")
	if fh == nil {
		h.HandleError(c, shared.InvalidArgumentf("Banner image is required"))
		return
	}

	var files uploads
	defer files.Close()
	image, err := files.openImage(fh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req.Image = image

	banner, err := h.contentService.CreateBanner(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, banner)
}

// ListBanners godoc
// @Summary      List banners
// @Tags         content
// @Produce      json
// @Success      200 {object} APIResponse[[]contentapp.BannerResponse]
// @Router       /content/banners [get]
func (h *ContentHandler) ListBanners(c *gin.Context) {
	banners, err := h.contentService.ListBanners(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, banners)
}

// DeleteBanner godoc
// @Summary      Delete a banner
// @Tags         content
// @Param        id path string true "Banner ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/banners/{id} [delete]
func (h *ContentHandler) DeleteBanner(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteBanner(c.Request.Context(), caller(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetTerms godoc
// @Summary      Get terms
// @Tags         content
// @Produce      json
// @Success      200 {object} APIResponse[contentapp.TermsResponse]
// @Router       /content/terms [get]
func (h *ContentHandler) GetTerms(c *gin.Context) {
	terms, err := h.contentService.GetTerms(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, terms)
}

// SaveTerms godoc
// @Summary      Replace terms
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body contentapp.SaveTermsRequest true "Terms document"
// @Success      200 {object} APIResponse[contentapp.TermsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/terms [put]
func (h *ContentHandler) SaveTerms(c *gin.Context) {
	var req contentapp.SaveTermsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	terms, err := h.contentService.SaveTerms(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, terms)
}
