package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/catalogue/backend/internal/interfaces/http/dto"
	"github.com/catalogue/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID returns the id assigned by the RequestID middleware
func getRequestID(c *gin.Context) string {
	return c.GetString(logger.GinRequestIDKey)
}

// caller returns the identity attached by the auth middleware. Anonymous
// requests get the zero Identity, which services reject.
func caller(c *gin.Context) shared.Identity {
	identity, _ := middleware.GetIdentity(c)
	return identity
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessPage sends a page of items with pagination meta
func SuccessPage[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(page.Items, page.Total, page.Page, page.PageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts an error into the standard error response. Domain
// errors keep their code, message and details; anything else becomes a
// generic 500 and is logged.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
		return
	}

	if cause := errors.Unwrap(domainErr); cause != nil {
		logger.GetGinLogger(c).Warn("Request failed",
			zap.String("code", domainErr.Code),
			zap.Error(cause),
		)
	}

	resp := dto.NewErrorResponse(domainErr.Code, domainErr.Message, getRequestID(c))
	resp.Error.Details = domainErr.Details
	c.JSON(dto.GetHTTPStatus(domainErr.Code), resp)
}

// CreatedOrPartial answers 201 with data, or 207 with data and the error
// when the primary effect was persisted but a secondary effect failed.
func (h *BaseHandler) CreatedOrPartial(c *gin.Context, data any, err error) {
	if err == nil {
		h.Created(c, data)
		return
	}

	var domainErr *shared.DomainError
	if data == nil || !errors.As(err, &domainErr) || domainErr.Code != shared.CodeInconsistency {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Warn("Request partially applied", zap.Error(err))
	c.JSON(http.StatusMultiStatus, dto.NewPartialResponse(
		data, domainErr.Code, domainErr.Message, getRequestID(c), domainErr.Details,
	))
}

// bindJSON binds the request body and answers 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters and answers 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// pathUUID parses a UUID path parameter and answers 400 when malformed
func (h *BaseHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidArgument, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// uploads tracks multipart files opened for one request
type uploads struct {
	closers []io.Closer
}

// open turns a multipart part into an asset.File. The caller must Close the
// uploads once the service returns.
func (u *uploads) open(fh *multipart.FileHeader) (asset.File, error) {
	f, err := fh.Open()
	if err != nil {
		return asset.File{}, err
	}
	u.closers = append(u.closers, f)
	return asset.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, nil
}

// openImage opens fh after checking it declares an image content type
func (u *uploads) openImage(fh *multipart.FileHeader) (asset.File, error) {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return asset.File{}, shared.InvalidArgumentf("File %q is not an image", fh.Filename)
	}
	return u.open(fh)
}

// openImages opens every part in fhs as an image
func (u *uploads) openImages(fhs []*multipart.FileHeader) ([]asset.File, error) {
	files := make([]asset.File, 0, len(fhs))
	for _, fh := range fhs {
		f, err := u.openImage(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Close releases every opened part
func (u *uploads) Close() {
	for _, c := range u.closers {
		_ = c.Close()
	}
}

// multipartFiles returns the parts uploaded under field, or nil
func multipartFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// multipartFile returns the single part uploaded under field, or nil
func multipartFile(c *gin.Context, field string) *multipart.FileHeader {
	files := multipartFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
