package handler

import (
	identityapp "github.com/catalogue/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes the read-only user directory
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]identityapp.UserDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.ListUsersFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.userService.List(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	SuccessPage(c, page)
}

// GetByID godoc
// @Summary      Get user
// @Description  Admins may read any user; other callers only themselves
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
