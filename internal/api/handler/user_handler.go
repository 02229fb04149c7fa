package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page     query     int     false  "Zero-based page"  default(0)
// @Param        size     query     int     false  "Page size"        default(10)
// @Param        sortBy   query     string  false  "id, username or createdAt"  default(id)
// @Param        sortDir  query     string  false  "asc or desc"      default(asc)
// @Success      200      {object}  listResponse[domain.User]
// @Failure      400      {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := pageRequest(c, "id", false)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(users))
}

// Get returns a single user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Search finds users whose username contains keyword.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Param        keyword  query     string  true   "Keyword"
// @Param        page     query     int     false  "Zero-based page"
// @Param        size     query     int     false  "Page size"
// @Success      200      {object}  listResponse[domain.User]
// @Failure      400      {object}  errorResponse
// @Router       /api/v1/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	page, err := pageRequest(c, "username", false)
	if err != nil {
		return err
	}
	users, err := h.service.Search(c.Request().Context(), c.QueryParam("keyword"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(users))
}

// ListByRole returns users holding a role.
//
// @Summary      Users by role
// @Tags         users
// @Produce      json
// @Param        role  path      string  true  "USER or ADMIN"
// @Success      200   {object}  listResponse[domain.User]
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/users/role/{role} [get]
func (h *UserHandler) ListByRole(c echo.Context) error {
	page, err := pageRequest(c, "username", false)
	if err != nil {
		return err
	}
	users, err := h.service.ListByRole(c.Request().Context(), c.Param("role"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(users))
}

// Delete removes a user account.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
