package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

// PostHandler handles HTTP requests for posts and their lifecycle.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create publishes a post authored by the caller.
//
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.service.Create(c.Request().Context(), ports.CreatePostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// List returns a page of active posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page     query     int     false  "Zero-based page"  default(0)
// @Param        size     query     int     false  "Page size"        default(10)
// @Param        sortBy   query     string  false  "createdAt, updatedAt, title or id"  default(createdAt)
// @Param        sortDir  query     string  false  "asc or desc"      default(desc)
// @Success      200      {object}  listResponse[domain.Post]
// @Router       /api/v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, err := pageRequest(c, "createdAt", true)
	if err != nil {
		return err
	}
	posts, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(posts))
}

// Get returns an active post.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Search finds posts whose title or content contains keyword.
//
// @Summary      Search posts
// @Tags         posts
// @Produce      json
// @Param        keyword  query     string  true   "Keyword"
// @Param        page     query     int     false  "Zero-based page"
// @Param        size     query     int     false  "Page size"
// @Success      200      {object}  listResponse[domain.Post]
// @Failure      400      {object}  errorResponse
// @Router       /api/v1/posts/search [get]
func (h *PostHandler) Search(c echo.Context) error {
	page, err := pageRequest(c, "createdAt", true)
	if err != nil {
		return err
	}
	posts, err := h.service.Search(c.Request().Context(), c.QueryParam("keyword"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(posts))
}

// ListByAuthor returns the active posts of a user.
//
// @Summary      Posts by user
// @Tags         posts
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  listResponse[domain.Post]
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/posts/user/{userId} [get]
func (h *PostHandler) ListByAuthor(c echo.Context) error {
	page, err := pageRequest(c, "createdAt", true)
	if err != nil {
		return err
	}
	posts, err := h.service.ListByAuthor(c.Request().Context(), c.Param("userId"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(posts))
}

// Recent returns posts created in the last days days.
//
// @Summary      Recent posts
// @Tags         posts
// @Produce      json
// @Param        days  query     int  false  "Window in days"  default(7)
// @Success      200   {object}  listResponse[domain.Post]
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/posts/recent [get]
func (h *PostHandler) Recent(c echo.Context) error {
	days, err := intQuery(c, "days", 7)
	if err != nil {
		return err
	}
	page, err := pageRequest(c, "createdAt", true)
	if err != nil {
		return err
	}
	posts, err := h.service.Recent(c.Request().Context(), days, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(posts))
}

// Update edits a post. Owner or admin only.
//
// @Summary      Update post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Post ID"
// @Param        body  body      postRequest  true  "Post"
// @Success      200   {object}  domain.Post
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdatePostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// SoftDelete moves a post to the recoverable deleted state.
//
// @Summary      Soft delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/v1/posts/{id} [delete]
func (h *PostHandler) SoftDelete(c echo.Context) error {
	if err := h.service.SoftDelete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted"})
}

// Restore brings a soft-deleted post back.
//
// @Summary      Restore post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  domain.Post
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/v1/posts/{id}/restore [post]
func (h *PostHandler) Restore(c echo.Context) error {
	post, err := h.service.Restore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// HardDelete permanently removes a post and its comments. Admin only.
//
// @Summary      Permanently delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/posts/{id}/permanent [delete]
func (h *PostHandler) HardDelete(c echo.Context) error {
	if err := h.service.HardDelete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListDeleted returns soft-deleted posts visible to the caller.
//
// @Summary      List deleted posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Post]
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/posts/deleted [get]
func (h *PostHandler) ListDeleted(c echo.Context) error {
	page, err := pageRequest(c, "updatedAt", true)
	if err != nil {
		return err
	}
	posts, err := h.service.ListDeleted(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(posts))
}
