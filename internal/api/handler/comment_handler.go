package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

// CommentHandler handles HTTP requests for comments on posts.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create adds a comment to an active post.
//
// @Summary      Create comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string          true  "Post ID"
// @Param        body    body      commentRequest  true  "Comment"
// @Success      201     {object}  domain.Comment
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.service.Create(c.Request().Context(), c.Param("id"), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListByPost returns the active comments of a post.
//
// @Summary      List comments of a post
// @Tags         comments
// @Produce      json
// @Param        id      path      string  true   "Post ID"
// @Param        page    query     int     false  "Zero-based page"
// @Param        size    query     int     false  "Page size"
// @Success      200     {object}  listResponse[domain.Comment]
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/posts/{id}/comments [get]
func (h *CommentHandler) ListByPost(c echo.Context) error {
	page, err := pageRequest(c, "createdAt", false)
	if err != nil {
		return err
	}
	comments, err := h.service.ListByPost(c.Request().Context(), c.Param("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(comments))
}

// ListByAuthor returns the active comments written by a user.
//
// @Summary      Comments by user
// @Tags         comments
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  listResponse[domain.Comment]
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/comments/user/{userId} [get]
func (h *CommentHandler) ListByAuthor(c echo.Context) error {
	page, err := pageRequest(c, "createdAt", true)
	if err != nil {
		return err
	}
	comments, err := h.service.ListByAuthor(c.Request().Context(), c.Param("userId"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(comments))
}

// Search finds comments containing keyword.
//
// @Summary      Search comments
// @Tags         comments
// @Produce      json
// @Param        keyword  query     string  true  "Keyword"
// @Success      200      {object}  listResponse[domain.Comment]
// @Failure      400      {object}  errorResponse
// @Router       /api/v1/comments/search [get]
func (h *CommentHandler) Search(c echo.Context) error {
	page, err := pageRequest(c, "createdAt", true)
	if err != nil {
		return err
	}
	comments, err := h.service.Search(c.Request().Context(), c.QueryParam("keyword"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(comments))
}

// Update edits a comment. Owner or admin only.
//
// @Summary      Update comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string          true  "Post ID"
// @Param        commentId  path      string          true  "Comment ID"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      200     {object}  domain.Comment
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/posts/{id}/comments/{commentId} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.service.Update(c.Request().Context(), c.Param("id"), c.Param("commentId"), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// SoftDelete moves a comment to the recoverable deleted state.
//
// @Summary      Soft delete comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id         path      string  true  "Post ID"
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200     {object}  messageResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      409     {object}  errorResponse
// @Router       /api/v1/posts/{id}/comments/{commentId} [delete]
func (h *CommentHandler) SoftDelete(c echo.Context) error {
	if err := h.service.SoftDelete(c.Request().Context(), c.Param("id"), c.Param("commentId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "comment deleted"})
}

// Restore brings a soft-deleted comment back.
//
// @Summary      Restore comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "Post ID"
// @Param        commentId  path      string  true  "Comment ID"
// @Success      200     {object}  domain.Comment
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      409     {object}  errorResponse
// @Router       /api/v1/posts/{id}/comments/{commentId}/restore [post]
func (h *CommentHandler) Restore(c echo.Context) error {
	comment, err := h.service.Restore(c.Request().Context(), c.Param("id"), c.Param("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}
