package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

const defaultCustomRetentionDays = 30

// AdminHandler exposes the retention cleanup operations to administrators.
type AdminHandler struct {
	retention ports.RetentionService
}

func NewAdminHandler(retention ports.RetentionService) *AdminHandler {
	return &AdminHandler{retention: retention}
}

// Cleanup purges posts soft-deleted longer than the configured retention.
//
// @Summary      Run retention cleanup
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cleanupResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/admin/cleanup/posts [post]
func (h *AdminHandler) Cleanup(c echo.Context) error {
	res, err := h.retention.Run(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCleanupResponse(res))
}

// CleanupCustom purges with a caller-supplied retention window.
//
// @Summary      Run retention cleanup with custom window
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Retention in days"  default(30)
// @Success      200   {object}  cleanupResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/admin/cleanup/posts/custom [post]
func (h *AdminHandler) CleanupCustom(c echo.Context) error {
	days, err := intQuery(c, "days", defaultCustomRetentionDays)
	if err != nil {
		return err
	}
	res, err := h.retention.RunWithRetention(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCleanupResponse(res))
}

// Stats reports what the next cleanup would purge. Read-only.
//
// @Summary      Retention cleanup statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cleanupStatsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/admin/cleanup/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.retention.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cleanupStatsResponse{
		PostsToDelete:    stats.PostsToDelete,
		CommentsToDelete: stats.CommentsToDelete,
		RetentionDays:    stats.RetentionDays,
		Threshold:        stats.Threshold,
	})
}

func newCleanupResponse(res *ports.RetentionResult) cleanupResponse {
	return cleanupResponse{
		Message:         fmt.Sprintf("purged %d posts and %d comments", res.PostsPurged, res.CommentsPurged),
		PostsDeleted:    res.PostsPurged,
		CommentsDeleted: res.CommentsPurged,
		RetentionDays:   res.RetentionDays,
		Threshold:       res.Threshold,
		DurationMs:      res.Duration.Milliseconds(),
	}
}
