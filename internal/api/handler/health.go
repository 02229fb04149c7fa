package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the GET /health liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Check is a named dependency probe. Only a failing Critical check makes the
// service unready; other failures are reported as degraded.
type Check struct {
	Name     string
	Ping     func(ctx context.Context) error
	Critical bool
}

// HealthDependenciesHandler serves the GET /health/ready readiness probe.
// Runs every registered check before declaring the service ready.
type HealthDependenciesHandler struct {
	checks []Check
}

func NewHealthDependenciesHandler(checks ...Check) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings every dependency. It answers 503 only when a critical
// dependency is down.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	ready, degraded := true, false

	for _, check := range h.checks {
		err := check.Ping(ctx)
		switch {
		case err == nil:
			deps[check.Name] = dependencyStatus{Status: "ok"}
		case check.Critical:
			deps[check.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			ready = false
		default:
			deps[check.Name] = dependencyStatus{Status: "degraded", Error: err.Error()}
			degraded = true
		}
	}

	resp := readinessResponse{Status: "ok", Dependencies: deps}
	switch {
	case !ready:
		resp.Status = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, resp)
	case degraded:
		resp.Status = "degraded"
	}
	return c.JSON(http.StatusOK, resp)
}
