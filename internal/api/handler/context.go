package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// pageRequest reads page, size, sortBy and sortDir from the query string.
// Unknown sort fields are replaced by the service's default; malformed
// numbers are rejected.
func pageRequest(c echo.Context, defaultSortBy string, defaultDesc bool) (domain.PageRequest, error) {
	page, err := intQuery(c, "page", 0)
	if err != nil {
		return domain.PageRequest{}, err
	}
	size, err := intQuery(c, "size", domain.DefaultPageSize)
	if err != nil {
		return domain.PageRequest{}, err
	}

	sortBy := c.QueryParam("sortBy")
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	desc := defaultDesc
	switch strings.ToLower(c.QueryParam("sortDir")) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}

	return domain.PageRequest{Page: page, Size: size, SortBy: sortBy, Desc: desc}, nil
}

// intQuery parses an optional integer query parameter.
func intQuery(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return v, nil
}

// bindAndValidate decodes the request body into req and runs struct
// validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	return c.Validate(req)
}
