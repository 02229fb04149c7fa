package domain

import (
	"fmt"
	"slices"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest describes a zero-based page of a sorted listing.
type PageRequest struct {
	Page   int
	Size   int
	SortBy string
	Desc   bool
}

// Normalize clamps page and size and replaces SortBy with fallback when it is
// not one of the allowed fields.
func (p PageRequest) Normalize(allowed []string, fallback string) PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if !slices.Contains(allowed, p.SortBy) {
		p.SortBy = fallback
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Key renders the request as a stable cache key fragment.
func (p PageRequest) Key() string {
	dir := "asc"
	if p.Desc {
		dir = "desc"
	}
	return fmt.Sprintf("p=%d:s=%d:o=%s:%s", p.Page, p.Size, p.SortBy, dir)
}

// Page is one page of a listing plus navigation metadata.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	Size        int   `json:"size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPage assembles a Page from a slice of results and the total row count.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Items:       items,
		Page:        req.Page,
		Size:        req.Size,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     req.Page+1 < totalPages,
		HasPrevious: req.Page > 0,
	}
}
