package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

func TestPageRequest(t *testing.T) {
	e := newEcho()

	tests := []struct {
		query string
		want  domain.PageRequest
	}{
		{"", domain.PageRequest{Page: 0, Size: 10, SortBy: "createdAt", Desc: true}},
		{"page=2&size=5&sortBy=title&sortDir=asc", domain.PageRequest{Page: 2, Size: 5, SortBy: "title", Desc: false}},
		{"sortDir=DESC&sortBy=id", domain.PageRequest{Page: 0, Size: 10, SortBy: "id", Desc: true}},
		{"sortDir=sideways", domain.PageRequest{Page: 0, Size: 10, SortBy: "createdAt", Desc: true}},
	}

	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil), httptest.NewRecorder())
		got, err := pageRequest(c, "createdAt", true)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.query, err)
		}
		if got != tt.want {
			t.Fatalf("%q: got %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestPageRequest_MalformedNumber(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?size=ten", nil), httptest.NewRecorder())
	if _, err := pageRequest(c, "id", false); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
