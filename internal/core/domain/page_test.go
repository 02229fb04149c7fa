package domain

import "testing"

func TestPageRequest_Normalize(t *testing.T) {
	allowed := []string{"createdAt", "title"}

	got := PageRequest{Page: -1, Size: 0, SortBy: "password"}.Normalize(allowed, "createdAt")
	want := PageRequest{Page: 0, Size: DefaultPageSize, SortBy: "createdAt"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	got = PageRequest{Page: 3, Size: 500, SortBy: "title", Desc: true}.Normalize(allowed, "createdAt")
	if got.Size != MaxPageSize || got.SortBy != "title" || !got.Desc || got.Offset() != 300 {
		t.Fatalf("unexpected normalized request %+v", got)
	}
}

func TestPageRequest_Key(t *testing.T) {
	a := PageRequest{Page: 1, Size: 10, SortBy: "title"}
	b := PageRequest{Page: 1, Size: 10, SortBy: "title", Desc: true}
	if a.Key() == b.Key() {
		t.Fatalf("sort direction must be part of the key")
	}
	if a.Key() != "p=1:s=10:o=title:asc" {
		t.Fatalf("unexpected key %q", a.Key())
	}
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 1, Size: 10}
	p := NewPage([]int{1, 2, 3}, req, 23)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrevious {
		t.Fatalf("unexpected page metadata %+v", p)
	}

	last := NewPage[int](nil, PageRequest{Page: 2, Size: 10}, 23)
	if last.HasNext || last.Items == nil {
		t.Fatalf("last page: %+v", last)
	}

	empty := NewPage[int](nil, PageRequest{Page: 0, Size: 10}, 0)
	if empty.TotalPages != 0 || empty.HasNext || empty.HasPrevious {
		t.Fatalf("empty page: %+v", empty)
	}
}
