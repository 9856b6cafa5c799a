package filter

import (
	"net/url"
	"testing"
)

func TestPageFrom(t *testing.T) {
	cases := []struct {
		query string
		want  Page
	}{
		{"", Page{1, DefaultLimit}},
		{"page=3&limit=5", Page{3, 5}},
		{"page=0&limit=-2", Page{1, DefaultLimit}},
		{"page=x&limit=500", Page{1, MaxLimit}},
	}
	for _, tc := range cases {
		v, _ := url.ParseQuery(tc.query)
		if got := PageFrom(v); got != tc.want {
			t.Errorf("%q: got %+v want %+v", tc.query, got, tc.want)
		}
	}
}

func TestPageArithmetic(t *testing.T) {
	p := Page{Page: 3, Limit: 5}
	if p.Offset() != 10 {
		t.Fatalf("offset=%d", p.Offset())
	}
	for total, want := range map[int]int{0: 0, 1: 1, 5: 1, 6: 2, 23: 5} {
		if got := p.TotalPages(total); got != want {
			t.Errorf("TotalPages(%d)=%d want %d", total, got, want)
		}
	}
	m := p.Meta(23)
	if m.TotalItems != 23 || m.TotalPages != 5 || m.Page != 3 {
		t.Fatalf("meta=%+v", m)
	}
}

func TestPageSlice(t *testing.T) {
	p := Page{Page: 2, Limit: 4}
	if s, e := p.Slice(10); s != 4 || e != 8 {
		t.Fatalf("slice=%d..%d", s, e)
	}
	if s, e := p.Slice(6); s != 4 || e != 6 {
		t.Fatalf("slice=%d..%d", s, e)
	}
	if s, e := p.Slice(3); s != 3 || e != 3 {
		t.Fatalf("slice=%d..%d", s, e)
	}
}
