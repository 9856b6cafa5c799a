package filter

import "net/url"

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// Page is 1-based pagination over a list.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func PageFrom(v url.Values) Page {
	p := Page{
		Page:  intParam(v, "page", 1),
		Limit: intParam(v, "limit", DefaultLimit),
	}
	return p.normalize()
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	p = p.normalize()
	return (p.Page - 1) * p.Limit
}

func (p Page) TotalPages(total int) int {
	p = p.normalize()
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// Meta is the pagination block list responses carry.
// swagger:model PageMeta
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func (p Page) Meta(total int) Meta {
	p = p.normalize()
	return Meta{Page: p.Page, Limit: p.Limit, TotalItems: total, TotalPages: p.TotalPages(total)}
}

// Slice returns the [start, end) window of a list of n items.
func (p Page) Slice(n int) (start, end int) {
	start = p.Offset()
	if start > n {
		start = n
	}
	end = start + p.normalize().Limit
	if end > n {
		end = n
	}
	return start, end
}
