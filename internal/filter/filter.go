// Package filter maps the catalog filter state to and from URL query
// parameters, and holds the pagination arithmetic the list endpoints use.
package filter

import (
	"net/url"
	"strconv"
	"strings"
)

type SortDir string

const (
	SortNone SortDir = ""
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

func parseSort(s string) SortDir {
	switch SortDir(s) {
	case SortAsc, SortDesc:
		return SortDir(s)
	}
	return SortNone
}

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 1_000_000
)

// Query parameter names.
const (
	ParamQuery     = "q"
	ParamCategory  = "cat"
	ParamSortName  = "sort[name]"
	ParamSortPrice = "sort[price]"
	ParamMinPrice  = "minprice"
	ParamMaxPrice  = "maxprice"
)

// State is the structured filter behind a product list URL.
type State struct {
	Query      string   `json:"q"`
	Categories []string `json:"cat,omitempty"`
	SortName   SortDir  `json:"sortName,omitempty"`
	SortPrice  SortDir  `json:"sortPrice,omitempty"`
	MinPrice   int      `json:"minPrice"`
	MaxPrice   int      `json:"maxPrice"`
}

func Default() State {
	return State{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice}
}

func intParam(v url.Values, name string, def int) int {
	s := v.Get(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Decode reads a State from query parameters. Missing or malformed values
// fall back to their defaults.
func Decode(v url.Values) State {
	st := Default()
	st.Query = strings.TrimSpace(v.Get(ParamQuery))
	seen := map[string]bool{}
	for _, c := range v[ParamCategory] {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		st.Categories = append(st.Categories, c)
	}
	st.SortName = parseSort(v.Get(ParamSortName))
	st.SortPrice = parseSort(v.Get(ParamSortPrice))
	st.MinPrice = intParam(v, ParamMinPrice, DefaultMinPrice)
	st.MaxPrice = intParam(v, ParamMaxPrice, DefaultMaxPrice)
	return st
}

// Encode is the inverse of Decode. Parameters equal to their default are
// left out, so Default() encodes to an empty set.
func Encode(st State) url.Values {
	v := url.Values{}
	if st.Query != "" {
		v.Set(ParamQuery, st.Query)
	}
	for _, c := range st.Categories {
		v.Add(ParamCategory, c)
	}
	if st.SortName != SortNone {
		v.Set(ParamSortName, string(st.SortName))
	}
	if st.SortPrice != SortNone {
		v.Set(ParamSortPrice, string(st.SortPrice))
	}
	if st.MinPrice != DefaultMinPrice {
		v.Set(ParamMinPrice, strconv.Itoa(st.MinPrice))
	}
	if st.MaxPrice != DefaultMaxPrice {
		v.Set(ParamMaxPrice, strconv.Itoa(st.MaxPrice))
	}
	return v
}

// ToggleSortName selects dir, or clears the name sort when dir is already
// selected.
func (st State) ToggleSortName(dir SortDir) State {
	st.SortName = toggle(st.SortName, dir)
	return st
}

func (st State) ToggleSortPrice(dir SortDir) State {
	st.SortPrice = toggle(st.SortPrice, dir)
	return st
}

func toggle(cur, dir SortDir) SortDir {
	if cur == dir {
		return SortNone
	}
	return dir
}

// ToggleCategory flips membership of c.
func (st State) ToggleCategory(c string) State {
	out := make([]string, 0, len(st.Categories)+1)
	found := false
	for _, x := range st.Categories {
		if x == c {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, c)
	}
	if len(out) == 0 {
		out = nil
	}
	st.Categories = out
	return st
}

func (st State) HasCategory(c string) bool {
	for _, x := range st.Categories {
		if x == c {
			return true
		}
	}
	return false
}
