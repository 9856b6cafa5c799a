package product

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cafe-ecom/internal/filter"
)

// MemRepo is the catalog used when CATALOG_SOURCE=fixtures and in tests.
type MemRepo struct {
	mu    sync.RWMutex
	items map[string]*Product
	now   func() time.Time
}

func NewMemRepo(seed ...Product) *MemRepo {
	r := &MemRepo{items: make(map[string]*Product, len(seed)), now: time.Now}
	for i := range seed {
		p := seed[i]
		if p.CreatedAt.IsZero() {
			// keep fixture order stable under the newest-first default sort
			p.CreatedAt = time.Unix(0, 0).UTC().Add(time.Duration(len(seed)-i) * time.Second)
			p.UpdatedAt = p.CreatedAt
		}
		r.items[p.ID] = &p
	}
	return r
}

// LoadFixtures reads a JSON array of products, e.g. fixtures/menu.json.
func LoadFixtures(path string) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var out []Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("fixture %q: %w", out[i].ID, err)
		}
	}
	log.Printf("[catalog] %d products loaded from %s", len(out), path)
	return out, nil
}

// Matches reports whether p passes every criterion of st.
func Matches(p Product, st filter.State) bool {
	if q := strings.ToLower(st.Query); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if len(st.Categories) > 0 && !st.HasCategory(p.Category) {
		return false
	}
	price := p.EffectivePrice()
	if price.LessThan(decimal.NewFromInt(int64(st.MinPrice))) {
		return false
	}
	if price.GreaterThan(decimal.NewFromInt(int64(st.MaxPrice))) {
		return false
	}
	return true
}

// Sort orders items by name, then price, then newest first.
func Sort(items []Product, st filter.State) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if st.SortName != filter.SortNone && a.Name != b.Name {
			if st.SortName == filter.SortAsc {
				return a.Name < b.Name
			}
			return a.Name > b.Name
		}
		if st.SortPrice != filter.SortNone {
			pa, pb := a.EffectivePrice(), b.EffectivePrice()
			if !pa.Equal(pb) {
				if st.SortPrice == filter.SortAsc {
					return pa.LessThan(pb)
				}
				return pa.GreaterThan(pb)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *MemRepo) Create(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; ok {
		return fmt.Errorf("product %s already exists", p.ID)
	}
	p.CreatedAt = r.now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *MemRepo) GetByID(_ context.Context, id string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemRepo) List(_ context.Context, q Query) ([]Product, int, error) {
	r.mu.RLock()
	matched := make([]Product, 0, len(r.items))
	for _, p := range r.items {
		if Matches(*p, q.Filter) {
			matched = append(matched, *p)
		}
	}
	r.mu.RUnlock()

	Sort(matched, q.Filter)
	start, end := q.Page.Slice(len(matched))
	return matched[start:end], len(matched), nil
}

func (r *MemRepo) Update(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = r.now().UTC()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *MemRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *MemRepo) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range r.items {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}
