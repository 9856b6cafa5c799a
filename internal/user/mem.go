package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemRepo keeps users in memory. The user service falls back to it when
// STORAGE_DRIVER=memory.
type MemRepo struct {
	mu    sync.RWMutex
	byID  map[string]*User
	clock func() time.Time
}

func NewMemRepo() *MemRepo {
	return &MemRepo{byID: map[string]*User{}, clock: time.Now}
}

func (r *MemRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.byID {
		if u.ID != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *MemRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	if _, ok := r.byID[u.ID]; ok || r.emailTaken(u.Email, "") {
		return ErrAlreadyExist
	}
	u.CreatedAt = r.clock().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *MemRepo) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemRepo) List(_ context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if offset >= len(out) {
		return []User{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// Update mirrors PGRepo.Update: empty fields keep their value.
func (r *MemRepo) Update(_ context.Context, u *User, updatePassword bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	email := strings.ToLower(u.Email)
	if email != "" && r.emailTaken(email, u.ID) {
		return ErrAlreadyExist
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cur.FullName, u.FullName)
	set(&cur.Email, email)
	set(&cur.Phone, u.Phone)
	set(&cur.Address, u.Address)
	set(&cur.Role, u.Role)
	if updatePassword {
		cur.PasswordHash = u.PasswordHash
	}
	cur.UpdatedAt = r.clock().UTC()
	return nil
}

func (r *MemRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}
