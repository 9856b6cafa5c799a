package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	Update(ctx context.Context, u *User, updatePassword bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

const Schema = `
CREATE TABLE IF NOT EXISTS users (
  id            TEXT PRIMARY KEY,
  full_name     TEXT NOT NULL,
  email         TEXT NOT NULL UNIQUE,
  phone         TEXT NOT NULL DEFAULT '',
  address       TEXT NOT NULL DEFAULT '',
  role          TEXT NOT NULL DEFAULT 'customer',
  password_hash TEXT NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const userColumns = `id, full_name, email, phone, address, role, password_hash, created_at, updated_at`

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Migrate creates the users table when missing.
func (r *PGRepo) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.db.Exec(ctx, Schema)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Address, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, full_name, email, phone, address, role, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
		RETURNING created_at, updated_at
	`, u.ID, u.FullName, strings.ToLower(u.Email), u.Phone, u.Address, u.Role, u.PasswordHash).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExist
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, strings.ToLower(email)))
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, u *User, updatePassword bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		tag pgconn.CommandTag
		err error
	)
	if updatePassword {
		tag, err = r.db.Exec(ctx, `
			UPDATE users
			SET full_name = COALESCE(NULLIF($2, ''), full_name),
			    email     = COALESCE(NULLIF($3, ''), email),
			    phone     = COALESCE(NULLIF($4, ''), phone),
			    address   = COALESCE(NULLIF($5, ''), address),
			    role      = COALESCE(NULLIF($6, ''), role),
			    password_hash = $7,
			    updated_at = NOW()
			WHERE id = $1
		`, u.ID, u.FullName, strings.ToLower(u.Email), u.Phone, u.Address, u.Role, u.PasswordHash)
	} else {
		tag, err = r.db.Exec(ctx, `
			UPDATE users
			SET full_name = COALESCE(NULLIF($2, ''), full_name),
			    email     = COALESCE(NULLIF($3, ''), email),
			    phone     = COALESCE(NULLIF($4, ''), phone),
			    address   = COALESCE(NULLIF($5, ''), address),
			    role      = COALESCE(NULLIF($6, ''), role),
			    updated_at = NOW()
			WHERE id = $1
		`, u.ID, u.FullName, strings.ToLower(u.Email), u.Phone, u.Address, u.Role)
	}
	if isUniqueViolation(err) {
		return ErrAlreadyExist
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
