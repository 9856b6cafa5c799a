// Package product provides the catalog repository: a PostgreSQL
// implementation and an in-memory one seeded from the menu fixtures.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cafe-ecom/internal/filter"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidProduct = errors.New("name and category are required")
	ErrInvalidPrice   = errors.New("invalid price")
	ErrInvalidStock   = errors.New("stock must be >= 0")
)

type Query struct {
	Filter filter.State
	Page   filter.Page
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	// List returns one page of matches and the total number of matches.
	List(ctx context.Context, q Query) ([]Product, int, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

const Schema = `
CREATE TABLE IF NOT EXISTS products (
  id             TEXT PRIMARY KEY,
  name           TEXT NOT NULL,
  description    TEXT NOT NULL DEFAULT '',
  image          TEXT NOT NULL DEFAULT '',
  category       TEXT NOT NULL,
  price          NUMERIC(12,2) NOT NULL,
  discount_price NUMERIC(12,2),
  is_flash_sale  BOOLEAN NOT NULL DEFAULT FALSE,
  sizes          TEXT[] NOT NULL DEFAULT '{}',
  temperatures   TEXT[] NOT NULL DEFAULT '{}',
  stock          INT NOT NULL DEFAULT 0,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const productColumns = `id, name, description, image, category, price::text, discount_price::text,
	is_flash_sale, sizes, temperatures, stock, created_at, updated_at`

// effective price, LEAST skips NULL
const effectivePrice = `LEAST(discount_price, price)`

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.db.Exec(ctx, Schema)
	return err
}

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p             Product
		price         string
		discountPrice *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Category, &price, &discountPrice,
		&p.IsFlashSale, &p.Sizes, &p.Temperatures, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("price of %s: %w", p.ID, err)
	}
	if discountPrice != nil {
		d, err := decimal.NewFromString(*discountPrice)
		if err != nil {
			return nil, fmt.Errorf("discount price of %s: %w", p.ID, err)
		}
		p.DiscountPrice = &d
	}
	return &p, nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO products (id, name, description, image, category, price, discount_price,
		                      is_flash_sale, sizes, temperatures, stock, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Image, p.Category, p.Price.String(), nullableDecimal(p.DiscountPrice),
		p.IsFlashSale, p.Sizes, p.Temperatures, p.Stock).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
}

// where renders the filter as a WHERE clause with positional args.
func where(st filter.State) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if q := st.Query; q != "" {
		p := arg(q)
		conds = append(conds, fmt.Sprintf("(name ILIKE '%%'||%s||'%%' OR description ILIKE '%%'||%s||'%%')", p, p))
	}
	if len(st.Categories) > 0 {
		conds = append(conds, "category = ANY("+arg(st.Categories)+")")
	}
	conds = append(conds, effectivePrice+" >= "+arg(st.MinPrice))
	conds = append(conds, effectivePrice+" <= "+arg(st.MaxPrice))
	return "WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(st filter.State) string {
	var keys []string
	if st.SortName != filter.SortNone {
		keys = append(keys, "name "+strings.ToUpper(string(st.SortName)))
	}
	if st.SortPrice != filter.SortNone {
		keys = append(keys, effectivePrice+" "+strings.ToUpper(string(st.SortPrice)))
	}
	keys = append(keys, "created_at DESC", "id")
	return "ORDER BY " + strings.Join(keys, ", ")
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cond, args := where(q.Filter)
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	args = append(args, q.Page.Meta(total).Limit, q.Page.Offset())
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM products %s %s
		LIMIT $%d OFFSET $%d
	`, productColumns, cond, orderBy(q.Filter), n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, image = $4, category = $5, price = $6,
		    discount_price = $7, is_flash_sale = $8, sizes = $9, temperatures = $10,
		    stock = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, p.ID, p.Name, p.Description, p.Image, p.Category, p.Price.String(), nullableDecimal(p.DiscountPrice),
		p.IsFlashSale, p.Sizes, p.Temperatures, p.Stock).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
