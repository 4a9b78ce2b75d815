// Package product provides the repository interface and PostgreSQL implementation
// for managing catalog products. Stock mutations during order placement go
// through the inventory ledger, not this repository.
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tiendalabs/tienda-api/internal/db"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Query struct {
	Q          string
	CategoryID string
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Update(ctx context.Context, p *Product, updatePrice, updateStock bool) error
	Deactivate(ctx context.Context, id string) (bool, error)
	AppendImage(ctx context.Context, id, ref string) error
}

type PGRepo struct{ db db.Querier }

func NewPGRepo(q db.Querier) *PGRepo { return &PGRepo{db: q} }

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products
			(id, name, description, price, stock, active, category_id, owner_admin_id,
			 material, capacity, features, image_refs, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,TRUE,$6,$7,$8,$9,$10,$11,NOW(),NOW())
	`, p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.OwnerAdminID,
		p.Material, p.Capacity, p.Features, p.ImageRefs)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, price::text, stock, active, category_id, owner_admin_id,
		       material, capacity, features, image_refs, created_at, updated_at
		FROM products WHERE id=$1 AND active
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Active,
		&p.CategoryID, &p.OwnerAdminID, &p.Material, &p.Capacity, &p.Features,
		&p.ImageRefs, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, price::text, stock, active, category_id, owner_admin_id,
		       material, capacity, features, image_refs, created_at, updated_at
		FROM products
		WHERE active
		  AND ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category_id::text = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, search, q.CategoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Active,
			&p.CategoryID, &p.OwnerAdminID, &p.Material, &p.Capacity, &p.Features,
			&p.ImageRefs, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updatePrice, updateStock bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET name        = COALESCE(NULLIF($2,''), name),
		    description = COALESCE(NULLIF($3,''), description),
		    material    = COALESCE(NULLIF($4,''), material),
		    capacity    = COALESCE(NULLIF($5,''), capacity),
		    features    = COALESCE(NULLIF($6,''), features),
		    category_id = COALESCE($7, category_id),
		    price       = CASE WHEN $8 THEN $9::numeric ELSE price END,
		    stock       = CASE WHEN $10 THEN $11 ELSE stock END,
		    updated_at  = NOW()
		WHERE id = $1 AND active
	`, p.ID, p.Name, p.Description, p.Material, p.Capacity, p.Features,
		p.CategoryID, updatePrice, nullIfEmpty(p.Price), updateStock, p.Stock)
	return err
}

func (r *PGRepo) Deactivate(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `
		UPDATE products SET active = FALSE, updated_at = NOW()
		WHERE id=$1 AND active
	`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) AppendImage(ctx context.Context, id, ref string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `
		UPDATE products SET image_refs = array_append(image_refs, $2), updated_at = NOW()
		WHERE id=$1 AND active
	`, id, ref)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
