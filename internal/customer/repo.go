package customer

import (
	"context"
	"errors"
	"time"

	"github.com/tiendalabs/tienda-api/internal/db"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrAlreadyExist = errors.New("customer already exists")
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	List(ctx context.Context, limit, offset int) ([]Customer, error)
	Update(ctx context.Context, c *Customer, updatePassword bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db db.Querier }

func NewPGRepo(q db.Querier) *PGRepo { return &PGRepo{db: q} }

func (r *PGRepo) Create(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, email, phone, password_hash, external_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
	`, c.ID, c.Name, c.Email, c.Phone, c.PasswordHash, c.ExternalID)
	if err != nil {
		// UNIQUE on email
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, external_id, created_at, updated_at
		FROM customers WHERE id=$1
	`, id)
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PasswordHash, &c.ExternalID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, phone, password_hash, external_id, created_at, updated_at
		FROM customers WHERE email=$1
	`, email)
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PasswordHash, &c.ExternalID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, password_hash, external_id, created_at, updated_at
		FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PasswordHash, &c.ExternalID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, c *Customer, updatePassword bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePassword {
		_, err := r.db.Exec(ctx, `
			UPDATE customers
			SET name  = COALESCE(NULLIF($2, ''), name),
			    email = COALESCE(NULLIF($3, ''), email),
			    phone = COALESCE(NULLIF($4, ''), phone),
			    password_hash = $5,
			    updated_at = NOW()
			WHERE id = $1
		`, c.ID, c.Name, c.Email, c.Phone, c.PasswordHash)
		return err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name  = COALESCE(NULLIF($2, ''), name),
		    email = COALESCE(NULLIF($3, ''), email),
		    phone = COALESCE(NULLIF($4, ''), phone),
		    updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// DisplayName is used by the post-commit notifier; it degrades to the id when
// the customer cannot be read.
func (r *PGRepo) DisplayName(ctx context.Context, id string) (string, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}
