package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tiendalabs/tienda-api/internal/db"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrConcurrentUpdate: the order changed between the status read and the
	// guarded write.
	ErrConcurrentUpdate = errors.New("order was modified concurrently")
)

// ErrInvalidTransition rejects a status change the transition table forbids.
type ErrInvalidTransition struct {
	From, To Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

type ListQuery struct {
	Page   int
	Limit  int
	Status string // exact match when non-empty
}

// Repository is the order read model plus admin-side mutations. Creation goes
// through the Coordinator only.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Order, int, error)
	GetByID(ctx context.Context, id string) (*Detail, error)
	Update(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error)
	UpdateStatus(ctx context.Context, id string, to Status) (*Order, error)
	SoftDelete(ctx context.Context, id string) error
}

type PGRepo struct{ db db.Querier }

func NewPGRepo(q db.Querier) *PGRepo { return &PGRepo{db: q} }

// List returns one page of orders, most recent first, plus the total row
// count for the filter so callers can derive total pages.
func (r *PGRepo) List(ctx context.Context, q ListQuery) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	page := q.Page
	if page <= 0 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `
    SELECT COUNT(*) FROM orders WHERE ($1 = '' OR status = $1)
  `, q.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT id, customer_id, status, total::text, created_at, updated_at
    FROM orders WHERE ($1 = '' OR status = $1)
    ORDER BY created_at DESC, id DESC
    LIMIT $2 OFFSET $3
  `, q.Status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Detail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d Detail
	err := r.db.QueryRow(ctx, `
    SELECT o.id, o.customer_id, o.status, o.total::text, o.created_at, o.updated_at,
           c.id, c.name, c.email
    FROM orders o JOIN customers c ON c.id = o.customer_id
    WHERE o.id=$1
  `, id).Scan(&d.ID, &d.CustomerID, &d.Status, &d.Total, &d.CreatedAt, &d.UpdatedAt,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT l.id, l.order_id, l.product_id, l.quantity, l.unit_price::text, l.position, p.name
    FROM order_lines l JOIN products p ON p.id = l.product_id
    WHERE l.order_id=$1
    ORDER BY l.position
  `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ld LineDetail
		if err := rows.Scan(&ld.ID, &ld.OrderID, &ld.ProductID, &ld.Quantity, &ld.UnitPrice, &ld.Position, &ld.ProductName); err != nil {
			return nil, err
		}
		d.Lines = append(d.Lines, ld)
	}
	return &d, rows.Err()
}

// Update is the generic partial update; status is excluded, it has its own
// transition-checked path.
func (r *PGRepo) Update(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
    UPDATE orders
    SET customer_id = COALESCE(NULLIF($2, ''), customer_id),
        total = CASE WHEN $3 = '' THEN total ELSE $3::numeric END,
        updated_at = NOW()
    WHERE id = $1
    RETURNING id, customer_id, status, total::text, created_at, updated_at
  `, id, req.CustomerID, req.Total).Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// UpdateStatus validates the change against the transition table before
// writing. The UPDATE is guarded by the status read; a concurrent change in
// between surfaces as ErrConcurrentUpdate.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, to Status) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var current Status
	if err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !current.CanTransition(to) {
		return nil, &ErrInvalidTransition{From: current, To: to}
	}

	var o Order
	err := r.db.QueryRow(ctx, `
    UPDATE orders
    SET status = $3, updated_at = NOW()
    WHERE id = $1 AND status = $2
    RETURNING id, customer_id, status, total::text, created_at, updated_at
  `, id, current, to).Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}
	return &o, nil
}

// SoftDelete marks the order deleted. The row stays, and the stock decrement
// is not reversed.
func (r *PGRepo) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
  `, id, StatusDeleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
