package order

import (
	"context"
	"fmt"

	"github.com/tiendalabs/tienda-api/internal/db"
	"github.com/tiendalabs/tienda-api/internal/notify"
)

// Coordinator runs order placement as one atomic unit: validation and
// per-line stock decrements (via the builder/ledger), the order insert and
// the line inserts all happen inside a single transaction. Any failure rolls
// the whole unit back; nothing partial is ever visible.
type Coordinator struct {
	db       db.TxBeginner
	builder  *Builder
	notifier *notify.Notifier
}

func NewCoordinator(pool db.TxBeginner, builder *Builder, notifier *notify.Notifier) *Coordinator {
	return &Coordinator{db: pool, builder: builder, notifier: notifier}
}

// Place creates the order. On return the order is committed; notification is
// dispatched after commit, fire-and-forget, and can never fail the request.
func (c *Coordinator) Place(ctx context.Context, req CreateOrderRequest) (*Order, []Line, error) {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	draft, err := c.builder.Build(ctx, tx, req)
	if err != nil {
		return nil, nil, err
	}

	o := draft.Order
	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, customer_id, status, total, created_at, updated_at)
    VALUES ($1,$2,$3,$4,NOW(),NOW())
  `, o.ID, o.CustomerID, o.Status, o.Total); err != nil {
		return nil, nil, err
	}

	for _, ln := range draft.Lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, position)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, ln.ID, o.ID, ln.ProductID, ln.Quantity, ln.UnitPrice, ln.Position); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	if c.notifier != nil {
		lines := make([]notify.LineSummary, len(draft.Summary))
		for i, s := range draft.Summary {
			lines[i] = notify.LineSummary{Name: s.Name, Quantity: s.Quantity, UnitPrice: s.UnitPrice}
		}
		c.notifier.OrderCreated(notify.OrderEvent{
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			Total:      o.Total,
			Lines:      lines,
		})
	}
	return o, draft.Lines, nil
}
