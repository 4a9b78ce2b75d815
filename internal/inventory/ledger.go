// Package inventory gates every stock mutation of the order flow behind a
// single consistency rule: stock never goes negative, and the check and the
// decrement are one statement.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda-api/internal/db"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// InsufficientStockError carries the product name and the stock still
// available, both surfaced to the caller.
type InsufficientStockError struct {
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available", e.Name, e.Available)
}

// Snapshot is what the conditional decrement returns: the catalog price at
// reservation time and the stock remaining after it.
type Snapshot struct {
	Name      string
	UnitPrice decimal.Decimal
	Remaining int
}

type Ledger struct{}

func NewLedger() *Ledger { return &Ledger{} }

// Reserve decrements stock for one product under the caller's transaction.
// The decrement is a single conditional UPDATE, so two transactions racing on
// the same row cannot both pass the check and drive stock below zero; the
// loser sees InsufficientStockError.
func (l *Ledger) Reserve(ctx context.Context, tx db.Querier, productID string, qty int) (*Snapshot, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var (
		name      string
		price     string
		remaining int
	)
	err := tx.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND active AND stock >= $2
		RETURNING name, price::text, stock
	`, productID, qty).Scan(&name, &price, &remaining)
	if err == nil {
		unit, perr := decimal.NewFromString(price)
		if perr != nil {
			return nil, fmt.Errorf("parse price for product %s: %w", productID, perr)
		}
		return &Snapshot{Name: name, UnitPrice: unit, Remaining: remaining}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// The conditional update missed: either the product does not exist (or is
	// inactive) or the stock is short. Disambiguate for the error message.
	var available int
	err = tx.QueryRow(ctx, `
		SELECT name, stock FROM products WHERE id = $1 AND active
	`, productID).Scan(&name, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, err
	}
	return nil, &InsufficientStockError{Name: name, Available: available}
}

// Release returns quantity to stock; used when a pending order is canceled.
func (l *Ledger) Release(ctx context.Context, tx db.Querier, productID string, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	cmd, err := tx.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1
	`, productID, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return nil
}
