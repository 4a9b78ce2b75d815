package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda-api/internal/db"
	"github.com/tiendalabs/tienda-api/internal/inventory"
)

var ErrEmptyCart = errors.New("cart is empty")

// stockReserver is the slice of the inventory ledger the builder needs.
type stockReserver interface {
	Reserve(ctx context.Context, tx db.Querier, productID string, qty int) (*inventory.Snapshot, error)
}

// EmailLine is one row of the notification summary.
type EmailLine struct {
	Name      string
	Quantity  int
	UnitPrice string
}

// Draft is a validated, priced order staged for commit.
type Draft struct {
	Order   *Order
	Lines   []Line
	Summary []EmailLine
}

// Builder turns an untrusted cart into a priced order. It reserves stock for
// every line through the ledger, under the caller's transaction, but persists
// nothing itself.
type Builder struct {
	ledger stockReserver
}

func NewBuilder(ledger stockReserver) *Builder { return &Builder{ledger: ledger} }

// Build validates and prices the cart. Lines keep the client's submission
// order. The unit price persisted is the catalog price returned by the
// ledger, never the client's claim.
func (b *Builder) Build(ctx context.Context, tx db.Querier, req CreateOrderRequest) (*Draft, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	orderID := uuid.NewString()
	total := decimal.Zero
	lines := make([]Line, 0, len(req.Items))
	summary := make([]EmailLine, 0, len(req.Items))

	for i, item := range req.Items {
		snap, err := b.ledger.Reserve(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if item.UnitPrice != "" {
			if claimed, perr := decimal.NewFromString(item.UnitPrice); perr == nil && !claimed.Equal(snap.UnitPrice) {
				log.Printf("[order] client price mismatch product=%s claimed=%s catalog=%s",
					item.ProductID, claimed, snap.UnitPrice)
			}
		}
		unit := snap.UnitPrice
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, Line{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unit.StringFixed(2),
			Position:  i,
		})
		summary = append(summary, EmailLine{Name: snap.Name, Quantity: item.Quantity, UnitPrice: unit.StringFixed(2)})
	}

	if req.Total != "" {
		if declared, err := decimal.NewFromString(req.Total); err == nil && !declared.Equal(total) {
			log.Printf("[order] declared total %s differs from computed %s", declared, total)
		}
	}

	now := time.Now().UTC()
	return &Draft{
		Order: &Order{
			ID:         orderID,
			CustomerID: req.CustomerID,
			Status:     StatusPending,
			Total:      total.StringFixed(2),
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Lines:   lines,
		Summary: summary,
	}, nil
}
