package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda-api/internal/db"
	"github.com/tiendalabs/tienda-api/internal/inventory"
)

// fakeLedger serves snapshots from memory and records reservations.
type fakeLedger struct {
	products map[string]*inventory.Snapshot
	reserved map[string]int
	failWith error
}

func (f *fakeLedger) Reserve(_ context.Context, _ db.Querier, productID string, qty int) (*inventory.Snapshot, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	snap, ok := f.products[productID]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	if f.reserved == nil {
		f.reserved = map[string]int{}
	}
	f.reserved[productID] += qty
	return snap, nil
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestBuild_EmptyCart(t *testing.T) {
	b := NewBuilder(&fakeLedger{})
	_, err := b.Build(context.Background(), nil, CreateOrderRequest{CustomerID: "c1"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err=%v, want ErrEmptyCart", err)
	}
}

func TestBuild_PricesFromCatalogNotClient(t *testing.T) {
	ledger := &fakeLedger{products: map[string]*inventory.Snapshot{
		"p1": {Name: "Botella", UnitPrice: price("10.00"), Remaining: 2},
	}}
	b := NewBuilder(ledger)

	draft, err := b.Build(context.Background(), nil, CreateOrderRequest{
		CustomerID: "c1",
		Total:      "0.30", // tampered
		Items: []CreateOrderItem{
			{ProductID: "p1", Quantity: 3, UnitPrice: "0.10"}, // tampered
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if draft.Order.Total != "30.00" {
		t.Errorf("total=%s, want 30.00 (server-side price)", draft.Order.Total)
	}
	if draft.Lines[0].UnitPrice != "10.00" {
		t.Errorf("unit price=%s, want catalog 10.00", draft.Lines[0].UnitPrice)
	}
	if ledger.reserved["p1"] != 3 {
		t.Errorf("reserved=%d, want 3", ledger.reserved["p1"])
	}
}

func TestBuild_LinesKeepSubmissionOrder(t *testing.T) {
	ledger := &fakeLedger{products: map[string]*inventory.Snapshot{
		"p1": {Name: "Botella", UnitPrice: price("10.00"), Remaining: 5},
		"p2": {Name: "Termo", UnitPrice: price("25.50"), Remaining: 5},
	}}
	b := NewBuilder(ledger)

	draft, err := b.Build(context.Background(), nil, CreateOrderRequest{
		CustomerID: "c1",
		Items: []CreateOrderItem{
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p1", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(draft.Lines) != 2 {
		t.Fatalf("lines=%d", len(draft.Lines))
	}
	if draft.Lines[0].ProductID != "p2" || draft.Lines[0].Position != 0 {
		t.Errorf("line 0 = %+v", draft.Lines[0])
	}
	if draft.Lines[1].ProductID != "p1" || draft.Lines[1].Position != 1 {
		t.Errorf("line 1 = %+v", draft.Lines[1])
	}
	if draft.Order.Total != "45.50" {
		t.Errorf("total=%s, want 45.50", draft.Order.Total)
	}
	if draft.Order.Status != StatusPending {
		t.Errorf("status=%s", draft.Order.Status)
	}
	if len(draft.Summary) != 2 || draft.Summary[0].Name != "Termo" {
		t.Errorf("summary=%+v", draft.Summary)
	}
}

func TestBuild_PropagatesLedgerFailures(t *testing.T) {
	insufficient := &inventory.InsufficientStockError{Name: "Botella", Available: 1}
	b := NewBuilder(&fakeLedger{failWith: insufficient})

	_, err := b.Build(context.Background(), nil, CreateOrderRequest{
		CustomerID: "c1",
		Items:      []CreateOrderItem{{ProductID: "p1", Quantity: 2}},
	})
	var got *inventory.InsufficientStockError
	if !errors.As(err, &got) || got.Available != 1 {
		t.Fatalf("err=%v, want insufficient stock with available=1", err)
	}
}
