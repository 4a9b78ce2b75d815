package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func orderRows(n int) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "customer_id", "status", "total", "created_at", "updated_at"})
	now := time.Now()
	for i := 0; i < n; i++ {
		rows.AddRow("o", "c", StatusPending, "10.00", now, now)
	}
	return rows
}

func TestList_SecondPageOfFifteen(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(15))
	mock.ExpectQuery("SELECT id, customer_id, status").
		WithArgs("", 10, 10).
		WillReturnRows(orderRows(5))

	rows, total, err := NewPGRepo(mock).List(context.Background(), ListQuery{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("rows=%d, want 5", len(rows))
	}
	if total != 15 {
		t.Errorf("total=%d, want 15", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestList_StatusFilterIsExactMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("shipped").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, customer_id, status").
		WithArgs("shipped", 20, 0).
		WillReturnRows(orderRows(1))

	_, total, err := NewPGRepo(mock).List(context.Background(), ListQuery{Page: 1, Limit: 20, Status: "shipped"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("total=%d", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("FROM orders o JOIN customers c").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPGRepo(mock).GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestGetByID_ConnectionFailureIsNotNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("FROM orders o JOIN customers c").
		WithArgs("o1").
		WillReturnError(errors.New("connection reset"))

	_, err = NewPGRepo(mock).GetByID(context.Background(), "o1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want a non-ErrNotFound failure", err)
	}
}

func TestGetByID_NestedDetail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("FROM orders o JOIN customers c").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "status", "total", "created_at", "updated_at", "cid", "cname", "cemail"}).
			AddRow("o1", "c1", StatusDeleted, "30.00", now, now, "c1", "Ana", "ana@example.com"))
	mock.ExpectQuery("FROM order_lines l JOIN products p").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price", "position", "name"}).
			AddRow("l1", "o1", "p1", 3, "10.00", 0, "Botella"))

	d, err := NewPGRepo(mock).GetByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// soft-deleted orders still resolve, with the deleted marker
	if d.Status != StatusDeleted {
		t.Errorf("status=%s", d.Status)
	}
	if d.Customer.Name != "Ana" {
		t.Errorf("customer=%+v", d.Customer)
	}
	if len(d.Lines) != 1 || d.Lines[0].ProductName != "Botella" || d.Lines[0].UnitPrice != "10.00" {
		t.Errorf("lines=%+v", d.Lines)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateStatus_RejectsIllegalTransition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT status FROM orders").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(StatusPending))

	_, err = NewPGRepo(mock).UpdateStatus(context.Background(), "o1", StatusDelivered)
	var invalid *ErrInvalidTransition
	if !errors.As(err, &invalid) {
		t.Fatalf("err=%v, want ErrInvalidTransition", err)
	}
	if invalid.From != StatusPending || invalid.To != StatusDelivered {
		t.Errorf("got %+v", invalid)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("UPDATE orders").
		WithArgs("o1", "", "45.50").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "status", "total", "created_at", "updated_at"}).
			AddRow("o1", "c1", StatusPending, "45.50", now, now))

	o, err := NewPGRepo(mock).Update(context.Background(), "o1", UpdateOrderRequest{Total: "45.50"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	// customer untouched, total rewritten
	if o.CustomerID != "c1" || o.Total != "45.50" {
		t.Errorf("order=%+v", o)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	mock.ExpectQuery("UPDATE orders").
		WithArgs("missing", "c2", "").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPGRepo(mock).Update(context.Background(), "missing", UpdateOrderRequest{CustomerID: "c2"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT status FROM orders").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(StatusPending))
	mock.ExpectQuery("UPDATE orders").
		WithArgs("o1", StatusPending, StatusShipped).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "status", "total", "created_at", "updated_at"}).
			AddRow("o1", "c1", StatusShipped, "30.00", now, now))

	o, err := NewPGRepo(mock).UpdateStatus(context.Background(), "o1", StatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if o.Status != StatusShipped {
		t.Errorf("status=%s", o.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateStatus_ConcurrentChangeIsAConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	// another admin shipped the order between our read and our write; the
	// guarded UPDATE matches nothing
	mock.ExpectQuery("SELECT status FROM orders").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(StatusPending))
	mock.ExpectQuery("UPDATE orders").
		WithArgs("o1", StatusPending, StatusShipped).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPGRepo(mock).UpdateStatus(context.Background(), "o1", StatusShipped)
	if !errors.Is(err, ErrConcurrentUpdate) {
		t.Fatalf("err=%v, want ErrConcurrentUpdate", err)
	}
}

func TestSoftDelete_FlipsStatusAndNothingElse(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	// the only statement is the orders UPDATE: no product row is touched, the
	// stock decrement stays as it was
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("o1", StatusDeleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewPGRepo(mock)
	if err := repo.SoftDelete(context.Background(), "o1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("missing", StatusDeleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if err := repo.SoftDelete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}
