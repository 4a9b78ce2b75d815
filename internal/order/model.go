package order

import "time"

type Order struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Status     Status `json:"status"`
	// NUMERIC -> string
	Total     string    `json:"total"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line is an order line: the unit price is a snapshot taken at order time and
// is never re-derived from the live product.
type Line struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Position  int    `json:"-"`
}

// CustomerSummary is the nested customer block of an order detail.
type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LineDetail joins a line with the current product name for display.
type LineDetail struct {
	Line
	ProductName string `json:"product_name"`
}

// Detail is the full order view returned by GetByID.
type Detail struct {
	Order
	Customer CustomerSummary `json:"customer"`
	Lines    []LineDetail    `json:"lines"`
}
