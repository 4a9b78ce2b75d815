package order

// CreateOrderItem is one cart line. UnitPrice and Name come from the client
// but are display hints only; the server re-prices from the catalog.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID string `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity"   example:"2"`
	UnitPrice string `json:"unit_price" example:"199.90"`
	Name      string `json:"name,omitempty"`
}

// CreateOrderRequest is the cart payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	CustomerID string            `json:"customer_id" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Total      string            `json:"total" example:"399.80"`
	Items      []CreateOrderItem `json:"items"`
}

// UpdateOrderRequest is the generic partial update; empty fields keep their
// current value. Status changes go through UpdateStatusRequest only.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	CustomerID string `json:"customer_id"`
	Total      string `json:"total" example:"399.80"`
}

// UpdateStatusRequest payload for the status-only update.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"shipped"`
}

// ListResponse is the paginated order listing.
// swagger:model
type ListResponse struct {
	Rows       []Order `json:"rows"`
	TotalCount int     `json:"total_count"`
	TotalPages int     `json:"total_pages"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}
