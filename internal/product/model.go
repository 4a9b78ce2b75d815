package product

import "time"

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price        string    `json:"price"`
	Stock        int       `json:"stock"`
	Active       bool      `json:"active"`
	CategoryID   *string   `json:"category_id,omitempty"`
	OwnerAdminID *string   `json:"owner_admin_id,omitempty"`
	Material     string    `json:"material,omitempty"`
	Capacity     string    `json:"capacity,omitempty"`
	Features     string    `json:"features,omitempty"`
	ImageRefs    []string  `json:"image_refs,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Q      string    `json:"q,omitempty"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string   `json:"name"        example:"Botella térmica"`
	Description string   `json:"description" example:"Acero inoxidable"`
	Price       string   `json:"price"       example:"199.90"`
	Stock       int      `json:"stock"       example:"10"`
	CategoryID  string   `json:"category_id"`
	Material    string   `json:"material"    example:"acero"`
	Capacity    string   `json:"capacity"    example:"750ml"`
	Features    string   `json:"features"`
	ImageRefs   []string `json:"image_refs"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Stock       *int     `json:"stock"`
	CategoryID  string   `json:"category_id"`
	Material    string   `json:"material"`
	Capacity    string   `json:"capacity"`
	Features    string   `json:"features"`
	ImageRefs   []string `json:"image_refs"`
}
