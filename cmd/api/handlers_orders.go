package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda-api/internal/httpx"
	"github.com/tiendalabs/tienda-api/internal/inventory"
	"github.com/tiendalabs/tienda-api/internal/order"
)

// createOrderHandler godoc
// @Summary Place an order
// @Description Validates the cart against live stock and creates the order atomically.
// @Accept json
// @Produce json
// @Param order body order.CreateOrderRequest true "cart"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Failure 409 {object} httpx.Envelope
// @Router /api/orders [post]
func createOrderHandler(coordinator *order.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		if req.CustomerID == "" {
			httpx.Fail(c, http.StatusBadRequest, "customer_id is required")
			return
		}

		o, lines, err := coordinator.Place(c.Request.Context(), req)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		httpx.Created(c, gin.H{"order": o, "lines": lines}, "order created successfully")
	}
}

// writeOrderError maps coordinator failures onto the response contract. The
// transaction has already rolled back by the time any of these surface.
func writeOrderError(c *gin.Context, err error) {
	var insufficient *inventory.InsufficientStockError
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, order.ErrEmptyCart), errors.Is(err, inventory.ErrInvalidQuantity):
		httpx.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrProductNotFound):
		httpx.Fail(c, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficient):
		httpx.Fail(c, http.StatusConflict, insufficient.Error())
	case errors.As(err, &pgErr) && pgErr.Code == "23503":
		httpx.Fail(c, http.StatusBadRequest, "associated customer or product does not exist")
	default:
		log.Printf("[order] create failed: %v", err)
		httpx.Fail(c, http.StatusInternalServerError, "could not create order")
	}
}

// listOrdersHandler godoc
// @Summary List orders
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Param estado query string false "status filter"
// @Success 200 {object} httpx.Envelope
// @Router /api/admin/orders [get]
func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := atoiDefault(c.Query("page"), 1)
		limit := atoiDefault(c.Query("limit"), 20)
		status := c.Query("estado")
		if status != "" {
			if _, err := order.ParseStatus(status); err != nil {
				httpx.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
		}

		rows, total, err := repo.List(c.Request.Context(), order.ListQuery{Page: page, Limit: limit, Status: status})
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not list orders")
			return
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		totalPages := (total + limit - 1) / limit
		httpx.OK(c, order.ListResponse{
			Rows:       rows,
			TotalCount: total,
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
		}, "")
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "order not found")
				return
			}
			log.Printf("[order] get failed: %v", err)
			httpx.Fail(c, http.StatusInternalServerError, "could not fetch order")
			return
		}
		httpx.OK(c, d, "")
	}
}

func updateOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Total != "" {
			if _, err := decimal.NewFromString(req.Total); err != nil {
				httpx.Fail(c, http.StatusBadRequest, "total must be a decimal amount")
				return
			}
		}

		o, err := repo.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			var pgErr *pgconn.PgError
			switch {
			case errors.Is(err, order.ErrNotFound):
				httpx.Fail(c, http.StatusNotFound, "order not found")
			case errors.As(err, &pgErr) && pgErr.Code == "23503":
				httpx.Fail(c, http.StatusBadRequest, "associated customer does not exist")
			default:
				log.Printf("[order] update failed: %v", err)
				httpx.Fail(c, http.StatusInternalServerError, "could not update order")
			}
			return
		}
		httpx.OK(c, o, "order updated")
	}
}

func updateOrderStatusHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		next, err := order.ParseStatus(req.Status)
		if err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		o, err := repo.UpdateStatus(c.Request.Context(), c.Param("id"), next)
		if err != nil {
			var invalid *order.ErrInvalidTransition
			switch {
			case errors.As(err, &invalid):
				httpx.Fail(c, http.StatusBadRequest, invalid.Error())
			case errors.Is(err, order.ErrNotFound):
				httpx.Fail(c, http.StatusNotFound, "order not found")
			case errors.Is(err, order.ErrConcurrentUpdate):
				httpx.Fail(c, http.StatusConflict, err.Error())
			default:
				log.Printf("[order] status update failed: %v", err)
				httpx.Fail(c, http.StatusInternalServerError, "could not update order")
			}
			return
		}
		httpx.OK(c, o, "status updated")
	}
}

// deleteOrderHandler marks the order deleted; the row and the stock decrement
// both stay.
func deleteOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "order not found")
				return
			}
			log.Printf("[order] delete failed: %v", err)
			httpx.Fail(c, http.StatusInternalServerError, "could not delete order")
			return
		}
		httpx.OK(c, nil, "order deleted")
	}
}
