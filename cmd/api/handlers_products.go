package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendalabs/tienda-api/internal/db"
	"github.com/tiendalabs/tienda-api/internal/httpx"
	"github.com/tiendalabs/tienda-api/internal/inventory"
	"github.com/tiendalabs/tienda-api/internal/product"
	"github.com/tiendalabs/tienda-api/internal/storage"
)

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// listProductsHandler godoc
// @Summary List products
// @Produce json
// @Param q query string false "search"
// @Param category_id query string false "category filter"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} product.ListResponse
// @Router /api/products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{
			Q:          c.Query("q"),
			CategoryID: c.Query("category_id"),
			Limit:      atoiDefault(c.Query("limit"), 20),
			Offset:     atoiDefault(c.Query("offset"), 0),
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not list products")
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q.Q, Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		httpx.OK(c, p, "")
	}
}

func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Name == "" || req.Price == "" {
			httpx.Fail(c, http.StatusBadRequest, "name and price are required")
			return
		}
		if req.Stock < 0 {
			httpx.Fail(c, http.StatusBadRequest, "stock must be non-negative")
			return
		}

		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			Active:      true,
			Material:    req.Material,
			Capacity:    req.Capacity,
			Features:    req.Features,
			ImageRefs:   req.ImageRefs,
		}
		if req.CategoryID != "" {
			p.CategoryID = &req.CategoryID
		}
		if adminID := sessionAdminID(c); adminID != "" {
			p.OwnerAdminID = &adminID
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not create product")
			return
		}
		httpx.Created(c, p, "product created")
	}
}

func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Stock != nil && *req.Stock < 0 {
			httpx.Fail(c, http.StatusBadRequest, "stock must be non-negative")
			return
		}

		p := &product.Product{
			ID:          c.Param("id"),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Material:    req.Material,
			Capacity:    req.Capacity,
			Features:    req.Features,
		}
		if req.CategoryID != "" {
			p.CategoryID = &req.CategoryID
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if err := repo.Update(c.Request.Context(), p, req.Price != "", req.Stock != nil); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not update product")
			return
		}
		out, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		httpx.OK(c, out, "product updated")
	}
}

func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Deactivate(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not delete product")
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		httpx.OK(c, nil, "product deleted")
	}
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

// restockProductHandler puts received goods back on the shelf. Order soft
// delete never touches stock; this is the only path that adds it back.
func restockProductHandler(ledger *inventory.Ledger, pool db.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req restockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		err := ledger.Release(c.Request.Context(), pool, c.Param("id"), req.Quantity)
		switch {
		case err == nil:
			httpx.OK(c, nil, "stock restocked")
		case errors.Is(err, inventory.ErrInvalidQuantity):
			httpx.Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, inventory.ErrProductNotFound):
			httpx.Fail(c, http.StatusNotFound, "product not found")
		default:
			httpx.Fail(c, http.StatusInternalServerError, "could not restock product")
		}
	}
}

func uploadProductImageHandler(repo product.Repository, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			httpx.Fail(c, http.StatusBadRequest, "image file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			httpx.Fail(c, http.StatusBadRequest, "could not read image")
			return
		}
		defer f.Close()

		ref, err := images.Save(fh.Filename, f)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not store image")
			return
		}
		if err := repo.AppendImage(c.Request.Context(), c.Param("id"), ref); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "product not found")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, "could not attach image")
			return
		}
		httpx.Created(c, gin.H{"image_ref": ref}, "image uploaded")
	}
}
