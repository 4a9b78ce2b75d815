package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendalabs/tienda-api/internal/customer"
	"github.com/tiendalabs/tienda-api/internal/httpx"
)

func registerCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customer.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}

		cust := &customer.Customer{
			ID:    uuid.NewString(),
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		}
		// Password is optional: externally-authenticated accounts carry none.
		if req.Password != "" {
			hash, err := customer.HashPassword(req.Password)
			if err != nil {
				httpx.Fail(c, http.StatusInternalServerError, "could not register customer")
				return
			}
			cust.PasswordHash = &hash
		}
		if err := repo.Create(c.Request.Context(), cust); err != nil {
			if errors.Is(err, customer.ErrAlreadyExist) {
				httpx.Fail(c, http.StatusConflict, "email already registered")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, "could not register customer")
			return
		}
		httpx.Created(c, cust, "customer registered")
	}
}

func listCustomersHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.List(c.Request.Context(), atoiDefault(c.Query("limit"), 20), atoiDefault(c.Query("offset"), 0))
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not list customers")
			return
		}
		if out == nil {
			out = []customer.Customer{}
		}
		httpx.OK(c, out, "")
	}
}

func getCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, http.StatusNotFound, "customer not found")
			return
		}
		httpx.OK(c, cust, "")
	}
}

func updateCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customer.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		cust := &customer.Customer{
			ID:    c.Param("id"),
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		}
		updatePassword := false
		if req.Password != "" {
			hash, err := customer.HashPassword(req.Password)
			if err != nil {
				httpx.Fail(c, http.StatusInternalServerError, "could not update customer")
				return
			}
			cust.PasswordHash = &hash
			updatePassword = true
		}
		if err := repo.Update(c.Request.Context(), cust, updatePassword); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not update customer")
			return
		}
		out, err := repo.GetByID(c.Request.Context(), cust.ID)
		if err != nil {
			httpx.Fail(c, http.StatusNotFound, "customer not found")
			return
		}
		httpx.OK(c, out, "customer updated")
	}
}

func deleteCustomerHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not delete customer")
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "customer not found")
			return
		}
		httpx.OK(c, nil, "customer deleted")
	}
}
