package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/tiendalabs/tienda-api/internal/customer"
	"github.com/tiendalabs/tienda-api/internal/httpx"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(repo customer.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "email and password are required")
			return
		}
		cust, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || cust.PasswordHash == nil || !customer.CheckPassword(*cust.PasswordHash, req.Password) {
			httpx.Fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sess := sessions.Default(c)
		sess.Set("customer_id", cust.ID)
		if err := sess.Save(); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not start session")
			return
		}
		httpx.OK(c, gin.H{"id": cust.ID, "name": cust.Name}, "logged in")
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Clear()
		_ = sess.Save()
		httpx.OK(c, nil, "logged out")
	}
}

func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		id, ok := sess.Get("customer_id").(string)
		if !ok || id == "" {
			c.Abort()
			httpx.Fail(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Set("admin_id", id)
		c.Next()
	}
}

// sessionAdminID returns the authenticated admin id, empty when the route is
// not behind requireAuth.
func sessionAdminID(c *gin.Context) string {
	if v, ok := c.Get("admin_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
