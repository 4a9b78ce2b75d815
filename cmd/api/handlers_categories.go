package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendalabs/tienda-api/internal/category"
	"github.com/tiendalabs/tienda-api/internal/httpx"
)

func listCategoriesHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := repo.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not list categories")
			return
		}
		if cats == nil {
			cats = []category.Category{}
		}
		httpx.OK(c, cats, "")
	}
}

func createCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req category.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		cat := &category.Category{ID: uuid.NewString(), Name: req.Name, ParentID: req.ParentID}
		if err := repo.Create(c.Request.Context(), cat); err != nil {
			if errors.Is(err, category.ErrAlreadyExist) {
				httpx.Fail(c, http.StatusConflict, "category already exists")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, "could not create category")
			return
		}
		httpx.Created(c, cat, "category created")
	}
}

func updateCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req category.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid request")
			return
		}
		cat := &category.Category{ID: c.Param("id"), Name: req.Name, ParentID: req.ParentID}
		if err := repo.Update(c.Request.Context(), cat); err != nil {
			if errors.Is(err, category.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "category not found")
				return
			}
			httpx.Fail(c, http.StatusInternalServerError, "could not update category")
			return
		}
		httpx.OK(c, cat, "category updated")
	}
}

func deleteCategoryHandler(repo category.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "could not delete category")
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "category not found")
			return
		}
		httpx.OK(c, nil, "category deleted")
	}
}
