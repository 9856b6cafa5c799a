package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/cafe-ecom/internal/auth"
	"github.com/MikeMC777/cafe-ecom/internal/filter"
	"github.com/MikeMC777/cafe-ecom/internal/httpx"
	prod "github.com/MikeMC777/cafe-ecom/internal/product"
)

func registerRoutes(r *gin.Engine, repo prod.Repository, issuer *auth.Issuer) {
	r.GET("/products", listProductsHandler(repo))
	r.GET("/products/:id", getProductHandler(repo))
	r.GET("/categories", listCategoriesHandler(repo))

	admin := r.Group("/admin", auth.Middleware(issuer, auth.RoleAdmin))
	admin.POST("/products", createProductHandler(repo))
	admin.PATCH("/products/:id", updateProductHandler(repo))
	admin.DELETE("/products/:id", deleteProductHandler(repo))
}

func badProduct(err error) bool {
	return errors.Is(err, prod.ErrInvalidProduct) || errors.Is(err, prod.ErrInvalidPrice) || errors.Is(err, prod.ErrInvalidStock)
}

// listProductsHandler answers GET /products?q=&cat=&sort[name]=&sort[price]=&minprice=&maxprice=&page=&limit=
func listProductsHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := c.Request.URL.Query()
		q := prod.Query{Filter: filter.Decode(params), Page: filter.PageFrom(params)}
		items, total, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, prod.ListResponse{Filter: q.Filter, Meta: q.Page.Meta(total), Items: items})
	}
}

func getProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, prod.ErrNotFound) {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, p)
	}
}

func listCategoriesHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := repo.Categories(c.Request.Context())
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, cats)
	}
}

func createProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		p, err := req.Build()
		if err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		p.ID = uuid.NewString()
		if err := repo.Create(c.Request.Context(), p); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.Created(c, p)
	}
}

func updateProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if errors.Is(err, prod.ErrNotFound) {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		if err := req.Apply(p); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		err = repo.Update(c.Request.Context(), p)
		switch {
		case errors.Is(err, prod.ErrNotFound):
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		case badProduct(err):
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, p)
	}
}

func deleteProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		httpx.Message(c, "product deleted")
	}
}
