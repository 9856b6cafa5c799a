package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/cafe-ecom/internal/auth"
	"github.com/MikeMC777/cafe-ecom/internal/cart"
	"github.com/MikeMC777/cafe-ecom/internal/fetch"
	"github.com/MikeMC777/cafe-ecom/internal/filter"
	"github.com/MikeMC777/cafe-ecom/internal/httpx"
	"github.com/MikeMC777/cafe-ecom/internal/live"
	ord "github.com/MikeMC777/cafe-ecom/internal/order"
)

// AddToCartRequest is the body of POST /carts. Name, image and price come
// from the catalog, never from the client.
// swagger:model AddToCartRequest
type AddToCartRequest struct {
	MenuID   string `json:"menuId" binding:"required" example:"m-iced-latte"`
	Size     string `json:"size" example:"R"`
	HotIce   string `json:"hotIce" example:"ice"`
	Quantity int    `json:"quantity" example:"2"`
}

// CheckoutRequest payload of checkout.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	ord.Form
	Shipping ord.Shipping `json:"shipping" binding:"required" example:"Dine In"`
}

// StatusRequest payload of the admin status change.
// swagger:model StatusRequest
type StatusRequest struct {
	Status ord.Status `json:"status" binding:"required" example:"Done"`
}

type server struct {
	carts  *cart.Service
	orders *ord.Service
	ext    *ord.Ext
	hub    *live.Hub
	issuer *auth.Issuer
}

func registerRoutes(r *gin.Engine, s *server) {
	authed := r.Group("/", auth.Middleware(s.issuer))
	authed.GET("/carts", getCartHandler(s.carts))
	authed.GET("/carts/quote", quoteHandler(s.orders))
	authed.POST("/carts", addToCartHandler(s.carts, s.ext))
	authed.DELETE("/carts/:cartId", removeCartLineHandler(s.carts))
	authed.DELETE("/carts", clearCartHandler(s.carts))

	authed.POST("/orders/checkout", checkoutHandler(s.orders, s.ext))
	authed.GET("/orders", listMyOrdersHandler(s.orders))
	authed.GET("/orders/:noOrder", getMyOrderHandler(s.orders))
	authed.GET("/ws/orders", s.hub.Handler(auth.UserID))

	admin := r.Group("/admin", auth.Middleware(s.issuer, auth.RoleAdmin))
	admin.GET("/orders", adminListOrdersHandler(s.orders))
	admin.GET("/orders/export", adminExportHandler(s.orders))
	admin.PATCH("/orders/:noOrder/status", adminUpdateStatusHandler(s.orders))
}

// Carts

func getCartHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := carts.Get(c.Request.Context(), auth.UserID(c))
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, crt.View())
	}
}

func addToCartHandler(carts *cart.Service, ext *ord.Ext) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		if req.Quantity < 1 {
			httpx.Fail(c, http.StatusBadRequest, "quantity: must be >= 1")
			return
		}

		owner := auth.UserID(c)
		item, err := ext.CartItem(c.Request.Context(), owner, req.MenuID, req.Size, req.HotIce, req.Quantity)
		switch {
		case errors.Is(err, fetch.ErrSuperseded):
			httpx.Fail(c, http.StatusConflict, "superseded by a newer request for this item")
			return
		case errors.Is(err, ord.ErrProductNotFound):
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		case errors.Is(err, ord.ErrInvalidVariant):
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, fetch.ErrOffline):
			httpx.Fail(c, http.StatusServiceUnavailable, "product service unavailable")
			return
		case err != nil:
			log.Printf("[cart] product lookup %s: %v", req.MenuID, err)
			httpx.Fail(c, http.StatusBadGateway, "product lookup failed")
			return
		}

		line, err := carts.Add(c.Request.Context(), owner, item)
		if errors.Is(err, cart.ErrInvalidQuantity) || errors.Is(err, cart.ErrInvalidItem) {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.Created(c, line)
	}
}

func removeCartLineHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := auth.UserID(c)
		if _, err := carts.Remove(c.Request.Context(), owner, c.Param("cartId")); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		// unknown ids are a no-op; answer with the cart either way
		crt, err := carts.Get(c.Request.Context(), owner)
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, crt.View())
	}
}

func clearCartHandler(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), auth.UserID(c)); err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.Message(c, "cart cleared")
	}
}

func quoteHandler(orders *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := ord.Shipping(c.DefaultQuery("shipping", string(ord.ShippingDineIn)))
		t, err := orders.Quote(c.Request.Context(), auth.UserID(c), sh)
		if errors.Is(err, ord.ErrInvalidShipping) {
			httpx.Fail(c, http.StatusBadRequest, "shipping: must be one of Dine In, Door Delivery, Pick Up")
			return
		}
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, t)
	}
}

// Orders

func checkoutHandler(orders *ord.Service, ext *ord.Ext) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		owner := auth.UserID(c)

		if ext.User != nil {
			ok, err := ext.ValidateUser(c.Request.Context(), owner)
			if err != nil {
				log.Printf("[orders] validate user %s: %v", owner, err)
				httpx.Fail(c, http.StatusServiceUnavailable, "user service unavailable")
				return
			}
			if !ok {
				httpx.Fail(c, http.StatusUnauthorized, "unknown user")
				return
			}
		}

		o, err := orders.Checkout(c.Request.Context(), owner, req.Form, req.Shipping)
		switch {
		case errors.Is(err, ord.ErrEmptyCart):
			httpx.Fail(c, http.StatusBadRequest, "cart is empty")
			return
		case errors.Is(err, ord.ErrInvalidShipping):
			httpx.Fail(c, http.StatusBadRequest, "shipping: must be one of Dine In, Door Delivery, Pick Up")
			return
		case errors.Is(err, ord.ErrNumberExhausted):
			httpx.Fail(c, http.StatusConflict, err.Error())
			return
		case err != nil:
			log.Printf("[orders] checkout owner=%s: %v", owner, err)
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.Created(c, o)
	}
}

func listMyOrdersHandler(orders *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListByOwner(c.Request.Context(), auth.UserID(c), ord.Status(c.Query("status")))
		if errors.Is(err, ord.ErrInvalidStatus) {
			httpx.Fail(c, http.StatusBadRequest, "invalid status")
			return
		}
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, list)
	}
}

func getMyOrderHandler(orders *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var o ord.Order
		var err error
		if auth.Role(c) == auth.RoleAdmin {
			o, err = orders.Get(c.Request.Context(), c.Param("noOrder"))
		} else {
			o, err = orders.GetForOwner(c.Request.Context(), auth.UserID(c), c.Param("noOrder"))
		}
		if errors.Is(err, ord.ErrNotFound) {
			httpx.Fail(c, http.StatusNotFound, "order not found")
			return
		}
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, o)
	}
}

// Admin

// OrderPage is the admin order list.
// swagger:model OrderPage
type OrderPage struct {
	Items []ord.Order `json:"items"`
	Meta  filter.Meta `json:"meta"`
}

func adminListOrdersHandler(orders *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := ord.Status(c.Query("status"))
		if status != "" && !status.Valid() {
			httpx.Fail(c, http.StatusBadRequest, "invalid status")
			return
		}
		all, err := orders.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		matched := all[:0]
		for _, o := range all {
			if status == "" || o.Status == status {
				matched = append(matched, o)
			}
		}
		page := filter.PageFrom(c.Request.URL.Query())
		start, end := page.Slice(len(matched))
		httpx.OK(c, OrderPage{Items: matched[start:end], Meta: page.Meta(len(matched))})
	}
}

func adminUpdateStatusHandler(orders *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		o, err := orders.UpdateStatus(c.Request.Context(), c.Param("noOrder"), req.Status)
		switch {
		case errors.Is(err, ord.ErrInvalidStatus):
			httpx.Fail(c, http.StatusBadRequest, "invalid status")
			return
		case errors.Is(err, ord.ErrNotFound):
			httpx.Fail(c, http.StatusNotFound, "order not found")
			return
		case err != nil:
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		httpx.OK(c, o)
	}
}

func adminExportHandler(orders *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := orders.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, http.StatusInternalServerError, "db error")
			return
		}
		name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Status(http.StatusOK)
		if err := ord.WriteReport(c.Writer, all); err != nil {
			log.Printf("[orders] export failed: %v", err)
		}
	}
}
