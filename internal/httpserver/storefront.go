package httpserver

import (
	"net/http"

	cartsvc "farmstore/internal/service/cart"
	usersvc "farmstore/internal/service/user"
	"github.com/gin-gonic/gin"
)

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.ListAvailable(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		h.writeError(c, "list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.GetAvailable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handlers) getProfile(c *gin.Context) {
	p, err := h.deps.UserSvc.Get(c.Request.Context(), currentSession(c).UserID())
	if err != nil {
		h.writeError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req usersvc.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.deps.UserSvc.UpdateOwn(c.Request.Context(), currentSession(c).UserID(), req)
	if err != nil {
		h.writeError(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), currentSession(c).UserID())
	if err != nil {
		h.writeError(c, "get cart", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addCartLine(c *gin.Context) {
	var req cartsvc.AddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cart, err := h.deps.CartSvc.Add(c.Request.Context(), currentSession(c).UserID(), req)
	if err != nil {
		h.writeError(c, "add cart line", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) changeCartLine(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cart, err := h.deps.CartSvc.ChangeQuantity(c.Request.Context(), currentSession(c).UserID(), c.Param("id"), req.Quantity)
	if err != nil {
		h.writeError(c, "change cart line", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) removeCartLine(c *gin.Context) {
	cart, err := h.deps.CartSvc.Remove(c.Request.Context(), currentSession(c).UserID(), c.Param("id"))
	if err != nil {
		h.writeError(c, "remove cart line", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
