package httpserver

import (
	"bytes"
	"net/http"

	productsvc "farmstore/internal/service/product"
	usersvc "farmstore/internal/service/user"
	"github.com/gin-gonic/gin"
)

type suspendRequest struct {
	Reason string `json:"reason"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (h *handlers) adminStats(c *gin.Context) {
	st, err := h.deps.StatsSvc.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, "admin stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *handlers) adminListUsers(c *gin.Context) {
	users, err := h.deps.UserSvc.List(c.Request.Context(), c.Query("search"), c.Query("filter"))
	if err != nil {
		h.writeError(c, "admin list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handlers) adminEditUser(c *gin.Context) {
	var req usersvc.EditInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.deps.UserSvc.Edit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, "admin edit user", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User updated", Data: p})
}

func (h *handlers) adminSuspendUser(c *gin.Context) {
	var req suspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.deps.UserSvc.Suspend(c.Request.Context(), currentSession(c).UserID(), c.Param("id"), req.Reason)
	if err != nil {
		h.writeError(c, "admin suspend user", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User suspended", Data: p})
}

func (h *handlers) adminUnsuspendUser(c *gin.Context) {
	p, err := h.deps.UserSvc.Unsuspend(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "admin unsuspend user", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User unsuspended", Data: p})
}

func (h *handlers) adminDeleteUser(c *gin.Context) {
	if err := h.deps.UserSvc.Delete(c.Request.Context(), currentSession(c).UserID(), c.Param("id")); err != nil {
		h.writeError(c, "admin delete user", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "User deleted"})
}

func (h *handlers) adminListOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.List(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		h.writeError(c, "admin list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status required")
		return
	}
	o, err := h.deps.OrderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, "admin update order", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Order status updated", Data: o})
}

func (h *handlers) adminExportOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.List(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		h.writeError(c, "admin export orders", err)
		return
	}
	var buf bytes.Buffer
	if err := writeOrdersWorkbook(&buf, orders); err != nil {
		h.writeError(c, "admin export orders", err)
		return
	}
	sendWorkbook(c, "orders.xlsx", &buf)
}

func (h *handlers) adminListProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.ListAll(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.writeError(c, "admin list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var req productsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.deps.ProductSvc.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "admin create product", err)
		return
	}
	c.JSON(http.StatusCreated, messageResponse{Message: "Product created", Data: p})
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var req productsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p, err := h.deps.ProductSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, "admin update product", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Product updated", Data: p})
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.ProductSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "admin delete product", err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Product deleted"})
}

func (h *handlers) adminExportProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.ListAll(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.writeError(c, "admin export products", err)
		return
	}
	var buf bytes.Buffer
	if err := writeProductsWorkbook(&buf, products); err != nil {
		h.writeError(c, "admin export products", err)
		return
	}
	sendWorkbook(c, "products.xlsx", &buf)
}

func (h *handlers) adminListCategories(c *gin.Context) {
	categories, err := h.deps.CategorySvc.ListAll(c.Request.Context())
	if err != nil {
		h.writeError(c, "admin list categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
