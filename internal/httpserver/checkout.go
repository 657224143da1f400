package httpserver

import (
	"io"
	"net/http"

	"farmstore/internal/channel/paystack"
	checkoutsvc "farmstore/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

const maxWebhookBody = 1 << 20

// checkout places an order from the caller's current cart.
func (h *handlers) checkout(c *gin.Context) {
	var req checkoutsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	req.IdempotencyKey = c.GetHeader(idempotencyHeader)

	sess := currentSession(c)
	lines, err := h.deps.CartSvc.Lines(c.Request.Context(), sess.UserID())
	if err != nil {
		h.writeError(c, "checkout", err)
		return
	}
	res, err := h.deps.CheckoutSvc.Checkout(c.Request.Context(), sess, lines, req)
	if err != nil {
		h.writeError(c, "checkout", err)
		return
	}
	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

func (h *handlers) listMyOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.History(c.Request.Context(), currentSession(c).UserID())
	if err != nil {
		h.writeError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) countMyOrders(c *gin.Context) {
	n, err := h.deps.OrderSvc.Count(c.Request.Context(), currentSession(c).UserID())
	if err != nil {
		h.writeError(c, "count orders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *handlers) getMyOrder(c *gin.Context) {
	o, err := h.deps.OrderSvc.Get(c.Request.Context(), currentSession(c), c.Param("reference"))
	if err != nil {
		h.writeError(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// verifyOrder is called when the buyer returns from the card gateway.
func (h *handlers) verifyOrder(c *gin.Context) {
	o, err := h.deps.OrderSvc.Verify(c.Request.Context(), currentSession(c), c.Param("reference"))
	if err != nil {
		h.writeError(c, "verify order", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) paystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}
	if err := h.deps.OrderSvc.HandleWebhook(c.Request.Context(), body, c.GetHeader(paystack.SignatureHeader)); err != nil {
		h.writeError(c, "paystack webhook", err)
		return
	}
	c.Status(http.StatusOK)
}
