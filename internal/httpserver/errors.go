package httpserver

import (
	"errors"
	"net/http"

	"farmstore/internal/channel/paystack"
	"farmstore/internal/domain"
	authsvc "farmstore/internal/service/auth"
	checkoutsvc "farmstore/internal/service/checkout"
	ordersvc "farmstore/internal/service/order"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error     string `json:"error"`
	Reference string `json:"reference,omitempty"`
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (h *handlers) writeError(c *gin.Context, op string, err error) {
	var handoff *checkoutsvc.HandoffError
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, errorBody{Error: "cart is empty"})
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid email or password"})
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, authsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errorBody{Error: "sign in required"})
	case errors.Is(err, domain.ErrSuspended):
		c.JSON(http.StatusForbidden, errorBody{Error: "account suspended"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorBody{Error: "not allowed"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, errorBody{Error: "not enough stock"})
	case errors.Is(err, domain.ErrProductUnavailable):
		c.JSON(http.StatusConflict, errorBody{Error: "product unavailable"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorBody{Error: "already exists"})
	case errors.Is(err, domain.ErrInUse):
		c.JSON(http.StatusConflict, errorBody{Error: "still referenced"})
	case errors.Is(err, ordersvc.ErrPaymentIncomplete):
		c.JSON(http.StatusConflict, errorBody{Error: "payment not completed"})
	case errors.Is(err, paystack.ErrBadSignature):
		c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid signature"})
	case errors.Is(err, paystack.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "card payments unavailable"})
	case errors.Is(err, ordersvc.ErrGateway):
		h.logger.Printf("%s: gateway error=%v", op, err)
		c.JSON(http.StatusBadGateway, errorBody{Error: "payment provider unavailable"})
	case errors.As(err, &handoff):
		h.logger.Printf("%s: handoff error=%v", op, err)
		c.JSON(http.StatusBadGateway, errorBody{Error: "payment provider unavailable, order saved", Reference: handoff.Order.Reference})
	default:
		h.logger.Printf("%s: error=%v", op, err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}
