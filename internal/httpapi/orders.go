package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/internal/order"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/idempotency"
)

type checkoutRequest struct {
	TaxRate decimal.Decimal `json:"tax_rate"`
	Tip     decimal.Decimal `json:"tip"`
}

// POST /orders checks the user's cart out. An Idempotency-Key header guards
// against double submission: a replay answers 200 with the original order.
func (h *handlers) createOrder(c *gin.Context) {
	user, _ := currentUser(c)
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	ord, replayed, err := h.deps.Orders.Checkout(c.Request.Context(), user, order.CheckoutInput{
		TaxRate:        req.TaxRate,
		Tip:            req.Tip,
		IdempotencyKey: idempotency.Key(c.Request),
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	if replayed {
		c.JSON(http.StatusOK, ord)
		return
	}
	c.JSON(http.StatusCreated, ord)
}

func (h *handlers) listOrders(c *gin.Context) {
	user, _ := currentUser(c)
	orders, err := h.deps.Orders.List(c.Request.Context(), user)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type transitionRequest struct {
	Status string `json:"status"`
}

// PATCH /orders/:id advances the status one step. The response reflects the
// committed status; ready-edge notifications run detached and can neither
// delay nor fail this request.
func (h *handlers) transitionOrder(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	ord, err := h.deps.Orders.Transition(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}
