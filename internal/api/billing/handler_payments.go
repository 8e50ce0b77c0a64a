package billing

import (
	"net/http"

	"artmarket-app/internal/api/respond"

	"github.com/gin-gonic/gin"
)

// GET /orders
func (h *Handler) MyOrders(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	list, err := h.orders.MyOrders(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GET /orders/:order_id
func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	orderID, ok := respond.ID(c, "order_id")
	if !ok {
		return
	}
	o, err := h.orders.GetOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// GET /payments/:id
func (h *Handler) GetPayment(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	id, ok := respond.ID(c, "id")
	if !ok {
		return
	}
	d, err := h.orders.PaymentDetail(c.Request.Context(), actor, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
