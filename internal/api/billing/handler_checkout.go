package billing

import (
	"net/http"

	"artmarket-app/internal/api/respond"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /checkout/:artwork_id
func (h *Handler) Checkout(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	artworkID, ok := respond.ID(c, "artwork_id")
	if !ok {
		return
	}
	o, err := h.orders.Checkout(c.Request.Context(), actor, artworkID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// POST /payment/:order_id (fields payment_method, payment_id)
func (h *Handler) Pay(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	orderID, ok := respond.ID(c, "order_id")
	if !ok {
		return
	}
	var input services.PayInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&input); err != nil {
			respond.BadRequest(c, err.Error())
			return
		}
	}
	o, err := h.orders.Pay(c.Request.Context(), actor, orderID, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// POST /orders/:order_id/cancel
func (h *Handler) CancelOrder(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	orderID, ok := respond.ID(c, "order_id")
	if !ok {
		return
	}
	o, err := h.orders.Cancel(c.Request.Context(), actor, orderID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
