package billing

import (
	"net/http"

	"artmarket-app/internal/api/respond"

	"github.com/gin-gonic/gin"
)

// GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	view, err := h.cart.View(c.Request.Context(), actor)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /add-to-cart/:artwork_id
func (h *Handler) AddToCart(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	artworkID, ok := respond.ID(c, "artwork_id")
	if !ok {
		return
	}
	item, err := h.cart.Add(c.Request.Context(), actor, artworkID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// POST /remove-from-cart/:item_id
func (h *Handler) RemoveFromCart(c *gin.Context) {
	actor, ok := respond.Actor(c)
	if !ok {
		return
	}
	itemID, ok := respond.ID(c, "item_id")
	if !ok {
		return
	}
	if err := h.cart.Remove(c.Request.Context(), actor, itemID); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}
