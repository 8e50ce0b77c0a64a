package billing

import "artmarket-app/internal/services"

// Handler serves the cart, checkout and payment endpoints.
type Handler struct {
	cart   *services.CartService
	orders *services.OrderService
}

func NewHandler(cart *services.CartService, orders *services.OrderService) *Handler {
	return &Handler{cart: cart, orders: orders}
}
