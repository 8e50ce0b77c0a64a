package services

import (
	"context"
	"time"

	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"github.com/shopspring/decimal"
)

type CartService struct {
	store storage.Store
	now   func() time.Time
}

type CartView struct {
	Items []billing.CartItem `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// Add puts one more of a purchasable artwork in the caller's cart.
func (s *CartService) Add(ctx context.Context, actor Actor, artworkID uint) (billing.CartItem, error) {
	art, err := s.store.GetArtwork(ctx, artworkID)
	if err != nil {
		return billing.CartItem{}, err
	}
	switch {
	case art.SaleMode != works.SaleFixed:
		return billing.CartItem{}, ErrNotFixedPrice
	case !art.Purchasable():
		return billing.CartItem{}, ErrNotPriced
	}
	return s.store.AddToCart(ctx, actor.ID, artworkID, s.now())
}

func (s *CartService) View(ctx context.Context, actor Actor) (CartView, error) {
	items, err := s.store.ListCart(ctx, actor.ID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: nonNil(items), Total: billing.CartTotal(items)}, nil
}

// Remove deletes one of the caller's cart lines. Other users' lines read as
// not found.
func (s *CartService) Remove(ctx context.Context, actor Actor, itemID uint) error {
	return s.store.RemoveFromCart(ctx, actor.ID, itemID)
}
