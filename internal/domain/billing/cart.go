package billing

import (
	"time"

	"artmarket-app/internal/domain/works"

	"github.com/shopspring/decimal"
)

// CartItem is unique per (user, artwork); adding again bumps Quantity.
type CartItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_cart_user_artwork,priority:1" json:"user_id"`
	ArtworkID uint           `gorm:"not null;uniqueIndex:idx_cart_user_artwork,priority:2" json:"artwork_id"`
	Artwork   *works.Artwork `gorm:"constraint:OnDelete:CASCADE;" json:"artwork,omitempty"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time      `gorm:"not null" json:"added_at"`
}

func (c CartItem) LineTotal() decimal.Decimal {
	if c.Artwork == nil {
		return decimal.Zero
	}
	return c.Artwork.ListPrice().Mul(decimal.NewFromInt(int64(c.Quantity)))
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
