package works

import (
	"errors"
	"strings"
	"time"

	"artmarket-app/internal/domain/media"

	"github.com/shopspring/decimal"
)

const (
	SaleAuction = "auction"
	SaleFixed   = "fixed"
)

const DefaultAISourceModel = "Stability AI"

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidSaleMode  = errors.New("sale mode must be auction or fixed")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrStartingPriceReq = errors.New("auction artworks need a starting price above zero")
)

type Artwork struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ArtistID uint `gorm:"not null;index" json:"artist_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`

	ImageID *string      `gorm:"type:uuid" json:"-"`
	Image   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"image,omitempty"`

	SaleMode      string           `gorm:"type:varchar(10);not null;default:'fixed';index" json:"sale_mode"`
	StartingPrice *decimal.Decimal `gorm:"type:numeric(10,2)" json:"starting_price,omitempty"`
	FixedPrice    *decimal.Decimal `gorm:"type:numeric(10,2)" json:"fixed_price,omitempty"`
	Sold          bool             `gorm:"column:is_sold;not null;default:false;index" json:"is_sold"`

	IsAIGenerated bool   `gorm:"not null;default:false" json:"is_ai_generated"`
	Prompt        string `json:"prompt,omitempty"`
	SourceModel   string `json:"source_model,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidSaleMode(m string) bool {
	return m == SaleAuction || m == SaleFixed
}

// Purchasable reports whether the artwork has a list price buyers can pay.
// Auction artworks are sold by winning their auction, and a fixed-mode
// artwork without a price (e.g. saved concept art) is not for sale.
func (a Artwork) Purchasable() bool {
	return a.SaleMode == SaleFixed && a.FixedPrice != nil
}

// ListPrice is what a cart line or checkout charges for the artwork; zero
// when it is not purchasable.
func (a Artwork) ListPrice() decimal.Decimal {
	if !a.Purchasable() {
		return decimal.Zero
	}
	return *a.FixedPrice
}

func (a Artwork) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleRequired
	}
	if !ValidSaleMode(a.SaleMode) {
		return ErrInvalidSaleMode
	}
	switch a.SaleMode {
	case SaleAuction:
		if a.StartingPrice == nil || !a.StartingPrice.IsPositive() {
			return ErrStartingPriceReq
		}
	case SaleFixed:
		if a.FixedPrice != nil && a.FixedPrice.IsNegative() {
			return ErrInvalidPrice
		}
	}
	return nil
}
