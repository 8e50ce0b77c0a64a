package billing

import (
	"errors"
	"time"

	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"

	"github.com/shopspring/decimal"
)

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

const (
	SourceCheckout = "checkout"
	SourceAuction  = "auction"
)

var ErrOrderNotPending = errors.New("order is no longer pending")

type Order struct {
	ID      uint        `gorm:"primaryKey" json:"id"`
	BuyerID uint        `gorm:"not null;index" json:"buyer_id"`
	Buyer   *users.User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	ArtworkID *uint          `gorm:"index" json:"artwork_id,omitempty"`
	Artwork   *works.Artwork `gorm:"constraint:OnDelete:CASCADE;" json:"artwork,omitempty"`

	// Source tells whether the order came from checkout or an auction win.
	Source    string          `gorm:"type:varchar(10);not null;default:'checkout'" json:"source"`
	AuctionID *uint           `gorm:"index" json:"auction_id,omitempty"`
	Amount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	Payment *Payment `json:"payment,omitempty"`

	OrderDate time.Time `gorm:"not null;index" json:"order_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Complete moves a pending order to completed. Only recording a successful
// payment may call it.
func (o *Order) Complete() error {
	if o.Status != OrderPending {
		return ErrOrderNotPending
	}
	o.Status = OrderCompleted
	return nil
}

func (o *Order) Cancel() error {
	if o.Status != OrderPending {
		return ErrOrderNotPending
	}
	o.Status = OrderCancelled
	return nil
}
