package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MethodStripe = "stripe"
	MethodPayPal = "paypal"
)

var (
	ErrInvalidMethod    = errors.New("payment method must be stripe or paypal")
	ErrDuplicatePayment = errors.New("payment id already used")
	ErrPaymentDeclined  = errors.New("payment was not confirmed by the processor")
)

type Payment struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrderID           uint            `gorm:"not null;uniqueIndex:idx_payments_order" json:"order_id"`
	Method            string          `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`
	ExternalPaymentID string          `gorm:"column:payment_id;not null;uniqueIndex:idx_payments_external_id" json:"payment_id"`
	AmountPaid        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	IsSuccessful      bool            `gorm:"not null;default:false" json:"is_successful"`
	PaymentDate       time.Time       `gorm:"not null;index" json:"payment_date"`
}

func NormalizeMethod(m string) (string, error) {
	m = strings.ToLower(strings.TrimSpace(m))
	switch m {
	case "":
		return MethodStripe, nil
	case MethodStripe, MethodPayPal:
		return m, nil
	}
	return "", ErrInvalidMethod
}

// DefaultExternalID mirrors the placeholder id used when no processor id is
// supplied.
func DefaultExternalID(orderID uint) string {
	return fmt.Sprintf("test_%d", orderID)
}
