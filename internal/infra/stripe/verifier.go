// Package stripe confirms external payment ids before an order is paid.
package stripe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"artmarket-app/internal/domain/billing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// Currency every order is charged in.
const Currency = stripego.CurrencyUSD

// Charge is what a payment must settle: the order it was made for and its
// amount.
type Charge struct {
	OrderID uint
	Amount  decimal.Decimal
}

// Verifier confirms that externalID is a settled payment for want. A refusal
// wraps billing.ErrPaymentDeclined.
type Verifier interface {
	Verify(ctx context.Context, method, externalID string, want Charge) error
}

// MockVerifier accepts every payment. It stands in for processors the app has
// no credentials for.
type MockVerifier struct{}

func (MockVerifier) Verify(context.Context, string, string, Charge) error { return nil }

// CheckIntent reports whether pi is a succeeded intent created for want: same
// amount in cents, same currency and the order id in its metadata.
func CheckIntent(pi *stripego.PaymentIntent, want Charge) error {
	if pi == nil {
		return fmt.Errorf("%w: no payment intent", billing.ErrPaymentDeclined)
	}
	if pi.Status != stripego.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: intent is %s", billing.ErrPaymentDeclined, NormalizeIntentStatus(pi.Status))
	}
	cents := want.Amount.Shift(2)
	if !cents.Equal(cents.Truncate(0)) || cents.IntPart() != pi.Amount {
		return fmt.Errorf("%w: intent amount %d does not match %s", billing.ErrPaymentDeclined, pi.Amount, want.Amount.StringFixed(2))
	}
	if !strings.EqualFold(string(pi.Currency), string(Currency)) {
		return fmt.Errorf("%w: intent currency %q", billing.ErrPaymentDeclined, pi.Currency)
	}
	if pi.Metadata["order_id"] != strconv.FormatUint(uint64(want.OrderID), 10) {
		return fmt.Errorf("%w: intent belongs to order %q", billing.ErrPaymentDeclined, pi.Metadata["order_id"])
	}
	return nil
}

// IntentVerifier checks Stripe PaymentIntents ("pi_" ids) against the API and
// hands everything else to Fallback.
type IntentVerifier struct {
	api      *client.API
	Fallback Verifier
	log      logrus.FieldLogger
}

// NewIntentVerifier builds a verifier on the given secret key. backends may be
// nil to use Stripe's defaults.
func NewIntentVerifier(secretKey string, backends *stripego.Backends, log logrus.FieldLogger) *IntentVerifier {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &IntentVerifier{api: api, Fallback: MockVerifier{}, log: log}
}

func (v *IntentVerifier) Verify(ctx context.Context, method, externalID string, want Charge) error {
	if method != billing.MethodStripe || !strings.HasPrefix(externalID, "pi_") {
		return v.Fallback.Verify(ctx, method, externalID, want)
	}

	params := &stripego.PaymentIntentParams{}
	params.Context = ctx
	pi, err := v.api.PaymentIntents.Get(externalID, params)
	if err != nil {
		v.log.WithError(err).WithField("payment_id", externalID).Warn("payment intent lookup failed")
		return fmt.Errorf("%w: %v", billing.ErrPaymentDeclined, err)
	}
	if err := CheckIntent(pi, want); err != nil {
		v.log.WithError(err).WithFields(logrus.Fields{"payment_id": externalID, "order_id": want.OrderID}).Warn("payment intent rejected")
		return err
	}
	return nil
}

// New picks the Stripe-backed verifier when a key is configured.
func New(secretKey string, log logrus.FieldLogger) Verifier {
	if strings.TrimSpace(secretKey) == "" {
		return MockVerifier{}
	}
	return NewIntentVerifier(secretKey, nil, log)
}
