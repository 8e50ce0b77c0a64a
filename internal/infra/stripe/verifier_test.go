package stripe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artmarket-app/internal/domain/billing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIntent is what the fake Stripe API answers for any intent id.
type stubIntent struct {
	status   string
	amount   int64
	currency string
	orderID  string
}

// order 7 for 10.00, the charge every stub intent below is checked against
var tenDollars = Charge{OrderID: 7, Amount: decimal.RequireFromString("10.00")}

func newTestVerifier(t *testing.T, status string) *IntentVerifier {
	t.Helper()
	return newStubVerifier(t, stubIntent{status: status, amount: 1000, currency: "usd", orderID: "7"})
}

func newStubVerifier(t *testing.T, in stubIntent) *IntentVerifier {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		if id == "pi_missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such payment_intent"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":%q,"object":"payment_intent","status":%q,"amount":%d,"currency":%q,"metadata":{"order_id":%q}}`,
			id, in.status, in.amount, in.currency, in.orderID)
	}))
	t.Cleanup(srv.Close)

	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(srv.URL),
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	})
	log, _ := test.NewNullLogger()
	return NewIntentVerifier("sk_test_123", &stripego.Backends{API: backend, Connect: backend, Uploads: backend}, log)
}

func TestIntentVerifierSucceeded(t *testing.T) {
	v := newTestVerifier(t, "succeeded")
	require.NoError(t, v.Verify(context.Background(), billing.MethodStripe, "pi_123", tenDollars))
}

func TestIntentVerifierDeclines(t *testing.T) {
	v := newTestVerifier(t, "requires_payment_method")
	err := v.Verify(context.Background(), billing.MethodStripe, "pi_123", tenDollars)
	assert.ErrorIs(t, err, billing.ErrPaymentDeclined)
	assert.Contains(t, err.Error(), "requires_action")

	err = v.Verify(context.Background(), billing.MethodStripe, "pi_missing", tenDollars)
	assert.ErrorIs(t, err, billing.ErrPaymentDeclined)
}

func TestIntentVerifierFallsBack(t *testing.T) {
	v := newTestVerifier(t, "canceled")
	assert.NoError(t, v.Verify(context.Background(), billing.MethodStripe, "test_4", tenDollars))
	assert.NoError(t, v.Verify(context.Background(), billing.MethodPayPal, "pi_looks_like_stripe", tenDollars))
}

func TestIntentVerifierRejectsMismatchedIntent(t *testing.T) {
	cases := []struct {
		name string
		in   stubIntent
		msg  string
	}{
		{"smaller amount", stubIntent{status: "succeeded", amount: 100, currency: "usd", orderID: "7"}, "amount 100"},
		{"other order", stubIntent{status: "succeeded", amount: 1000, currency: "usd", orderID: "999"}, "order \"999\""},
		{"no order", stubIntent{status: "succeeded", amount: 1000, currency: "usd"}, "order \"\""},
		{"other currency", stubIntent{status: "succeeded", amount: 1000, currency: "eur", orderID: "7"}, "currency"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newStubVerifier(t, tc.in)
			err := v.Verify(context.Background(), billing.MethodStripe, "pi_123", tenDollars)
			require.ErrorIs(t, err, billing.ErrPaymentDeclined)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestCheckIntentFractionalAmount(t *testing.T) {
	pi := &stripego.PaymentIntent{
		Status:   stripego.PaymentIntentStatusSucceeded,
		Amount:   1999,
		Currency: stripego.CurrencyUSD,
		Metadata: map[string]string{"order_id": "3"},
	}
	assert.NoError(t, CheckIntent(pi, Charge{OrderID: 3, Amount: decimal.RequireFromString("19.99")}))
	assert.ErrorIs(t, CheckIntent(pi, Charge{OrderID: 3, Amount: decimal.RequireFromString("19.995")}), billing.ErrPaymentDeclined)
	assert.ErrorIs(t, CheckIntent(nil, Charge{OrderID: 3}), billing.ErrPaymentDeclined)
}

func TestNewWithoutKeyIsMock(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, ok := New("", log).(MockVerifier)
	assert.True(t, ok)
}

func TestNormalizeIntentStatus(t *testing.T) {
	assert.Equal(t, "unknown", NormalizeIntentStatus(""))
	assert.Equal(t, "requires_action", NormalizeIntentStatus(stripego.PaymentIntentStatusRequiresConfirmation))
	assert.Equal(t, "canceled", NormalizeIntentStatus(stripego.PaymentIntentStatusCanceled))
}
