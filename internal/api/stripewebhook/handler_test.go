package stripewebhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/services"
	"artmarket-app/internal/storage/memory"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75/webhook"
)

const secret = "whsec_test"

func init() { gin.SetMode(gin.TestMode) }

func intentEvent(intentID, orderID string, cents int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": %q, "object": "payment_intent", "status": "succeeded", "amount": %d, "currency": "usd", "metadata": {"order_id": %q}}}
	}`, intentID, cents, orderID))
}

func post(r http.Handler, payload []byte, sign bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(string(payload)))
	if sign {
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
			Payload:   payload,
			Secret:    secret,
			Timestamp: time.Now(),
		})
		req.Header.Set("Stripe-Signature", signed.Header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func setup(t *testing.T) (*gin.Engine, *memory.Store, billing.Order) {
	t.Helper()
	log, _ := test.NewNullLogger()
	store := memory.New()
	svc := services.New(services.Deps{Store: store, Log: log, JWTSecret: "x"})
	ctx := context.Background()

	artist, err := store.CreateUser(ctx, users.User{Username: "ana", Role: users.RoleArtist})
	require.NoError(t, err)
	buyer, err := store.CreateUser(ctx, users.User{Username: "bob", Role: users.RoleBuyer})
	require.NoError(t, err)
	price := decimal.NewFromInt(40)
	art, err := svc.Catalog.CreateArtwork(ctx, services.Actor{ID: artist.ID, Role: artist.Role},
		services.ArtworkInput{Title: "Fog", SaleMode: "fixed", FixedPrice: &price}, nil)
	require.NoError(t, err)
	order, err := svc.Orders.Checkout(ctx, services.Actor{ID: buyer.ID, Role: buyer.Role}, art.Artwork.ID)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/webhook", NewHandler(svc.Orders, secret, log).StripeWebhook)
	return r, store, order
}

func TestWebhookRecordsPayment(t *testing.T) {
	r, store, order := setup(t)
	payload := intentEvent("pi_123", fmt.Sprint(order.ID), 4000)

	w := post(r, payload, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "recorded", body["status"])

	got, err := store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.OrderCompleted, got.Status)

	// redelivery is acknowledged without a second payment
	w = post(r, payload, true)
	assert.Equal(t, http.StatusOK, w.Code)
	payments, err := store.ListPayments(context.Background())
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r, _, order := setup(t)
	w := post(r, intentEvent("pi_1", fmt.Sprint(order.ID), 4000), false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookIgnoresUnknownOrder(t *testing.T) {
	r, _, _ := setup(t)
	w := post(r, intentEvent("pi_9", "999", 4000), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")

	w = post(r, intentEvent("pi_9", "not-a-number", 4000), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestWebhookIgnoresUnderpayingIntent(t *testing.T) {
	r, store, order := setup(t)
	w := post(r, intentEvent("pi_small", fmt.Sprint(order.ID), 100), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")

	got, err := store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.OrderPending, got.Status)
	payments, err := store.ListPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
}
