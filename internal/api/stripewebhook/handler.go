package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = 65536

type Handler struct {
	orders         *services.OrderService
	endpointSecret string
	log            logrus.FieldLogger
}

func NewHandler(orders *services.OrderService, endpointSecret string, log logrus.FieldLogger) *Handler {
	return &Handler{orders: orders, endpointSecret: endpointSecret, log: log.WithField("component", "stripe_webhook")}
}

// POST /webhook
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.endpointSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.WithError(err).Warn("stripe signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse payment intent"})
			return
		}
		status, err := h.handleIntentSucceeded(c, &intent)
		if err != nil {
			// 5xx makes Stripe retry; permanent failures were mapped to 200 already.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": status})

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err == nil {
			h.log.WithFields(logrus.Fields{
				"intent_id": intent.ID,
				"order_id":  intent.Metadata["order_id"],
			}).Warn("payment intent failed")
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
