package stripewebhooks

import (
	"errors"
	"strconv"

	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v75"
)

// handleIntentSucceeded records the payment for the order named in the
// intent's metadata. It returns the status to acknowledge with; an error
// means the event should be retried.
func (h *Handler) handleIntentSucceeded(c *gin.Context, intent *stripe.PaymentIntent) (string, error) {
	log := h.log.WithField("intent_id", intent.ID)

	raw := intent.Metadata["order_id"]
	orderID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || orderID == 0 {
		log.WithField("order_id", raw).Warn("payment intent without a usable order_id")
		return "ignored", nil
	}
	log = log.WithField("order_id", orderID)

	_, err = h.orders.ConfirmIntent(c.Request.Context(), uint(orderID), intent)
	switch {
	case err == nil:
		return "recorded", nil
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrArtworkSold),
		errors.Is(err, billing.ErrOrderNotPending),
		errors.Is(err, billing.ErrPaymentDeclined),
		errors.Is(err, billing.ErrDuplicatePayment):
		log.WithError(err).Warn("payment intent not applied")
		return "ignored", nil
	}
	log.WithFields(logrus.Fields{"error": err.Error()}).Error("payment intent recording failed")
	return "", err
}
