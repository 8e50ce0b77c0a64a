// Package respond turns service results into HTTP responses. Error bodies are
// {"error": message, "code": slug}.
package respond

import (
	"errors"
	"net/http"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/infra/blob"
	"artmarket-app/internal/services"
	"artmarket-app/internal/storage"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

type mapping struct {
	err    error
	status int
	code   string
}

// Checked in order; the first errors.Is match wins.
var mappings = []mapping{
	{storage.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrNoPreview, http.StatusNotFound, "no_preview"},
	{blob.ErrNotFound, http.StatusNotFound, "not_found"},

	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{services.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},

	{access.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
	{services.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{services.ErrOwnArtwork, http.StatusForbidden, "own_artwork"},
	{storage.ErrNotManageable, http.StatusForbidden, "not_assigned"},
	{auctions.ErrSelfBid, http.StatusForbidden, "self_bid"},

	{storage.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{storage.ErrAuctionExists, http.StatusConflict, "auction_exists"},
	{storage.ErrArtworkSold, http.StatusConflict, "artwork_sold"},
	{billing.ErrOrderNotPending, http.StatusConflict, "order_not_pending"},
	{billing.ErrDuplicatePayment, http.StatusConflict, "duplicate_payment"},
	{auctions.ErrBidTooLow, http.StatusConflict, "bid_too_low"},
	{auctions.ErrAuctionClosed, http.StatusConflict, "auction_closed"},
	{auctions.ErrAuctionNotStarted, http.StatusConflict, "auction_not_started"},
	{auctions.ErrAuctionEnded, http.StatusConflict, "auction_ended"},
	{auctions.ErrAuctionStillOpen, http.StatusConflict, "auction_running"},
	{services.ErrNotFixedPrice, http.StatusConflict, "not_fixed_price"},
	{services.ErrNotPriced, http.StatusConflict, "not_priced"},
	{services.ErrNotAuctionMode, http.StatusConflict, "not_auction_mode"},
	{commissions.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},

	{billing.ErrPaymentDeclined, http.StatusPaymentRequired, "payment_declined"},

	{auctions.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
	{auctions.ErrInvalidSchedule, http.StatusUnprocessableEntity, "invalid_schedule"},
	{auctions.ErrInvalidStartBid, http.StatusUnprocessableEntity, "invalid_starting_bid"},
	{billing.ErrInvalidMethod, http.StatusUnprocessableEntity, "invalid_payment_method"},
	{commissions.ErrUnknownStatus, http.StatusUnprocessableEntity, "unknown_status"},
	{services.ErrNotArtist, http.StatusUnprocessableEntity, "not_artist"},
	{services.ErrBadImage, http.StatusUnprocessableEntity, "bad_image"},
	{blob.ErrInvalidKey, http.StatusBadRequest, "invalid_key"},
}

// Classify returns the status and code for err. Unknown errors are 500.
func Classify(err error) (int, string) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, "invalid_input"
	}
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// Error writes err and aborts. Server errors are attached to the context for
// the request logger, reported to Sentry and hidden from the client.
func Error(c *gin.Context, err error) {
	status, code := Classify(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		sentry.CaptureException(err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

// BadRequest is for requests that could not be bound at all.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "code": "bad_request"})
}
