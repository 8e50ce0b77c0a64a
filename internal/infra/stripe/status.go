package stripe

import (
	"strings"

	stripego "github.com/stripe/stripe-go/v75"
)

// NormalizeIntentStatus folds the PaymentIntent states into the few a buyer
// needs to see when a payment is refused.
func NormalizeIntentStatus(s stripego.PaymentIntentStatus) string {
	switch strings.TrimSpace(string(s)) {
	case "":
		return "unknown"
	case string(stripego.PaymentIntentStatusSucceeded):
		return "succeeded"
	case string(stripego.PaymentIntentStatusProcessing):
		return "processing"
	case string(stripego.PaymentIntentStatusRequiresAction),
		string(stripego.PaymentIntentStatusRequiresConfirmation),
		string(stripego.PaymentIntentStatusRequiresPaymentMethod):
		return "requires_action"
	case string(stripego.PaymentIntentStatusCanceled):
		return "canceled"
	default:
		return strings.TrimSpace(string(s))
	}
}
