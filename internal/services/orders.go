package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/events"
	"artmarket-app/internal/infra/stripe"
	"artmarket-app/internal/metrics"
	"artmarket-app/internal/storage"

	"github.com/sirupsen/logrus"
	stripego "github.com/stripe/stripe-go/v75"
)

type OrderService struct {
	store    storage.Store
	verifier stripe.Verifier
	events   events.Publisher
	log      logrus.FieldLogger
	now      func() time.Time
}

func orderKey(id uint) string { return fmt.Sprintf("order:%d", id) }

func orderPayload(o billing.Order) events.OrderPayload {
	p := events.OrderPayload{
		OrderID:   o.ID,
		BuyerID:   o.BuyerID,
		ArtworkID: o.ArtworkID,
		Amount:    o.Amount,
		Status:    o.Status,
	}
	if o.Payment != nil {
		p.PaymentID = &o.Payment.ID
		p.Method = o.Payment.Method
	}
	return p
}

// Checkout opens a pending order for a fixed-price artwork at its list price.
func (s *OrderService) Checkout(ctx context.Context, actor Actor, artworkID uint) (billing.Order, error) {
	if err := actor.require(access.CapPurchase); err != nil {
		return billing.Order{}, err
	}
	art, err := s.store.GetArtwork(ctx, artworkID)
	if err != nil {
		return billing.Order{}, err
	}
	switch {
	case art.Sold:
		return billing.Order{}, storage.ErrArtworkSold
	case art.SaleMode != works.SaleFixed:
		return billing.Order{}, ErrNotFixedPrice
	case !art.Purchasable():
		return billing.Order{}, ErrNotPriced
	case art.ArtistID == actor.ID:
		return billing.Order{}, ErrOwnArtwork
	}

	o, err := s.store.CreateOrder(ctx, billing.Order{
		BuyerID:   actor.ID,
		ArtworkID: &art.ID,
		Source:    billing.SourceCheckout,
		Amount:    art.ListPrice(),
		Status:    billing.OrderPending,
		OrderDate: s.now(),
	})
	if err != nil {
		return billing.Order{}, err
	}
	s.log.WithFields(logrus.Fields{"order_id": o.ID, "buyer_id": actor.ID, "artwork_id": art.ID}).Info("order created")
	events.Emit(ctx, s.events, s.log, events.EventOrderCreated, orderKey(o.ID), orderPayload(o))
	return o, nil
}

// ownOrder loads an order the actor placed; anyone else's reads as not found.
func (s *OrderService) ownOrder(ctx context.Context, actor Actor, id uint) (billing.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return billing.Order{}, err
	}
	if o.BuyerID != actor.ID && actor.Role != users.RoleAdmin {
		return billing.Order{}, storage.ErrNotFound
	}
	return o, nil
}

type PayInput struct {
	Method    string `json:"payment_method" form:"payment_method"`
	PaymentID string `json:"payment_id" form:"payment_id" validate:"max=255"`
}

// Pay settles a pending order. The payment row, the order completion and the
// artwork's sold flag are written together or not at all.
func (s *OrderService) Pay(ctx context.Context, actor Actor, orderID uint, in PayInput) (billing.Order, error) {
	if err := check(in); err != nil {
		return billing.Order{}, err
	}
	method, err := billing.NormalizeMethod(in.Method)
	if err != nil {
		return billing.Order{}, invalid("payment_method", err.Error())
	}
	o, err := s.ownOrder(ctx, actor, orderID)
	if err != nil {
		return billing.Order{}, err
	}
	if o.Status != billing.OrderPending {
		return billing.Order{}, billing.ErrOrderNotPending
	}
	externalID := strings.TrimSpace(in.PaymentID)
	if externalID == "" {
		externalID = billing.DefaultExternalID(o.ID)
	}

	if err := s.verifier.Verify(ctx, method, externalID, stripe.Charge{OrderID: o.ID, Amount: o.Amount}); err != nil {
		metrics.RecordPayment(method, false)
		s.log.WithError(err).WithFields(logrus.Fields{"order_id": o.ID, "method": method}).Warn("payment not verified")
		return billing.Order{}, err
	}
	return s.record(ctx, o, method, externalID)
}

// ConfirmIntent records a payment the processor reported as succeeded,
// e.g. from a webhook. The intent must match the order's id and amount.
// Replays of an already recorded intent are no-ops.
func (s *OrderService) ConfirmIntent(ctx context.Context, orderID uint, intent *stripego.PaymentIntent) (billing.Order, error) {
	if intent == nil || intent.ID == "" {
		return billing.Order{}, fmt.Errorf("%w: no payment intent", billing.ErrPaymentDeclined)
	}
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return billing.Order{}, err
	}
	if o.Payment != nil && o.Payment.ExternalPaymentID == intent.ID {
		return o, nil
	}
	if err := stripe.CheckIntent(intent, stripe.Charge{OrderID: o.ID, Amount: o.Amount}); err != nil {
		metrics.RecordPayment(billing.MethodStripe, false)
		s.log.WithError(err).WithFields(logrus.Fields{"order_id": o.ID, "payment_id": intent.ID}).Warn("payment intent rejected")
		return billing.Order{}, err
	}
	return s.record(ctx, o, billing.MethodStripe, intent.ID)
}

func (s *OrderService) record(ctx context.Context, o billing.Order, method, externalID string) (billing.Order, error) {
	log := s.log.WithFields(logrus.Fields{"order_id": o.ID, "method": method, "payment_id": externalID})
	out, _, err := s.store.RecordPayment(ctx, o.ID, billing.Payment{
		Method:            method,
		ExternalPaymentID: externalID,
		AmountPaid:        o.Amount,
		PaymentDate:       s.now(),
	})
	metrics.RecordPayment(method, err == nil)
	if err != nil {
		log.WithError(err).Warn("payment rejected")
		return billing.Order{}, err
	}
	log.WithField("amount", out.Amount.String()).Info("payment recorded")
	events.Emit(ctx, s.events, s.log, events.EventOrderCompleted, orderKey(out.ID), orderPayload(out))
	return out, nil
}

func (s *OrderService) Cancel(ctx context.Context, actor Actor, orderID uint) (billing.Order, error) {
	if _, err := s.ownOrder(ctx, actor, orderID); err != nil {
		return billing.Order{}, err
	}
	o, err := s.store.CancelOrder(ctx, orderID)
	if err != nil {
		return billing.Order{}, err
	}
	s.log.WithField("order_id", o.ID).Info("order cancelled")
	events.Emit(ctx, s.events, s.log, events.EventOrderCancelled, orderKey(o.ID), orderPayload(o))
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor Actor, orderID uint) (billing.Order, error) {
	return s.ownOrder(ctx, actor, orderID)
}

func (s *OrderService) MyOrders(ctx context.Context, actor Actor) ([]billing.Order, error) {
	list, err := s.store.ListOrders(ctx, actor.ID)
	return nonNil(list), err
}

type PaymentDetail struct {
	Payment billing.Payment `json:"payment"`
	Order   billing.Order   `json:"order"`
}

func (s *OrderService) PaymentDetail(ctx context.Context, actor Actor, paymentID uint) (PaymentDetail, error) {
	p, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return PaymentDetail{}, err
	}
	o, err := s.ownOrder(ctx, actor, p.OrderID)
	if err != nil {
		return PaymentDetail{}, err
	}
	return PaymentDetail{Payment: p, Order: o}, nil
}
