package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	EventBidPlaced         = "bid.placed"
	EventAuctionClosed     = "auction.closed"
	EventOrderCreated      = "order.created"
	EventOrderCompleted    = "order.completed"
	EventOrderCancelled    = "order.cancelled"
	EventCommissionUpdated = "commission.updated"
)

const Producer = "artmarket-api"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type BidPlacedPayload struct {
	AuctionID uint            `json:"auction_id"`
	BidID     uint            `json:"bid_id"`
	BidderID  uint            `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type AuctionClosedPayload struct {
	AuctionID uint            `json:"auction_id"`
	Outcome   string          `json:"outcome"`
	WinnerID  *uint           `json:"winner_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	OrderID   *uint           `json:"order_id,omitempty"`
}

type OrderPayload struct {
	OrderID   uint            `json:"order_id"`
	BuyerID   uint            `json:"buyer_id"`
	ArtworkID *uint           `json:"artwork_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	PaymentID *uint           `json:"payment_id,omitempty"`
	Method    string          `json:"method,omitempty"`
}

type CommissionPayload struct {
	OrderID  uint   `json:"order_id"`
	ArtistID uint   `json:"artist_id"`
	Status   string `json:"status"`
}

// NewEnvelope wraps payload; correlationID is the aggregate the event is
// about, e.g. "auction:12", and doubles as the partition key.
func NewEnvelope(eventType, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      Producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// Publisher delivers envelopes. Publish must not block on the broker; a lost
// event never fails the operation that produced it.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	Log logrus.FieldLogger
}

func (p LogPublisher) Publish(_ context.Context, env Envelope) error {
	p.Log.WithFields(logrus.Fields{
		"event_id":       env.EventID,
		"event_type":     env.EventType,
		"correlation_id": env.CorrelationID,
		"payload":        string(env.Payload),
	}).Info("event")
	return nil
}

func (LogPublisher) Close() error { return nil }

// Recorder keeps published envelopes in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(_ context.Context, env Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, env)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the event types in publish order.
func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.EventType)
	}
	return out
}

// Emit builds and publishes an envelope, logging instead of failing.
func Emit(ctx context.Context, pub Publisher, log logrus.FieldLogger, eventType, correlationID string, payload any) {
	if pub == nil {
		return
	}
	env, err := NewEnvelope(eventType, correlationID, payload)
	if err == nil {
		err = pub.Publish(ctx, env)
	}
	if err != nil {
		log.WithError(err).WithField("event_type", eventType).Warn("event not published")
	}
}
