package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/events"
	"artmarket-app/internal/metrics"
	"artmarket-app/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AuctionService struct {
	store  storage.Store
	events events.Publisher
	log    logrus.FieldLogger
	now    func() time.Time
}

// AuctionView is an auction with its phase at read time, so a listing can
// tell expired or not-yet-started auctions apart from running ones.
type AuctionView struct {
	auctions.Auction
	Phase auctions.Phase `json:"phase"`
}

func (s *AuctionService) view(a auctions.Auction) AuctionView {
	return AuctionView{Auction: a, Phase: a.PhaseAt(s.now())}
}

func (s *AuctionService) views(list []auctions.Auction) []AuctionView {
	out := make([]AuctionView, 0, len(list))
	for _, a := range list {
		out = append(out, s.view(a))
	}
	return out
}

type CreateAuctionInput struct {
	// StartingBid defaults to the artwork's starting price.
	StartingBid *decimal.Decimal `json:"starting_bid"`
	// StartTime defaults to now.
	StartTime *time.Time `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
}

func (s *AuctionService) CreateAuction(ctx context.Context, actor Actor, artworkID uint, in CreateAuctionInput) (AuctionView, error) {
	if err := actor.require(access.CapRunAuction); err != nil {
		return AuctionView{}, err
	}
	art, err := s.store.GetArtwork(ctx, artworkID)
	if err != nil {
		return AuctionView{}, err
	}
	return s.create(ctx, actor, art, in)
}

func (s *AuctionService) create(ctx context.Context, actor Actor, art works.Artwork, in CreateAuctionInput) (AuctionView, error) {
	if art.ArtistID != actor.ID {
		return AuctionView{}, ErrNotOwner
	}
	if art.SaleMode != works.SaleAuction {
		return AuctionView{}, ErrNotAuctionMode
	}
	if art.Sold {
		return AuctionView{}, storage.ErrArtworkSold
	}

	start := s.now()
	if in.StartTime != nil && !in.StartTime.IsZero() {
		start = *in.StartTime
	}
	bid := decimal.Zero
	switch {
	case in.StartingBid != nil:
		bid = *in.StartingBid
	case art.StartingPrice != nil:
		bid = *art.StartingPrice
	}
	a, err := auctions.New(art.ID, bid, start, in.EndTime)
	if err != nil {
		return AuctionView{}, err
	}
	a, err = s.store.CreateAuction(ctx, a)
	if err != nil {
		return AuctionView{}, err
	}
	return s.created(a), nil
}

func (s *AuctionService) created(a auctions.Auction) AuctionView {
	s.log.WithFields(logrus.Fields{
		"auction_id": a.ID, "artwork_id": a.ArtworkID, "starting_bid": a.StartingBid.String(), "end_time": a.EndTime,
	}).Info("auction created")
	return s.view(a)
}

func bidResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, auctions.ErrBidTooLow):
		return "too_low"
	case errors.Is(err, auctions.ErrAuctionClosed):
		return "closed"
	case errors.Is(err, auctions.ErrAuctionNotStarted):
		return "not_started"
	case errors.Is(err, auctions.ErrAuctionEnded):
		return "ended"
	case errors.Is(err, auctions.ErrSelfBid):
		return "self_bid"
	case errors.Is(err, auctions.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	}
	return "error"
}

// PlaceBid accepts amount iff it beats the current bid while the auction is
// running. A rejected bid leaves the auction untouched.
func (s *AuctionService) PlaceBid(ctx context.Context, actor Actor, auctionID uint, amount decimal.Decimal) (AuctionView, auctions.Bid, error) {
	if err := actor.require(access.CapBid); err != nil {
		return AuctionView{}, auctions.Bid{}, err
	}
	a, bid, err := s.store.PlaceBid(ctx, auctionID, actor.ID, amount, s.now())
	result := bidResult(err)
	metrics.RecordBid(result)

	log := s.log.WithFields(logrus.Fields{"auction_id": auctionID, "bidder_id": actor.ID, "amount": amount.String()})
	if err != nil {
		log.WithField("result", result).Info("bid rejected")
		return AuctionView{}, auctions.Bid{}, err
	}
	log.Info("bid accepted")
	events.Emit(ctx, s.events, s.log, events.EventBidPlaced, fmt.Sprintf("auction:%d", auctionID), events.BidPlacedPayload{
		AuctionID: auctionID, BidID: bid.ID, BidderID: actor.ID, Amount: amount,
	})
	return s.view(a), bid, nil
}

func (s *AuctionService) ListAuctions(ctx context.Context) ([]AuctionView, error) {
	list, err := s.store.ListAuctions(ctx, storage.AuctionFilter{})
	if err != nil {
		return nil, err
	}
	return s.views(list), nil
}

type AuctionDetail struct {
	Auction AuctionView    `json:"auction"`
	Bids    []auctions.Bid `json:"bids"`
}

func (s *AuctionService) AuctionDetail(ctx context.Context, id uint) (AuctionDetail, error) {
	a, err := s.store.GetAuction(ctx, id)
	if err != nil {
		return AuctionDetail{}, err
	}
	bids, err := s.store.ListBids(ctx, id)
	if err != nil {
		return AuctionDetail{}, err
	}
	return AuctionDetail{Auction: s.view(a), Bids: nonNil(bids)}, nil
}

func (s *AuctionService) Winners(ctx context.Context) ([]AuctionView, error) {
	list, err := s.store.ListAuctions(ctx, storage.AuctionFilter{WinnersOnly: true})
	if err != nil {
		return nil, err
	}
	return s.views(list), nil
}

func (s *AuctionService) ArtistAuctions(ctx context.Context, artistID uint) ([]AuctionView, error) {
	list, err := s.store.ListAuctions(ctx, storage.AuctionFilter{ArtistID: artistID})
	if err != nil {
		return nil, err
	}
	return s.views(list), nil
}

type CloseResult struct {
	Auction AuctionView    `json:"auction"`
	Order   *billing.Order `json:"order,omitempty"`
}

// CloseAuction lets the listing artist end their auction early. Admins may
// close any auction.
func (s *AuctionService) CloseAuction(ctx context.Context, actor Actor, id uint) (CloseResult, error) {
	if err := actor.require(access.CapRunAuction); err != nil {
		return CloseResult{}, err
	}
	a, err := s.store.GetAuction(ctx, id)
	if err != nil {
		return CloseResult{}, err
	}
	if actor.Role != users.RoleAdmin && (a.Artwork == nil || a.Artwork.ArtistID != actor.ID) {
		return CloseResult{}, ErrNotOwner
	}
	closed, order, err := s.store.CloseAuction(ctx, id, s.now(), true)
	if err != nil {
		return CloseResult{}, err
	}
	s.afterClose(ctx, closed, order)
	return CloseResult{Auction: s.view(closed), Order: order}, nil
}

// CloseExpired closes every active auction whose end time has passed and
// returns how many it closed. Auctions closed concurrently are skipped.
func (s *AuctionService) CloseExpired(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.store.ListAuctions(ctx, storage.AuctionFilter{EndedBefore: &now})
	if err != nil {
		return 0, err
	}
	closed := 0
	var errs []error
	for _, a := range due {
		c, order, err := s.store.CloseAuction(ctx, a.ID, now, false)
		if errors.Is(err, auctions.ErrAuctionClosed) || errors.Is(err, auctions.ErrAuctionStillOpen) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("close auction %d: %w", a.ID, err))
			continue
		}
		s.afterClose(ctx, c, order)
		closed++
	}
	return closed, errors.Join(errs...)
}

func (s *AuctionService) afterClose(ctx context.Context, a auctions.Auction, order *billing.Order) {
	metrics.RecordAuctionClosed(a.Outcome)
	payload := events.AuctionClosedPayload{
		AuctionID: a.ID, Outcome: a.Outcome, WinnerID: a.WinnerID, Amount: a.CurrentBid,
	}
	fields := logrus.Fields{"auction_id": a.ID, "outcome": a.Outcome}
	if order != nil {
		payload.OrderID = &order.ID
		fields["order_id"] = order.ID
	}
	s.log.WithFields(fields).Info("auction closed")
	events.Emit(ctx, s.events, s.log, events.EventAuctionClosed, fmt.Sprintf("auction:%d", a.ID), payload)
}
