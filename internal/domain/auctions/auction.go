package auctions

import (
	"errors"
	"fmt"
	"time"

	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"

	"github.com/shopspring/decimal"
)

// Phase is the externally visible lifecycle stage of an auction.
type Phase string

const (
	PhaseScheduled Phase = "scheduled"
	PhaseActive    Phase = "active"
	// PhaseEnded: end_time has passed but the closer has not run yet.
	PhaseEnded  Phase = "ended"
	PhaseWon    Phase = "won"
	PhaseUnsold Phase = "unsold"
)

const (
	OutcomeWon    = "won"
	OutcomeUnsold = "unsold"
)

var (
	ErrInvalidAmount     = errors.New("bid amount must be greater than zero")
	ErrBidTooLow         = errors.New("bid must be higher than the current bid")
	ErrAuctionClosed     = errors.New("auction is closed")
	ErrAuctionNotStarted = errors.New("auction has not started yet")
	ErrAuctionEnded      = errors.New("auction has ended")
	ErrAuctionStillOpen  = errors.New("auction is still running")
	ErrSelfBid           = errors.New("artists cannot bid on their own artwork")
	ErrInvalidSchedule   = errors.New("auction must end after it starts")
	ErrInvalidStartBid   = errors.New("starting bid must be greater than zero")
)

type Auction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ArtworkID uint           `gorm:"not null;uniqueIndex:idx_auctions_artwork" json:"artwork_id"`
	Artwork   *works.Artwork `gorm:"constraint:OnDelete:CASCADE;" json:"artwork,omitempty"`

	StartingBid decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"starting_bid"`
	CurrentBid  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"current_bid"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`

	Outcome  string     `gorm:"type:varchar(10)" json:"outcome,omitempty"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	WinnerID *uint       `gorm:"index" json:"winner_id,omitempty"`
	Winner   *users.User `gorm:"foreignKey:WinnerID;constraint:OnDelete:SET NULL;" json:"winner,omitempty"`

	Bids []Bid `gorm:"constraint:OnDelete:CASCADE;" json:"bids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bid is append-only.
type Bid struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	AuctionID uint            `gorm:"not null;index:idx_bids_auction_time,priority:1" json:"auction_id"`
	BidderID  uint            `gorm:"not null;index" json:"bidder_id"`
	Bidder    *users.User     `gorm:"constraint:OnDelete:CASCADE;" json:"bidder,omitempty"`
	Amount    decimal.Decimal `gorm:"column:bid_amount;type:numeric(10,2);not null" json:"amount"`
	BidTime   time.Time       `gorm:"not null;index:idx_bids_auction_time,priority:2,sort:desc" json:"bid_time"`
}

// New builds an active auction whose current bid starts at the starting bid.
func New(artworkID uint, startingBid decimal.Decimal, start, end time.Time) (Auction, error) {
	if !startingBid.IsPositive() {
		return Auction{}, ErrInvalidStartBid
	}
	if !end.After(start) {
		return Auction{}, ErrInvalidSchedule
	}
	return Auction{
		ArtworkID:   artworkID,
		StartingBid: startingBid,
		CurrentBid:  startingBid,
		StartTime:   start,
		EndTime:     end,
		IsActive:    true,
	}, nil
}

func (a Auction) PhaseAt(now time.Time) Phase {
	if !a.IsActive {
		if a.Outcome == OutcomeWon {
			return PhaseWon
		}
		return PhaseUnsold
	}
	if now.Before(a.StartTime) {
		return PhaseScheduled
	}
	if !now.Before(a.EndTime) {
		return PhaseEnded
	}
	return PhaseActive
}

// CheckBid decides whether bidderID may bid amount at now. ownerID is the
// artist who listed the artwork.
func (a Auction) CheckBid(now time.Time, bidderID, ownerID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	switch a.PhaseAt(now) {
	case PhaseWon, PhaseUnsold:
		return ErrAuctionClosed
	case PhaseScheduled:
		return ErrAuctionNotStarted
	case PhaseEnded:
		return ErrAuctionEnded
	}
	if bidderID == ownerID {
		return ErrSelfBid
	}
	if !amount.GreaterThan(a.CurrentBid) {
		return fmt.Errorf("%w (current bid %s)", ErrBidTooLow, a.CurrentBid.StringFixed(2))
	}
	return nil
}

// Accept records b as the leading bid. Callers must have passed CheckBid
// under the same lock.
func (a *Auction) Accept(b Bid) {
	a.CurrentBid = b.Amount
	bidder := b.BidderID
	a.WinnerID = &bidder
}

// Close ends the auction. Unless force is set it refuses to close before
// EndTime.
func (a *Auction) Close(now time.Time, force bool) error {
	if !a.IsActive {
		return ErrAuctionClosed
	}
	if !force && now.Before(a.EndTime) {
		return ErrAuctionStillOpen
	}
	a.IsActive = false
	a.ClosedAt = &now
	if a.WinnerID != nil {
		a.Outcome = OutcomeWon
	} else {
		a.Outcome = OutcomeUnsold
	}
	return nil
}
