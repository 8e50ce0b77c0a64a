package auctions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artistID uint = 1

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func liveAuction(t *testing.T) Auction {
	t.Helper()
	a, err := New(7, dec(50), t0, t0.Add(24*time.Hour))
	require.NoError(t, err)
	return a
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(1, dec(0), t0, t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidStartBid)

	_, err = New(1, dec(10), t0, t0)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	a, err := New(1, dec(10), t0, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, a.CurrentBid.Equal(a.StartingBid))
	assert.True(t, a.IsActive)
}

func TestPhaseAt(t *testing.T) {
	a := liveAuction(t)
	assert.Equal(t, PhaseScheduled, a.PhaseAt(t0.Add(-time.Minute)))
	assert.Equal(t, PhaseActive, a.PhaseAt(t0))
	assert.Equal(t, PhaseEnded, a.PhaseAt(t0.Add(24*time.Hour)))

	require.NoError(t, a.Close(t0.Add(25*time.Hour), false))
	assert.Equal(t, PhaseUnsold, a.PhaseAt(t0.Add(25*time.Hour)))
}

func TestBiddingScenario(t *testing.T) {
	a := liveAuction(t)
	now := t0.Add(time.Hour)
	const buyerA, buyerB, buyerC uint = 10, 11, 12

	require.NoError(t, a.CheckBid(now, buyerA, artistID, dec(100)))
	a.Accept(Bid{BidderID: buyerA, Amount: dec(100)})
	assert.True(t, a.CurrentBid.Equal(dec(100)))
	assert.Equal(t, buyerA, *a.WinnerID)

	err := a.CheckBid(now, buyerB, artistID, dec(80))
	assert.ErrorIs(t, err, ErrBidTooLow)
	assert.True(t, a.CurrentBid.Equal(dec(100)))
	assert.Equal(t, buyerA, *a.WinnerID)

	require.NoError(t, a.CheckBid(now, buyerC, artistID, dec(150)))
	a.Accept(Bid{BidderID: buyerC, Amount: dec(150)})
	assert.True(t, a.CurrentBid.Equal(dec(150)))
	assert.Equal(t, buyerC, *a.WinnerID)
}

func TestCheckBidRejections(t *testing.T) {
	a := liveAuction(t)
	now := t0.Add(time.Hour)

	assert.ErrorIs(t, a.CheckBid(now, 10, artistID, dec(50)), ErrBidTooLow, "equal to current bid")
	assert.ErrorIs(t, a.CheckBid(now, 10, artistID, dec(0)), ErrInvalidAmount)
	assert.ErrorIs(t, a.CheckBid(now, artistID, artistID, dec(500)), ErrSelfBid)
	assert.ErrorIs(t, a.CheckBid(t0.Add(-time.Second), 10, artistID, dec(60)), ErrAuctionNotStarted)
	assert.ErrorIs(t, a.CheckBid(t0.Add(48*time.Hour), 10, artistID, dec(60)), ErrAuctionEnded)

	require.NoError(t, a.Close(now, true))
	assert.ErrorIs(t, a.CheckBid(now, 10, artistID, dec(60)), ErrAuctionClosed)
}

func TestClose(t *testing.T) {
	a := liveAuction(t)
	assert.ErrorIs(t, a.Close(t0.Add(time.Hour), false), ErrAuctionStillOpen)

	a.Accept(Bid{BidderID: 10, Amount: dec(75)})
	end := t0.Add(24 * time.Hour)
	require.NoError(t, a.Close(end, false))
	assert.False(t, a.IsActive)
	assert.Equal(t, OutcomeWon, a.Outcome)
	assert.Equal(t, end, *a.ClosedAt)
	assert.Equal(t, PhaseWon, a.PhaseAt(end))

	assert.ErrorIs(t, a.Close(end, true), ErrAuctionClosed)
}
