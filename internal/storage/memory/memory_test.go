package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedUser(t *testing.T, s *Store, name, role string) users.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), users.User{Username: name, Role: role})
	require.NoError(t, err)
	return u
}

func seedArtwork(t *testing.T, s *Store, artistID uint, mode string, price string) works.Artwork {
	t.Helper()
	p := dec(price)
	a := works.Artwork{ArtistID: artistID, Title: "Untitled", SaleMode: mode}
	if mode == works.SaleAuction {
		a.StartingPrice = &p
	} else {
		a.FixedPrice = &p
	}
	out, err := s.CreateArtwork(context.Background(), a)
	require.NoError(t, err)
	return out
}

func seedAuction(t *testing.T, s *Store, artworkID uint, start string, from, to time.Time) auctions.Auction {
	t.Helper()
	a, err := auctions.New(artworkID, dec(start), from, to)
	require.NoError(t, err)
	out, err := s.CreateAuction(context.Background(), a)
	require.NoError(t, err)
	return out
}

func TestUsernameUnique(t *testing.T) {
	s := New()
	seedUser(t, s, "ana", users.RoleArtist)
	_, err := s.CreateUser(context.Background(), users.User{Username: "ana"})
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
}

func TestBidRaisesCurrentBid(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	art := seedArtwork(t, s, artist.ID, works.SaleAuction, "100")
	a := seedAuction(t, s, art.ID, "100", now.Add(-time.Hour), now.Add(time.Hour))

	got, bid, err := s.PlaceBid(ctx, a.ID, buyer.ID, dec("120"), now)
	require.NoError(t, err)
	assert.Equal(t, "120.00", got.CurrentBid.StringFixed(2))
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, buyer.ID, *got.WinnerID)
	assert.Equal(t, buyer.ID, bid.BidderID)

	_, _, err = s.PlaceBid(ctx, a.ID, buyer.ID, dec("110"), now)
	assert.ErrorIs(t, err, auctions.ErrBidTooLow)

	_, _, err = s.PlaceBid(ctx, a.ID, artist.ID, dec("500"), now)
	assert.ErrorIs(t, err, auctions.ErrSelfBid)

	bids, err := s.ListBids(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.NotNil(t, bids[0].Bidder)
	assert.Equal(t, "buyer", bids[0].Bidder.Username)
}

func TestBidOutsideWindow(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)

	early := seedAuction(t, s, seedArtwork(t, s, artist.ID, works.SaleAuction, "10").ID, "10", now.Add(time.Hour), now.Add(2*time.Hour))
	_, _, err := s.PlaceBid(ctx, early.ID, buyer.ID, dec("20"), now)
	assert.ErrorIs(t, err, auctions.ErrAuctionNotStarted)

	late := seedAuction(t, s, seedArtwork(t, s, artist.ID, works.SaleAuction, "10").ID, "10", now.Add(-2*time.Hour), now.Add(-time.Hour))
	_, _, err = s.PlaceBid(ctx, late.ID, buyer.ID, dec("20"), now)
	assert.ErrorIs(t, err, auctions.ErrAuctionEnded)

	got, err := s.GetAuction(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.CurrentBid.StringFixed(2))
}

func TestConcurrentBidsKeepHighest(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	art := seedArtwork(t, s, artist.ID, works.SaleAuction, "1")
	a := seedAuction(t, s, art.ID, "1", now.Add(-time.Hour), now.Add(time.Hour))

	bidders := make([]users.User, 20)
	for i := range bidders {
		bidders[i] = seedUser(t, s, fmt.Sprintf("bidder%d", i), users.RoleBuyer)
	}

	var wg sync.WaitGroup
	for i, b := range bidders {
		wg.Add(1)
		go func(amount int64, bidderID uint) {
			defer wg.Done()
			_, _, _ = s.PlaceBid(ctx, a.ID, bidderID, decimal.NewFromInt(amount), now)
		}(int64(i+2), b.ID)
	}
	wg.Wait()

	got, err := s.GetAuction(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "21", got.CurrentBid.String())
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, bidders[19].ID, *got.WinnerID)

	bids, err := s.ListBids(ctx, a.ID)
	require.NoError(t, err)
	for i := 1; i < len(bids); i++ {
		assert.True(t, bids[i-1].Amount.GreaterThan(bids[i].Amount))
	}
}

func TestCloseAuctionOpensOrderForWinner(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	art := seedArtwork(t, s, artist.ID, works.SaleAuction, "50")
	a := seedAuction(t, s, art.ID, "50", now.Add(-time.Hour), now.Add(time.Hour))

	_, _, err := s.PlaceBid(ctx, a.ID, buyer.ID, dec("75"), now)
	require.NoError(t, err)

	_, _, err = s.CloseAuction(ctx, a.ID, now, false)
	assert.ErrorIs(t, err, auctions.ErrAuctionStillOpen)

	closed, order, err := s.CloseAuction(ctx, a.ID, now.Add(2*time.Hour), false)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.Equal(t, auctions.OutcomeWon, closed.Outcome)
	require.NotNil(t, order)
	assert.Equal(t, buyer.ID, order.BuyerID)
	assert.Equal(t, billing.SourceAuction, order.Source)
	assert.Equal(t, "75.00", order.Amount.StringFixed(2))

	_, _, err = s.CloseAuction(ctx, a.ID, now.Add(3*time.Hour), true)
	assert.ErrorIs(t, err, auctions.ErrAuctionClosed)

	winners, err := s.ListAuctions(ctx, storage.AuctionFilter{WinnersOnly: true})
	require.NoError(t, err)
	require.Len(t, winners, 1)
	require.NotNil(t, winners[0].Winner)
	assert.Equal(t, "buyer", winners[0].Winner.Username)
}

func TestCloseWithoutBidsIsUnsold(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	a := seedAuction(t, s, seedArtwork(t, s, artist.ID, works.SaleAuction, "5").ID, "5", now.Add(-2*time.Hour), now.Add(-time.Hour))

	due, err := s.ListAuctions(ctx, storage.AuctionFilter{EndedBefore: &now})
	require.NoError(t, err)
	require.Len(t, due, 1)

	closed, order, err := s.CloseAuction(ctx, a.ID, now, false)
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Equal(t, auctions.OutcomeUnsold, closed.Outcome)

	due, err = s.ListAuctions(ctx, storage.AuctionFilter{EndedBefore: &now})
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestOneAuctionPerArtwork(t *testing.T) {
	s := New()
	now := time.Now()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	art := seedArtwork(t, s, artist.ID, works.SaleAuction, "5")
	seedAuction(t, s, art.ID, "5", now, now.Add(time.Hour))

	a, err := auctions.New(art.ID, dec("5"), now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = s.CreateAuction(context.Background(), a)
	assert.ErrorIs(t, err, storage.ErrAuctionExists)
}

func TestCreateArtworkWithAuction(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	p := dec("20")
	a, err := auctions.New(0, p, now, now.Add(time.Hour))
	require.NoError(t, err)

	art, auc, err := s.CreateArtworkWithAuction(ctx, works.Artwork{ArtistID: artist.ID, Title: "Tide", SaleMode: works.SaleAuction, StartingPrice: &p}, a)
	require.NoError(t, err)
	assert.Equal(t, art.ID, auc.ArtworkID)
	byArt, err := s.GetAuctionByArtwork(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, auc.ID, byArt.ID)

	_, _, err = s.CreateArtworkWithAuction(ctx, works.Artwork{ArtistID: 404, Title: "Ghost", SaleMode: works.SaleAuction, StartingPrice: &p}, a)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	list, err := s.ListArtworks(ctx, storage.ArtworkFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	all, err := s.ListAuctions(ctx, storage.AuctionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCartAddIsUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	art := seedArtwork(t, s, artist.ID, works.SaleFixed, "30")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddToCart(ctx, buyer.ID, art.ID, time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.ListCart(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
	assert.Equal(t, "300.00", billing.CartTotal(items).StringFixed(2))

	_, err = s.AddToCart(ctx, buyer.ID, 999, time.Now())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRemoveFromCartIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	other := seedUser(t, s, "other", users.RoleBuyer)
	art := seedArtwork(t, s, artist.ID, works.SaleFixed, "30")

	it, err := s.AddToCart(ctx, buyer.ID, art.ID, time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, s.RemoveFromCart(ctx, other.ID, it.ID), storage.ErrNotFound)
	require.NoError(t, s.RemoveFromCart(ctx, buyer.ID, it.ID))
	assert.ErrorIs(t, s.RemoveFromCart(ctx, buyer.ID, it.ID), storage.ErrNotFound)
}

func TestRecordPaymentMarksSold(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	art := seedArtwork(t, s, artist.ID, works.SaleFixed, "200")

	o, err := s.CreateOrder(ctx, billing.Order{BuyerID: buyer.ID, ArtworkID: &art.ID, Amount: dec("200")})
	require.NoError(t, err)
	assert.Equal(t, billing.OrderPending, o.Status)

	paid, pay, err := s.RecordPayment(ctx, o.ID, billing.Payment{
		Method: billing.MethodStripe, ExternalPaymentID: "pi_1", AmountPaid: dec("200"),
	})
	require.NoError(t, err)
	assert.Equal(t, billing.OrderCompleted, paid.Status)
	assert.True(t, pay.IsSuccessful)
	require.NotNil(t, paid.Payment)
	assert.Equal(t, "pi_1", paid.Payment.ExternalPaymentID)

	got, err := s.GetArtwork(ctx, art.ID)
	require.NoError(t, err)
	assert.True(t, got.Sold)

	_, _, err = s.RecordPayment(ctx, o.ID, billing.Payment{ExternalPaymentID: "pi_2"})
	assert.ErrorIs(t, err, billing.ErrOrderNotPending)
}

func TestSecondPaymentForSameArtworkFails(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	a := seedUser(t, s, "a", users.RoleBuyer)
	b := seedUser(t, s, "b", users.RoleBuyer)
	art := seedArtwork(t, s, artist.ID, works.SaleFixed, "10")

	o1, err := s.CreateOrder(ctx, billing.Order{BuyerID: a.ID, ArtworkID: &art.ID, Amount: dec("10")})
	require.NoError(t, err)
	o2, err := s.CreateOrder(ctx, billing.Order{BuyerID: b.ID, ArtworkID: &art.ID, Amount: dec("10")})
	require.NoError(t, err)

	_, _, err = s.RecordPayment(ctx, o1.ID, billing.Payment{ExternalPaymentID: "x1"})
	require.NoError(t, err)
	_, _, err = s.RecordPayment(ctx, o2.ID, billing.Payment{ExternalPaymentID: "x2"})
	assert.ErrorIs(t, err, storage.ErrArtworkSold)

	left, err := s.GetOrder(ctx, o2.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.OrderPending, left.Status)
	assert.Nil(t, left.Payment)
}

func TestDuplicateExternalPaymentID(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	art1 := seedArtwork(t, s, artist.ID, works.SaleFixed, "10")
	art2 := seedArtwork(t, s, artist.ID, works.SaleFixed, "10")

	o1, _ := s.CreateOrder(ctx, billing.Order{BuyerID: buyer.ID, ArtworkID: &art1.ID, Amount: dec("10")})
	o2, _ := s.CreateOrder(ctx, billing.Order{BuyerID: buyer.ID, ArtworkID: &art2.ID, Amount: dec("10")})

	_, _, err := s.RecordPayment(ctx, o1.ID, billing.Payment{ExternalPaymentID: "same"})
	require.NoError(t, err)
	_, _, err = s.RecordPayment(ctx, o2.ID, billing.Payment{ExternalPaymentID: "same"})
	assert.ErrorIs(t, err, billing.ErrDuplicatePayment)

	art, _ := s.GetArtwork(ctx, art2.ID)
	assert.False(t, art.Sold)
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	art := seedArtwork(t, s, artist.ID, works.SaleFixed, "10")

	o, _ := s.CreateOrder(ctx, billing.Order{BuyerID: buyer.ID, ArtworkID: &art.ID, Amount: dec("10")})
	c, err := s.CancelOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.OrderCancelled, c.Status)

	_, _, err = s.RecordPayment(ctx, o.ID, billing.Payment{ExternalPaymentID: "late"})
	assert.ErrorIs(t, err, billing.ErrOrderNotPending)
}

func TestCommissionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)
	ana := seedUser(t, s, "ana", users.RoleArtist)
	bo := seedUser(t, s, "bo", users.RoleArtist)

	open, err := s.CreateCustomOrder(ctx, commissions.CustomArtOrder{
		UserID: buyer.ID, Title: "Portrait", ArtType: "oil", Description: "my cat", Budget: dec("300"),
	})
	require.NoError(t, err)
	assert.Equal(t, commissions.StatusPending, open.Status)

	board, err := s.ListCustomOrdersForArtist(ctx, bo.ID)
	require.NoError(t, err)
	assert.Len(t, board, 1)

	now := time.Now()
	claimed, err := s.TransitionCustomOrder(ctx, open.ID, ana.ID, commissions.StatusAccepted, now)
	require.NoError(t, err)
	require.NotNil(t, claimed.AssignedArtistID)
	assert.Equal(t, ana.ID, *claimed.AssignedArtistID)

	_, err = s.TransitionCustomOrder(ctx, open.ID, bo.ID, commissions.StatusInProgress, now)
	assert.ErrorIs(t, err, storage.ErrNotManageable)

	board, err = s.ListCustomOrdersForArtist(ctx, bo.ID)
	require.NoError(t, err)
	assert.Empty(t, board)

	_, err = s.TransitionCustomOrder(ctx, open.ID, ana.ID, commissions.StatusCompleted, now)
	assert.ErrorIs(t, err, commissions.ErrInvalidTransition)

	_, err = s.TransitionCustomOrder(ctx, open.ID, ana.ID, commissions.StatusInProgress, now)
	require.NoError(t, err)
	done, err := s.TransitionCustomOrder(ctx, open.ID, ana.ID, commissions.StatusCompleted, now)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	mine, err := s.ListCustomOrdersByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, commissions.StatusCompleted, mine[0].Status)
}

func TestListArtworksFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	for i := 0; i < 7; i++ {
		seedArtwork(t, s, artist.ID, works.SaleFixed, "10")
	}
	seedArtwork(t, s, artist.ID, works.SaleAuction, "10")

	home, err := s.ListArtworks(ctx, storage.ArtworkFilter{Limit: 5})
	require.NoError(t, err)
	require.Len(t, home, 5)
	assert.Greater(t, home[0].ID, home[1].ID)

	auctionOnly, err := s.ListArtworks(ctx, storage.ArtworkFilter{SaleMode: works.SaleAuction})
	require.NoError(t, err)
	assert.Len(t, auctionOnly, 1)
}

func TestRatings(t *testing.T) {
	ctx := context.Background()
	s := New()
	artist := seedUser(t, s, "artist", users.RoleArtist)
	buyer := seedUser(t, s, "buyer", users.RoleBuyer)

	for _, r := range []int{5, 4, 3} {
		_, err := s.CreateRating(ctx, users.ArtistRating{ArtistID: artist.ID, RaterID: buyer.ID, Rating: r})
		require.NoError(t, err)
	}
	ratings, err := s.ListRatings(ctx, artist.ID)
	require.NoError(t, err)
	sum := users.Summarize(ratings)
	assert.Equal(t, int64(3), sum.Count)
	assert.InDelta(t, 4.0, sum.Average, 0.001)
}
