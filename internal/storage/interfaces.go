package storage

import (
	"context"
	"errors"
	"time"

	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already registered")
	ErrAuctionExists = errors.New("artwork already has an auction")
	ErrArtworkSold   = errors.New("artwork is already sold")
	ErrNotManageable = errors.New("order is not assigned to this artist")
)

// UserStore persists accounts and artist ratings.
type UserStore interface {
	CreateUser(ctx context.Context, u users.User) (users.User, error)
	GetUser(ctx context.Context, id uint) (users.User, error)
	GetUserByUsername(ctx context.Context, username string) (users.User, error)
	GetUserByGoogleSub(ctx context.Context, sub string) (users.User, error)
	UpdateUser(ctx context.Context, id uint, fields UserUpdate) (users.User, error)
	ListUsers(ctx context.Context, role string) ([]users.User, error)

	CreateRating(ctx context.Context, r users.ArtistRating) (users.ArtistRating, error)
	ListRatings(ctx context.Context, artistID uint) ([]users.ArtistRating, error)
}

// UserUpdate carries the mutable profile columns; nil fields are left alone.
type UserUpdate struct {
	Bio            *string
	ProfileImageID *string
	ProfileSlug    *string
	PasswordHash   *string
}

type MediaStore interface {
	CreateImage(ctx context.Context, img media.Image) (media.Image, error)
}

type ArtworkFilter struct {
	ArtistID      uint
	SaleMode      string
	AvailableOnly bool
	Limit         int
}

type ArtworkStore interface {
	CreateArtwork(ctx context.Context, a works.Artwork) (works.Artwork, error)
	GetArtwork(ctx context.Context, id uint) (works.Artwork, error)
	// ListArtworks returns newest first.
	ListArtworks(ctx context.Context, f ArtworkFilter) ([]works.Artwork, error)
}

// AuctionStore owns the per-auction serialization point: PlaceBid and
// CloseAuction lock the auction row for the whole check-and-write.
type AuctionStore interface {
	CreateAuction(ctx context.Context, a auctions.Auction) (auctions.Auction, error)
	// CreateArtworkWithAuction lists art and opens auc on it in one write;
	// auc.ArtworkID is filled in. Either both exist afterwards or neither does.
	CreateArtworkWithAuction(ctx context.Context, art works.Artwork, auc auctions.Auction) (works.Artwork, auctions.Auction, error)
	GetAuction(ctx context.Context, id uint) (auctions.Auction, error)
	GetAuctionByArtwork(ctx context.Context, artworkID uint) (auctions.Auction, error)
	ListAuctions(ctx context.Context, f AuctionFilter) ([]auctions.Auction, error)
	// ListBids returns newest first.
	ListBids(ctx context.Context, auctionID uint) ([]auctions.Bid, error)

	PlaceBid(ctx context.Context, auctionID, bidderID uint, amount decimal.Decimal, now time.Time) (auctions.Auction, auctions.Bid, error)
	// CloseAuction closes the auction and, when there is a winner, opens a
	// pending order for them in the same transaction.
	CloseAuction(ctx context.Context, auctionID uint, now time.Time, force bool) (auctions.Auction, *billing.Order, error)
}

type AuctionFilter struct {
	ArtistID uint
	// WinnersOnly selects closed auctions that have a winner.
	WinnersOnly bool
	// EndedBefore selects active auctions whose end time is not after it.
	EndedBefore *time.Time
}

type CartStore interface {
	// AddToCart inserts the line or increments its quantity atomically.
	AddToCart(ctx context.Context, userID, artworkID uint, now time.Time) (billing.CartItem, error)
	ListCart(ctx context.Context, userID uint) ([]billing.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, itemID uint) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o billing.Order) (billing.Order, error)
	GetOrder(ctx context.Context, id uint) (billing.Order, error)
	ListOrders(ctx context.Context, buyerID uint) ([]billing.Order, error)
	ListPayments(ctx context.Context) ([]billing.Payment, error)
	GetPayment(ctx context.Context, id uint) (billing.Payment, error)
	// RecordPayment stores a successful payment, completes the order and marks
	// the artwork sold, all or nothing.
	RecordPayment(ctx context.Context, orderID uint, p billing.Payment) (billing.Order, billing.Payment, error)
	CancelOrder(ctx context.Context, orderID uint) (billing.Order, error)
}

type CommissionStore interface {
	CreateCustomOrder(ctx context.Context, o commissions.CustomArtOrder) (commissions.CustomArtOrder, error)
	GetCustomOrder(ctx context.Context, id uint) (commissions.CustomArtOrder, error)
	ListCustomOrdersByUser(ctx context.Context, userID uint) ([]commissions.CustomArtOrder, error)
	// ListCustomOrdersForArtist returns orders assigned to the artist plus
	// unassigned pending ones.
	ListCustomOrdersForArtist(ctx context.Context, artistID uint) ([]commissions.CustomArtOrder, error)
	// TransitionCustomOrder applies a status change for artistID, assigning
	// them when they pick up an unassigned order.
	TransitionCustomOrder(ctx context.Context, id, artistID uint, to string, now time.Time) (commissions.CustomArtOrder, error)
}

// Store is everything the services need.
type Store interface {
	UserStore
	MediaStore
	ArtworkStore
	AuctionStore
	CartStore
	OrderStore
	CommissionStore
}
