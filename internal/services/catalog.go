package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const homeLimit = 5

type CatalogService struct {
	store    storage.Store
	media    *mediaStore
	auctions *AuctionService
	log      logrus.FieldLogger
	now      func() time.Time
}

func (s *CatalogService) ListArtworks(ctx context.Context, f storage.ArtworkFilter) ([]works.Artwork, error) {
	list, err := s.store.ListArtworks(ctx, f)
	return nonNil(list), err
}

// Home is the landing page feed.
func (s *CatalogService) Home(ctx context.Context) ([]works.Artwork, error) {
	return s.ListArtworks(ctx, storage.ArtworkFilter{Limit: homeLimit})
}

func (s *CatalogService) MyArtworks(ctx context.Context, actor Actor) ([]works.Artwork, error) {
	if err := actor.require(access.CapListArtwork); err != nil {
		return nil, err
	}
	return s.ListArtworks(ctx, storage.ArtworkFilter{ArtistID: actor.ID})
}

type ArtworkDetail struct {
	Artwork works.Artwork `json:"artwork"`
	Auction *AuctionView  `json:"auction,omitempty"`
}

func (s *CatalogService) ArtworkDetail(ctx context.Context, id uint) (ArtworkDetail, error) {
	art, err := s.store.GetArtwork(ctx, id)
	if err != nil {
		return ArtworkDetail{}, err
	}
	out := ArtworkDetail{Artwork: art}
	a, err := s.store.GetAuctionByArtwork(ctx, id)
	switch {
	case err == nil:
		v := s.auctions.view(a)
		out.Auction = &v
	case !isNotFound(err):
		return ArtworkDetail{}, err
	}
	return out, nil
}

type ArtworkInput struct {
	Title         string           `json:"title" form:"title" validate:"required,max=200"`
	Description   string           `json:"description" form:"description" validate:"max=5000"`
	SaleMode      string           `json:"sale_mode" form:"sale_mode" validate:"required,oneof=auction fixed"`
	StartingPrice *decimal.Decimal `json:"starting_price" form:"starting_price"`
	FixedPrice    *decimal.Decimal `json:"fixed_price" form:"fixed_price"`

	// AuctionEnd opens the auction in the same call; AuctionStart defaults
	// to now.
	AuctionStart *time.Time `json:"auction_start" form:"auction_start"`
	AuctionEnd   *time.Time `json:"auction_end" form:"auction_end"`
}

var artworkFields = map[error]string{
	works.ErrTitleRequired:    "title",
	works.ErrInvalidSaleMode:  "sale_mode",
	works.ErrInvalidPrice:     "fixed_price",
	works.ErrStartingPriceReq: "starting_price",
}

func artworkInvalid(err error) error {
	for sentinel, field := range artworkFields {
		if errors.Is(err, sentinel) {
			return invalid(field, err.Error())
		}
	}
	return err
}

type CreatedArtwork struct {
	Artwork works.Artwork `json:"artwork"`
	Auction *AuctionView  `json:"auction,omitempty"`
}

// CreateArtwork lists a new artwork for actor. img may be nil.
func (s *CatalogService) CreateArtwork(ctx context.Context, actor Actor, in ArtworkInput, img *Upload) (CreatedArtwork, error) {
	if err := actor.require(access.CapListArtwork); err != nil {
		return CreatedArtwork{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return CreatedArtwork{}, err
	}
	art := works.Artwork{
		ArtistID:    actor.ID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		SaleMode:    in.SaleMode,
	}
	switch in.SaleMode {
	case works.SaleAuction:
		art.StartingPrice = in.StartingPrice
	case works.SaleFixed:
		art.FixedPrice = in.FixedPrice
	}
	if err := art.Validate(); err != nil {
		return CreatedArtwork{}, artworkInvalid(err)
	}
	if in.AuctionEnd != nil && in.SaleMode != works.SaleAuction {
		return CreatedArtwork{}, invalid("auction_end", "only auction artworks can open an auction")
	}
	var auc *auctions.Auction
	if in.AuctionEnd != nil {
		start := s.now()
		if in.AuctionStart != nil && !in.AuctionStart.IsZero() {
			start = *in.AuctionStart
		}
		a, err := auctions.New(0, *art.StartingPrice, start, *in.AuctionEnd)
		if err != nil {
			return CreatedArtwork{}, err
		}
		auc = &a
	}

	if img != nil && len(img.Data) > 0 {
		saved, err := s.media.save(ctx, media.KindArtwork, *img)
		if err != nil {
			return CreatedArtwork{}, err
		}
		art.ImageID = &saved.ID
		art.Image = &saved
	}

	if auc == nil {
		created, err := s.store.CreateArtwork(ctx, art)
		if err != nil {
			return CreatedArtwork{}, err
		}
		s.logListed(created)
		return CreatedArtwork{Artwork: created}, nil
	}

	created, a, err := s.store.CreateArtworkWithAuction(ctx, art, *auc)
	if err != nil {
		return CreatedArtwork{}, err
	}
	s.logListed(created)
	view := s.auctions.created(a)
	return CreatedArtwork{Artwork: created, Auction: &view}, nil
}

func (s *CatalogService) logListed(art works.Artwork) {
	s.log.WithFields(logrus.Fields{"artwork_id": art.ID, "artist_id": art.ArtistID, "sale_mode": art.SaleMode}).Info("artwork listed")
}
