package gormstore

import (
	"context"
	"errors"
	"time"

	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *Store) CreateAuction(ctx context.Context, a auctions.Auction) (auctions.Auction, error) {
	a.Artwork, a.Winner, a.Bids = nil, nil, nil
	if err := s.conn(ctx).Create(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return auctions.Auction{}, storage.ErrAuctionExists
		}
		return auctions.Auction{}, err
	}
	return s.GetAuction(ctx, a.ID)
}

func (s *Store) CreateArtworkWithAuction(ctx context.Context, art works.Artwork, auc auctions.Auction) (works.Artwork, auctions.Auction, error) {
	art.Image = nil
	auc.Artwork, auc.Winner, auc.Bids = nil, nil, nil
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&art).Error; err != nil {
			return err
		}
		auc.ArtworkID = art.ID
		if err := tx.Create(&auc).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return storage.ErrAuctionExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return works.Artwork{}, auctions.Auction{}, err
	}
	gotArt, err := s.GetArtwork(ctx, art.ID)
	if err != nil {
		return works.Artwork{}, auctions.Auction{}, err
	}
	gotAuc, err := s.GetAuction(ctx, auc.ID)
	return gotArt, gotAuc, err
}

func (s *Store) auctionQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Preload("Artwork").
		Preload("Artwork.Image").
		Preload("Winner")
}

func (s *Store) GetAuction(ctx context.Context, id uint) (auctions.Auction, error) {
	var a auctions.Auction
	err := s.auctionQuery(ctx).First(&a, id).Error
	return a, mapErr(err)
}

func (s *Store) GetAuctionByArtwork(ctx context.Context, artworkID uint) (auctions.Auction, error) {
	var a auctions.Auction
	err := s.auctionQuery(ctx).Where("artwork_id = ?", artworkID).First(&a).Error
	return a, mapErr(err)
}

func (s *Store) ListAuctions(ctx context.Context, f storage.AuctionFilter) ([]auctions.Auction, error) {
	q := s.auctionQuery(ctx).Order("auctions.id")
	if f.ArtistID != 0 {
		q = q.Joins("JOIN artworks ON artworks.id = auctions.artwork_id").
			Where("artworks.artist_id = ?", f.ArtistID)
	}
	if f.WinnersOnly {
		q = q.Where("auctions.is_active = ? AND auctions.winner_id IS NOT NULL", false)
	}
	if f.EndedBefore != nil {
		q = q.Where("auctions.is_active = ? AND auctions.end_time <= ?", true, *f.EndedBefore)
	}
	var out []auctions.Auction
	return out, q.Find(&out).Error
}

func (s *Store) ListBids(ctx context.Context, auctionID uint) ([]auctions.Bid, error) {
	var out []auctions.Bid
	err := s.conn(ctx).
		Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("bid_time DESC, id DESC").
		Find(&out).Error
	return out, err
}

// PlaceBid holds the auction row lock from the check through the write, so
// two bidders can never both pass CheckBid against the same current bid.
func (s *Store) PlaceBid(ctx context.Context, auctionID, bidderID uint, amount decimal.Decimal, now time.Time) (auctions.Auction, auctions.Bid, error) {
	var bid auctions.Bid
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var a auctions.Auction
		if err := tx.Clauses(forUpdate).First(&a, auctionID).Error; err != nil {
			return mapErr(err)
		}
		var art works.Artwork
		if err := tx.Select("id", "artist_id").First(&art, a.ArtworkID).Error; err != nil {
			return mapErr(err)
		}
		if err := a.CheckBid(now, bidderID, art.ArtistID, amount); err != nil {
			return err
		}

		bid = auctions.Bid{AuctionID: auctionID, BidderID: bidderID, Amount: amount, BidTime: now}
		if err := tx.Create(&bid).Error; err != nil {
			return err
		}
		a.Accept(bid)
		return tx.Model(&auctions.Auction{}).Where("id = ?", auctionID).Updates(map[string]any{
			"current_bid": a.CurrentBid,
			"winner_id":   a.WinnerID,
			"updated_at":  now,
		}).Error
	})
	if err != nil {
		return auctions.Auction{}, auctions.Bid{}, err
	}
	a, err := s.GetAuction(ctx, auctionID)
	return a, bid, err
}

func (s *Store) CloseAuction(ctx context.Context, auctionID uint, now time.Time, force bool) (auctions.Auction, *billing.Order, error) {
	var order *billing.Order
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var a auctions.Auction
		if err := tx.Clauses(forUpdate).First(&a, auctionID).Error; err != nil {
			return mapErr(err)
		}
		if err := a.Close(now, force); err != nil {
			return err
		}
		if err := tx.Model(&auctions.Auction{}).Where("id = ?", auctionID).Updates(map[string]any{
			"is_active":  false,
			"outcome":    a.Outcome,
			"closed_at":  a.ClosedAt,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		if a.WinnerID == nil {
			return nil
		}

		artworkID, auctionRef := a.ArtworkID, a.ID
		o := billing.Order{
			BuyerID:   *a.WinnerID,
			ArtworkID: &artworkID,
			Source:    billing.SourceAuction,
			AuctionID: &auctionRef,
			Amount:    a.CurrentBid,
			Status:    billing.OrderPending,
			OrderDate: now,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		order = &o
		return nil
	})
	if err != nil {
		return auctions.Auction{}, nil, err
	}
	a, err := s.GetAuction(ctx, auctionID)
	return a, order, err
}
