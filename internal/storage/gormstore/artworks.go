package gormstore

import (
	"context"

	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"
)

func (s *Store) CreateArtwork(ctx context.Context, a works.Artwork) (works.Artwork, error) {
	a.Image = nil
	if err := s.conn(ctx).Create(&a).Error; err != nil {
		return works.Artwork{}, err
	}
	return s.GetArtwork(ctx, a.ID)
}

func (s *Store) GetArtwork(ctx context.Context, id uint) (works.Artwork, error) {
	var a works.Artwork
	err := s.conn(ctx).Preload("Image").First(&a, id).Error
	return a, mapErr(err)
}

func (s *Store) ListArtworks(ctx context.Context, f storage.ArtworkFilter) ([]works.Artwork, error) {
	q := s.conn(ctx).Preload("Image").Order("created_at DESC, id DESC")
	if f.ArtistID != 0 {
		q = q.Where("artist_id = ?", f.ArtistID)
	}
	if f.SaleMode != "" {
		q = q.Where("sale_mode = ?", f.SaleMode)
	}
	if f.AvailableOnly {
		q = q.Where("is_sold = ?", false)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []works.Artwork
	return out, q.Find(&out).Error
}
