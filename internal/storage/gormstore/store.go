// Package gormstore is the postgres-backed storage.Store.
package gormstore

import (
	"context"
	"errors"

	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

var _ storage.Store = (*Store)(nil)

// New wraps db. The connection should be opened with TranslateError so unique
// violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Models lists every table the store reads or writes, in migration order.
func Models() []any {
	return []any{
		&media.Image{},
		&users.User{},
		&users.ArtistRating{},
		&works.Artwork{},
		&auctions.Auction{},
		&auctions.Bid{},
		&billing.CartItem{},
		&billing.Order{},
		&billing.Payment{},
		&commissions.CustomArtOrder{},
	}
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
