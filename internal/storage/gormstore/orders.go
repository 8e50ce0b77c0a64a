package gormstore

import (
	"context"
	"errors"
	"time"

	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddToCart relies on the (user_id, artwork_id) unique index: concurrent adds
// of the same artwork collapse into one line whose quantity counts them all.
func (s *Store) AddToCart(ctx context.Context, userID, artworkID uint, now time.Time) (billing.CartItem, error) {
	var exists int64
	if err := s.conn(ctx).Model(&works.Artwork{}).Where("id = ?", artworkID).Count(&exists).Error; err != nil {
		return billing.CartItem{}, err
	}
	if exists == 0 {
		return billing.CartItem{}, storage.ErrNotFound
	}

	it := billing.CartItem{UserID: userID, ArtworkID: artworkID, Quantity: 1, AddedAt: now}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "artwork_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + 1"),
		}),
	}).Create(&it).Error
	if err != nil {
		return billing.CartItem{}, err
	}

	var out billing.CartItem
	err = s.conn(ctx).Preload("Artwork").
		Where("user_id = ? AND artwork_id = ?", userID, artworkID).
		First(&out).Error
	return out, mapErr(err)
}

func (s *Store) ListCart(ctx context.Context, userID uint) ([]billing.CartItem, error) {
	var out []billing.CartItem
	err := s.conn(ctx).
		Preload("Artwork").
		Preload("Artwork.Image").
		Where("user_id = ?", userID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (s *Store) RemoveFromCart(ctx context.Context, userID, itemID uint) error {
	res := s.conn(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&billing.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, o billing.Order) (billing.Order, error) {
	o.Buyer, o.Artwork, o.Payment = nil, nil, nil
	if o.Status == "" {
		o.Status = billing.OrderPending
	}
	if o.Source == "" {
		o.Source = billing.SourceCheckout
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	if err := s.conn(ctx).Create(&o).Error; err != nil {
		return billing.Order{}, err
	}
	return s.GetOrder(ctx, o.ID)
}

func (s *Store) orderQuery(ctx context.Context) *gorm.DB {
	return s.conn(ctx).
		Preload("Artwork").
		Preload("Artwork.Image").
		Preload("Payment")
}

func (s *Store) GetOrder(ctx context.Context, id uint) (billing.Order, error) {
	var o billing.Order
	err := s.orderQuery(ctx).First(&o, id).Error
	return o, mapErr(err)
}

func (s *Store) ListOrders(ctx context.Context, buyerID uint) ([]billing.Order, error) {
	var out []billing.Order
	err := s.orderQuery(ctx).Where("buyer_id = ?", buyerID).Order("id DESC").Find(&out).Error
	return out, err
}

func (s *Store) ListPayments(ctx context.Context) ([]billing.Payment, error) {
	var out []billing.Payment
	return out, s.conn(ctx).Order("id DESC").Find(&out).Error
}

func (s *Store) GetPayment(ctx context.Context, id uint) (billing.Payment, error) {
	var p billing.Payment
	err := s.conn(ctx).First(&p, id).Error
	return p, mapErr(err)
}

// RecordPayment locks the order, flips the artwork to sold only if it is not
// already sold, and writes the payment. Any failure rolls all three back.
func (s *Store) RecordPayment(ctx context.Context, orderID uint, p billing.Payment) (billing.Order, billing.Payment, error) {
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var o billing.Order
		if err := tx.Clauses(forUpdate).First(&o, orderID).Error; err != nil {
			return mapErr(err)
		}
		if err := o.Complete(); err != nil {
			return err
		}

		if o.ArtworkID != nil {
			res := tx.Model(&works.Artwork{}).
				Where("id = ? AND is_sold = ?", *o.ArtworkID, false).
				Updates(map[string]any{"is_sold": true, "updated_at": p.PaymentDate})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return storage.ErrArtworkSold
			}
		}

		p.OrderID = orderID
		p.IsSuccessful = true
		if err := tx.Create(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return billing.ErrDuplicatePayment
			}
			return err
		}

		return tx.Model(&billing.Order{}).Where("id = ?", orderID).Updates(map[string]any{
			"status":     o.Status,
			"updated_at": p.PaymentDate,
		}).Error
	})
	if err != nil {
		return billing.Order{}, billing.Payment{}, err
	}
	o, err := s.GetOrder(ctx, orderID)
	return o, p, err
}

func (s *Store) CancelOrder(ctx context.Context, orderID uint) (billing.Order, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var o billing.Order
		if err := tx.Clauses(forUpdate).First(&o, orderID).Error; err != nil {
			return mapErr(err)
		}
		if err := o.Cancel(); err != nil {
			return err
		}
		return tx.Model(&billing.Order{}).Where("id = ?", orderID).Updates(map[string]any{
			"status":     o.Status,
			"updated_at": time.Now(),
		}).Error
	})
	if err != nil {
		return billing.Order{}, err
	}
	return s.GetOrder(ctx, orderID)
}
