package gormstore

import (
	"context"
	"time"

	"artmarket-app/internal/domain/commissions"
	"artmarket-app/internal/storage"

	"gorm.io/gorm"
)

func (s *Store) CreateCustomOrder(ctx context.Context, o commissions.CustomArtOrder) (commissions.CustomArtOrder, error) {
	o.User, o.AssignedArtist = nil, nil
	if o.Status == "" {
		o.Status = commissions.StatusPending
	}
	if err := s.conn(ctx).Create(&o).Error; err != nil {
		return commissions.CustomArtOrder{}, err
	}
	return s.GetCustomOrder(ctx, o.ID)
}

func (s *Store) GetCustomOrder(ctx context.Context, id uint) (commissions.CustomArtOrder, error) {
	var o commissions.CustomArtOrder
	err := s.conn(ctx).Preload("AssignedArtist").First(&o, id).Error
	return o, mapErr(err)
}

func (s *Store) ListCustomOrdersByUser(ctx context.Context, userID uint) ([]commissions.CustomArtOrder, error) {
	var out []commissions.CustomArtOrder
	err := s.conn(ctx).
		Preload("AssignedArtist").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) ListCustomOrdersForArtist(ctx context.Context, artistID uint) ([]commissions.CustomArtOrder, error) {
	var out []commissions.CustomArtOrder
	err := s.conn(ctx).
		Preload("AssignedArtist").
		Where("assigned_artist_id = ? OR (assigned_artist_id IS NULL AND status = ?)", artistID, commissions.StatusPending).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) TransitionCustomOrder(ctx context.Context, id, artistID uint, to string, now time.Time) (commissions.CustomArtOrder, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var o commissions.CustomArtOrder
		if err := tx.Clauses(forUpdate).First(&o, id).Error; err != nil {
			return mapErr(err)
		}
		if !o.ManageableBy(artistID) {
			return storage.ErrNotManageable
		}
		if err := o.Transition(to, now); err != nil {
			return err
		}
		if o.AssignedArtistID == nil {
			assigned := artistID
			o.AssignedArtistID = &assigned
		}
		return tx.Model(&commissions.CustomArtOrder{}).Where("id = ?", id).Updates(map[string]any{
			"status":             o.Status,
			"completed_at":       o.CompletedAt,
			"assigned_artist_id": o.AssignedArtistID,
		}).Error
	})
	if err != nil {
		return commissions.CustomArtOrder{}, err
	}
	return s.GetCustomOrder(ctx, id)
}
