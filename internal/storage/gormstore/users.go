package gormstore

import (
	"context"
	"errors"

	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateUser(ctx context.Context, u users.User) (users.User, error) {
	u.ProfileImage = nil
	if err := s.conn(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return users.User{}, storage.ErrUsernameTaken
		}
		return users.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (users.User, error) {
	var u users.User
	err := s.conn(ctx).Preload("ProfileImage").First(&u, id).Error
	return u, mapErr(err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (users.User, error) {
	var u users.User
	err := s.conn(ctx).Preload("ProfileImage").Where("username = ?", username).First(&u).Error
	return u, mapErr(err)
}

func (s *Store) GetUserByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	var u users.User
	err := s.conn(ctx).Preload("ProfileImage").Where("google_sub = ?", sub).First(&u).Error
	return u, mapErr(err)
}

func (s *Store) UpdateUser(ctx context.Context, id uint, f storage.UserUpdate) (users.User, error) {
	updates := map[string]any{}
	if f.Bio != nil {
		updates["bio"] = *f.Bio
	}
	if f.ProfileImageID != nil {
		updates["profile_image_id"] = *f.ProfileImageID
	}
	if f.ProfileSlug != nil {
		updates["profile_slug"] = *f.ProfileSlug
	}
	if f.PasswordHash != nil {
		updates["password"] = *f.PasswordHash
	}
	if len(updates) > 0 {
		res := s.conn(ctx).Model(&users.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return users.User{}, res.Error
		}
		if res.RowsAffected == 0 {
			return users.User{}, storage.ErrNotFound
		}
	}
	return s.GetUser(ctx, id)
}

func (s *Store) ListUsers(ctx context.Context, role string) ([]users.User, error) {
	q := s.conn(ctx).Preload("ProfileImage").Order("id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var out []users.User
	return out, q.Find(&out).Error
}

func (s *Store) CreateRating(ctx context.Context, r users.ArtistRating) (users.ArtistRating, error) {
	r.Artist, r.Rater = nil, nil
	if err := s.conn(ctx).Create(&r).Error; err != nil {
		return users.ArtistRating{}, err
	}
	return r, nil
}

func (s *Store) ListRatings(ctx context.Context, artistID uint) ([]users.ArtistRating, error) {
	var out []users.ArtistRating
	err := s.conn(ctx).
		Preload("Rater").
		Where("artist_id = ?", artistID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) CreateImage(ctx context.Context, img media.Image) (media.Image, error) {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if err := s.conn(ctx).Create(&img).Error; err != nil {
		return media.Image{}, err
	}
	return img, nil
}
