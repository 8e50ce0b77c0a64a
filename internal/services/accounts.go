package services

import (
	"context"
	"errors"
	"strings"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/domain/site"
	"artmarket-app/internal/domain/users"
	"artmarket-app/internal/domain/works"
	"artmarket-app/internal/storage"

	"github.com/sirupsen/logrus"
)

type AccountService struct {
	store    storage.Store
	media    *mediaStore
	auctions *AuctionService
	log      logrus.FieldLogger
}

type Profile struct {
	User      users.User    `json:"user"`
	Policy    access.Policy `json:"policy"`
	PublicURL string        `json:"public_url,omitempty"`
}

func (s *AccountService) Me(ctx context.Context, userID uint) (Profile, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return profileOf(u), nil
}

func profileOf(u users.User) Profile {
	p := Profile{User: u, Policy: access.ComputePolicy(u)}
	if p.Policy.PublicProfile != nil {
		p.PublicURL = site.BuildPublicURL(*p.Policy.PublicProfile)
	}
	return p
}

type ProfileInput struct {
	Bio string `json:"bio" validate:"max=2000"`
}

func (s *AccountService) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (Profile, error) {
	if err := check(in); err != nil {
		return Profile{}, err
	}
	bio := strings.TrimSpace(in.Bio)
	u, err := s.store.UpdateUser(ctx, actor.ID, storage.UserUpdate{Bio: &bio})
	if err != nil {
		return Profile{}, err
	}
	return profileOf(u), nil
}

func (s *AccountService) SetProfileImage(ctx context.Context, actor Actor, up Upload) (Profile, error) {
	img, err := s.media.save(ctx, media.KindProfile, up)
	if err != nil {
		return Profile{}, err
	}
	u, err := s.store.UpdateUser(ctx, actor.ID, storage.UserUpdate{ProfileImageID: &img.ID})
	if err != nil {
		return Profile{}, err
	}
	return profileOf(u), nil
}

func (s *AccountService) ListArtists(ctx context.Context) ([]users.User, error) {
	return s.store.ListUsers(ctx, users.RoleArtist)
}

type ArtistDetail struct {
	Artist   users.User           `json:"artist"`
	Artworks []works.Artwork      `json:"artworks"`
	Ratings  []users.ArtistRating `json:"ratings"`
	Rating   users.RatingSummary  `json:"rating"`
}

func (s *AccountService) getArtist(ctx context.Context, id uint) (users.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return users.User{}, err
	}
	if !u.IsArtist() {
		return users.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *AccountService) ArtistDetail(ctx context.Context, artistID uint) (ArtistDetail, error) {
	artist, err := s.getArtist(ctx, artistID)
	if err != nil {
		return ArtistDetail{}, err
	}
	arts, err := s.store.ListArtworks(ctx, storage.ArtworkFilter{ArtistID: artistID})
	if err != nil {
		return ArtistDetail{}, err
	}
	ratings, err := s.store.ListRatings(ctx, artistID)
	if err != nil {
		return ArtistDetail{}, err
	}
	return ArtistDetail{
		Artist:   artist,
		Artworks: nonNil(arts),
		Ratings:  nonNil(ratings),
		Rating:   users.Summarize(ratings),
	}, nil
}

type RatingInput struct {
	Rating int     `json:"rating" validate:"gte=1,lte=5"`
	Review *string `json:"review" validate:"omitempty,max=2000"`
}

func (s *AccountService) RateArtist(ctx context.Context, actor Actor, artistID uint, in RatingInput) (users.ArtistRating, error) {
	if err := actor.require(access.CapRateArtist); err != nil {
		return users.ArtistRating{}, err
	}
	if err := users.ValidateRating(in.Rating); err != nil {
		return users.ArtistRating{}, invalid("rating", err.Error())
	}
	if err := check(in); err != nil {
		return users.ArtistRating{}, err
	}
	if _, err := s.getArtist(ctx, artistID); err != nil {
		return users.ArtistRating{}, err
	}
	if actor.ID == artistID {
		return users.ArtistRating{}, ErrOwnArtwork
	}
	r, err := s.store.CreateRating(ctx, users.ArtistRating{
		ArtistID: artistID,
		RaterID:  actor.ID,
		Rating:   in.Rating,
		Review:   in.Review,
	})
	if err != nil {
		return users.ArtistRating{}, err
	}
	s.log.WithFields(logrus.Fields{"artist_id": artistID, "rater_id": actor.ID, "rating": in.Rating}).Info("artist rated")
	return r, nil
}

type Dashboard struct {
	Artworks      []works.Artwork      `json:"artworks"`
	Auctions      []AuctionView        `json:"auctions"`
	TotalArtworks int                  `json:"total_artworks"`
	Ratings       []users.ArtistRating `json:"ratings"`
	Rating        users.RatingSummary  `json:"rating"`
}

// Dashboard is an artist's own listings, the auctions on them with their
// phase, and how buyers rated the artist.
func (s *AccountService) Dashboard(ctx context.Context, actor Actor) (Dashboard, error) {
	if err := actor.require(access.CapListArtwork); err != nil {
		return Dashboard{}, err
	}
	arts, err := s.store.ListArtworks(ctx, storage.ArtworkFilter{ArtistID: actor.ID})
	if err != nil {
		return Dashboard{}, err
	}
	aucs, err := s.store.ListAuctions(ctx, storage.AuctionFilter{ArtistID: actor.ID})
	if err != nil {
		return Dashboard{}, err
	}
	ratings, err := s.store.ListRatings(ctx, actor.ID)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Artworks:      nonNil(arts),
		Auctions:      s.auctions.views(aucs),
		TotalArtworks: len(arts),
		Ratings:       nonNil(ratings),
		Rating:        users.Summarize(ratings),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
