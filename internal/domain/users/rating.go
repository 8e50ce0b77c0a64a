package users

import (
	"errors"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// ArtistRating is a buyer's review of an artist. A rater may review the same
// artist any number of times.
type ArtistRating struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	ArtistID uint  `gorm:"not null;index" json:"artist_id"`
	Artist   *User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	RaterID  uint  `gorm:"not null;index" json:"rater_id"`
	Rater    *User `gorm:"constraint:OnDelete:CASCADE;" json:"rater,omitempty"`

	Rating int     `gorm:"not null;check:chk_artist_ratings_range,rating BETWEEN 1 AND 5" json:"rating"`
	Review *string `json:"review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return ErrRatingOutOfRange
	}
	return nil
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Summarize averages ratings; the average of no ratings is 0.
func Summarize(ratings []ArtistRating) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	total := 0
	for _, r := range ratings {
		total += r.Rating
	}
	return RatingSummary{
		Average: float64(total) / float64(len(ratings)),
		Count:   int64(len(ratings)),
	}
}
