package commissions

import (
	"errors"
	"fmt"
	"time"

	"artmarket-app/internal/domain/users"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// ArtTypes maps the stored code to its display label.
var ArtTypes = map[string]string{
	"oil":       "Oil Painting",
	"water":     "Watercolor Painting",
	"acrylic":   "Acrylic Painting",
	"digital":   "Digital Art",
	"charcoal":  "Charcoal Drawing",
	"pencil":    "Pencil Sketch",
	"sculpture": "Sculpture",
	"other":     "Other",
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown status")
)

var transitions = map[string][]string{
	StatusPending:    {StatusAccepted, StatusRejected},
	StatusAccepted:   {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusCompleted},
}

type CustomArtOrder struct {
	ID     uint        `gorm:"primaryKey" json:"id"`
	UserID uint        `gorm:"not null;index" json:"user_id"`
	User   *users.User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	AssignedArtistID *uint       `gorm:"index" json:"assigned_artist_id,omitempty"`
	AssignedArtist   *users.User `gorm:"foreignKey:AssignedArtistID;constraint:OnDelete:SET NULL;" json:"assigned_artist,omitempty"`

	Title         string          `gorm:"size:200;not null" json:"title"`
	ArtType       string          `gorm:"type:varchar(20);not null" json:"art_type"`
	Description   string          `gorm:"not null" json:"description"`
	Dimensions    string          `gorm:"column:length;size:100" json:"dimensions"`
	Budget        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"budget"`
	ArtistRequest *string         `json:"artist_request,omitempty"`

	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func ValidArtType(t string) bool {
	_, ok := ArtTypes[t]
	return ok
}

func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition applies a status change. CompletedAt is stamped exactly when the
// order enters completed.
func (o *CustomArtOrder) Transition(to string, now time.Time) error {
	if !KnownStatus(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	if to == StatusCompleted {
		o.CompletedAt = &now
	}
	return nil
}

// ManageableBy reports whether artistID may drive this order's status.
// Unassigned pending orders are open to any artist.
func (o CustomArtOrder) ManageableBy(artistID uint) bool {
	if o.AssignedArtistID != nil {
		return *o.AssignedArtistID == artistID
	}
	return o.Status == StatusPending
}

func (o CustomArtOrder) VisibleTo(userID uint) bool {
	if o.UserID == userID {
		return true
	}
	return o.AssignedArtistID != nil && *o.AssignedArtistID == userID
}
