package users

import (
	"artmarket-app/internal/domain/media"
	"time"
)

const (
	RoleBuyer  = "buyer"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string  `gorm:"index" json:"email,omitempty"`
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`

	// Role is fixed at registration.
	Role string `gorm:"type:varchar(10);not null;default:'buyer';index" json:"role"`
	Bio  string `json:"bio,omitempty"`

	ProfileImageID *string      `gorm:"type:uuid" json:"-"`
	ProfileImage   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"profile_image,omitempty"`

	ProfileSlug *string `gorm:"column:profile_slug;uniqueIndex:idx_users_profile_slug" json:"profile_slug,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsArtist() bool { return u.Role == RoleArtist }

// ValidSignupRole reports whether role may be chosen at registration.
// Admins are provisioned out of band.
func ValidSignupRole(role string) bool {
	return role == RoleBuyer || role == RoleArtist
}
