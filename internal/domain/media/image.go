package media

import "time"

const (
	KindArtwork = "artwork"
	KindProfile = "profile"
	KindAI      = "ai"
)

// Image points at a blob in the media bucket.
type Image struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Kind        string `gorm:"type:varchar(20);not null;default:'artwork'" json:"kind"`
	Path        string `gorm:"not null" json:"path"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// URL is the public path the media handler serves the blob under.
func (i Image) URL() string {
	return "/media/" + i.Path
}
