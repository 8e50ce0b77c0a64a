package services

import (
	"context"
	"errors"
	"fmt"

	"artmarket-app/internal/domain/media"
	"artmarket-app/internal/infra/blob"
	"artmarket-app/internal/storage"

	"github.com/google/uuid"
)

var errNoMediaBucket = errors.New("media storage not configured")

// Upload is raw image bytes from a multipart form or a decoded AI image.
type Upload struct {
	Data     []byte
	Filename string
}

var mediaPrefixes = map[string]string{
	media.KindArtwork: "artworks/",
	media.KindProfile: "profile_images/",
	media.KindAI:      "ai_generated/ai_generated_",
}

type mediaStore struct {
	store storage.MediaStore
	blobs *blob.Store
}

// save checks the bytes are an image, writes the blob and records it.
func (m *mediaStore) save(ctx context.Context, kind string, up Upload) (media.Image, error) {
	if m.blobs == nil {
		return media.Image{}, errNoMediaBucket
	}
	ct, ext, err := blob.DetectImage(up.Data)
	if err != nil {
		return media.Image{}, invalid("image", err.Error())
	}

	id := uuid.NewString()
	key := mediaPrefixes[kind] + id + ext
	if err := m.blobs.Put(ctx, key, up.Data, ct); err != nil {
		return media.Image{}, fmt.Errorf("store image: %w", err)
	}
	img, err := m.store.CreateImage(ctx, media.Image{
		ID:          id,
		Kind:        kind,
		Path:        key,
		ContentType: ct,
		SizeBytes:   int64(len(up.Data)),
	})
	if err != nil {
		_ = m.blobs.Delete(ctx, key)
		return media.Image{}, err
	}
	return img, nil
}
