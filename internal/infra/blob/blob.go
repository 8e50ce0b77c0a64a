// Package blob stores uploaded and generated images in a gocloud bucket.
// MEDIA_BUCKET_URL picks the driver: file:// for local disk, mem:// for tests.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
	ErrNotImage   = errors.New("file is not a supported image")
)

// MaxImageBytes bounds uploads and decoded AI images.
const MaxImageBytes = 10 << 20

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type Store struct {
	bucket *blob.Bucket
}

func Open(ctx context.Context, url string) (*Store, error) {
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open media bucket: %w", err)
	}
	return &Store{bucket: b}, nil
}

func NewFromBucket(b *blob.Bucket) *Store {
	return &Store{bucket: b}
}

func (s *Store) Close() error {
	return s.bucket.Close()
}

// CleanKey rejects absolute keys and parent traversal.
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned != key || strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, "/../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// DetectImage returns the content type and extension (with dot) of data, or
// ErrNotImage.
func DetectImage(data []byte) (string, string, error) {
	if len(data) == 0 || len(data) > MaxImageBytes {
		return "", "", ErrNotImage
	}
	mt := mimetype.Detect(data)
	ct := strings.SplitN(mt.String(), ";", 2)[0]
	if !imageTypes[ct] {
		return "", "", ErrNotImage
	}
	return ct, mt.Extension(), nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	return s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})
}

type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// Get opens key for streaming. The caller closes the returned Object.
func (s *Store) Get(ctx context.Context, key string) (*Object, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Object{ReadCloser: r, ContentType: r.ContentType(), Size: r.Size()}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return err
	}
	return nil
}
