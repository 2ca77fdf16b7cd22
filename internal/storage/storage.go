package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/travel-web/apiserver/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Images stores tour and profile images behind an ObjectStorage backend.
type Images struct {
	backend ObjectStorage
}

// NewImages selects and initializes the configured backend. A nil Images
// (empty backend config) means image upload/download is disabled.
func NewImages(ctx context.Context, cfg config.StorageConfig) (*Images, error) {
	var backend ObjectStorage
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "minio":
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case "gcs":
		client, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return &Images{backend: backend}, nil
}

// TourImageKey is the object key for a tour's card image.
func TourImageKey(tourID int) string {
	return fmt.Sprintf("tours/%d/image", tourID)
}

// ProfileImageKey is the object key for a user's profile image.
func ProfileImageKey(userID int) string {
	return fmt.Sprintf("users/%d/image", userID)
}

// Put uploads an image object.
func (s *Images) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an image object.
func (s *Images) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an image object.
func (s *Images) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Images) Bucket() string {
	return s.backend.Bucket()
}
