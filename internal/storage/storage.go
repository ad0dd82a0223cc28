package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
// It holds catalog snapshots and published vocabulary artifacts.
type FileStorage interface {
	// GetObject reads a whole object into memory.
	GetObject(ctx context.Context, objectKey string) ([]byte, error)

	// PutObject writes body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey string, body []byte, contentType string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

var ErrObjectNotFound = errors.New("object not found in storage")
