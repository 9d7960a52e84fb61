// Package storage defines the object-store contract the gallery is built on.
// Drivers: MinIO (any S3-compatible endpoint), AWS S3, Azure Blob Storage with
// a SAS token, and an in-process memory store for development and tests.
package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

// DefaultContentType is reported for objects stored without a content type.
const DefaultContentType = "application/octet-stream"

// Object is one entry of a container listing.
type Object struct {
	Key          string
	ContentType  string
	Size         int64
	LastModified time.Time
}

// Storage is the interface for listing, uploading and deleting objects.
type Storage interface {
	// List returns every object in the container in the backend's listing order.
	List(ctx context.Context) ([]Object, error)
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// escapeKey path-escapes every segment of key, keeping the separators.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func contentTypeOr(ct string) string {
	if strings.TrimSpace(ct) == "" {
		return DefaultContentType
	}
	return ct
}
