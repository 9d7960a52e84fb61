package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStorage keeps objects in process memory. Listing is ordered by key,
// like the remote backends.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// NewMemoryStorage creates an empty store whose URLs start with baseURL.
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (s *MemoryStorage) List(ctx context.Context) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Object, 0, len(s.objects))
	for key, o := range s.objects {
		out = append(out, Object{
			Key:          key,
			ContentType:  contentTypeOr(o.contentType),
			Size:         int64(len(o.data)),
			LastModified: o.modified,
		})
	}
	slices.SortFunc(out, func(a, b Object) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

func (s *MemoryStorage) Upload(ctx context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, contentType: contentType, modified: s.now()}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryStorage) PublicURL(key string) string {
	return s.baseURL + "/" + escapeKey(key)
}

// Open returns the stored bytes of key. The HTTP server uses it to serve the
// memory driver's URLs.
func (s *MemoryStorage) Open(key string) (io.ReadSeeker, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return bytes.NewReader(o.data), contentTypeOr(o.contentType), nil
}

// Handler serves stored objects at prefix + "/" + key so the URLs returned by
// PublicURL resolve when baseURL points at this server.
func (s *MemoryStorage) Handler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/")
		rs, contentType, err := s.Open(key)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		http.ServeContent(w, r, key, time.Time{}, rs)
	}))
}

var _ Storage = (*MemoryStorage)(nil)
