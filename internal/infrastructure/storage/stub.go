package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	catalogapp "github.com/batchtrack/backend/internal/application/catalog"
	"github.com/google/uuid"
)

// Object is a blob held by MemoryBlobStore
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryBlobStore keeps reports in memory.
// Use this for development and tests when no S3 bucket is configured.
type MemoryBlobStore struct {
	// BaseURL is the URL prefix of stored objects.
	// Defaults to "http://localhost:8080/reports" if not set
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
	now     func() time.Time
	newID   func() uuid.UUID
}

// NewMemoryBlobStore creates a new MemoryBlobStore
func NewMemoryBlobStore(baseURL string) *MemoryBlobStore {
	if baseURL == "" {
		baseURL = "http://localhost:8080/reports"
	}
	return &MemoryBlobStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
		now:     time.Now,
		newID:   uuid.New,
	}
}

// Ensure MemoryBlobStore implements BlobStore
var _ catalogapp.BlobStore = (*MemoryBlobStore)(nil)

// Upload stores a copy of data and returns its URL
func (s *MemoryBlobStore) Upload(_ context.Context, data []byte, filename, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("data is empty")
	}
	key := objectKey("", filename, s.now(), s.newID())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return s.BaseURL + "/" + key, nil
}

// Delete removes the object behind url, reporting whether it existed
func (s *MemoryBlobStore) Delete(_ context.Context, rawURL string) bool {
	key, ok := keyFromURL(s.BaseURL, rawURL)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; !exists {
		return false
	}
	delete(s.objects, key)
	return true
}

// Get returns the object stored under key
func (s *MemoryBlobStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
