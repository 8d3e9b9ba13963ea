package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/batchtrack/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testObjectID = uuid.MustParse("0b8f6c1e-4a5d-4f0e-9c61-3f2a7d9e8b10")

// fakeS3 records path-style object requests
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	failures bool
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failures {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			f.objects[r.URL.Path] = body
			f.types[r.URL.Path] = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			delete(f.objects, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestStore(t *testing.T, endpoint string) *S3BlobStore {
	t.Helper()
	store, err := NewS3BlobStore(&config.StorageConfig{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		Bucket:          "reports-bucket",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		KeyPrefix:       "reports",
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000123) }
	store.newID = func() uuid.UUID { return testObjectID }
	return store
}

func TestNewS3BlobStore_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3BlobStore(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3BlobStore(&config.StorageConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half credentials return error", func(t *testing.T) {
		_, err := NewS3BlobStore(&config.StorageConfig{Bucket: "b", AccessKeyID: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("invalid endpoint returns error", func(t *testing.T) {
		_, err := NewS3BlobStore(&config.StorageConfig{Bucket: "b", Endpoint: "not a url"})
		require.Error(t, err)
	})
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com",
		publicBaseURL(&config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "http://minio:9000", "us-east-1"))
	assert.Equal(t, "http://minio:9000/b",
		publicBaseURL(&config.StorageConfig{Bucket: "b"}, "http://minio:9000", "us-east-1"))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com",
		publicBaseURL(&config.StorageConfig{Bucket: "b"}, "", "eu-west-1"))
}

func TestKeyFromURL(t *testing.T) {
	key, ok := keyFromURL("https://cdn.example.com", "https://cdn.example.com/reports/1-a.pdf")
	require.True(t, ok)
	assert.Equal(t, "reports/1-a.pdf", key)

	key, ok = keyFromURL("https://cdn.example.com", "https://cdn.example.com/reports/1-a%20b.pdf?x=1")
	require.True(t, ok)
	assert.Equal(t, "reports/1-a b.pdf", key)

	_, ok = keyFromURL("https://cdn.example.com", "https://elsewhere.example.com/reports/1-a.pdf")
	assert.False(t, ok)

	_, ok = keyFromURL("https://cdn.example.com", "https://cdn.example.com/")
	assert.False(t, ok)
}

func TestS3BlobStore_UploadAndDelete(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeS3(t)
	store := newTestStore(t, srv.URL)

	url, err := store.Upload(ctx, []byte("%PDF-1.7"), "coa.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/reports-bucket/reports/1700000000123-0b8f6c1e-4a5d-4f0e-9c61-3f2a7d9e8b10-coa.pdf", url)

	fake.mu.Lock()
	assert.Equal(t, []byte("%PDF-1.7"), fake.objects["/reports-bucket/reports/1700000000123-0b8f6c1e-4a5d-4f0e-9c61-3f2a7d9e8b10-coa.pdf"])
	assert.Equal(t, "application/pdf", fake.types["/reports-bucket/reports/1700000000123-0b8f6c1e-4a5d-4f0e-9c61-3f2a7d9e8b10-coa.pdf"])
	fake.mu.Unlock()

	assert.True(t, store.Delete(ctx, url))

	fake.mu.Lock()
	assert.Empty(t, fake.objects)
	fake.mu.Unlock()
}

func TestS3BlobStore_Failures(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeS3(t)
	store := newTestStore(t, srv.URL)

	t.Run("empty data", func(t *testing.T) {
		_, err := store.Upload(ctx, nil, "coa.pdf", "application/pdf")
		assert.Error(t, err)
	})

	t.Run("foreign url is not deleted", func(t *testing.T) {
		assert.False(t, store.Delete(ctx, "https://elsewhere.example.com/x.pdf"))
	})

	t.Run("server errors", func(t *testing.T) {
		fake.mu.Lock()
		fake.failures = true
		fake.mu.Unlock()

		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_, err := store.Upload(cctx, []byte("x"), "coa.pdf", "application/pdf")
		assert.Error(t, err)
		assert.False(t, store.Delete(cctx, srv.URL+"/reports-bucket/reports/1-coa.pdf"))
	})
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(42)
	assert.Equal(t, "reports/42-0b8f6c1e-4a5d-4f0e-9c61-3f2a7d9e8b10-a.pdf", objectKey("reports", "a.pdf", at, testObjectID))
	assert.Equal(t, "42-0b8f6c1e-4a5d-4f0e-9c61-3f2a7d9e8b10-a.pdf", objectKey("", "a.pdf", at, testObjectID))
	assert.NotEqual(t, objectKey("", "a.pdf", at, uuid.New()), objectKey("", "a.pdf", at, uuid.New()))
}

func TestS3BlobStore_SameFilenameSameMillisecond(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeS3(t)
	store := newTestStore(t, srv.URL)
	store.newID = uuid.New

	first, err := store.Upload(ctx, []byte("report A"), "report.pdf", "application/pdf")
	require.NoError(t, err)
	second, err := store.Upload(ctx, []byte("report B"), "report.pdf", "application/pdf")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.True(t, store.Delete(ctx, first))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.objects, 1)
	for _, data := range fake.objects {
		assert.Equal(t, []byte("report B"), data)
	}
}
