package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewS3Storage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Storage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Storage(&config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3Storage(&config.StorageConfig{Bucket: "b", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3Storage(&config.StorageConfig{Bucket: "b", AccessKeyID: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("public URL defaults to the endpoint and bucket", func(t *testing.T) {
		s, err := NewS3Storage(&config.StorageConfig{
			Bucket:          "assets",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Endpoint:        "localhost:9000",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://localhost:9000/assets", s.publicBaseURL)
		assert.Equal(t, "assets", s.Bucket())
	})

	t.Run("public URL defaults to AWS without an endpoint", func(t *testing.T) {
		s, err := NewS3Storage(&config.StorageConfig{
			Bucket:          "assets",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Region:          "ap-south-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://assets.s3.ap-south-1.amazonaws.com", s.publicBaseURL)
	})
}

// fakeS3 serves the path-style object API used by S3Storage
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failPuts bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		if f.failPuts {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func (f *fakeS3) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeS3) setFailPuts(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPuts = v
}

func newFakeS3Storage(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	s, err := NewS3Storage(&config.StorageConfig{
		Bucket:          "assets",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        server.URL,
		UsePathStyle:    true,
		PublicBaseURL:   "https://cdn.test/",
		KeyPrefix:       "/products/",
	}, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return s, fake
}

func TestS3Storage_StoreAndDelete(t *testing.T) {
	ctx := context.Background()
	s, fake := newFakeS3Storage(t)

	a, err := s.Store(ctx, asset.File{
		Name:        "front.JPG",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.Ref, "products/"))
	assert.True(t, strings.HasSuffix(a.Ref, ".jpg"))
	assert.Equal(t, "https://cdn.test/"+a.Ref, a.URL)
	data, ok := fake.object("assets/" + a.Ref)
	require.True(t, ok)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, s.Delete(ctx, a.Ref))
	assert.Zero(t, fake.count())

	err = s.Delete(ctx, a.Ref)
	assert.ErrorIs(t, err, asset.ErrObjectNotFound)
}

func TestS3Storage_StoreFailure(t *testing.T) {
	s, fake := newFakeS3Storage(t)
	fake.setFailPuts(true)

	_, err := s.Store(context.Background(), asset.File{Name: "a.png", Content: strings.NewReader("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload products/")
}

func TestS3Storage_Validation(t *testing.T) {
	s, _ := newFakeS3Storage(t)

	_, err := s.Store(context.Background(), asset.File{Name: "a.png"})
	assert.Error(t, err)

	err = s.Delete(context.Background(), "")
	assert.Error(t, err)
}
