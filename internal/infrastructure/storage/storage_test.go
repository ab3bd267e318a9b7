package storage

import (
	"context"
	"os"
	"testing"

	"github.com/secureshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{name: "nil config", cfg: nil, wantErr: "configuration is required"},
		{name: "missing bucket", cfg: &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, wantErr: "bucket is required"},
		{name: "missing access key", cfg: &config.StorageConfig{Bucket: "b", SecretKey: "s"}, wantErr: "access key is required"},
		{name: "missing secret key", cfg: &config.StorageConfig{Bucket: "b", AccessKey: "k"}, wantErr: "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ObjectStorage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket:    "media",
			AccessKey: "k",
			SecretKey: "s",
			Endpoint:  "http://localhost:9000",
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "media", s.Bucket())
		assert.Equal(t, "us-east-1", s.region)
	})
}

func TestS3ObjectStorage_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{
			name: "public base url wins",
			cfg:  config.StorageConfig{Endpoint: "http://localhost:9000", PublicBaseURL: "https://cdn.shop.vn/", UsePathStyle: true},
			want: "https://cdn.shop.vn/products/a%20b.png",
		},
		{
			name: "path style endpoint",
			cfg:  config.StorageConfig{Endpoint: "http://localhost:9000", UsePathStyle: true},
			want: "http://localhost:9000/media/products/a%20b.png",
		},
		{
			name: "virtual hosted endpoint",
			cfg:  config.StorageConfig{Endpoint: "sgp1.digitaloceanspaces.com"},
			want: "https://media.sgp1.digitaloceanspaces.com/products/a%20b.png",
		},
		{
			name: "aws default",
			cfg:  config.StorageConfig{Region: "ap-southeast-1"},
			want: "https://media.s3.ap-southeast-1.amazonaws.com/products/a%20b.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Bucket = "media"
			cfg.AccessKey = "k"
			cfg.SecretKey = "s"
			s, err := NewS3ObjectStorage(&cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.PublicURL("products/a b.png"))
		})
	}
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s", Endpoint: "http://localhost:9000"})
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorContains(t, s.Put(ctx, "", []byte("x"), "image/png"), "storage key is required")
	assert.ErrorContains(t, s.Delete(ctx, ""), "storage key is required")
	_, err = s.Exists(ctx, "")
	assert.ErrorContains(t, err, "storage key is required")
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage("https://static.test/")

	data := []byte("image")
	require.NoError(t, s.Put(ctx, "products/x.png", data, "image/png"))
	data[0] = 'X'

	obj, ok := s.Get("products/x.png")
	require.True(t, ok)
	assert.Equal(t, "image", string(obj.Data), "stored bytes are a copy")
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, "https://static.test/products/x.png", s.PublicURL("products/x.png"))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "products/x.png"))
	require.NoError(t, s.Delete(ctx, "products/x.png"), "deleting twice is fine")
	assert.Equal(t, 0, s.Len())

	assert.Error(t, s.Put(ctx, "", data, "image/png"))
}

// Integration tests run against MinIO when STORAGE_INTEGRATION_ENDPOINT is set.
func newIntegrationStorage(t *testing.T) *S3ObjectStorage {
	t.Helper()
	endpoint := os.Getenv("STORAGE_INTEGRATION_ENDPOINT")
	if endpoint == "" {
		t.Skip("set STORAGE_INTEGRATION_ENDPOINT to run against MinIO")
	}
	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:       "secureshop-it",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Endpoint:     endpoint,
		UsePathStyle: true,
	})
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(context.Background()))
	return s
}

func TestIntegration_PutDelete(t *testing.T) {
	s := newIntegrationStorage(t)
	ctx := context.Background()
	key := "it/put-delete.txt"

	require.NoError(t, s.Put(ctx, key, []byte("hello"), "text/plain"))
	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
