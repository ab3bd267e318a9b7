// Package media handles image uploads for product, article and banner forms.
package media

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultMaxUploadSize is the image size limit when none is configured.
const DefaultMaxUploadSize int64 = 5 << 20

// DefaultFolder is used when the client sends no folder.
const DefaultFolder = "uploads"

// ObjectStorage stores uploaded objects and resolves their public URL.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// Upload errors
var (
	ErrEmptyFile        = shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	ErrFileTooLarge     = shared.NewDomainError("FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
	ErrUnsupportedImage = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only jpeg, png, webp and gif images are accepted")
	ErrInvalidKey       = shared.NewDomainError("INVALID_KEY", "Object key is invalid")
)

// allowed maps sniffed content types to file extensions
var allowed = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UploadInput is an image received from a multipart form
type UploadInput struct {
	Folder string
	Data   []byte
}

// UploadResponse describes a stored image
type UploadResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// DeleteRequest names an object to delete
type DeleteRequest struct {
	Key string `json:"key" binding:"required,max=512"`
}

// Service validates and stores images
type Service struct {
	storage ObjectStorage
	maxSize int64
}

// NewService creates a media service. maxSize <= 0 selects DefaultMaxUploadSize.
func NewService(storage ObjectStorage, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &Service{storage: storage, maxSize: maxSize}
}

// MaxSize returns the accepted upload size in bytes
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload sniffs the image type, builds a random key under the sanitized
// folder and stores the bytes.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResponse, error) {
	size := int64(len(in.Data))
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	contentType := http.DetectContentType(in.Data)
	ext, ok := allowed[contentType]
	if !ok {
		logger.L(ctx).Warn("rejected upload", zap.String("content_type", contentType))
		return nil, ErrUnsupportedImage
	}

	key := path.Join(SanitizeFolder(in.Folder), uuid.New().String()+"."+ext)
	if err := s.storage.Put(ctx, key, in.Data, contentType); err != nil {
		logger.L(ctx).Error("failed to store upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	logger.L(ctx).Info("image uploaded", zap.String("key", key), zap.Int64("size", size))
	return &UploadResponse{
		URL:         s.storage.PublicURL(key),
		Key:         key,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Delete removes a previously uploaded object. Missing objects succeed.
func (s *Service) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.L(ctx).Error("failed to delete upload", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// SanitizeFolder lower-cases folder and keeps only [a-z0-9-_/]. Empty
// segments collapse, and an empty result falls back to DefaultFolder.
func SanitizeFolder(folder string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(folder)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '/':
			b.WriteRune(r)
		}
	}
	parts := strings.Split(b.String(), "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return DefaultFolder
	}
	return strings.Join(kept, "/")
}
