package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/session"
	"github.com/codewithtechno/techno-hub/internal/storage"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// UploadService stores cover images for sprints and events.
type UploadService struct {
	store    storage.Storage
	maxBytes int64
	log      zerolog.Logger
}

func NewUploadService(store storage.Storage, maxBytes int64, log zerolog.Logger) *UploadService {
	return &UploadService{store: store, maxBytes: maxBytes, log: log}
}

// MaxBytes is the largest accepted upload.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// UploadCover stores content as <uuid>.<ext> in bucket and returns its
// public URL.
func (s *UploadService) UploadCover(ctx context.Context, who session.Identity, bucket, originalName string, content []byte) (string, error) {
	if err := requireAdmin(who); err != nil {
		return "", err
	}
	if !slices.Contains(storage.Buckets, bucket) {
		return "", apperr.Invalid("bucket", "must be one of: "+strings.Join(storage.Buckets, ", "))
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if !slices.Contains(imageExtensions, ext) {
		return "", apperr.Invalid("file", "must be an image ("+strings.Join(imageExtensions, ", ")+")")
	}
	if len(content) == 0 {
		return "", apperr.Invalid("file", "is empty")
	}
	if int64(len(content)) > s.maxBytes {
		return "", apperr.Invalid("file", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}
	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.Invalid("file", "content is not an image")
	}

	name := uuid.NewString() + ext
	url, err := s.store.Upload(ctx, bucket, name, bytes.NewReader(content), contentType)
	if err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	s.log.Info().Str("bucket", bucket).Str("object", name).Int("bytes", len(content)).Msg("cover uploaded")
	return url, nil
}

// RemoveCover deletes the stored object behind url.  URLs the store did
// not issue are left alone, and failures are only logged since the row
// that referenced the image is already gone or changed.
func (s *UploadService) RemoveCover(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}
	bucket, name, ok := s.store.Locate(*url)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, bucket, name); err != nil {
		s.log.Warn().Err(err).Str("bucket", bucket).Str("object", name).Msg("cover cleanup failed")
		return
	}
	s.log.Info().Str("bucket", bucket).Str("object", name).Msg("cover removed")
}
