// Package storage is the object store for cover images.  Logical buckets
// ("sprint-covers", "event-covers") map to directories on local disk or to
// key prefixes inside one S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/codewithtechno/techno-hub/internal/config"
)

// Logical buckets.
const (
	BucketSprintCovers = "sprint-covers"
	BucketEventCovers  = "event-covers"
)

// Buckets lists every bucket uploads may target.
var Buckets = []string{BucketSprintCovers, BucketEventCovers}

// ErrInvalidKey is returned for bucket or file names that would escape the store.
var ErrInvalidKey = errors.New("invalid object key")

// Storage stores objects and returns the URL they are publicly served at.
type Storage interface {
	Upload(ctx context.Context, bucket, filename string, content io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, bucket, filename string) error
	// Locate maps a URL returned by Upload back to its bucket and filename.
	// ok is false for URLs this store did not issue.
	Locate(url string) (bucket, filename string, ok bool)
}

// New builds the backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.LocalPath, cfg.PublicBaseURL)
	case "s3":
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("s3 storage requires S3_BUCKET and S3_REGION")
		}
		return NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// objectKey validates bucket and filename and joins them.
func objectKey(bucket, filename string) (string, error) {
	for _, part := range []string{bucket, filename} {
		if part == "" || part == "." || strings.Contains(part, "..") || strings.ContainsAny(part, `/\:*?"<>|`) {
			return "", ErrInvalidKey
		}
	}
	return bucket + "/" + filename, nil
}

// locate splits the last two path segments off url and accepts them when
// urlFor rebuilds exactly url from them.
func locate(url string, urlFor func(key string) string) (bucket, filename string, ok bool) {
	i := strings.LastIndexByte(url, '/')
	if i <= 0 {
		return "", "", false
	}
	j := strings.LastIndexByte(url[:i], '/')
	bucket, filename = url[j+1:i], url[i+1:]
	key, err := objectKey(bucket, filename)
	if err != nil || urlFor(key) != url {
		return "", "", false
	}
	return bucket, filename, true
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
