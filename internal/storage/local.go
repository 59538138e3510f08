package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage writes objects under a base directory which the API serves
// at publicBase.
type LocalStorage struct {
	basePath   string
	publicBase string
}

func NewLocalStorage(basePath, publicBase string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, publicBase: publicBase}, nil
}

// BasePath is the directory objects are written to.
func (ls *LocalStorage) BasePath() string { return ls.basePath }

func (ls *LocalStorage) Upload(_ context.Context, bucket, filename string, content io.Reader, _ string) (string, error) {
	key, err := objectKey(bucket, filename)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return joinURL(ls.publicBase, key), nil
}

func (ls *LocalStorage) Locate(url string) (string, string, bool) {
	return locate(url, func(key string) string { return joinURL(ls.publicBase, key) })
}

func (ls *LocalStorage) Delete(_ context.Context, bucket, filename string) error {
	key, err := objectKey(bucket, filename)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(ls.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
