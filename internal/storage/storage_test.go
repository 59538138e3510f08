package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithtechno/techno-hub/internal/config"
)

func TestLocalUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := ls.Upload(context.Background(), BucketEventCovers, "cover.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/event-covers/cover.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "event-covers", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, ls.Delete(context.Background(), BucketEventCovers, "cover.png"))
	_, err = os.Stat(filepath.Join(dir, "event-covers", "cover.png"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, ls.Delete(context.Background(), BucketEventCovers, "cover.png"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	for _, name := range []string{"../x.png", "a/b.png", "", ".."} {
		_, err := ls.Upload(context.Background(), BucketSprintCovers, name, strings.NewReader("x"), "image/png")
		assert.ErrorIs(t, err, ErrInvalidKey, name)
	}
	_, err = ls.Upload(context.Background(), "../etc", "x.png", strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocate(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads/")
	require.NoError(t, err)
	url, err := ls.Upload(context.Background(), BucketSprintCovers, "a.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)

	bucket, name, ok := ls.Locate(url)
	require.True(t, ok)
	assert.Equal(t, BucketSprintCovers, bucket)
	assert.Equal(t, "a.png", name)

	for _, foreign := range []string{"https://img.example.com/sprint-covers/a.png", "/uploads/a.png", "/static/sprint-covers/a.png", "", "a.png"} {
		_, _, ok := ls.Locate(foreign)
		assert.False(t, ok, foreign)
	}

	s3 := &S3Storage{bucket: "techno-media", region: "ap-south-1", publicBase: "https://cdn.example.com"}
	bucket, name, ok = s3.Locate("https://cdn.example.com/event-covers/b.webp")
	require.True(t, ok)
	assert.Equal(t, BucketEventCovers, bucket)
	assert.Equal(t, "b.webp", name)
	_, _, ok = s3.Locate("https://techno-media.s3.ap-south-1.amazonaws.com/event-covers/b.webp")
	assert.False(t, ok)
}

func TestS3URL(t *testing.T) {
	s := &S3Storage{bucket: "techno-media", region: "ap-south-1", publicBase: "/uploads"}
	assert.Equal(t, "https://techno-media.s3.ap-south-1.amazonaws.com/sprint-covers/a.png", s.URL("sprint-covers/a.png"))

	s.publicBase = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/sprint-covers/a.png", s.URL("sprint-covers/a.png"))
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.StorageConfig{Type: "s3"})
	assert.Error(t, err)

	st, err := New(context.Background(), config.StorageConfig{Type: "local", LocalPath: t.TempDir(), PublicBaseURL: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, st)
}
