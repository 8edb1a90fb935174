package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	return s, dir
}

func TestLocalStorage_UploadExistsDelete(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestLocalStorage(t)

	key, err := s.Upload(ctx, strings.NewReader("png-bytes"), 9, "profiles/EMP-1-1700000000000-avatar.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "profiles/EMP-1-1700000000000-avatar.png", key)

	content, err := os.ReadFile(filepath.Join(dir, "profiles", "EMP-1-1700000000000-avatar.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, key))

	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_GetURL(t *testing.T) {
	s, _ := newTestLocalStorage(t)

	url, err := s.GetURL(context.Background(), "profiles/a.png", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/profiles/a.png", url)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestLocalStorage(t)

	paths := []string{"../escape.png", "profiles/../../escape.png", "/etc/passwd", "."}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			_, err := s.Upload(ctx, strings.NewReader("x"), 1, p, "image/png")
			assert.ErrorIs(t, err, ErrInvalidPath)

			var storageErr *StorageError
			require.ErrorAs(t, err, &storageErr)
			assert.Equal(t, "upload", storageErr.Op)

			assert.ErrorIs(t, s.Delete(ctx, p), ErrInvalidPath)
		})
	}
}

func TestLocalStorage_PresignUploadUnsupported(t *testing.T) {
	s, _ := newTestLocalStorage(t)

	_, err := s.PresignUpload(context.Background(), "profiles/a.png", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrPresignUnsupported)
}
