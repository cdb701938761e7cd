package assets_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/assets"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
)

func pngUpload(content string) shell.Upload {
	return shell.Upload{Filename: "cover.png", ContentType: "image/png", Content: strings.NewReader(content)}
}

func Test_LocalStorage_Save_WritesBelowUploads(t *testing.T) {
	// setup
	root := t.TempDir()
	clock := func() time.Time { return time.Unix(1741600000, 0) }
	storage := assets.NewLocalStorage(root, assets.WithClock(clock))

	// act
	ref, err := storage.Save(context.Background(), pngUpload("png-bytes"))

	// assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "uploads/books/1741600000000000000-"), ref)
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func Test_LocalStorage_Save_AllowList(t *testing.T) {
	testCases := []struct {
		contentType string
		allowed     bool
	}{
		{contentType: "image/jpeg", allowed: true},
		{contentType: "image/png", allowed: true},
		{contentType: "image/gif", allowed: true},
		{contentType: "application/pdf", allowed: true},
		{contentType: "image/png; charset=binary", allowed: true},
		{contentType: "text/html", allowed: false},
		{contentType: "image/svg+xml", allowed: false},
		{contentType: "", allowed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.contentType, func(t *testing.T) {
			// setup
			storage := assets.NewLocalStorage(t.TempDir())

			// act
			_, err := storage.Save(context.Background(), shell.Upload{
				Filename:    "file",
				ContentType: tc.contentType,
				Content:     strings.NewReader("x"),
			})

			// assert
			if tc.allowed {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, shell.ErrUnsupportedContentType)
		})
	}
}

func Test_LocalStorage_Save_RejectsOversizedUploads(t *testing.T) {
	// setup
	root := t.TempDir()
	storage := assets.NewLocalStorage(root, assets.WithMaxBytes(4))

	// act
	_, err := storage.Save(context.Background(), pngUpload("too large"))

	// assert
	assert.ErrorIs(t, err, assets.ErrUploadTooLarge)

	entries, readErr := os.ReadDir(filepath.Join(root, "uploads", "books"))
	require.NoError(t, readErr)
	assert.Empty(t, entries, "partial files are removed")
}

func Test_LocalStorage_Delete(t *testing.T) {
	// setup
	root := t.TempDir()
	storage := assets.NewLocalStorage(root)
	ctx := context.Background()

	ref, err := storage.Save(ctx, pngUpload("png-bytes"))
	require.NoError(t, err)

	// act
	deleteErr := storage.Delete(ctx, "public/"+ref)
	deleteAgainErr := storage.Delete(ctx, ref)

	// assert
	assert.NoError(t, deleteErr)
	assert.NoError(t, deleteAgainErr, "a missing file is not an error")
	_, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
	assert.True(t, os.IsNotExist(statErr))
}

func Test_LocalStorage_Delete_RejectsRefsOutsideUploads(t *testing.T) {
	storage := assets.NewLocalStorage(t.TempDir())

	for _, ref := range []string{"../etc/passwd", "uploads/books/../../secret", "other/file.png", ""} {
		assert.ErrorIs(t, storage.Delete(context.Background(), ref), assets.ErrInvalidRef, ref)
	}
}
