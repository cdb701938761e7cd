package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/shared/shell"
)

const (
	uploadsDir = "uploads/books"

	// DefaultMaxBytes limits a single upload when no other limit is configured.
	DefaultMaxBytes int64 = 10 << 20
)

var (
	// ErrUploadTooLarge is returned when an upload exceeds the configured limit.
	ErrUploadTooLarge = shell.ErrUploadTooLarge

	// ErrInvalidRef is returned for references that do not point into the uploads tree.
	ErrInvalidRef = errors.New("invalid asset reference")

	// ErrSavingFailed wraps filesystem errors while storing an upload.
	ErrSavingFailed = errors.New("saving upload failed")
)

var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// LocalStorage implements shell.AssetStorage on a directory tree.
type LocalStorage struct {
	root     string
	maxBytes int64
	clock    func() time.Time
}

// Option configures a LocalStorage.
type Option func(*LocalStorage)

// WithMaxBytes sets the upload size limit. Values <= 0 are ignored.
func WithMaxBytes(maxBytes int64) Option {
	return func(s *LocalStorage) {
		if maxBytes > 0 {
			s.maxBytes = maxBytes
		}
	}
}

// WithClock sets the clock used for file names.
func WithClock(clock func() time.Time) Option {
	return func(s *LocalStorage) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewLocalStorage creates a storage rooted at root.
func NewLocalStorage(root string, opts ...Option) *LocalStorage {
	storage := &LocalStorage{
		root:     root,
		maxBytes: DefaultMaxBytes,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(storage)
	}

	return storage
}

// Root returns the directory that references are relative to.
func (s *LocalStorage) Root() string {
	return s.root
}

// Save writes the upload to a fresh file and returns its reference.
// Content types outside the allow-list are rejected with shell.ErrUnsupportedContentType.
func (s *LocalStorage) Save(ctx context.Context, upload shell.Upload) (string, error) {
	ext, err := extensionFor(upload)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, filepath.FromSlash(uploadsDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Join(ErrSavingFailed, err)
	}

	name := fmt.Sprintf("%d-%s%s", s.clock().UnixNano(), uuid.NewString(), ext)
	target := filepath.Join(dir, name)

	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Join(ErrSavingFailed, err)
	}

	written, copyErr := io.Copy(file, io.LimitReader(upload.Content, s.maxBytes+1))
	closeErr := file.Close()

	switch {
	case copyErr != nil || closeErr != nil:
		_ = os.Remove(target)
		return "", errors.Join(ErrSavingFailed, copyErr, closeErr)
	case written > s.maxBytes:
		_ = os.Remove(target)
		return "", fmt.Errorf("%w: limit is %d bytes", ErrUploadTooLarge, s.maxBytes)
	}

	return path.Join(uploadsDir, name), nil
}

// Delete removes the file behind ref. A file that is already gone is not an error.
func (s *LocalStorage) Delete(_ context.Context, ref string) error {
	clean := path.Clean(shell.PublicRef(ref))
	if !strings.HasPrefix(clean, uploadsDir+"/") {
		return fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// extensionFor picks the file extension from the declared content type, ignoring parameters.
func extensionFor(upload shell.Upload) (string, error) {
	mediaType, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", shell.ErrUnsupportedContentType, upload.ContentType)
	}

	ext, ok := allowedContentTypes[mediaType]
	if !ok {
		return "", fmt.Errorf("%w: %s", shell.ErrUnsupportedContentType, mediaType)
	}

	if original := strings.ToLower(filepath.Ext(upload.Filename)); original == ".jpeg" && ext == ".jpg" {
		ext = original
	}

	return ext, nil
}

var _ shell.AssetStorage = (*LocalStorage)(nil)
