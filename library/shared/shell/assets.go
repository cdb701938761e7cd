package shell

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrUnsupportedContentType is returned by asset storages for uploads outside their allow-list.
var ErrUnsupportedContentType = errors.New("unsupported file type")

// ErrUploadTooLarge is returned by asset storages when an upload exceeds their size limit.
var ErrUploadTooLarge = errors.New("upload too large")

// Upload is a file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// AssetStorage stores uploaded cover images and returns a retrievable reference for them.
type AssetStorage interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

// PublicRef strips the public root prefix, so references are relative to the served uploads tree.
func PublicRef(ref string) string {
	return strings.TrimPrefix(ref, "public/")
}
