package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage keeps leave attachments. Paths are relative keys such as
// "leave/<requester>/<name>.pdf"; implementations must keep them inside their root.
type FileStorage interface {
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error

	// GetURL returns a URL clients can fetch the file from. expiry is a hint
	// for backends that sign URLs.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}
