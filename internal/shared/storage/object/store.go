package object

import (
	"context"
	"io"
)

// ObjectStore saves and retrieves archived attachments.
// namespace groups objects (one directory or key prefix per project name).
type ObjectStore interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
