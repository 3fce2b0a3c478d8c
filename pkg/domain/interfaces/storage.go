package interfaces

import (
	"context"
	"io"
)

// StorageClient is object storage scoped to one bucket.
type StorageClient interface {
	PutObject(ctx context.Context, object string) io.WriteCloser
	GetObject(ctx context.Context, object string) (io.ReadCloser, error)
	ListObjects(ctx context.Context, prefix string) ([]string, error)
	Close(ctx context.Context)
}
