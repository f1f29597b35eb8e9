// Package vfs abstracts the distributed filesystem the task reads inputs
// from. The pipeline only ever needs three operations: check that a referenced
// input still exists, open its content stream, and read its size for the
// byte-count metric.
package vfs

import (
	"context"
	"io"
)

// FileSystem resolves input references to byte streams. Paths are plain
// strings; the scheme prefix (if any) selects the backend when a Router is in
// front.
type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Length(ctx context.Context, path string) (int64, error)
}
