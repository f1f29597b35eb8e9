package vfs

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local serves paths straight from the host filesystem.
type Local struct{}

// NewLocal creates a host filesystem backend.
func NewLocal() *Local {
	return &Local{}
}

// Exists reports whether path names an existing file. A missing file is not
// an error; callers use the boolean to decide whether to skip the input.
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return true, nil
}

// Open returns the file's content stream. The caller owns the close.
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return file, nil
}

// Length returns the file's size in bytes.
func (l *Local) Length(_ context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Size(), nil
}
