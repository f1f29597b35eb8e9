package vfs

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Router dispatches each path to the backend mounted for its scheme. Paths
// without a scheme go to the fallback.
type Router struct {
	mounts   map[string]FileSystem
	fallback FileSystem
}

// NewRouter creates a router with the given fallback for schemeless paths.
func NewRouter(fallback FileSystem) *Router {
	return &Router{
		mounts:   map[string]FileSystem{},
		fallback: fallback,
	}
}

// Mount registers a backend for a scheme, e.g. "s3".
func (r *Router) Mount(scheme string, fs FileSystem) {
	r.mounts[strings.ToLower(scheme)] = fs
}

func (r *Router) resolve(path string) (FileSystem, error) {
	scheme, _, found := strings.Cut(path, "://")
	if !found {
		return r.fallback, nil
	}

	fs, ok := r.mounts[strings.ToLower(scheme)]
	if !ok {
		return nil, fmt.Errorf("no filesystem mounted for scheme %s", scheme)
	}
	return fs, nil
}

func (r *Router) Exists(ctx context.Context, path string) (bool, error) {
	fs, err := r.resolve(path)
	if err != nil {
		return false, err
	}
	return fs.Exists(ctx, path)
}

func (r *Router) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	fs, err := r.resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.Open(ctx, path)
}

func (r *Router) Length(ctx context.Context, path string) (int64, error) {
	fs, err := r.resolve(path)
	if err != nil {
		return 0, err
	}
	return fs.Length(ctx, path)
}
