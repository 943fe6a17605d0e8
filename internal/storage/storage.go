// Package storage abstracts the object store keeping campaign file blobs.
// Implementations must be safe for concurrent use.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not stored")

// Backend is the capability interface over an S3-compatible object store.
type Backend interface {
	// Exists reports whether an object is stored under key. It never fails:
	// any backend error is treated as "not stored".
	Exists(ctx context.Context, key string) bool
	// Put writes the payload under key, creating the bucket lazily on first use.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns the stored payload verbatim, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Size returns the stored object size in bytes, or 0 when the backend
	// cannot report it.
	Size(ctx context.Context, key string) int64
}
