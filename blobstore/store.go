// Package blobstore provides storage abstraction for serialized index
// snapshots. Implementations must be safe for concurrent use.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations must return an error that satisfies
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("blob not found")

// Store is the interface for reading and writing snapshot blobs.
type Store interface {
	// Put streams a blob under name, replacing any existing blob.
	Put(ctx context.Context, name string, r io.Reader) error

	// Get opens a blob for sequential reading. The caller closes the
	// returned reader.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
