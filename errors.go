package navix

import (
	"github.com/hupe1980/navix/blobstore"
	"github.com/hupe1980/navix/index"
)

// Re-exported sentinel errors, so facade callers do not need to import the
// index and blobstore packages for error checks.
var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = index.ErrInvalidK

	// ErrEmptyIndex is returned when an operation requires at least one vector.
	ErrEmptyIndex = index.ErrEmptyIndex

	// ErrEmptyDataset is returned when a build is requested over an empty dataset.
	ErrEmptyDataset = index.ErrEmptyDataset

	// ErrCorrupt is returned when a snapshot fails decoding or validation.
	ErrCorrupt = index.ErrCorrupt

	// ErrNotImplemented is returned for capabilities a backend does not support.
	ErrNotImplemented = index.ErrNotImplemented

	// ErrResourceExhausted is returned when a resource reservation is denied.
	ErrResourceExhausted = index.ErrResourceExhausted

	// ErrSnapshotNotFound is returned when a named snapshot does not exist.
	ErrSnapshotNotFound = blobstore.ErrNotFound
)
