package index

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned for capabilities a backend does not support.
	ErrNotImplemented = errors.New("operation not implemented by this index")

	// ErrEmptyIndex is returned when an operation requires at least one vector.
	ErrEmptyIndex = errors.New("index contains no vectors")

	// ErrEmptyDataset is returned when a build is requested over a dataset
	// with no vectors.
	ErrEmptyDataset = errors.New("cannot build from an empty dataset")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrCorrupt is returned when decoding encounters truncated or
	// out-of-range data.
	ErrCorrupt = errors.New("corrupt index data")

	// ErrResourceExhausted is returned when a resource reservation for large
	// intermediate structures is denied.
	ErrResourceExhausted = errors.New("resource limit exceeded")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

// Error returns the error message for an invalid dimension.
func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrInvalidConfig indicates invalid construction parameters.
type ErrInvalidConfig struct {
	Reason string
}

// Error returns the error message for an invalid configuration.
func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Reason)
}
