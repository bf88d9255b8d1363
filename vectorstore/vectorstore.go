// Package vectorstore defines a canonical read-only vector storage interface.
//
// Graph construction and search address vectors by dense row ids in [0, N).
// The store must remain valid and unchanged for the lifetime of any index
// built on top of it, since searchers recompute distances against it.
package vectorstore

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongDimension is returned when a vector doesn't match the store dimension.
	ErrWrongDimension = errors.New("wrong vector dimension")
)

// Store is the canonical read-only storage for vectors.
//
// Callers should assume returned slices alias internal memory unless the
// implementation documents otherwise.
type Store interface {
	// RowCount returns the number of vectors in the store.
	RowCount() int

	// Dimension returns the fixed dimensionality of all vectors.
	Dimension() int

	// VectorAt returns the vector at the given row id.
	// The id must be in [0, RowCount).
	VectorAt(id uint32) []float32
}

// Dense is a row-major in-memory Store backed by one contiguous
// float32 slice. The flat layout keeps rows cache friendly and gives a
// natural serialization format.
type Dense struct {
	data []float32
	dim  int
	rows int
}

// Compile-time check.
var _ Store = (*Dense)(nil)

// NewDense creates a Dense store from a contiguous row-major slice.
// len(data) must be a multiple of dim.
func NewDense(data []float32, dim int) (*Dense, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vectorstore: invalid dimension %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("vectorstore: data length %d is not a multiple of dimension %d: %w", len(data), dim, ErrWrongDimension)
	}

	return &Dense{
		data: data,
		dim:  dim,
		rows: len(data) / dim,
	}, nil
}

// FromRows creates a Dense store by copying the given rows into a
// contiguous buffer. All rows must share the same length.
func FromRows(rows [][]float32) (*Dense, error) {
	if len(rows) == 0 {
		return nil, errors.New("vectorstore: no rows")
	}

	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("vectorstore: invalid dimension %d", dim)
	}

	data := make([]float32, 0, len(rows)*dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("vectorstore: row %d has dimension %d, want %d: %w", i, len(row), dim, ErrWrongDimension)
		}
		data = append(data, row...)
	}

	return &Dense{
		data: data,
		dim:  dim,
		rows: len(rows),
	}, nil
}

// RowCount returns the number of vectors.
func (d *Dense) RowCount() int { return d.rows }

// Dimension returns the vector dimensionality.
func (d *Dense) Dimension() int { return d.dim }

// VectorAt returns the vector at id. The returned slice aliases the
// underlying buffer and must not be modified.
func (d *Dense) VectorAt(id uint32) []float32 {
	off := int(id) * d.dim
	return d.data[off : off+d.dim : off+d.dim]
}

// Raw returns the underlying contiguous buffer.
// Used by bulk-copy paths that consume all vectors in one call.
func (d *Dense) Raw() []float32 { return d.data }
