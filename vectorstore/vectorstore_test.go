package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDense(t *testing.T) {
	d, err := NewDense([]float32{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, d.RowCount())
	assert.Equal(t, 3, d.Dimension())
	assert.Equal(t, []float32{4, 5, 6}, d.VectorAt(1))
}

func TestNewDense_Invalid(t *testing.T) {
	_, err := NewDense([]float32{1, 2, 3}, 0)
	require.Error(t, err)

	_, err = NewDense([]float32{1, 2, 3}, 2)
	require.ErrorIs(t, err, ErrWrongDimension)
}

func TestFromRows(t *testing.T) {
	rows := [][]float32{{1, 2}, {3, 4}, {5, 6}}

	d, err := FromRows(rows)
	require.NoError(t, err)

	assert.Equal(t, 3, d.RowCount())
	assert.Equal(t, 2, d.Dimension())
	for i, row := range rows {
		assert.Equal(t, row, d.VectorAt(uint32(i)))
	}

	// Copy semantics: mutating the source rows must not affect the store.
	rows[0][0] = 99
	assert.Equal(t, float32(1), d.VectorAt(0)[0])
}

func TestFromRows_Invalid(t *testing.T) {
	_, err := FromRows(nil)
	require.Error(t, err)

	_, err = FromRows([][]float32{{}})
	require.Error(t, err)

	_, err = FromRows([][]float32{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrWrongDimension)
}
