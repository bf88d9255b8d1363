package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SortedInsert(t *testing.T) {
	p := NewPool(4)

	require.True(t, p.Insert(3, 0.5))
	require.True(t, p.Insert(1, 0.1))
	require.True(t, p.Insert(2, 0.3))

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, uint32(1), p.At(0).ID)
	assert.Equal(t, uint32(2), p.At(1).ID)
	assert.Equal(t, uint32(3), p.At(2).ID)
}

func TestPool_EvictsWorstAtCapacity(t *testing.T) {
	p := NewPool(2)

	require.True(t, p.Insert(1, 0.9))
	require.True(t, p.Insert(2, 0.8))

	// Better than the worst: admitted, 1 evicted.
	require.True(t, p.Insert(3, 0.1))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, uint32(3), p.At(0).ID)
	assert.Equal(t, uint32(2), p.At(1).ID)

	// Worse than the worst: rejected, pool unchanged.
	require.False(t, p.Insert(4, 1.5))
	assert.Equal(t, uint32(2), p.Worst().ID)
}

func TestPool_TieBreakByID(t *testing.T) {
	p := NewPool(4)

	p.Insert(9, 0.5)
	p.Insert(2, 0.5)
	p.Insert(5, 0.5)

	assert.Equal(t, uint32(2), p.At(0).ID)
	assert.Equal(t, uint32(5), p.At(1).ID)
	assert.Equal(t, uint32(9), p.At(2).ID)

	// Equal distance and higher id than the worst does not displace it.
	require.True(t, p.Insert(1, 0.5))
	require.False(t, p.Insert(10, 0.5))
}

func TestPool_ExpansionTracking(t *testing.T) {
	p := NewPool(4)
	p.Insert(1, 0.1)
	p.Insert(2, 0.2)

	i, ok := p.NearestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, uint32(1), p.At(i).ID)

	p.MarkExpanded(i)

	i, ok = p.NearestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, uint32(2), p.At(i).ID)

	// Expanded flags survive insertion shifts.
	p.Insert(3, 0.05)
	i, ok = p.NearestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, uint32(3), p.At(i).ID)
	p.MarkExpanded(i)
	p.MarkExpanded(2)

	_, ok = p.NearestUnexpanded()
	assert.False(t, ok)
}

func TestPool_DistanceAt(t *testing.T) {
	p := NewPool(4)
	p.Insert(1, 0.1)
	p.Insert(2, 0.2)

	d, ok := p.DistanceAt(2)
	require.True(t, ok)
	assert.InDelta(t, 0.2, d, 1e-6)

	_, ok = p.DistanceAt(3)
	assert.False(t, ok)
	_, ok = p.DistanceAt(0)
	assert.False(t, ok)
}

func TestPool_Reset(t *testing.T) {
	p := NewPool(2)
	p.Insert(1, 0.1)

	p.Reset(8)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 8, p.Capacity())
}
